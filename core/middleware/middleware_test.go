package middleware

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/miladsoleymani/hashmux/core"
)

func newRouter(t *testing.T, fns ...core.Option) *core.Router {
	t.Helper()
	return core.New(nil, append([]core.Option{core.WithLogger(log.New(io.Discard))}, fns...)...)
}

func record(order *[]string, name string) core.BeforeFunc {
	return func(_ *core.Request, next core.NextFunc) {
		*order = append(*order, name)
		next(nil)
	}
}

func TestChain(t *testing.T) {
	var order []string
	var result error = errors.New("unset")

	Chain(record(&order, "a"), record(&order, "b"))(core.BuildRequest("#/", nil, nil, true), func(err error) {
		result = err
	})
	assert.Equal(t, []string{"a", "b"}, order)
	assert.NoError(t, result)
}

func TestChain_StopsAtError(t *testing.T) {
	var order []string
	boom := errors.New("boom")
	failing := func(_ *core.Request, next core.NextFunc) { next(boom) }

	var result error
	Chain(record(&order, "a"), failing, record(&order, "c"))(core.BuildRequest("#/", nil, nil, true), func(err error) {
		result = err
	})
	assert.Equal(t, []string{"a"}, order)
	assert.ErrorIs(t, result, boom)
}

func TestChain_Empty(t *testing.T) {
	called := false
	Chain()(core.BuildRequest("#/", nil, nil, true), func(err error) {
		called = true
		assert.NoError(t, err)
	})
	assert.True(t, called)
}

func TestOnlyAndSkip(t *testing.T) {
	admin := func(req *core.Request) bool { return strings.HasPrefix(req.Href, "#/admin") }

	var order []string
	next := func(error) {}

	Only(admin, record(&order, "only"))(core.BuildRequest("#/admin/users", nil, nil, true), next)
	Only(admin, record(&order, "only"))(core.BuildRequest("#/home", nil, nil, true), next)
	Skip(admin, record(&order, "skip"))(core.BuildRequest("#/admin/users", nil, nil, true), next)
	Skip(admin, record(&order, "skip"))(core.BuildRequest("#/home", nil, nil, true), next)

	assert.Equal(t, []string{"only", "skip"}, order)
}

func TestRequire_InRouter(t *testing.T) {
	r := newRouter(t)

	var codes []int
	require.NoError(t, r.Errors(401, func(_ error, _ string, code int) { codes = append(codes, code) }))
	require.NoError(t, r.Before(Require(401, func(req *core.Request) error {
		if req.Get("token", "") == "" {
			return errors.New("missing token")
		}
		return nil
	})))

	var routed int
	require.NoError(t, r.AddRoute("/secret", func(*core.Request, core.ContinueFunc) { routed++ }))

	r.Dispatch("#/secret")
	r.Dispatch("#/secret?token=abc")

	assert.Equal(t, []int{401}, codes)
	assert.Equal(t, 1, routed)
}

func TestLogging(t *testing.T) {
	var buf bytes.Buffer
	logger := log.New(&buf)
	r := newRouter(t, core.WithObserver(Logging(logger)))
	require.NoError(t, r.AddRoute("/a", func(_ *core.Request, next core.ContinueFunc) { next(true, nil) }))

	r.Dispatch("#/a")
	assert.Contains(t, buf.String(), "navigation done")

	buf.Reset()
	r.Dispatch("#/missing")
	assert.Contains(t, buf.String(), "navigation failed")
	assert.Contains(t, buf.String(), "404")
}

type recordingCollector struct {
	navs []core.Navigation
}

func (c *recordingCollector) NavigationProcessed(nav core.Navigation, duration time.Duration) {
	c.navs = append(c.navs, nav)
}

func TestMetrics(t *testing.T) {
	collector := &recordingCollector{}
	r := newRouter(t, core.WithObserver(Metrics(collector)))
	require.NoError(t, r.AddRoute("/a", func(_ *core.Request, next core.ContinueFunc) { next(true, nil) }))
	require.NoError(t, r.AddRoute("/stall", func(*core.Request, core.ContinueFunc) {}))

	r.Dispatch("#/a")
	r.Dispatch("#/stall")
	r.Dispatch("#/missing")

	require.Len(t, collector.navs, 2)
	assert.Equal(t, core.StateDone, collector.navs[0].State)
	assert.Equal(t, core.StateErrored, collector.navs[1].State)
}

func TestPrometheusCollector(t *testing.T) {
	registry := prometheus.NewRegistry()
	collector := NewPrometheusCollector(WithRegistry(registry), WithNamespace("test"))

	r := newRouter(t, core.WithObserver(Metrics(collector)))
	require.NoError(t, r.AddRoute("/a", func(_ *core.Request, next core.ContinueFunc) { next(true, nil) }))

	r.Dispatch("#/a")
	r.Dispatch("#/a")
	r.Dispatch("#/missing")

	families, err := registry.Gather()
	require.NoError(t, err)

	byName := map[string]float64{}
	for _, mf := range families {
		if mf.GetName() != "test_navigations_total" {
			continue
		}
		for _, m := range mf.GetMetric() {
			var state, code string
			for _, lp := range m.GetLabel() {
				switch lp.GetName() {
				case "state":
					state = lp.GetValue()
				case "code":
					code = lp.GetValue()
				}
			}
			byName[state+"/"+code] = m.GetCounter().GetValue()
		}
	}
	assert.Equal(t, map[string]float64{"done/0": 2, "errored/404": 1}, byName)

	names := make([]string, 0, len(families))
	for _, mf := range families {
		names = append(names, mf.GetName())
	}
	assert.Contains(t, names, "test_navigation_duration_seconds")
	assert.Contains(t, names, "test_navigation_matches")
}

func TestTracing(t *testing.T) {
	obs := Tracing(WithTracerProvider(noop.NewTracerProvider()), WithTracerName("test")).(*tracingObserver)
	r := newRouter(t, core.WithObserver(obs))

	var pending core.ContinueFunc
	require.NoError(t, r.AddRoute("/a", func(_ *core.Request, next core.ContinueFunc) { next(true, nil) }))
	require.NoError(t, r.AddRoute("/slow", func(_ *core.Request, next core.ContinueFunc) { pending = next }))

	r.Dispatch("#/a")
	assert.Equal(t, 0, obs.open())

	r.Dispatch("#/slow")
	assert.Equal(t, 1, obs.open())

	pending(false, errors.New("late failure"))
	assert.Equal(t, 0, obs.open())

	r.Dispatch("#/missing")
	assert.Equal(t, 0, obs.open())
}

func TestTracing_UnknownNavigation(t *testing.T) {
	obs := Tracing(WithTracerProvider(noop.NewTracerProvider())).(*tracingObserver)
	assert.NotPanics(t, func() {
		obs.NavigationFinished(core.Navigation{ID: "never-started", State: core.StateDone})
	})
}
