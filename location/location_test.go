package location_test

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/miladsoleymani/hashmux/core"
	"github.com/miladsoleymani/hashmux/internal/mock"
	"github.com/miladsoleymani/hashmux/location"
)

type fragments struct {
	mu  sync.Mutex
	got []string
}

func (f *fragments) FragmentChanged(fragment string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.got = append(f.got, fragment)
}

func (f *fragments) list() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.got...)
}

func quiet() location.ProviderOption {
	return location.WithProviderLogger(log.New(io.Discard))
}

func TestMemory(t *testing.T) {
	mem := location.NewMemory("http://app/index.html")
	assert.Equal(t, "#/", mem.CurrentFragment())

	l := &fragments{}
	mem.OnFragmentChange(l)
	mem.OnFragmentChange(l)
	mem.OnFragmentChange(nil)
	assert.Equal(t, 1, mem.Listeners())

	require.NoError(t, mem.PushURL("#/pushed"))
	assert.Equal(t, "#/pushed", mem.CurrentFragment())
	assert.Empty(t, l.list())

	mem.Navigate("http://app/#/clicked?x=1")
	assert.Equal(t, "#/clicked?x=1", mem.CurrentFragment())
	assert.Equal(t, []string{"#/clicked?x=1"}, l.list())
	assert.Equal(t, []string{"#/pushed", "http://app/#/clicked?x=1"}, mem.History())

	mem.OffFragmentChange(l)
	assert.Equal(t, 0, mem.Listeners())
	mem.Navigate("#/gone")
	assert.Len(t, l.list(), 1)
}

func TestProvider_PushURL(t *testing.T) {
	tr := mock.NewTransport()
	p := location.NewProvider(tr, "nav", quiet())
	assert.Equal(t, "#/", p.CurrentFragment())

	require.NoError(t, p.PushURL("http://app/#/user/42"))
	assert.Equal(t, "#/user/42", p.CurrentFragment())

	published := tr.Published()
	require.Len(t, published, 1)
	assert.Equal(t, "nav", published[0].Topic)
	assert.Equal(t, "http://app/#/user/42", string(published[0].Message.Value()))
	assert.Equal(t, p.Origin(), published[0].Message.Headers()[location.HeaderOrigin])
}

func TestProvider_PushURLError(t *testing.T) {
	tr := mock.NewTransport()
	tr.PublishErr = errors.New("broker down")
	p := location.NewProvider(tr, "nav", quiet(), location.WithStartURL("#/start"))

	err := p.PushURL("#/next")
	require.Error(t, err)
	assert.ErrorIs(t, err, tr.PublishErr)
	assert.Equal(t, "#/next", p.CurrentFragment())
}

func listen(t *testing.T, tr *mock.Transport, p *location.Provider) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- p.Listen(ctx) }()

	select {
	case <-tr.Subscribed():
	case <-time.After(time.Second):
		t.Fatal("provider did not subscribe")
	}
	t.Cleanup(func() {
		cancel()
		require.NoError(t, <-errCh)
	})
}

func TestProvider_Listen(t *testing.T) {
	tr := mock.NewTransport()
	p := location.NewProvider(tr, "nav", quiet())
	l := &fragments{}
	p.OnFragmentChange(l)
	listen(t, tr, p)

	msg := &mock.Message{V: []byte("http://other/#/orders?id=3"), H: map[string]string{location.HeaderOrigin: "someone-else"}}
	require.NoError(t, tr.Deliver(context.Background(), "nav", msg))

	assert.True(t, msg.Acked)
	assert.Equal(t, []string{"#/orders?id=3"}, l.list())
	assert.Equal(t, "#/orders?id=3", p.CurrentFragment())
}

func TestProvider_IgnoresOwnPushes(t *testing.T) {
	tr := mock.NewTransport()
	p := location.NewProvider(tr, "nav", quiet())
	l := &fragments{}
	p.OnFragmentChange(l)
	listen(t, tr, p)

	require.NoError(t, p.PushURL("#/mine"))
	assert.Empty(t, l.list())
	assert.Equal(t, "#/mine", p.CurrentFragment())
}

func TestProvider_Broadcast(t *testing.T) {
	tr := mock.NewTransport()
	a := location.NewProvider(tr, "nav", quiet())
	b := location.NewProvider(tr, "nav", quiet())
	assert.NotEqual(t, a.Origin(), b.Origin())

	la, lb := &fragments{}, &fragments{}
	a.OnFragmentChange(la)
	b.OnFragmentChange(lb)
	listen(t, tr, a)
	listen(t, tr, b)

	require.NoError(t, a.PushURL("#/shared"))
	assert.Empty(t, la.list())
	assert.Equal(t, []string{"#/shared"}, lb.list())
	assert.Equal(t, "#/shared", b.CurrentFragment())
}

func TestProvider_ListenError(t *testing.T) {
	tr := mock.NewTransport()
	tr.SubscribeErr = errors.New("no subscription")
	p := location.NewProvider(tr, "nav", quiet())

	err := p.Listen(context.Background())
	assert.ErrorIs(t, err, tr.SubscribeErr)
}

func TestProvider_DrivesRouter(t *testing.T) {
	tr := mock.NewTransport()
	p := location.NewProvider(tr, "nav", quiet())
	r := core.New(p, core.WithLogger(log.New(io.Discard)))

	routed := make(chan string, 1)
	require.NoError(t, r.AddRoute("/user/:id", func(req *core.Request, _ core.ContinueFunc) {
		routed <- req.Params["id"]
	}))
	listen(t, tr, p)

	require.NoError(t, tr.Deliver(context.Background(), "nav", &mock.Message{V: []byte("#/user/7")}))
	assert.Equal(t, "7", <-routed)
}

func TestProvider_Close(t *testing.T) {
	tr := mock.NewTransport()
	p := location.NewProvider(tr, "nav", quiet())
	require.NoError(t, p.Close())
	assert.True(t, tr.IsClosed())
	assert.ErrorIs(t, p.PushURL("#/after"), location.ErrTransportClosed)
}

func TestRegistry(t *testing.T) {
	tr := mock.NewTransport()
	var got location.Config
	location.Register("test-registry", func(cfg location.Config) (location.Transport, error) {
		got = cfg
		return tr, nil
	})
	location.Register("test-broken", func(location.Config) (location.Transport, error) {
		return nil, errors.New("cannot dial")
	})

	assert.Contains(t, location.Transports(), "test-registry")

	p, err := location.Open("test-registry", location.Config{Brokers: []string{"localhost:1"}}, quiet())
	require.NoError(t, err)
	assert.Equal(t, []string{"localhost:1"}, got.Brokers)

	require.NoError(t, p.PushURL("#/x"))
	require.Len(t, tr.Published(), 1)
	assert.Equal(t, location.DefaultTopic, tr.Published()[0].Topic)

	_, err = location.Create("missing", location.Config{})
	assert.ErrorIs(t, err, location.ErrUnknownTransport)

	_, err = location.Create("test-broken", location.Config{})
	assert.ErrorContains(t, err, "cannot dial")
}
