package middleware

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/miladsoleymani/hashmux/core"
)

const defaultTracerName = "github.com/miladsoleymani/hashmux"

// TracingOption configures the tracing observer.
type TracingOption func(*tracingConfig)

type tracingConfig struct {
	provider trace.TracerProvider
	name     string
}

// WithTracerProvider sets the provider spans are created with.
// Default: the global OpenTelemetry tracer provider.
func WithTracerProvider(tp trace.TracerProvider) TracingOption {
	return func(c *tracingConfig) { c.provider = tp }
}

// WithTracerName sets the tracer name.
func WithTracerName(name string) TracingOption {
	return func(c *tracingConfig) { c.name = name }
}

// Tracing returns an observer that records one span per navigation, from
// the start of matching to its terminal state. Stalled navigations keep
// their span open.
func Tracing(fns ...TracingOption) core.Observer {
	config := tracingConfig{name: defaultTracerName}
	for _, fn := range fns {
		fn(&config)
	}
	if config.provider == nil {
		config.provider = otel.GetTracerProvider()
	}
	return &tracingObserver{
		tracer: config.provider.Tracer(config.name),
		spans:  make(map[string]trace.Span),
	}
}

type tracingObserver struct {
	tracer trace.Tracer

	mu    sync.Mutex
	spans map[string]trace.Span
}

func (o *tracingObserver) NavigationStarted(nav core.Navigation) {
	_, span := o.tracer.Start(context.Background(), "hashmux.navigate",
		trace.WithTimestamp(nav.Started),
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("hashmux.navigation.id", nav.ID),
			attribute.String("hashmux.fragment", nav.Fragment),
			attribute.String("hashmux.path", nav.Path),
		),
	)
	o.mu.Lock()
	o.spans[nav.ID] = span
	o.mu.Unlock()
}

func (o *tracingObserver) NavigationFinished(nav core.Navigation) {
	o.mu.Lock()
	span, ok := o.spans[nav.ID]
	delete(o.spans, nav.ID)
	o.mu.Unlock()
	if !ok {
		return
	}

	span.SetAttributes(
		attribute.String("hashmux.state", nav.State.String()),
		attribute.Int("hashmux.matches", nav.Matches),
	)
	if nav.State == core.StateErrored {
		span.SetAttributes(attribute.Int("hashmux.code", nav.Code))
		if nav.Err != nil {
			span.RecordError(nav.Err)
			span.SetStatus(codes.Error, nav.Err.Error())
		} else {
			span.SetStatus(codes.Error, "navigation failed")
		}
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

// open returns the number of spans not yet ended.
func (o *tracingObserver) open() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.spans)
}
