package runloop

import (
	"context"

	"github.com/viant/runloop/nextturn"
	"github.com/viant/runloop/policy"
	"github.com/viant/runloop/service/event"
	"github.com/viant/runloop/stats"
	"github.com/viant/runloop/tracing"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// Option customises a Scheduler.
type Option func(s *Scheduler)

// WithQueues sets the ordered queue names.
func WithQueues(names ...string) Option {
	return func(s *Scheduler) {
		s.config.Queues = names
	}
}

// WithConfig replaces the whole configuration.
func WithConfig(config *Config) Option {
	return func(s *Scheduler) {
		if config != nil {
			s.config = config
		}
	}
}

// WithMaxSweeps bounds the flush re-sweep loop.
func WithMaxSweeps(count int) Option {
	return func(s *Scheduler) {
		s.config.MaxSweeps = count
	}
}

// WithNextTurn sets the next-turn scheduler used by the autorun trigger,
// overriding the vendor selected by the configuration. Tests typically pass
// a *nextturn.Manual here.
func WithNextTurn(turn nextturn.Scheduler) Option {
	return func(s *Scheduler) {
		s.turn = turn
	}
}

// WithEventService sets the diagnostics event service.
func WithEventService(service *event.Service) Option {
	return func(s *Scheduler) {
		s.events = service
	}
}

// WithStats sets the stats tracker; useful when one tracker aggregates
// several schedulers.
func WithStats(tracker *stats.Stats) Option {
	return func(s *Scheduler) {
		s.tracker = tracker
	}
}

// WithPolicy sets the scheduling policy.
func WithPolicy(p *policy.Policy) Option {
	return func(s *Scheduler) {
		s.policy = p
	}
}

// WithErrorHandler sets the handler invoked for errors that have no caller
// to propagate to – autorun flush failures and event publication errors.
func WithErrorHandler(handler func(error)) Option {
	return func(s *Scheduler) {
		s.onError = handler
	}
}

// WithBaseContext sets the context used for autorun flushes and event
// publication.
func WithBaseContext(ctx context.Context) Option {
	return func(s *Scheduler) {
		if ctx != nil {
			s.baseCtx = ctx
		}
	}
}

// WithTracing configures OpenTelemetry tracing. If outputFile is empty the
// stdout exporter is used; otherwise traces are written to the supplied file
// path. The function is safe to call multiple times – the first successful
// initialisation wins.
func WithTracing(serviceName, serviceVersion, outputFile string) Option {
	return func(s *Scheduler) {
		_ = tracing.Init(serviceName, serviceVersion, outputFile)
	}
}

// WithTracingExporter configures OpenTelemetry tracing using a custom
// SpanExporter, enabling integrations with exporters other than the built-in
// stdout exporter, for example OTLP, Jaeger or Zipkin.
func WithTracingExporter(serviceName, serviceVersion string, exporter sdktrace.SpanExporter) Option {
	return func(s *Scheduler) {
		_ = tracing.InitWithExporter(serviceName, serviceVersion, exporter)
	}
}
