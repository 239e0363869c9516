// Package tracing wraps OpenTelemetry span management for the scheduler.
// Tracing is disabled until Init or InitWithExporter installs a provider;
// spans created before that are no-ops.
package tracing
