// Package telemetry provides OpenTelemetry tracing for world generation.
package telemetry

import (
	"context"
	"os"
	"runtime"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

const (
	serviceName    = "burrow"
	serviceVersion = "0.1.0"
)

// Enabled reports whether an OTLP endpoint is configured. Without one,
// Setup is skipped and the global provider stays a no-op.
func Enabled() bool {
	return os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT") != "" ||
		os.Getenv("OTEL_EXPORTER_OTLP_TRACES_ENDPOINT") != ""
}

// Setup installs a global tracer provider that batches spans to the OTLP
// HTTP endpoint named by the standard OTEL_EXPORTER_OTLP_* variables.
// Every span carries runID. The returned function flushes and stops the
// provider.
func Setup(ctx context.Context, runID string) (func(context.Context) error, error) {
	exporter, err := otlptracehttp.New(ctx)
	if err != nil {
		return nil, err
	}

	// resource.Default() carries its own schema URL, which clashes with
	// exporter defaults; build the attributes by hand.
	res, err := resource.New(ctx, resource.WithAttributes(resourceAttrs(runID)...))
	if err != nil {
		return nil, err
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.TraceContext{})
	return tp.Shutdown, nil
}

func resourceAttrs(runID string) []attribute.KeyValue {
	host, err := os.Hostname()
	if err != nil {
		host = "unknown"
	}
	return []attribute.KeyValue{
		attribute.String("service.name", serviceName),
		attribute.String("service.version", serviceVersion),
		attribute.String("burrow.run", runID),
		attribute.String("host.name", host),
		attribute.String("os.type", runtime.GOOS),
		attribute.String("process.runtime.version", runtime.Version()),
	}
}

// Tracer returns the tracer for a component, e.g. "architect".
func Tracer(name string) trace.Tracer {
	return otel.GetTracerProvider().Tracer(serviceName + "/" + name)
}

// NoopTracer returns a tracer that records nothing.
func NoopTracer() trace.Tracer {
	return noop.NewTracerProvider().Tracer(serviceName + "/noop")
}
