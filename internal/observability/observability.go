// Package observability builds the hook's structured logger and tracer provider.
package observability

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"
)

const (
	defaultServiceName     = "svntools"
	defaultShutdownTimeout = 3 * time.Second
)

// Config holds logger and tracer settings.
type Config struct {
	ServiceName    string
	ServiceVersion string

	// OTLPEndpoint is the OTLP gRPC collector address. Empty disables export.
	OTLPEndpoint string
	OTLPInsecure bool

	LogLevel slog.Level
	LogJSON  bool

	// LogOutput defaults to os.Stderr.
	LogOutput io.Writer

	// Attrs are attached to every log record, e.g. repos and txn.
	Attrs []slog.Attr
}

// Providers holds the initialized logger and tracer.
type Providers struct {
	Logger   *slog.Logger
	Tracer   trace.Tracer
	Shutdown func(ctx context.Context) error
}

// Init installs the global tracer provider and returns a logger.
// With no OTLP endpoint the tracer is a no-op.
func Init(ctx context.Context, cfg Config) (Providers, error) {
	if cfg.ServiceName == "" {
		cfg.ServiceName = defaultServiceName
	}

	tp, shutdown, err := buildTracerProvider(ctx, cfg)
	if err != nil {
		return Providers{}, fmt.Errorf("build tracer provider: %w", err)
	}

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.TraceContext{})

	return Providers{
		Logger: NewLogger(cfg),
		Tracer: tp.Tracer(cfg.ServiceName),
		Shutdown: func(shutdownCtx context.Context) error {
			deadlineCtx, cancel := context.WithTimeout(shutdownCtx, defaultShutdownTimeout)
			defer cancel()
			return shutdown(deadlineCtx)
		},
	}, nil
}

// NewLogger builds a text or JSON logger that carries trace context.
func NewLogger(cfg Config) *slog.Logger {
	out := cfg.LogOutput
	if out == nil {
		out = os.Stderr
	}

	opts := &slog.HandlerOptions{Level: cfg.LogLevel}

	var inner slog.Handler
	if cfg.LogJSON {
		inner = slog.NewJSONHandler(out, opts)
	} else {
		inner = slog.NewTextHandler(out, opts)
	}

	service := cfg.ServiceName
	if service == "" {
		service = defaultServiceName
	}
	return slog.New(NewTracingHandler(inner, service, cfg.Attrs...))
}

func buildTracerProvider(ctx context.Context, cfg Config) (trace.TracerProvider, func(context.Context) error, error) {
	if cfg.OTLPEndpoint == "" {
		return nooptrace.NewTracerProvider(), func(context.Context) error { return nil }, nil
	}

	opts := []otlptracegrpc.Option{otlptracegrpc.WithEndpoint(cfg.OTLPEndpoint)}
	if cfg.OTLPInsecure {
		opts = append(opts, otlptracegrpc.WithInsecure())
	}

	exporter, err := otlptracegrpc.New(ctx, opts...)
	if err != nil {
		return nil, nil, fmt.Errorf("create trace exporter: %w", err)
	}

	attrs := []resource.Option{resource.WithAttributes(semconv.ServiceName(cfg.ServiceName))}
	if cfg.ServiceVersion != "" {
		attrs = append(attrs, resource.WithAttributes(semconv.ServiceVersion(cfg.ServiceVersion)))
	}
	res, err := resource.New(ctx, attrs...)
	if err != nil {
		return nil, nil, errors.Join(fmt.Errorf("build otel resource: %w", err), exporter.Shutdown(ctx))
	}

	// batched spans are flushed by Shutdown before the hook exits
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)
	return tp, tp.Shutdown, nil
}
