// Package engine validates one pending commit's asset/metadata pairing and GUIDs.
package engine

import (
	"context"
	"io"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/lxiaocode/SVNTools/internal/commit"
	"github.com/lxiaocode/SVNTools/internal/registry"
)

const tracerName = "github.com/lxiaocode/SVNTools/internal/engine"

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// ValidateEngine runs the full validation of a commit snapshot.
// An engine holds no per-run state and may validate snapshots concurrently
// when Registry and Content are safe for concurrent use.
type ValidateEngine struct {
	Registry registry.Client
	Content  ContentFetcher
	Logger   *slog.Logger
}

// Validate resolves the snapshot's metadata, runs the sync and guid checks and
// aggregates the report. Any collaborator failure aborts the run.
func (e *ValidateEngine) Validate(ctx context.Context, snap *commit.Snapshot) (*ValidationReport, error) {
	logger := e.Logger
	if logger == nil {
		logger = discardLogger
	}

	tracer := otel.Tracer(tracerName)
	ctx, span := tracer.Start(ctx, "engine.Validate", trace.WithAttributes(
		attribute.Int("commit.records", len(snap.Records())),
		attribute.Int("commit.assets", len(snap.AssetFiles())),
		attribute.Int("commit.metadata", len(snap.MetadataFiles())),
	))
	defer span.End()

	idx, err := traced(ctx, tracer, "engine.Resolve", func(ctx context.Context) (*MetadataIndex, error) {
		return Resolve(ctx, snap, e.Content, logger)
	})
	if err != nil {
		return nil, fail(span, err)
	}

	violations, err := traced(ctx, tracer, "engine.CheckSync", func(ctx context.Context) ([]SyncViolation, error) {
		return CheckSync(ctx, snap, e.Registry)
	})
	if err != nil {
		return nil, fail(span, err)
	}

	type guidResult struct {
		collisions map[string][]MetaEntry
		mutations  map[string]MetaEntry
	}
	gr, err := traced(ctx, tracer, "engine.CheckGUIDs", func(ctx context.Context) (guidResult, error) {
		c, m, err := CheckGUIDs(ctx, idx, e.Registry, logger)
		return guidResult{collisions: c, mutations: m}, err
	})
	if err != nil {
		return nil, fail(span, err)
	}

	report := Aggregate(violations, gr.collisions, gr.mutations)
	span.SetAttributes(
		attribute.Bool("report.passed", report.Passed),
		attribute.Int("report.sync_violations", len(report.SyncViolations)),
		attribute.Int("report.collisions", len(report.Collisions)),
		attribute.Int("report.mutations", len(report.Mutations)),
	)
	logger.InfoContext(ctx, "commit validated",
		"passed", report.Passed,
		"sync_violations", len(report.SyncViolations),
		"collisions", len(report.Collisions),
		"mutations", len(report.Mutations),
	)

	return report, nil
}

func traced[T any](ctx context.Context, tracer trace.Tracer, name string, fn func(context.Context) (T, error)) (T, error) {
	ctx, span := tracer.Start(ctx, name)
	defer span.End()

	v, err := fn(ctx)
	if err != nil {
		fail(span, err)
	}
	return v, err
}

func fail(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}
