// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "github.com/pdiddy/beat-engine"

// Stage names used as the "stage" attribute.
const (
	StageTag       = "tag"
	StageChunk     = "chunk"
	StageStructure = "structure"
	StageIdentify  = "identify"
	StageContrast  = "contrast"
	StageGenerate  = "generate"
	StageResolve   = "resolve"
	StageTiming    = "timing"
	StageCompile   = "compile"
)

// Metrics holds the pipeline's instruments. All fields are safe for
// concurrent use.
type Metrics struct {
	// StageDuration tracks per-stage latency. Attribute: stage.
	StageDuration metric.Float64Histogram

	// Utterances counts processed utterances. Attribute: status (ok, error).
	Utterances metric.Int64Counter

	// PrunedBehaviors counts behaviors removed by conflict resolution.
	PrunedBehaviors metric.Int64Counter

	// RenderedTags counts behavior tags written to BML.
	RenderedTags metric.Int64Counter
}

var stageBuckets = []float64{
	0.00001, 0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1,
}

// NewMetrics creates the instruments from mp.
func NewMetrics(mp metric.MeterProvider) (*Metrics, error) {
	m := mp.Meter(meterName)
	var err error
	met := &Metrics{}

	if met.StageDuration, err = m.Float64Histogram("beat_engine.stage.duration",
		metric.WithDescription("Latency of one pipeline stage for one utterance."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(stageBuckets...),
	); err != nil {
		return nil, err
	}
	if met.Utterances, err = m.Int64Counter("beat_engine.utterances",
		metric.WithDescription("Utterances processed by status."),
	); err != nil {
		return nil, err
	}
	if met.PrunedBehaviors, err = m.Int64Counter("beat_engine.behaviors.pruned",
		metric.WithDescription("Behaviors removed by conflict resolution."),
	); err != nil {
		return nil, err
	}
	if met.RenderedTags, err = m.Int64Counter("beat_engine.behaviors.rendered",
		metric.WithDescription("Behavior tags written to BML."),
	); err != nil {
		return nil, err
	}
	return met, nil
}

// DefaultMetrics returns instruments on the global meter provider, which
// discards everything unless the process installs a provider.
func DefaultMetrics() *Metrics {
	m, err := NewMetrics(otel.GetMeterProvider())
	if err != nil {
		panic("pipeline: creating default metrics: " + err.Error())
	}
	return m
}

// RecordStage records how long a stage took.
func (m *Metrics) RecordStage(ctx context.Context, stage string, d time.Duration) {
	m.StageDuration.Record(ctx, d.Seconds(),
		metric.WithAttributes(attribute.String("stage", stage)),
	)
}

// RecordUtterance counts one utterance and its pruned and rendered behaviors.
func (m *Metrics) RecordUtterance(ctx context.Context, err error, pruned, rendered int) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.Utterances.Add(ctx, 1, metric.WithAttributes(attribute.String("status", status)))
	if pruned > 0 {
		m.PrunedBehaviors.Add(ctx, int64(pruned))
	}
	if rendered > 0 {
		m.RenderedTags.Add(ctx, int64(rendered))
	}
}
