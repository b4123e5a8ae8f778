// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline runs sentences through every stage of the engine: discourse
// tagging, clause chunking, theme/rheme construction, knowledge base
// identification, behavior generation, conflict resolution, timing and
// compilation. An Engine holds the read-only parts shared by all sessions; a
// Session owns one discourse history and must not be shared between
// goroutines.
package pipeline

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/pdiddy/beat-engine/internal/behavior"
	"github.com/pdiddy/beat-engine/internal/compile"
	"github.com/pdiddy/beat-engine/internal/conflict"
	"github.com/pdiddy/beat-engine/internal/discourse"
	"github.com/pdiddy/beat-engine/internal/generate"
	"github.com/pdiddy/beat-engine/internal/knowledge"
	"github.com/pdiddy/beat-engine/internal/participation"
	"github.com/pdiddy/beat-engine/internal/timing"
	"github.com/pdiddy/beat-engine/internal/tree"
	"github.com/pdiddy/beat-engine/pkg/types"
)

// Engine holds configuration and the collaborators every session shares.
type Engine struct {
	cfg      types.PipelineConfig
	kb       *knowledge.Base
	registry *behavior.Registry
	timing   timing.Source
	metrics  *Metrics
	log      *zap.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger.
func WithLogger(log *zap.Logger) Option {
	return func(e *Engine) { e.log = log }
}

// WithKnowledge uses kb instead of loading the configured file.
func WithKnowledge(kb *knowledge.Base) Option {
	return func(e *Engine) { e.kb = kb }
}

// WithMetrics records into m instead of the global meter provider.
func WithMetrics(m *Metrics) Option {
	return func(e *Engine) { e.metrics = m }
}

// WithTiming replaces the configured timing source.
func WithTiming(src timing.Source) Option {
	return func(e *Engine) { e.timing = src }
}

// New builds an engine from cfg, loading the knowledge base and validating
// the conflict table and generator list.
func New(cfg types.PipelineConfig, opts ...Option) (*Engine, error) {
	e := &Engine{cfg: cfg}
	for _, opt := range opts {
		opt(e)
	}
	if e.log == nil {
		e.log = zap.NewNop()
	}
	if e.metrics == nil {
		e.metrics = DefaultMetrics()
	}

	if e.kb == nil && cfg.Knowledge.File != "" {
		kb, err := knowledge.Load(cfg.Knowledge.File,
			knowledge.WithFuzzyThreshold(cfg.Knowledge.FuzzyThreshold),
			knowledge.WithLogger(e.log))
		if err != nil {
			return nil, fmt.Errorf("loading knowledge base: %w", err)
		}
		e.kb = kb
	}

	registry, err := behavior.NewRegistry(behavior.ParseConflicts(cfg.Conflicts))
	if err != nil {
		return nil, fmt.Errorf("conflict table: %w", err)
	}
	e.registry = registry

	if e.timing == nil {
		src, err := timing.New(cfg.Timing, e.log)
		if err != nil {
			return nil, fmt.Errorf("timing source: %w", err)
		}
		e.timing = src
	}

	if _, err := generate.Build(cfg.Generators, generate.Deps{Discourse: discourse.NewModel(nil)}); err != nil {
		return nil, fmt.Errorf("generators: %w", err)
	}
	return e, nil
}

// Config returns the engine's configuration.
func (e *Engine) Config() types.PipelineConfig { return e.cfg }

// Knowledge returns the knowledge base, or nil when none is configured.
func (e *Engine) Knowledge() *knowledge.Base { return e.kb }

// Result is one processed utterance.
type Result struct {
	Utterance *tree.Utterance
	BML       string
	McNeill   string

	// Rendered counts behavior tags in BML.
	Rendered int

	// Pruned counts behaviors removed by conflict resolution.
	Pruned int

	// Entities is the discourse model after the utterance, most recent first.
	Entities []types.EntityRecord
}

// Session processes the sentences of one discourse in order.
type Session struct {
	engine     *Engine
	speaker    string
	frame      *participation.Framework
	model      *discourse.Model
	tagger     *discourse.Tagger
	chunker    *discourse.Chunker
	structure  *discourse.StructureBuilder
	identifier *discourse.Identifier
	contrasts  *discourse.ContrastBuilder
	generators []generate.Generator
	resolver   *conflict.Resolver
	bml        *compile.BML
	mcneill    *compile.McNeill
	log        *zap.Logger
}

// Audience names who is present while a session's sentences are spoken.
type Audience struct {
	Speaker      string
	Addressee    string
	Participants []string

	// Scene adds the knowledge base scene's persons to the participants.
	Scene string
}

// NewSession returns a session with a fresh discourse model.
func (e *Engine) NewSession(a Audience) (*Session, error) {
	log := e.log.With(zap.String("speaker", a.Speaker))

	names := append([]string(nil), a.Participants...)
	if a.Scene != "" && e.kb != nil {
		scene, err := e.kb.Scene(a.Scene)
		if err != nil {
			return nil, err
		}
		names = append(names, scene.Participants()...)
	}
	if a.Speaker != "" {
		names = append(names, a.Speaker)
	}
	if a.Addressee != "" {
		names = append(names, a.Addressee)
	}
	frame := participation.New(log, names...)
	frame.SetSpeakerAddressing(a.Speaker, a.Addressee)

	model := discourse.NewModel(log)
	s := &Session{
		engine:    e,
		speaker:   a.Speaker,
		frame:     frame,
		model:     model,
		tagger:    discourse.NewTagger(model, log),
		chunker:   discourse.NewChunker(log),
		structure: discourse.NewStructureBuilder(model, log),
		resolver:  conflict.New(e.registry, log),
		bml:       compile.NewBML(log),
		mcneill:   compile.NewMcNeill(log),
		log:       log,
	}

	deps := generate.Deps{Discourse: model, Audience: frame, Log: log}
	if e.kb != nil {
		s.identifier = discourse.NewIdentifier(e.kb, e.kb, log)
		s.contrasts = discourse.NewContrastBuilder(e.kb, log)
		deps.Knowledge = e.kb
	}
	gens, err := generate.Build(e.cfg.Generators, deps)
	if err != nil {
		return nil, err
	}
	s.generators = gens
	return s, nil
}

// Model returns the session's discourse model.
func (s *Session) Model() *discourse.Model { return s.model }

// Participants returns the session's participation framework.
func (s *Session) Participants() *participation.Framework { return s.frame }

// ClearState forgets the discourse history.
func (s *Session) ClearState() {
	s.tagger.ClearState()
}

// Process runs one sentence's top-level features through every stage. The
// features are modified in place and become part of the result's utterance.
// On error the session's discourse history may hold the failed sentence's
// entities; call ClearState before processing unrelated input.
func (s *Session) Process(ctx context.Context, features []tree.Node) (*Result, error) {
	res, err := s.process(ctx, features)
	var pruned, rendered int
	if res != nil {
		pruned, rendered = res.Pruned, res.Rendered
	}
	s.engine.metrics.RecordUtterance(ctx, err, pruned, rendered)
	return res, err
}

func (s *Session) process(ctx context.Context, features []tree.Node) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(features) == 0 {
		return nil, fmt.Errorf("empty sentence")
	}

	if err := s.stage(ctx, StageTag, func() error {
		return s.tagger.Tag(features)
	}); err != nil {
		return nil, fmt.Errorf("tagging discourse: %w", err)
	}

	var chunks [][]tree.Node
	_ = s.stage(ctx, StageChunk, func() error {
		chunks = s.chunker.Chunk(features)
		return nil
	})

	u := tree.NewUtterance()
	if err := s.stage(ctx, StageStructure, func() error {
		for i, chunk := range chunks {
			cl, err := s.structure.Build(chunk)
			if err != nil {
				return fmt.Errorf("clause %d: %w", i, err)
			}
			u.Clauses = append(u.Clauses, cl)
		}
		return nil
	}); err != nil {
		return nil, fmt.Errorf("building information structure: %w", err)
	}

	if s.identifier != nil {
		_ = s.stage(ctx, StageIdentify, func() error {
			s.identifier.Identify(u)
			return nil
		})
	}
	if s.contrasts != nil {
		_ = s.stage(ctx, StageContrast, func() error {
			s.contrasts.Build(u)
			return nil
		})
	}

	if err := s.stage(ctx, StageGenerate, func() error {
		return generate.Run(u, s.generators)
	}); err != nil {
		return nil, err
	}

	res := &Result{Utterance: u}
	_ = s.stage(ctx, StageResolve, func() error {
		res.Pruned = s.resolver.Resolve(u)
		return nil
	})

	if err := s.stage(ctx, StageTiming, func() error {
		return s.engine.timing.Apply(u, s.speaker)
	}); err != nil {
		return nil, fmt.Errorf("%s timing: %w", s.engine.timing.Name(), err)
	}

	_ = s.stage(ctx, StageCompile, func() error {
		format := s.engine.cfg.Compile.Format
		if format != types.FormatMcNeill {
			res.BML, res.Rendered = s.bml.Compile(u)
		}
		if format == types.FormatMcNeill || format == types.FormatBoth {
			res.McNeill = s.mcneill.Compile(u)
		}
		return nil
	})

	res.Entities = Snapshot(s.model)
	s.log.Debug("processed utterance",
		zap.String("text", u.Text()),
		zap.Int("clauses", len(u.Clauses)),
		zap.Int("pruned", res.Pruned),
		zap.Int("rendered", res.Rendered))
	return res, nil
}

func (s *Session) stage(ctx context.Context, name string, fn func() error) error {
	start := time.Now()
	err := fn()
	s.engine.metrics.RecordStage(ctx, name, time.Since(start))
	return err
}

// Snapshot records the model's entities, most recent first.
func Snapshot(m *discourse.Model) []types.EntityRecord {
	entities := m.Entities()
	out := make([]types.EntityRecord, 0, len(entities))
	for rank, e := range entities {
		rec := types.EntityRecord{Rank: rank, ID: e.ID, Head: e.Word.Token}
		for _, c := range e.Referrers() {
			rec.Referrers = append(rec.Referrers, phraseText(c))
		}
		out = append(out, rec)
	}
	return out
}

func phraseText(c *tree.Constituent) string {
	words := c.Words()
	tokens := make([]string, len(words))
	for i, w := range words {
		tokens[i] = w.Token
	}
	return strings.Join(tokens, " ")
}
