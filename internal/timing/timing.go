// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package timing annotates the words of an utterance with begin and end
// times before compilation.
package timing

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/pdiddy/beat-engine/internal/timecode"
	"github.com/pdiddy/beat-engine/internal/tree"
	"github.com/pdiddy/beat-engine/pkg/types"
)

// Source sets word times on an utterance spoken by speaker.
type Source interface {
	Name() string
	Apply(u *tree.Utterance, speaker string) error
}

// New returns the source selected by cfg.
func New(cfg types.TimingConfig, log *zap.Logger) (Source, error) {
	if log == nil {
		log = zap.NewNop()
	}
	switch cfg.Source {
	case types.TimingFixed, "":
		interval := cfg.Interval
		if interval <= 0 {
			interval = types.DefaultTimingInterval
		}
		return &Fixed{Interval: interval}, nil
	case types.TimingPraat:
		if cfg.PraatDir == "" {
			return nil, fmt.Errorf("praat timing requires a directory")
		}
		return NewPraat(cfg.PraatDir, log), nil
	case types.TimingNone:
		return None{}, nil
	}
	return nil, fmt.Errorf("unknown timing source %q", cfg.Source)
}

// Fixed spaces spoken words at a constant interval. Punctuation is not
// timed and does not advance the clock.
type Fixed struct {
	Interval float64
}

func (f *Fixed) Name() string { return string(types.TimingFixed) }

func (f *Fixed) Apply(u *tree.Utterance, _ string) error {
	i := 0
	for _, w := range u.Words() {
		if w.Is(tree.Punctuation) {
			continue
		}
		w.Begin = timecode.At(float64(i) * f.Interval)
		w.End = timecode.At(float64(i+1) * f.Interval)
		i++
	}
	return nil
}

// None leaves the words untimed.
type None struct{}

func (None) Name() string { return string(types.TimingNone) }
func (None) Apply(*tree.Utterance, string) error { return nil }

// Praat reads per-word timings exported from Praat. Each word has a file
// named after its lowercased token with the ".Sound" extension under
// Dir/<speaker>/. A token's second and later occurrences in an utterance use
// the occurrence number as a suffix, e.g. car.Sound then car2.Sound.
type Praat struct {
	Dir string
	log *zap.Logger
}

// NewPraat returns a Praat source reading from dir.
func NewPraat(dir string, log *zap.Logger) *Praat {
	if log == nil {
		log = zap.NewNop()
	}
	return &Praat{Dir: dir, log: log}
}

func (p *Praat) Name() string { return string(types.TimingPraat) }

// Apply times the utterance. A missing speaker directory or word file is
// logged and leaves the affected words untimed.
func (p *Praat) Apply(u *tree.Utterance, speaker string) error {
	dir := filepath.Join(p.Dir, speaker)
	times, err := p.load(dir)
	if err != nil {
		if os.IsNotExist(err) {
			p.log.Warn("praat directory does not exist", zap.String("dir", dir))
			return nil
		}
		return err
	}

	counts := make(map[string]int)
	for _, w := range u.Words() {
		if w.Is(tree.Punctuation) {
			continue
		}
		key := strings.ToLower(w.Token)
		counts[key]++
		if n := counts[key]; n > 1 {
			key += strconv.Itoa(n)
		}
		t, ok := times[key]
		if !ok {
			p.log.Warn("no timing for word", zap.String("word", w.Token), zap.String("file", key+soundExt))
			continue
		}
		w.Begin, w.End = t[0], t[1]
	}
	return nil
}

const soundExt = ".Sound"

func (p *Praat) load(dir string) (map[string][2]timecode.Time, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	out := make(map[string][2]timecode.Time)
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, "Sound") {
			continue
		}
		begin, end, err := readSound(filepath.Join(dir, name))
		if err != nil {
			p.log.Warn("cannot read timing", zap.String("file", name), zap.Error(err))
			continue
		}
		key := strings.ToLower(strings.TrimSuffix(name, filepath.Ext(name)))
		out[key] = [2]timecode.Time{timecode.At(begin), timecode.At(end)}
	}
	return out, nil
}

// readSound returns the begin time on line 4 and the end time on line 5.
func readSound(path string) (begin, end float64, err error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0, err
	}
	defer f.Close()

	var lines []string
	sc := bufio.NewScanner(f)
	for len(lines) < 5 && sc.Scan() {
		lines = append(lines, strings.TrimSpace(sc.Text()))
	}
	if err := sc.Err(); err != nil {
		return 0, 0, err
	}
	if len(lines) < 5 {
		return 0, 0, fmt.Errorf("%s: expected at least 5 lines, got %d", filepath.Base(path), len(lines))
	}
	if begin, err = strconv.ParseFloat(lines[3], 64); err != nil {
		return 0, 0, fmt.Errorf("parsing begin time: %w", err)
	}
	if end, err = strconv.ParseFloat(lines[4], 64); err != nil {
		return 0, 0, fmt.Errorf("parsing end time: %w", err)
	}
	return begin, end, nil
}
