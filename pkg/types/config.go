package types

// TimingSourceKind selects how word times are assigned before compilation.
type TimingSourceKind string

const (
	TimingFixed TimingSourceKind = "fixed"
	TimingPraat TimingSourceKind = "praat"
	TimingNone  TimingSourceKind = "none"
)

// DefaultTimingInterval is the fixed source's per-word duration in seconds.
const DefaultTimingInterval = 0.37

// TimingConfig holds settings for the timing stage.
type TimingConfig struct {
	// Source is fixed, praat, or none (default fixed).
	Source TimingSourceKind `json:"source" yaml:"source" mapstructure:"source"`

	// Interval is the per-word duration in seconds for the fixed source
	// (default 0.37).
	Interval float64 `json:"interval" yaml:"interval" mapstructure:"interval"`

	// PraatDir holds one directory of per-word .Sound files per speaker.
	PraatDir string `json:"praat_dir" yaml:"praat_dir" mapstructure:"praat_dir"`
}

// KnowledgeConfig holds settings for the domain knowledge base.
type KnowledgeConfig struct {
	// File is the YAML knowledge base. Empty disables phrase identification
	// and iconic gestures.
	File string `json:"file" yaml:"file" mapstructure:"file"`

	// FuzzyThreshold enables Jaro-Winkler matching of instance values against
	// description words when greater than zero (e.g. 0.9).
	FuzzyThreshold float64 `json:"fuzzy_threshold" yaml:"fuzzy_threshold" mapstructure:"fuzzy_threshold"`
}

// GeneratorConfig holds settings for behavior generation.
type GeneratorConfig struct {
	// Enabled lists generator names to run. Empty runs all of them.
	Enabled []string `json:"enabled" yaml:"enabled" mapstructure:"enabled"`

	// Seed makes gaze choices reproducible.
	Seed uint64 `json:"seed" yaml:"seed" mapstructure:"seed"`

	// ThemeGazeProbability is the chance a theme gets gaze away (default 0.7).
	ThemeGazeProbability float64 `json:"theme_gaze_probability" yaml:"theme_gaze_probability" mapstructure:"theme_gaze_probability"`

	// RhemeGazeProbability is the chance a rheme gets gaze towards a hearer
	// (default 0.73).
	RhemeGazeProbability float64 `json:"rheme_gaze_probability" yaml:"rheme_gaze_probability" mapstructure:"rheme_gaze_probability"`
}

// OutputFormat selects the compiled representations.
type OutputFormat string

const (
	FormatBML     OutputFormat = "bml"
	FormatMcNeill OutputFormat = "mcneill"
	FormatBoth    OutputFormat = "both"
)

// CompileConfig holds settings for the compile command.
type CompileConfig struct {
	// Format is bml, mcneill, or both (default bml).
	Format OutputFormat `json:"format" yaml:"format" mapstructure:"format"`

	// Workers bounds how many documents are compiled at once (default 4).
	Workers int `json:"workers" yaml:"workers" mapstructure:"workers"`

	// ResetPerSentence clears the discourse model between sentences, treating
	// each sentence as an independent session.
	ResetPerSentence bool `json:"reset_per_sentence" yaml:"reset_per_sentence" mapstructure:"reset_per_sentence"`
}

// ArchiveConfig holds settings for the plan archive.
type ArchiveConfig struct {
	// Dir is the archive base directory; the database lives in Dir/index/.
	Dir string `json:"dir" yaml:"dir" mapstructure:"dir"`

	// MaxResults is the default retrieve limit (default 20).
	MaxResults int `json:"max_results" yaml:"max_results" mapstructure:"max_results"`

	// Enabled stores every compiled plan.
	Enabled bool `json:"enabled" yaml:"enabled" mapstructure:"enabled"`
}

// PipelineConfig is the full engine configuration.
type PipelineConfig struct {
	Timing     TimingConfig    `json:"timing" yaml:"timing" mapstructure:"timing"`
	Knowledge  KnowledgeConfig `json:"knowledge" yaml:"knowledge" mapstructure:"knowledge"`
	Generators GeneratorConfig `json:"generators" yaml:"generators" mapstructure:"generators"`
	Compile    CompileConfig   `json:"compile" yaml:"compile" mapstructure:"compile"`
	Archive    ArchiveConfig   `json:"archive" yaml:"archive" mapstructure:"archive"`

	// Conflicts overrides the behavior conflict table, kind to kinds.
	Conflicts map[string][]string `json:"conflicts,omitempty" yaml:"conflicts,omitempty" mapstructure:"conflicts"`
}

// DefaultPipelineConfig returns the configuration used when nothing is set.
func DefaultPipelineConfig() PipelineConfig {
	return PipelineConfig{
		Timing: TimingConfig{
			Source:   TimingFixed,
			Interval: DefaultTimingInterval,
		},
		Generators: GeneratorConfig{
			Seed:                 1,
			ThemeGazeProbability: 0.7,
			RhemeGazeProbability: 0.73,
		},
		Compile: CompileConfig{
			Format:  FormatBML,
			Workers: 4,
		},
		Archive: ArchiveConfig{
			Dir:        "archive",
			MaxResults: 20,
		},
	}
}
