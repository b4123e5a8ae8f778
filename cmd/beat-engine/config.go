// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/beat-engine/pkg/types"
)

// setDefaults registers every configuration key so that environment
// variables and flags can override it.
func setDefaults() {
	d := types.DefaultPipelineConfig()

	viper.SetDefault("timing.source", string(d.Timing.Source))
	viper.SetDefault("timing.interval", d.Timing.Interval)
	viper.SetDefault("timing.praat_dir", d.Timing.PraatDir)

	viper.SetDefault("knowledge.file", d.Knowledge.File)
	viper.SetDefault("knowledge.fuzzy_threshold", d.Knowledge.FuzzyThreshold)

	viper.SetDefault("generators.enabled", d.Generators.Enabled)
	viper.SetDefault("generators.seed", d.Generators.Seed)
	viper.SetDefault("generators.theme_gaze_probability", d.Generators.ThemeGazeProbability)
	viper.SetDefault("generators.rheme_gaze_probability", d.Generators.RhemeGazeProbability)

	viper.SetDefault("compile.format", string(d.Compile.Format))
	viper.SetDefault("compile.workers", d.Compile.Workers)
	viper.SetDefault("compile.reset_per_sentence", d.Compile.ResetPerSentence)

	viper.SetDefault("archive.dir", d.Archive.Dir)
	viper.SetDefault("archive.max_results", d.Archive.MaxResults)
	viper.SetDefault("archive.enabled", d.Archive.Enabled)
}

// loadConfig returns the effective configuration: defaults, then the config
// file, then environment, then bound flags.
func loadConfig() (types.PipelineConfig, error) {
	var cfg types.PipelineConfig
	if err := viper.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("reading configuration: %w", err)
	}
	return cfg, nil
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration as YAML",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		enc := yaml.NewEncoder(os.Stdout)
		enc.SetIndent(2)
		defer enc.Close()
		return enc.Encode(cfg)
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
}
