// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the beat-engine CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// version is set at build time via ldflags.
var version = "dev"

var (
	verbose bool
	logger  = zap.NewNop()
)

// rootCmd is the base command for the beat-engine CLI.
var rootCmd = &cobra.Command{
	Use:   "beat-engine",
	Short: "Plan nonverbal behavior for text spoken by an animated agent",
	Long: `beat-engine reads sentences that have already been parsed into phrases,
tracks which entities the discourse has introduced, divides each clause into
theme and rheme, and suggests gaze, gestures, head nods and eyebrow raises
that fit. Conflicting suggestions are pruned and the result is compiled into
timed behavior markup (BML) or a McNeill bracket transcript.

Compiled plans can be kept in a local SQLite archive and queried later.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config := zap.NewProductionConfig()
		if verbose {
			config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		l, err := config.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		logger = l
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./beat-engine.yaml or ~/.config/beat-engine/beat-engine.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log at debug level")

	pf := rootCmd.PersistentFlags()
	pf.String("timing", "", "timing source: fixed, praat, or none")
	pf.Float64("interval", 0, "seconds per word for fixed timing")
	pf.String("praat-dir", "", "directory of per-speaker Praat .Sound files")
	pf.String("knowledge", "", "knowledge base YAML file")
	pf.StringSlice("generators", nil, "generators to run (default all)")
	pf.Uint64("seed", 0, "seed for gaze choices")
	pf.String("archive-dir", "", "archive base directory")

	bindFlags(pf, map[string]string{
		"timing.source":      "timing",
		"timing.interval":    "interval",
		"timing.praat_dir":   "praat-dir",
		"knowledge.file":     "knowledge",
		"generators.enabled": "generators",
		"generators.seed":    "seed",
		"archive.dir":        "archive-dir",
	})
}

// bindFlags binds configuration keys to flags of the same command.
func bindFlags(fs *pflag.FlagSet, keys map[string]string) {
	for key, flag := range keys {
		_ = viper.BindPFlag(key, fs.Lookup(flag))
	}
}

func initConfig() {
	setDefaults()

	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("beat-engine")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "beat-engine"))
		}
	}

	viper.SetEnvPrefix("BEAT_ENGINE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
