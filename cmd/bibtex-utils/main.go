// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the bibtex-utils CLI.
// Implements: bib-to-csv (bibliography conversion with citation merge and
// URL verification) and get-all-cites-in-dir (citation listing).
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// version is set at build time via ldflags.
var version = "dev"

// logger writes diagnostics to stderr. Replaced in PersistentPreRunE.
var logger = zap.NewNop()

// rootCmd is the base command for the bibtex-utils CLI.
var rootCmd = &cobra.Command{
	Use:   "bibtex-utils",
	Short: "Turn BibTeX bibliographies into tables annotated with LaTeX citations",
	Long: `bibtex-utils converts a BibTeX file into a table (CSV by default), can
mark which entries are cited by \cite{} macros in a directory of .tex files,
and can check every entry's URL with an HTTP request.

Example, in combination with visidata:

  bibtex-utils bib-to-csv refs.bib paper/ | vd --filetype=csv`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := loadDotEnv(".env"); err != nil {
			return err
		}
		l, err := newLogger(viper.GetBool("verbose"))
		if err != nil {
			return err
		}
		logger = l
		if used := viper.ConfigFileUsed(); used != "" {
			logger.Debug("using config file", zap.String("path", used))
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./bibtex-utils.yaml or ~/.config/bibtex-utils/config.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "log debug diagnostics to stderr")
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("bibtex-utils")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "bibtex-utils"))
		}
	}

	viper.SetEnvPrefix("BIBTEX_UTILS")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	_ = viper.ReadInConfig()
}

// loadDotEnv loads KEY=value pairs from path into the process environment
// without overriding variables that are already set. A missing file is not
// an error.
func loadDotEnv(path string) error {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return godotenv.Load(path)
}

// newLogger builds a console logger on stderr at info level, or debug level
// when verbose is set.
func newLogger(verbose bool) (*zap.Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	cfg.DisableStacktrace = true
	cfg.DisableCaller = true
	return cfg.Build()
}

// bindFlags binds command flags to viper keys. Commands bind at run time so
// that flags sharing a key on different commands do not shadow each other.
func bindFlags(flags *pflag.FlagSet, keys map[string]string) error {
	for key, name := range keys {
		if err := viper.BindPFlag(key, flags.Lookup(name)); err != nil {
			return err
		}
	}
	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
