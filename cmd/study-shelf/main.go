// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the study-shelf CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/study-shelf/internal/detect"
	"github.com/pdiddy/study-shelf/internal/httputil"
	"github.com/pdiddy/study-shelf/internal/logging"
	"github.com/pdiddy/study-shelf/internal/plugin"
	"github.com/pdiddy/study-shelf/internal/secrets"
	"github.com/pdiddy/study-shelf/internal/store"
	"github.com/pdiddy/study-shelf/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

var (
	// loadedSecrets holds credentials loaded from .secrets/ at startup.
	loadedSecrets secrets.Secrets

	// logger writes diagnostics to stderr. Command output goes to stdout.
	logger = logging.New(os.Stderr, "")
)

// rootCmd is the base command for the study-shelf CLI.
var rootCmd = &cobra.Command{
	Use:   "study-shelf",
	Short: "Organize videos, books, papers, and articles you are studying",
	Long: `study-shelf keeps a personal shelf of study resources. Paste a link, ISBN,
DOI, arXiv id, or title and it works out what kind of resource it is, fetches
the metadata, and saves it so you can tag topics and track progress.

Use detect to see how an input is classified without saving anything.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level, _ := cmd.Flags().GetString("log-level")
		logger = logging.New(os.Stderr, level)

		dir, _ := cmd.Flags().GetString("secrets-dir")
		s, err := secrets.Load(dir, logger)
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			logger.Debug("loaded secrets", "keys", keys)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./study-shelf.yaml or ~/.config/study-shelf/study-shelf.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error (default from "+logging.LevelEnv+" or warn)")
	rootCmd.PersistentFlags().String("secrets-dir", secrets.DefaultDir, "directory of credential files")
	rootCmd.PersistentFlags().String("data-dir", "", "directory holding the resource database")
	viper.BindPFlag("store.data_dir", rootCmd.PersistentFlags().Lookup("data-dir"))
}

func initConfig() {
	home, homeErr := os.UserHomeDir()

	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("study-shelf")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		if homeErr == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "study-shelf"))
		}
	}

	dataDir := ".study-shelf"
	if homeErr == nil {
		dataDir = filepath.Join(home, ".local", "share", "study-shelf")
	}

	viper.SetDefault("engine.min_confidence", string(types.ConfidenceLow))
	viper.SetDefault("engine.max_suggestions", types.DefaultMaxSuggestions)
	viper.SetDefault("engine.debounce", types.DefaultDebounce)
	viper.SetDefault("store.data_dir", dataDir)
	viper.SetDefault("store.max_results", 50)
	viper.SetDefault("http.timeout", 15*time.Second)
	viper.SetDefault("http.user_agent", "study-shelf/"+version)
	viper.SetDefault("http.max_retries", 5)
	viper.SetDefault("plugins.max_search_results", 10)

	viper.SetEnvPrefix("STUDY_SHELF")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		logger.Info("using config file", "path", viper.ConfigFileUsed())
	}
}

// loadAppConfig assembles the configuration from viper and the loaded
// secrets.
func loadAppConfig() (types.AppConfig, error) {
	minConf, err := types.ParseConfidence(viper.GetString("engine.min_confidence"))
	if err != nil {
		return types.AppConfig{}, fmt.Errorf("engine.min_confidence: %w", err)
	}

	cfg := types.AppConfig{
		Engine: types.EngineConfig{
			MinConfidence:  minConf,
			MaxSuggestions: viper.GetInt("engine.max_suggestions"),
			Debounce:       viper.GetDuration("engine.debounce"),
		},
		Plugins: types.PluginConfig{
			HTTPConfig: types.HTTPConfig{
				Timeout:    viper.GetDuration("http.timeout"),
				UserAgent:  viper.GetString("http.user_agent"),
				MaxRetries: viper.GetInt("http.max_retries"),
			},
			MaxSearchResults:  viper.GetInt("plugins.max_search_results"),
			GoogleBooksAPIKey: viper.GetString("plugins.google_books_api_key"),
			CrossRefMailto:    viper.GetString("plugins.crossref_mailto"),
		},
		Store: types.StoreConfig{
			DataDir:    viper.GetString("store.data_dir"),
			MaxResults: viper.GetInt("store.max_results"),
		},
	}
	loadedSecrets.Apply(&cfg.Plugins)
	return cfg, nil
}

func newEngine(cfg types.EngineConfig) *detect.Engine {
	return detect.NewDefaultEngine(cfg, detect.WithLogger(logger))
}

func newRegistry(cfg types.PluginConfig) *plugin.Registry {
	return plugin.NewDefaultRegistry(httputil.NewClient(cfg.HTTPConfig, logger), cfg)
}

func openStore(cfg types.StoreConfig) (*store.Store, error) {
	s, err := store.NewStore(cfg)
	if err != nil {
		return nil, err
	}
	logger.Debug("opened store", "path", s.Path())
	return s, nil
}

// engineOverrides applies --min-confidence and --max-suggestions when set.
func engineOverrides(cmd *cobra.Command, e *detect.Engine) error {
	var patch types.EngineConfigPatch
	if cmd.Flags().Changed("min-confidence") {
		raw, _ := cmd.Flags().GetString("min-confidence")
		c, err := types.ParseConfidence(raw)
		if err != nil {
			return err
		}
		patch.MinConfidence = &c
	}
	if cmd.Flags().Changed("max-suggestions") {
		n, _ := cmd.Flags().GetInt("max-suggestions")
		patch.MaxSuggestions = &n
	}
	e.SetConfig(patch)
	return nil
}

func addEngineFlags(cmd *cobra.Command) {
	cmd.Flags().String("min-confidence", "", "drop candidates below this confidence (definite, high, medium, low)")
	cmd.Flags().Int("max-suggestions", 0, "maximum number of ranked candidates")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		logger.Error(err)
		os.Exit(1)
	}
}
