// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the confcorpus CLI.
// Implements: prd001-crawl, prd002-documents, prd003-sources,
//             prd004-digest (CLI surface).
// See docs/ARCHITECTURE § Overview, § Project Structure.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/confcorpus/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

// defaultUserAgent identifies the tool on every outbound request.
const defaultUserAgent = "confcorpus/0.1"

// loadedSecrets holds key files loaded from .secrets/ at startup.
var loadedSecrets secrets.Store

// userAgent returns the User-Agent for outbound requests. A configured
// contact-email decorates it with a mailto so site operators can reach
// whoever runs the crawler.
func userAgent() string {
	if email := loadedSecrets.ContactEmail(); email != "" {
		return fmt.Sprintf("%s (mailto:%s)", defaultUserAgent, email)
	}
	return defaultUserAgent
}

// rootCmd is the base command for the confcorpus CLI.
var rootCmd = &cobra.Command{
	Use:   "confcorpus",
	Short: "Build a local corpus from conference paper pages",
	Long: `confcorpus assembles a local corpus from a conference's public paper
listings. It crawls each paper page into a JSON metadata record, then fills
in the companion artifacts: the published PDF for every record, and the
arXiv source bundle for records whose title resolves to an e-print.

Each stage is a subcommand: crawl, fetch, bundle, and digest. Stages are
idempotent: artifacts already on disk are skipped, so interrupted runs are
resumed by running the same command again.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := secrets.Load(".secrets/")
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
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", keys)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./confcorpus.yaml or ~/.config/confcorpus/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("confcorpus")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "confcorpus"))
		}
	}

	viper.SetEnvPrefix("CONFCORPUS")
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
