// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the answer-engine CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/answer-engine/internal/secrets"
	"github.com/pdiddy/answer-engine/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds API keys loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// secretDefault returns fallback if non-empty, otherwise the secret value
// for key if one was loaded.
func secretDefault(key, fallback string) string {
	if fallback != "" {
		return fallback
	}
	if v, ok := loadedSecrets[key]; ok {
		return v
	}
	return ""
}

// rootCmd is the base command for the answer-engine CLI.
var rootCmd = &cobra.Command{
	Use:   "answer-engine",
	Short: "Answer medical questions with a multi-role LLM pipeline",
	Long: `answer-engine answers free-text medical questions by chaining three
LLM agent roles (query refiner, researcher, validator) with concurrent web
and PubMed literature search, producing a validated, disclaimer-bearing
HTML answer.

Ask a question with "ask"; browse previously saved answers with "history".`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./answer-engine.yaml or ~/.config/answer-engine/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("answer-engine")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "answer-engine"))
		}
	}

	viper.SetEnvPrefix("ANSWER_ENGINE")
	viper.AutomaticEnv()

	viper.SetDefault("search.timeout", "10s")
	viper.SetDefault("search.user_agent", "answer-engine/"+version)
	viper.SetDefault("search.max_results", 5)
	viper.SetDefault("search.ncbi_tool", "answer-engine")
	viper.SetDefault("agents.timeout", "60s")
	viper.SetDefault("agents.query_refiner.provider", "gemini")
	viper.SetDefault("agents.query_refiner.model", "gemini-2.0-flash")
	viper.SetDefault("agents.query_refiner.temperature", 0.3)
	viper.SetDefault("agents.researcher.provider", "deepseek")
	viper.SetDefault("agents.researcher.model", "deepseek-reasoner")
	viper.SetDefault("agents.researcher.temperature", 0.7)
	viper.SetDefault("agents.validator.provider", "gemini")
	viper.SetDefault("agents.validator.model", "gemini-2.0-flash")
	viper.SetDefault("agents.validator.temperature", 0.3)
	viper.SetDefault("archive.path", "answers.db")

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// buildConfig assembles the full configuration from viper settings and
// loaded secrets. Core components receive this struct; they never read the
// environment themselves.
func buildConfig() types.Config {
	return types.Config{
		Search: types.SearchConfig{
			HTTPConfig: types.HTTPConfig{
				Timeout:   viper.GetDuration("search.timeout"),
				UserAgent: viper.GetString("search.user_agent"),
			},
			MaxResults: viper.GetInt("search.max_results"),
			SerpAPIKey: secretDefault("serpapi-key", viper.GetString("search.serpapi_key")),
			NCBITool:   viper.GetString("search.ncbi_tool"),
			NCBIEmail:  secretDefault("ncbi-email", viper.GetString("search.ncbi_email")),
		},
		Agents: types.AgentConfig{
			Timeout:      viper.GetDuration("agents.timeout"),
			QueryRefiner: modelConfig("agents.query_refiner"),
			Researcher:   modelConfig("agents.researcher"),
			Validator:    modelConfig("agents.validator"),
		},
		Archive: types.ArchiveConfig{
			Path: viper.GetString("archive.path"),
		},
	}
}

// modelConfig reads one role's backend settings from the given viper prefix.
// The API key falls back to the provider's secret file.
func modelConfig(prefix string) types.ModelConfig {
	provider := types.ModelProvider(viper.GetString(prefix + ".provider"))
	return types.ModelConfig{
		Provider:    provider,
		Model:       viper.GetString(prefix + ".model"),
		APIKey:      secretDefault(string(provider)+"-api-key", viper.GetString(prefix+".api_key")),
		MaxTokens:   viper.GetInt(prefix + ".max_tokens"),
		Temperature: viper.GetFloat64(prefix + ".temperature"),
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
