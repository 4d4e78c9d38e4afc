package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"jobmatch-backend/internal/llm"
	"jobmatch-backend/internal/shared/config"
	"jobmatch-backend/internal/shared/telemetry"
)

const app = "matchctl"

var (
	cfgFile string

	rootCmd = &cobra.Command{
		Use:           app,
		Short:         "matchctl extracts résumé text and runs job matching from the command line",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "optional config file (yaml, json or toml)")
	flags.BoolP("debug", "d", false, "verbose/debug output")
	flags.BoolP("json", "j", false, "json format for logging")
	flags.String("llm-provider", "", "matching provider: openai, gemini or none (env LLM_PROVIDER)")
	flags.String("llm-model", "", "model name (env LLM_MODEL)")
	flags.String("llm-api-key", "", "provider credential (env LLM_API_KEY)")
	flags.Duration("llm-timeout", 0, "matching call timeout (env LLM_TIMEOUT_SECONDS)")

	for _, name := range []string{"debug", "json", "llm-provider", "llm-model", "llm-api-key", "llm-timeout"} {
		_ = viper.BindPFlag(name, flags.Lookup(name))
	}
}

func initConfig() {
	if cfgFile == "" {
		return
	}
	viper.SetConfigFile(cfgFile)
	if err := viper.ReadInConfig(); err != nil {
		cobra.CheckErr(fmt.Errorf("reading config %s: %w", cfgFile, err))
	}
}

func newLogger() (*zap.Logger, error) {
	logger, err := telemetry.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		return nil, fmt.Errorf("creating a logger: %w", err)
	}
	telemetry.SetLogger(logger)
	return logger, nil
}

// llmConfig starts from the environment and applies flag or config file overrides.
func llmConfig() llm.Config {
	env := config.Load().LLM
	cfg := llm.Config{
		Provider:        env.Provider,
		APIKey:          env.APIKey,
		Model:           env.Model,
		BaseURL:         env.BaseURL,
		Timeout:         env.Timeout,
		MaxOutputTokens: env.MaxOutputTokens,
	}
	if v := strings.TrimSpace(viper.GetString("llm-provider")); v != "" {
		cfg.Provider = strings.ToLower(v)
	}
	if v := strings.TrimSpace(viper.GetString("llm-model")); v != "" {
		cfg.Model = v
	}
	if v := strings.TrimSpace(viper.GetString("llm-api-key")); v != "" {
		cfg.APIKey = v
	}
	if v := viper.GetDuration("llm-timeout"); v > 0 {
		cfg.Timeout = v
	}
	return cfg
}
