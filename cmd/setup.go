package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/parthivsnair/Resume-Validator/internal/ai"
	"github.com/parthivsnair/Resume-Validator/internal/ai/gemini"
	"github.com/parthivsnair/Resume-Validator/internal/history"
	"github.com/parthivsnair/Resume-Validator/internal/logger"
	"github.com/parthivsnair/Resume-Validator/internal/matcher"
	"github.com/parthivsnair/Resume-Validator/internal/secrets"
)

// setup builds the logger and the config shared by every command. It exits
// the process when either cannot be built.
func setup() (*zap.Logger, *Config) {
	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Debug("starting with config",
		zap.String("version", version),
		zap.String("api_url", config.API.URL),
		zap.Duration("api_timeout", config.API.Timeout),
		zap.Bool("ai_enabled", config.AI.Enabled),
	)

	return logger, config
}

func newClient(config *Config, logger *zap.Logger) *matcher.Client {
	token, err := resolveToken(config.API)
	if err != nil {
		logger.Fatal(
			"loading api token",
			zap.Error(err),
			zap.String("hint", "set RESUME_MATCHER_TOKEN_FILE or the 'api.token-file' key in the configuration file"),
		)
	}

	client := matcher.New(logger, config.API.URL, token).WithTimeout(config.API.Timeout)
	if config.API.UserAgent != "" {
		client.UserAgent = config.API.UserAgent
	}

	return client
}

func newAggregator(config *Config, logger *zap.Logger) *history.Aggregator {
	return history.New(newClient(config, logger), logger)
}

// resolveToken returns the optional bearer token of the service.
func resolveToken(config *APIConfig) (string, error) {
	if config == nil {
		return "", errors.New("api config is required")
	}

	return secrets.Load(secrets.Source{
		Name:     "api token",
		Value:    config.Token,
		File:     config.TokenFile,
		Optional: true,
	})
}

func newAdvisor(ctx context.Context, cfg *AIConfig, logger *zap.Logger) (ai.Advisor, error) {
	if cfg == nil || !cfg.Enabled {
		return nil, errors.New("ai advice is disabled, set ai.enabled in the configuration file")
	}

	provider := strings.TrimSpace(strings.ToLower(cfg.Provider))
	if provider != "" && provider != "gemini" {
		return nil, fmt.Errorf("unsupported ai provider: %s", cfg.Provider)
	}

	if cfg.Gemini == nil {
		cfg.Gemini = &GeminiConfig{}
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name:  "gemini api key",
		Value: cfg.Gemini.APIKey,
		File:  cfg.Gemini.APIKeyFile,
	})
	if err != nil {
		return nil, fmt.Errorf("%w (set ai.gemini.api-key-file or GEMINI_API_KEY_FILE)", err)
	}

	generator, err := gemini.NewGenerator(ctx, logger, apiKey, cfg.Gemini.Model)
	if err != nil {
		return nil, err
	}

	return gemini.NewAdvisor(generator, logger, cfg.MaxPriorities, cfg.Gemini.MaxLogLength), nil
}
