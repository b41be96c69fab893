package utils

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/FlagBrew/local-pokedex/internal/gui"
	"github.com/FlagBrew/local-pokedex/internal/models"
	"github.com/apex/log"
	"github.com/go-playground/validator/v10"
)

// Setup loads the config at path. When there is none, the interactive
// wizard creates it, except in docker mode where that is fatal.
func Setup(ctx context.Context, mode, path string) *models.Config {
	logger := log.FromContext(ctx).WithField("config", path)

	cfg, err := LoadConfig(path)
	switch {
	case err == nil:
		if err = ValidateConfig(cfg); err != nil {
			logger.WithError(err).Fatal("invalid configuration")
		}
		return cfg
	case !errors.Is(err, os.ErrNotExist):
		logger.WithError(err).Fatal("failed to read configuration")
	}

	if mode == "docker" {
		logger.Fatal("You're running in docker mode and did not volume mount the config file, interactive set-up is not available for docker.")
	}

	// Create a new blank config
	cfg = &models.Config{}

	app := gui.New(cfg)
	if err = app.Start(); err != nil {
		logger.WithError(err).Fatal("Failed to start interactive wizard")
	}

	if err = ValidateConfig(cfg); err != nil {
		logger.WithError(err).Fatal("wizard produced an invalid configuration")
	}

	// Save the config once done.
	SetConfig(ctx, path, cfg)

	return cfg
}

func SetConfig(ctx context.Context, path string, cfg *models.Config) {
	logger := log.FromContext(ctx)
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		logger.WithError(err).Errorf("Error opening %s", path)
		return
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	err = enc.Encode(cfg)
	if err != nil {
		logger.WithError(err).Errorf("Error encoding %s", path)
	}
}

// LoadConfig reads the config at path. A missing file is reported as
// os.ErrNotExist.
func LoadConfig(path string) (*models.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var config models.Config
	if err = json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}

	return &config, nil
}

// ValidateConfig checks the struct tags of every config section.
func ValidateConfig(cfg *models.Config) error {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.Struct(cfg); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}
