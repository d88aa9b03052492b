package main

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"cinedex/internal/config"
	"cinedex/internal/library"
	"cinedex/internal/logging"
	"cinedex/internal/omdb"
	"cinedex/internal/store"
	"cinedex/internal/store/jsonstore"
)

type commandContext struct {
	configFlag *string
	jsonFlag   *bool

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag *string, jsonFlag *bool) *commandContext {
	return &commandContext{
		configFlag: configFlag,
		jsonFlag:   jsonFlag,
	}
}

func (c *commandContext) configPath() string {
	if c.configFlag == nil {
		return ""
	}
	return strings.TrimSpace(*c.configFlag)
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		cfg, _, _, err := config.Load(c.configPath())
		if err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) jsonOutput() bool {
	return c.jsonFlag != nil && *c.jsonFlag
}

func (c *commandContext) logger() (*slog.Logger, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	return logger, nil
}

// withService opens the store and catalog, runs fn, and closes the store.
func (c *commandContext) withService(fn func(*library.Service) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	logger, err := c.logger()
	if err != nil {
		return err
	}
	svc, closeFn, err := buildService(cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeFn(); err != nil {
			logger.Warn("close store", logging.Error(err))
		}
	}()
	return fn(svc)
}

// buildService wires the configured store and OMDB client into a collection
// service. The returned func releases the store.
func buildService(cfg *config.Config, logger *slog.Logger) (*library.Service, func() error, error) {
	catalog, err := omdb.New(cfg.OMDB.APIKey, cfg.OMDB.BaseURL,
		omdb.WithTimeout(cfg.OMDBTimeout()),
		omdb.WithRateLimit(cfg.OMDB.RequestsPerSecond),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("init omdb client: %w", err)
	}
	st, err := store.Open(cfg, logger)
	if err != nil {
		return nil, nil, wrapStoreError(err, cfg.Store.Path)
	}
	return library.New(st, catalog, library.WithLogger(logger)), st.Close, nil
}

func wrapStoreError(err error, path string) error {
	if errors.Is(err, jsonstore.ErrLocked) {
		return fmt.Errorf("open collection: %s is in use by another cinedex process; stop `cinedex serve` or use the HTTP API", path)
	}
	return fmt.Errorf("open collection: %w", err)
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
