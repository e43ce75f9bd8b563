package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"

	"harpadeck/deckstore"
	"harpadeck/model"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	EnvHarpaDB         = "HARPA_DB"
	EnvHarpaOutputDir  = "HARPA_OUTPUT_DIR"
	EnvHarpaLogo       = "HARPA_LOGO"
	EnvHarpaListenAddr = "HARPA_LISTEN_ADDR"
	EnvHarpaContinue   = "HARPA_CONTINUE_ON_ERROR"
)

type HarpaConfig struct {
	HttpListenAddr string
	Metadata       MetadataConfig
	Deck           DeckConfig
}

type MetadataConfig struct {
	DB string
}

type DeckConfig struct {
	OutputDir       string
	LogoPath        string
	Credit          string
	FirstID         uint
	LastID          uint
	ContinueOnError bool
}

// DefaultConfig reproduces the fixed paths and range of the hymnal batch:
// harpa.db and logo2.png in the cwd, decks into "Harpa Cristã", ids 1..640.
func DefaultConfig() *HarpaConfig {
	return &HarpaConfig{
		HttpListenAddr: ":8086",
		Metadata: MetadataConfig{
			DB: "harpa.db",
		},
		Deck: DeckConfig{
			OutputDir: model.DeckDirname,
			LogoPath:  "logo2.png",
			Credit:    deckstore.DefaultCredit,
			FirstID:   1,
			LastID:    640,
		},
	}
}

// LoadConfig builds the config: defaults, then the YAML file at path (if
// path is not empty), then .env, then HARPA_* environment variables.
func LoadConfig(path string) (*HarpaConfig, error) {
	c := DefaultConfig()

	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("LoadConfig: Open failed: %w", err)
		}
		defer f.Close()

		if err := yaml.NewDecoder(f).Decode(c); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("LoadConfig: Decode %s failed: %w", path, err)
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		logger.WithError(err).Warn("LoadConfig: failed to load .env")
	}

	if err := c.applyEnvOverrides(); err != nil {
		return nil, err
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}

	return c, nil
}

func (c *HarpaConfig) applyEnvOverrides() error {
	if v, ok := os.LookupEnv(EnvHarpaDB); ok {
		c.Metadata.DB = v
	}
	if v, ok := os.LookupEnv(EnvHarpaOutputDir); ok {
		c.Deck.OutputDir = v
	}
	if v, ok := os.LookupEnv(EnvHarpaLogo); ok {
		c.Deck.LogoPath = v
	}
	if v, ok := os.LookupEnv(EnvHarpaListenAddr); ok {
		c.HttpListenAddr = v
	}
	if v, ok := os.LookupEnv(EnvHarpaContinue); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvHarpaContinue, err)
		}
		c.Deck.ContinueOnError = b
	}
	return nil
}

// Validate checks the id range.
func (c *HarpaConfig) Validate() error {
	if c.Deck.FirstID == 0 {
		return errors.New("deck.firstid should be >= 1")
	}
	if c.Deck.LastID < c.Deck.FirstID {
		return fmt.Errorf("deck.lastid (%d) should be >= deck.firstid (%d)", c.Deck.LastID, c.Deck.FirstID)
	}
	return nil
}

func (c *HarpaConfig) Write(dst io.Writer) error {
	return yaml.NewEncoder(dst).Encode(&c)
}
