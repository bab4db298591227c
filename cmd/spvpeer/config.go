package main

import (
	"encoding/hex"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// config is the on-disk shape of a spvpeer deployment: which network to
// join, which remote node to dial, where to persist the sync checkpoint,
// and which public key hashes to watch for via the Bloom filter.
type config struct {
	Network          string   `yaml:"network"`
	PeerAddress      string   `yaml:"peer_address"`
	CheckpointPath   string   `yaml:"checkpoint_path"`
	WatchedAddresses []string `yaml:"watched_addresses"`
	UserAgent        string   `yaml:"user_agent"`
	LogLevel         string   `yaml:"log_level"`
	MetricsAddress   string   `yaml:"metrics_address"`
}

// loadConfig reads a YAML config file at path, then applies any SPVPEER_*
// environment overrides on top (a .env file in the working directory, if
// present, is loaded into the environment first). Fields left unset fall back to sensible defaults.
func loadConfig(path string) (*config, error) {
	_ = godotenv.Load()

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	cfg := &config{
		Network:        "dogemainnet",
		CheckpointPath: "spvpeer.db",
		LogLevel:       "info",
		MetricsAddress: ":9191",
	}

	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	applyEnvOverrides(cfg)

	return cfg, nil
}

func applyEnvOverrides(cfg *config) {
	if v := os.Getenv("SPVPEER_PEER_ADDRESS"); v != "" {
		cfg.PeerAddress = v
	}

	if v := os.Getenv("SPVPEER_CHECKPOINT_PATH"); v != "" {
		cfg.CheckpointPath = v
	}

	if v := os.Getenv("SPVPEER_NETWORK"); v != "" {
		cfg.Network = v
	}

	if v := os.Getenv("SPVPEER_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
}

// watchedHashes decodes the configured hex-encoded public key hashes into
// raw bytes suitable for bloom.Filter.Add.
func (c *config) watchedHashes() ([][]byte, error) {
	out := make([][]byte, 0, len(c.WatchedAddresses))

	for _, addr := range c.WatchedAddresses {
		b, err := hex.DecodeString(strings.TrimSpace(addr))
		if err != nil {
			return nil, fmt.Errorf("decode watched address %q: %w", addr, err)
		}

		out = append(out, b)
	}

	return out, nil
}
