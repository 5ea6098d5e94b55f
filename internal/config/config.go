// Copyright 2025 Blink Labs Software
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

type ctxKey string

const configContextKey ctxKey = "sealmeet-indexer.config"

func WithContext(ctx context.Context, cfg *Config) context.Context {
	return context.WithValue(ctx, configContextKey, cfg)
}

func FromContext(ctx context.Context) *Config {
	cfg, ok := ctx.Value(configContextKey).(*Config)
	if !ok {
		return nil
	}
	return cfg
}

const (
	DefaultRpcUrl               = "https://fullnode.testnet.sui.io:443"
	DefaultCheckpointBufferSize = 5000
	DefaultIngestConcurrency    = 200
	DefaultRetryIntervalMs      = 200
	DefaultMetricsPort          = 12799
)

var (
	ErrMissingDatabaseUrl = errors.New("store connection string (DATABASE_URL) is required")
	ErrMissingPackageId   = errors.New("domain package id (SEALMEET_PACKAGE_ID) is required")
)

type Config struct {
	RpcUrl               string  `yaml:"rpcUrl"               envconfig:"SUI_RPC_URL"`
	PackageId            string  `yaml:"packageId"            envconfig:"SEALMEET_PACKAGE_ID"`
	DatabaseUrl          string  `yaml:"databaseUrl"          envconfig:"DATABASE_URL"`
	LogLevel             string  `yaml:"logLevel"             envconfig:"LOG_LEVEL"`
	BindAddr             string  `yaml:"bindAddr"             envconfig:"BIND_ADDR"`
	CheckpointBufferSize int     `yaml:"checkpointBufferSize" envconfig:"CHECKPOINT_BUFFER_SIZE"`
	IngestConcurrency    int     `yaml:"ingestConcurrency"    envconfig:"INGEST_CONCURRENCY"`
	RetryIntervalMs      uint    `yaml:"retryIntervalMs"      envconfig:"RETRY_INTERVAL_MS"`
	FirstCheckpoint      *uint64 `yaml:"firstCheckpoint"      envconfig:"FIRST_CHECKPOINT"`
	LastCheckpoint       *uint64 `yaml:"lastCheckpoint"       envconfig:"LAST_CHECKPOINT"`
	MetricsPort          uint    `yaml:"metricsPort"          envconfig:"METRICS_PORT"`
	Tracing              bool    `yaml:"tracing"              envconfig:"TRACING"`
	TracingStdout        bool    `yaml:"tracingStdout"        envconfig:"TRACING_STDOUT"`
}

var globalConfig = &Config{
	RpcUrl:               DefaultRpcUrl,
	LogLevel:             "info",
	BindAddr:             "0.0.0.0",
	CheckpointBufferSize: DefaultCheckpointBufferSize,
	IngestConcurrency:    DefaultIngestConcurrency,
	RetryIntervalMs:      DefaultRetryIntervalMs,
	MetricsPort:          DefaultMetricsPort,
}

func LoadConfig(configFile string) (*Config, error) {
	// Load config file as YAML if provided
	if configFile == "" {
		// Check for config file in this path: ~/.sealmeet-indexer/config.yaml
		if homeDir, err := os.UserHomeDir(); err == nil {
			userPath := filepath.Join(
				homeDir,
				".sealmeet-indexer",
				"config.yaml",
			)
			if _, err := os.Stat(userPath); err == nil {
				configFile = userPath
			}
		}
		// Try to check for /etc/sealmeet-indexer/config.yaml if still not found
		if configFile == "" {
			systemPath := "/etc/sealmeet-indexer/config.yaml"
			if _, err := os.Stat(systemPath); err == nil {
				configFile = systemPath
			}
		}
	}
	if configFile != "" {
		buf, err := os.ReadFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Overlay config values onto existing defaults
		if err := yaml.Unmarshal(buf, globalConfig); err != nil {
			return nil, fmt.Errorf("error parsing config file: %w", err)
		}
	}
	// Load config values from environment variables
	// We use "dummy" as the app name here to (mostly) prevent picking up env
	// vars that we hadn't explicitly specified in annotations above
	err := envconfig.Process("dummy", globalConfig)
	if err != nil {
		return nil, fmt.Errorf("error processing environment: %w", err)
	}
	return globalConfig, nil
}

// Validate checks that required configuration is present and bounds are sane.
// The process must refuse to start without a store connection string or a
// domain package id.
func (c *Config) Validate() error {
	if c.DatabaseUrl == "" {
		return ErrMissingDatabaseUrl
	}
	if c.PackageId == "" {
		return ErrMissingPackageId
	}
	if c.RpcUrl == "" {
		return errors.New("ledger RPC URL is required")
	}
	if c.CheckpointBufferSize <= 0 {
		return fmt.Errorf(
			"checkpoint buffer size must be positive, got %d",
			c.CheckpointBufferSize,
		)
	}
	if c.IngestConcurrency <= 0 {
		return fmt.Errorf(
			"ingest concurrency must be positive, got %d",
			c.IngestConcurrency,
		)
	}
	if c.FirstCheckpoint != nil && c.LastCheckpoint != nil &&
		*c.LastCheckpoint < *c.FirstCheckpoint {
		return fmt.Errorf(
			"last checkpoint %d precedes first checkpoint %d",
			*c.LastCheckpoint,
			*c.FirstCheckpoint,
		)
	}
	return nil
}

// GetConfig returns the global config instance
func GetConfig() *Config {
	return globalConfig
}
