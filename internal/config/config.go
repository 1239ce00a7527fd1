package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/go-sql-driver/mysql"
	"gopkg.in/yaml.v3"
)

const (
	DefaultMaxEvents     = 10000
	DefaultFlushInterval = 30 * time.Second
	DefaultGroupID       = "delta-bq"
)

type Config struct {
	Source    SourceConfig    `yaml:"source"`
	Warehouse WarehouseConfig `yaml:"warehouse"`
	Staging   StagingConfig   `yaml:"staging"`
	CDC       CDCConfig       `yaml:"cdc"`
	Buffer    BufferConfig    `yaml:"buffer"`
	Tables    []TableConfig   `yaml:"tables"`
}

type SourceConfig struct {
	Type   string `yaml:"type"`
	DSN    string `yaml:"dsn"`
	Schema string `yaml:"schema"`
}

type WarehouseConfig struct {
	Project string `yaml:"project"`
	Dataset string `yaml:"dataset"`
}

type StagingConfig struct {
	Endpoint        string `yaml:"endpoint"`
	AccessKeyID     string `yaml:"accessKeyId"`
	SecretAccessKey string `yaml:"secretAccessKey"`
	Bucket          string `yaml:"bucket"`
	Region          string `yaml:"region"`
	Prefix          string `yaml:"prefix"`
	UseSSL          bool   `yaml:"useSSL"`
}

type CDCConfig struct {
	Type        string   `yaml:"type"`
	Brokers     []string `yaml:"brokers"`
	Topics      []string `yaml:"topics"`
	TopicPrefix string   `yaml:"topicPrefix"`
	GroupID     string   `yaml:"groupId"`
}

type BufferConfig struct {
	MaxEvents     int           `yaml:"maxEvents"`
	FlushInterval time.Duration `yaml:"flushInterval"`
}

type TableConfig struct {
	Name       string   `yaml:"name"`
	PrimaryKey []string `yaml:"primaryKey"`
}

func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is required")
	}

	_, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("config file not found: %w", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.CDC.Type == "" {
		c.CDC.Type = "debezium"
	}
	if c.CDC.GroupID == "" {
		c.CDC.GroupID = DefaultGroupID
	}
	if c.Buffer.MaxEvents <= 0 {
		c.Buffer.MaxEvents = DefaultMaxEvents
	}
	if c.Buffer.FlushInterval <= 0 {
		c.Buffer.FlushInterval = DefaultFlushInterval
	}
}

func (c *Config) validate() error {
	if c.Source.Type != "mysql" {
		return errors.New("source.type must be mysql")
	}
	if c.Source.DSN == "" {
		return errors.New("source.dsn is required")
	}
	if _, err := mysql.ParseDSN(c.Source.DSN); err != nil {
		return fmt.Errorf("source.dsn is invalid: %w", err)
	}
	if c.Source.Schema == "" {
		return errors.New("source.schema is required")
	}
	if c.Warehouse.Dataset == "" {
		return errors.New("warehouse.dataset is required")
	}
	if c.CDC.Type != "debezium" {
		return errors.New("cdc.type must be debezium")
	}
	if len(c.Tables) == 0 {
		return errors.New("at least one table is required")
	}
	seen := map[string]bool{}
	for _, table := range c.Tables {
		if table.Name == "" {
			return errors.New("table.name is required")
		}
		if seen[table.Name] {
			return fmt.Errorf("table %s is listed more than once", table.Name)
		}
		seen[table.Name] = true
	}
	return nil
}

// ValidateStaging checks the settings needed to stage batches and consume
// change events. The check command does not need them.
func (c *Config) ValidateStaging() error {
	if c.Staging.Endpoint == "" {
		return errors.New("staging.endpoint is required")
	}
	if c.Staging.AccessKeyID == "" || c.Staging.SecretAccessKey == "" {
		return errors.New("staging credentials are required")
	}
	if c.Staging.Bucket == "" {
		return errors.New("staging.bucket is required")
	}
	if len(c.CDC.Brokers) == 0 {
		return errors.New("cdc.brokers is required")
	}
	if len(c.CDC.Topics) == 0 && c.CDC.TopicPrefix == "" {
		return errors.New("cdc.topics or cdc.topicPrefix is required")
	}
	return nil
}

// TableNames returns the configured table names in declaration order.
func (c *Config) TableNames() []string {
	names := make([]string, 0, len(c.Tables))
	for _, t := range c.Tables {
		names = append(names, t.Name)
	}
	return names
}

// Topics returns the Kafka topics to consume. Without an explicit list, the
// Debezium naming convention <prefix>.<schema>.<table> is used.
func (c *Config) Topics() []string {
	if len(c.CDC.Topics) > 0 {
		return c.CDC.Topics
	}
	topics := make([]string, 0, len(c.Tables))
	for _, t := range c.Tables {
		topics = append(topics, fmt.Sprintf("%s.%s.%s", c.CDC.TopicPrefix, c.Source.Schema, t.Name))
	}
	return topics
}
