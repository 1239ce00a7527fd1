package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validConfig = `
source:
  type: mysql
  dsn: "repl:secret@tcp(localhost:3306)/shop"
  schema: shop
warehouse:
  project: acme
  dataset: shop_replica
staging:
  endpoint: http://localhost:9000
  accessKeyId: minio
  secretAccessKey: minio123
  bucket: delta-staging
cdc:
  brokers: ["localhost:9092"]
  topicPrefix: dbserver1
buffer:
  flushInterval: 5s
tables:
  - name: orders
    primaryKey: [id]
  - name: customers
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfig_Valid(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, validConfig))
	require.NoError(t, err)

	assert.Equal(t, "shop_replica", cfg.Warehouse.Dataset)
	assert.Equal(t, "debezium", cfg.CDC.Type)
	assert.Equal(t, DefaultGroupID, cfg.CDC.GroupID)
	assert.Equal(t, DefaultMaxEvents, cfg.Buffer.MaxEvents)
	assert.Equal(t, 5*time.Second, cfg.Buffer.FlushInterval)
	assert.Equal(t, []string{"orders", "customers"}, cfg.TableNames())
	assert.Equal(t, []string{"dbserver1.shop.orders", "dbserver1.shop.customers"}, cfg.Topics())
	assert.NoError(t, cfg.ValidateStaging())
}

func TestLoadConfig_Invalid(t *testing.T) {
	n := "source:\n  type: notmysql\n  dsn: \n  schema: \ncdc:\n  type: debezium\ntables: []\n"
	_, err := LoadConfig(writeConfig(t, n))
	require.Error(t, err)
}

func TestLoadConfig_Missing(t *testing.T) {
	_, err := LoadConfig("")
	require.Error(t, err)

	_, err = LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	base := func() Config {
		c := Config{
			Source:    SourceConfig{Type: "mysql", DSN: "u:p@tcp(h:3306)/db", Schema: "db"},
			Warehouse: WarehouseConfig{Dataset: "ds"},
			Tables:    []TableConfig{{Name: "t"}},
		}
		c.applyDefaults()
		return c
	}

	tests := []struct {
		name   string
		mutate func(*Config)
		errMsg string
	}{
		{"bad dsn", func(c *Config) { c.Source.DSN = "u:p@tcp(h:3306" }, "source.dsn is invalid"},
		{"no schema", func(c *Config) { c.Source.Schema = "" }, "source.schema is required"},
		{"no dataset", func(c *Config) { c.Warehouse.Dataset = "" }, "warehouse.dataset is required"},
		{"bad cdc type", func(c *Config) { c.CDC.Type = "maxwell" }, "cdc.type must be debezium"},
		{"no tables", func(c *Config) { c.Tables = nil }, "at least one table is required"},
		{"empty table name", func(c *Config) { c.Tables = []TableConfig{{}} }, "table.name is required"},
		{"duplicate table", func(c *Config) { c.Tables = []TableConfig{{Name: "t"}, {Name: "t"}} }, "listed more than once"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := base()
			require.NoError(t, c.validate())
			tt.mutate(&c)
			err := c.validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestValidateStaging(t *testing.T) {
	c := Config{}
	assert.EqualError(t, c.ValidateStaging(), "staging.endpoint is required")

	c.Staging = StagingConfig{Endpoint: "http://m:9000", AccessKeyID: "a", SecretAccessKey: "s", Bucket: "b"}
	assert.EqualError(t, c.ValidateStaging(), "cdc.brokers is required")

	c.CDC.Brokers = []string{"k:9092"}
	assert.EqualError(t, c.ValidateStaging(), "cdc.topics or cdc.topicPrefix is required")

	c.CDC.Topics = []string{"explicit"}
	assert.NoError(t, c.ValidateStaging())
	assert.Equal(t, []string{"explicit"}, c.Topics())
}
