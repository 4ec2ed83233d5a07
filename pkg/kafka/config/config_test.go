package kafka_config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv(EnvKafkaBrokers, "")
	t.Setenv(EnvKafkaDLQTopic, "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []string{"localhost:9092"}, cfg.Brokers)
	assert.Equal(t, DefaultProducerMaxAttempts, cfg.ProducerMaxAttempts)
	assert.Equal(t, DefaultProducerCompression, cfg.ProducerCompression)
	assert.Empty(t, cfg.DLQTopic)
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv(EnvKafkaBrokers, " kafka-1:9092, ,kafka-2:9092 ")
	t.Setenv(EnvKafkaProducerCompression, "zstd")
	t.Setenv(EnvKafkaProducerWriteTimeout, "2s")
	t.Setenv(EnvKafkaDLQTopic, "devevents.dlq")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.Brokers)
	assert.Equal(t, "zstd", cfg.ProducerCompression)
	assert.Equal(t, 2*time.Second, cfg.ProducerWriteTimeout)
	assert.Equal(t, "devevents.dlq", cfg.DLQTopic)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Brokers:              []string{"localhost:9092"},
			ProducerMaxAttempts:  3,
			ProducerBatchTimeout: time.Millisecond,
			ProducerWriteTimeout: time.Second,
			ProducerRequireAcks:  -1,
			ProducerCompression:  "snappy",
		}
	}

	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"no brokers", func(c *Config) { c.Brokers = nil }},
		{"zero attempts", func(c *Config) { c.ProducerMaxAttempts = 0 }},
		{"bad compression", func(c *Config) { c.ProducerCompression = "brotli" }},
		{"bad acks", func(c *Config) { c.ProducerRequireAcks = 2 }},
		{"zero write timeout", func(c *Config) { c.ProducerWriteTimeout = 0 }},
	}

	require.NoError(t, valid().Validate())

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
