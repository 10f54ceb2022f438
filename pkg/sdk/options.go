package catalog

import (
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/nebula-labs/catalog/internal/config"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	database config.DatabaseConfig
	storage  config.StorageConfig

	logger     *zap.Logger
	metricsReg prometheus.Registerer
}

// WithMongo reads from a MongoDB database.
func WithMongo(uri, database string) Option {
	return optionFunc(func(c *clientConfig) {
		c.database.Driver = config.DriverMongo
		c.database.URI = uri
		c.database.Name = database
	})
}

// WithRedis reads JSON documents from a Redis instance.
func WithRedis(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.database.Driver = config.DriverRedis
		c.database.Addrs = []string{addr}
		c.database.Password = password
	})
}

// WithValkey reads JSON documents from a Valkey instance.
func WithValkey(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.database.Driver = config.DriverValkey
		c.database.Addrs = []string{addr}
		c.database.Password = password
	})
}

// WithKeyPrefix sets the key namespace for Redis and Valkey. Default: "catalog:".
func WithKeyPrefix(prefix string) Option {
	return optionFunc(func(c *clientConfig) {
		c.storage.KeyPrefix = prefix
	})
}

// WithCollection overrides the collection read for a resource kind,
// e.g. WithCollection("course", "courses_2024").
func WithCollection(kind, name string) Option {
	return optionFunc(func(c *clientConfig) {
		if c.storage.Collections == nil {
			c.storage.Collections = make(map[string]string)
		}
		c.storage.Collections[kind] = name
	})
}

// WithLogger enables structured logging for SDK operations.
// Pass nil to disable (default).
func WithLogger(l *zap.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers SDK metrics (operation counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}
