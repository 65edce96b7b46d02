package cinecase

import (
	"go.uber.org/zap"

	"github.com/cinecase/cinecase/internal/domain/schema"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	csvPath string
	cases   []Case

	redisAddrs    []string
	redisPassword string
	keyPrefix     string
	saveSnapshot  bool

	schema  *schema.Schema
	workers int

	logger *zap.Logger
}

// WithCSV loads the case base from a CSV file.
func WithCSV(path string) Option {
	return optionFunc(func(c *clientConfig) {
		c.csvPath = path
	})
}

// WithCases loads the case base from memory. Absent attribute values are
// dropped; insertion order is the ranking tie-break order.
func WithCases(cases ...Case) Option {
	return optionFunc(func(c *clientConfig) {
		c.cases = append(c.cases, cases...)
	})
}

// WithRedis connects to Redis for case base snapshots. Without a CSV or
// in-memory source the client loads the stored snapshot; with one, the
// snapshot is refreshed on startup.
func WithRedis(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.redisAddrs = []string{addr}
		c.redisPassword = password
		c.saveSnapshot = true
	})
}

// WithKeyPrefix namespaces the Redis snapshot keys. Default: "cinecase:".
func WithKeyPrefix(prefix string) Option {
	return optionFunc(func(c *clientConfig) {
		c.keyPrefix = prefix
	})
}

// WithSchema replaces the built-in movie schema.
func WithSchema(s *schema.Schema) Option {
	return optionFunc(func(c *clientConfig) {
		c.schema = s
	})
}

// WithWorkers sets the scan parallelism. Default: GOMAXPROCS.
func WithWorkers(n int) Option {
	return optionFunc(func(c *clientConfig) {
		c.workers = n
	})
}

// WithLogger enables structured logging. Pass nil to disable (default).
func WithLogger(l *zap.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}
