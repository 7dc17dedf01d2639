package backend

import (
	"context"

	"myfinance/internal/records"
	"myfinance/internal/services"
)

// CleanupFunc releases resources held by a backend.
type CleanupFunc func() error

// Result is a ready-to-use record store plus the collaborators that come
// with it.
type Result struct {
	Store records.Store
	// Publisher is nil when no change feed is configured.
	Publisher services.EventPublisher
	// Ready reports whether the store can serve requests.
	Ready   func(ctx context.Context) error
	Cleanup CleanupFunc
}

// Factory creates backends based on configuration.
type Factory interface {
	CreateBackend(ctx context.Context, config Config) (*Result, error)
}

// Config holds configuration for backend creation.
type Config struct {
	Type BackendType

	// SQLite specific
	SQLiteDBPath string
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Memory specific: directory holding seed_<list>.txt files
	SeedDir string
}

type BackendType string

const (
	SQLiteBackend BackendType = "sqlite"
	MemoryBackend BackendType = "memory"
)

func (bt BackendType) String() string {
	return string(bt)
}

func (bt BackendType) IsValid() bool {
	switch bt {
	case SQLiteBackend, MemoryBackend:
		return true
	default:
		return false
	}
}
