// Package cache provides the sentiment cache backends.
package cache

import (
	"fmt"
	"strings"
	"time"

	"stock-predictor/internal/interfaces"
)

const (
	BackendFile   = "FILE"
	BackendBadger = "BADGER"
	BackendMemory = "MEMORY"
	BackendNone   = "NONE"
)

// New opens the cache for the configured backend. The caller owns Close.
func New(backend, dir string, ttl time.Duration) (interfaces.SentimentCache, error) {
	switch strings.ToUpper(backend) {
	case BackendFile:
		return NewFile(dir, ttl)
	case BackendBadger:
		return OpenBadger(dir, ttl)
	case BackendMemory:
		return NewMemory(ttl), nil
	case BackendNone, "":
		return Nop{}, nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q", backend)
	}
}
