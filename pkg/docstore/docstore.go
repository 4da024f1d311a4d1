// Package docstore persists whole collections as named JSON documents.
package docstore

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound is returned by Load when no document with that name was ever saved.
var ErrNotFound = errors.New("docstore: document not found")

// Store loads and saves one document per collection as a unit.
type Store interface {
	Load(ctx context.Context, name string) ([]byte, error)
	Save(ctx context.Context, name string, data []byte) error
	Ping(ctx context.Context) error
	Close() error
}

func validateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("docstore: document name is required")
	}
	if strings.ContainsAny(name, `/\`) || strings.Contains(name, "..") {
		return fmt.Errorf("docstore: invalid document name %q", name)
	}
	return nil
}
