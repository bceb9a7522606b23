// Package termstore persists mined terminology and its translations
// across pipeline runs, and tracks which terms have been included in a
// fine-tuning dataset.
package termstore

import (
	"context"

	"github.com/ZaguanLabs/doctran"
)

// Store is the persistent terminology store. Implementations must be
// safe for sequential use from a single pipeline; concurrent pipelines
// sharing one store rely on the underlying database for isolation.
type Store interface {
	// Missing returns the subset of terms that have no stored entry,
	// preserving input order.
	Missing(ctx context.Context, terms []string) ([]string, error)

	// MissingOrUntrained returns terms that either have no entry or
	// whose entry has not yet been trained, preserving input order.
	MissingOrUntrained(ctx context.Context, terms []string) ([]string, error)

	// Upsert inserts or updates entries in a single transaction. The
	// trained flag is applied to every entry; updating an existing
	// term overwrites its translations and resets the flag to the
	// given value.
	Upsert(ctx context.Context, entries []doctran.TermEntry, trained bool) error

	// FetchUntrained returns all stored entries not yet trained.
	FetchUntrained(ctx context.Context) ([]doctran.TermEntry, error)

	// MarkTrained flags the given terms as trained.
	MarkTrained(ctx context.Context, terms []string) error

	// Count returns the total number of stored entries.
	Count(ctx context.Context) (int, error)

	// Close releases the underlying database handle.
	Close() error
}
