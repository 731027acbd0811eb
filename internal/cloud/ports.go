// Package cloud defines the boundary for syncing the household dataset
// to remote storage. The server and worker only depend on the Syncer
// interface, so backends can be swapped without touching the services.
package cloud

import (
	"context"
	"time"

	"finas/internal/core"
)

// Bundle is the full dataset for one household, keyed by its sync ID.
type Bundle struct {
	Transactions []core.Transaction `json:"transactions"`
	Settings     core.AppSettings   `json:"settings"`
	LastUpdated  time.Time          `json:"lastUpdated"`
}

type (
	// Syncer pushes and fetches whole bundles. Fetch reports whether a
	// bundle exists for the sync ID; a missing bundle is not an error.
	Syncer interface {
		Push(ctx context.Context, syncID string, b Bundle) error
		Fetch(ctx context.Context, syncID string) (Bundle, bool, error)
	}
)
