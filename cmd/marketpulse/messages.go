package main

import (
	"time"

	"github.com/rxtech-lab/market-pulse/internal/types"
)

// SnapshotMsg carries a freshly computed snapshot.
type SnapshotMsg struct {
	Snapshot types.Snapshot
}

// SnapshotErrorMsg indicates that a refresh failed.
type SnapshotErrorMsg struct {
	Err error
}

// TickMsg fires on every refresh interval.
type TickMsg time.Time
