// Package domain defines the core business entities for calsync.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Calendar: A synchronised remote calendar and its sync metadata
//   - Event: A local copy of one remote event instance
//   - RemoteEvent, RemotePage: Typed results of the remote change feed
//   - RunStats, TouchedSet: Ephemeral per-run bookkeeping
//   - SyncSettings: Horizons, refresh interval and policies
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
