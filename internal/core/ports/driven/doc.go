// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - RemoteFeed: Paginated, token-based change feed of the calendar provider
//   - CalendarStore: Calendar records and their sync metadata
//   - EventStore: Per-calendar event records keyed by remote event id
//   - AccountDirectory: Organiser to local account lookups
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - SyncListener: Hooks fired around a run and for every synced event
//   - SyncRunStore: Run history
//   - EventExporter: Serialises events for export
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or connector package
package driven
