// Package services implements the calsync core.
//
// The sync engine is split into small components that the
// SyncOrchestrator wires together for one run of one calendar:
//
//   - DateParser: remote audit and event dates to UTC epoch seconds
//   - OwnerResolver: organiser to local account, memoised per run
//   - SyncTokenPolicy: incremental continuation or forced full resync
//   - PageFetcher: one page of the remote change feed, classified
//   - EventReconciler: applies a page to local events
//   - CleanupEngine: retires events a full resync no longer reports
//
// CalendarService, SettingsService and AccountService provide the
// administrative surface around the orchestrator.
//
// # Import Rules
//
//   - Can Import: domain, ports/driven, ports/driving, logger
//   - Cannot Import: Any adapter or connector package
package services
