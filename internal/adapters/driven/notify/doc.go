// Package notify provides driven.SyncListener implementations.
//
// Listeners observe a sync run without influencing it: the orchestrator logs
// listener errors and carries on.
//
//   - Multi: fans a notification out to several listeners
//   - Logging: writes run progress to the levelled logger
//   - History: records finished runs in a SyncRunStore
package notify
