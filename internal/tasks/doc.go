// Package tasks runs long-running jobs over the song store with real-time progress reporting.
//
// # Bulk Export
//
// [Exporter.BulkExport] writes one file per user into an output directory:
//   - Lists the requested users (all users when none are named)
//   - Fans the users out to a bounded pool of workers
//   - Each worker loads the user's songs and writes them with the formatter package
//   - A JSON manifest summarizing every file is written last
//
// A failure for one user is recorded in the result and does not stop the others.
//
// # Progress Reporting
//
// All operations use non-blocking channels for progress updates.
//
// The [ProgressUpdate] struct contains phase, step counters, messages, and optional data.
// Updates use select with default to prevent blocking.
package tasks
