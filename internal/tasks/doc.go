// Package tasks turns a list of song references into a playlist with real-time progress reporting.
//
// # Core Operations
//
// The [Engine] interface defines two operations:
//
//  1. [Engine.Resolve] : lazy, single-use sequence of resolved tracks
//     - Links are passed through verbatim
//     - Free text is searched (top result only), paced by a rate limiter
//     - References with no result are logged and skipped
//
//  2. [Engine.Build] : create the playlist
//     - Drains the sequence before any mutation
//     - Creates the playlist for the owner
//     - Adds identifiers in input order, at most [MaxItemsPerRequest] per call
//
// # Progress Reporting
//
// Progress updates are sent on an optional channel. Sends block until the consumer takes them or the context is done.
//
// The [ProgressUpdate] struct contains phase, step counters, messages, and optional data for advanced UI rendering.
package tasks
