// Package sink builds the output pipeline behind the public logging API:
// the human-readable console handler, the rotating JSON file handler, and
// the enrichment shared by both (context-bound fields, logger name, level,
// structured error and stack rendering, local timestamps).
//
// Handlers constructed here do not filter by level; the logger registry owns
// thresholds so per-logger pattern overrides apply uniformly across sinks.
package sink
