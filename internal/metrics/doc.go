// Package metrics provides Prometheus metrics for monitoring.
//
// Key metrics:
//   - Batch runs by trigger and result, and their duration
//   - Per-item fetches by source and error class
//   - Tracked article count and registry mutations
//
// A nil *Metrics is valid and records nothing.
package metrics
