// Package poller runs fetch batches over the tracked articles.
//
// The orchestrator:
//   - Lists tracked articles fresh on every run
//   - Fetches each article's price through a bounded worker pool
//   - Turns every per-article failure into a failed outcome without stopping the batch
//   - Runs configured page watches after the articles, with the same isolation
//   - Lets only one run proceed at a time; later triggers wait their turn
package poller
