// Package scheduler triggers fetch batches on a cron schedule.
//
// Times are interpreted in the configured location, so "0 10 * * *" with
// Europe/Moscow fires at 10:00 Moscow time regardless of the host zone.
// The job runs in singleton mode: if a batch is still running when the next
// tick arrives, that tick is skipped rather than stacked.
package scheduler
