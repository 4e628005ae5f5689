// Package jobs provides scheduled background tasks for the fulfillment core.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3
// to handle periodic operations required for receipt processing.
//
// # Available Jobs
//
// 1. ReceiptReextractionJob - Runs every 30 seconds to retry OCR for receipts
// stored with a degraded extraction
//
// # Usage
//
// Jobs are managed through JobManager which provides a unified interface:
//
//	// Create job manager with required handlers
//	jobManager, err := jobs.NewJobManager(reextractHandler, logger)
//	if err != nil {
//		log.Fatal("Failed to create jobs:", err)
//	}
//
//	// Start all jobs
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//
//	// Stop all jobs when shutting down
//	defer jobManager.StopAll()
//
// # Scheduling
//
// The reextraction job uses the cron expression "*/30 * * * * *" which means
// it runs every 30 seconds. Degraded receipts are retried oldest first, so a
// long extractor outage drains in submission order once it recovers.
//
// # Error Handling
//
// - A failing retry pass is logged and retried on the next tick
// - Individual receipts that still fail extraction stay degraded and are
// picked up again on the following pass
package jobs
