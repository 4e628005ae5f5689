package jobs

import (
	"fmt"
	"log/slog"

	"grocery/internal/core/application/usecases/commands"
)

// JobManager coordinates all scheduled jobs in the application.
// Provides a unified interface to start and stop all background jobs.
type JobManager struct {
	receiptReextractionJob *ReceiptReextractionJob
}

// NewJobManager creates a new job manager with all required jobs.
// Takes command handlers as dependencies to wire up the job execution.
func NewJobManager(
	reextractHandler commands.ReextractReceiptsCommandHandler,
	logger *slog.Logger,
) (*JobManager, error) {
	reextractionJob, err := NewReceiptReextractionJob(reextractHandler, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create receipt reextraction job: %w", err)
	}

	return &JobManager{
		receiptReextractionJob: reextractionJob,
	}, nil
}

// StartAll starts all scheduled jobs.
// Returns an error if any job fails to start.
func (jm *JobManager) StartAll() error {
	if err := jm.receiptReextractionJob.Start(); err != nil {
		return fmt.Errorf("failed to start receipt reextraction job: %w", err)
	}

	return nil
}

// StopAll stops all scheduled jobs gracefully.
func (jm *JobManager) StopAll() {
	jm.receiptReextractionJob.Stop()
}
