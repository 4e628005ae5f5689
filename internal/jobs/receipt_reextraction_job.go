package jobs

import (
	"context"
	"log/slog"

	"grocery/internal/core/application/usecases/commands"
	"grocery/internal/core/domain/model/kernel"

	"github.com/robfig/cron/v3"
)

// ReceiptReextractionJob retries OCR for receipts that were stored with a
// degraded extraction because the extractor was unavailable at submission.
// Runs every 30 seconds as the system actor.
type ReceiptReextractionJob struct {
	handler commands.ReextractReceiptsCommandHandler
	actor   kernel.Actor
	cron    *cron.Cron
	logger  *slog.Logger
}

// NewReceiptReextractionJob creates a job that retries degraded extractions.
// Uses ReextractReceiptsCommandHandler to reprocess stored receipt images.
func NewReceiptReextractionJob(
	handler commands.ReextractReceiptsCommandHandler,
	logger *slog.Logger,
) (*ReceiptReextractionJob, error) {
	actor, err := kernel.NewActor(kernel.NewUUID(), kernel.RoleSystem)
	if err != nil {
		return nil, err
	}

	return &ReceiptReextractionJob{
		handler: handler,
		actor:   actor,
		cron:    cron.New(cron.WithSeconds()),
		logger:  logger.With("component", "receipt_reextraction_job"),
	}, nil
}

// Start begins the reextraction job to run every 30 seconds.
func (j *ReceiptReextractionJob) Start() error {
	_, err := j.cron.AddFunc("*/30 * * * * *", func() {
		ctx := context.Background()

		cmd, err := commands.NewReextractReceiptsCommand(j.actor)
		if err != nil {
			j.logger.ErrorContext(ctx, "Receipt reextraction command rejected", "error", err)
			return
		}

		retried, err := j.handler.Handle(ctx, cmd)
		if err != nil {
			j.logger.ErrorContext(ctx, "Receipt reextraction job failed", "error", err)
			return
		}

		if retried > 0 {
			j.logger.InfoContext(ctx, "Retried degraded receipt extractions", "count", retried)
		}
	})

	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Receipt reextraction job started (running every 30 seconds)")
	return nil
}

// Stop stops the reextraction job.
func (j *ReceiptReextractionJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Receipt reextraction job stopped")
}
