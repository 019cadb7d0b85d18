package job

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/firmdata/dataroom/internal/config"
	"github.com/firmdata/dataroom/internal/lib/email"
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"
)

var emailClient *email.Client

// InitHandlers wires handler dependencies. Must run before Start.
func (j *JobService) InitHandlers(config *config.Config, logger *zerolog.Logger) {
	emailClient = email.NewClient(config, logger)
}

func (j *JobService) handleDatasetProcessedTask(ctx context.Context, t *asynq.Task) error {
	var p DatasetProcessedPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return fmt.Errorf("failed to unmarshal dataset processed payload: %w", err)
	}

	j.logger.Info().
		Str("type", "dataset_processed").
		Str("to", p.To).
		Str("dataset_id", p.DatasetID).
		Msg("Processing dataset notification task")

	err := emailClient.SendDatasetProcessedEmail(p.To, p.DatasetName, p.DatasetID, p.FilesProcessed)
	if err != nil {
		j.logger.Error().
			Str("type", "dataset_processed").
			Str("to", p.To).
			Str("dataset_id", p.DatasetID).
			Err(err).
			Msg("Failed to send dataset processed email")
		return err // asynq marks the task failed and schedules a retry
	}

	j.logger.Info().
		Str("type", "dataset_processed").
		Str("to", p.To).
		Str("dataset_id", p.DatasetID).
		Msg("Successfully sent dataset processed email")

	return nil
}
