package job

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

const (
	TaskDatasetProcessed = "dataset:processed"
)

// DatasetProcessedPayload carries everything the notification email
// needs, so the handler never touches the database.
type DatasetProcessedPayload struct {
	To             string `json:"to"`
	DatasetName    string `json:"dataset_name"`
	DatasetID      string `json:"dataset_id"`
	FilesProcessed int    `json:"files_processed"`
}

// NewDatasetProcessedTask builds the queued notification task.
func NewDatasetProcessedTask(to, datasetName, datasetID string, filesProcessed int) (*asynq.Task, error) {
	payload, err := json.Marshal(DatasetProcessedPayload{
		To:             to,
		DatasetName:    datasetName,
		DatasetID:      datasetID,
		FilesProcessed: filesProcessed,
	})
	if err != nil {
		return nil, err
	}

	return asynq.NewTask(
		TaskDatasetProcessed,
		payload,
		asynq.MaxRetry(3),
		asynq.Queue("default"),
		asynq.Timeout(30*time.Second),
	), nil
}
