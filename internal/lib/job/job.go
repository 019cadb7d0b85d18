// Package job runs background work on an asynq worker backed by Redis.
//
// The HTTP layer enqueues tasks through Client; the embedded worker
// consumes them. Task handlers must be idempotent since asynq retries
// failed tasks.
package job

import (
	"github.com/firmdata/dataroom/internal/config"
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"
)

// JobService bundles the asynq client (enqueue side) and server
// (worker side).
type JobService struct {
	Client *asynq.Client

	server *asynq.Server

	logger *zerolog.Logger
}

func NewJobService(logger *zerolog.Logger, cfg *config.Config) *JobService {
	redisAddr := cfg.Redis.Address

	client := asynq.NewClient(asynq.RedisClientOpt{
		Addr: redisAddr,
	})

	server := asynq.NewServer(
		asynq.RedisClientOpt{Addr: redisAddr},
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"critical": 6,
				"default":  3,
				"low":      1,
			},
		},
	)

	return &JobService{
		Client: client,
		server: server,
		logger: logger,
	}
}

// Start registers task handlers and starts the worker. asynq's Start
// is non-blocking; workers run until Stop.
func (j *JobService) Start() error {
	mux := asynq.NewServeMux()

	mux.HandleFunc(TaskDatasetProcessed, j.handleDatasetProcessedTask)

	j.logger.Info().Msg("Starting background job server")

	if err := j.server.Start(mux); err != nil {
		return err
	}

	return nil
}

// Stop shuts down the worker and closes the enqueue client.
func (j *JobService) Stop() {
	j.logger.Info().Msg("Stopping background job server")
	j.server.Shutdown()
	j.Client.Close()
}
