// Package job runs background work on Asynq, a Redis-backed task queue.
//
// Producers enqueue through JobService.Client; the worker server started by
// Start executes the registered handlers.
package job

import (
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"

	"github.com/deppfellow/talent-catalog/internal/config"
)

// Queue names, highest priority first.
const (
	QueueCritical = "critical"
	QueueDefault  = "default"
	QueueLow      = "low"
)

type JobService struct {
	Client *asynq.Client
	server *asynq.Server
	logger *zerolog.Logger

	mailer Mailer
	names  CountryNameWarmer
}

func NewJobService(logger *zerolog.Logger, cfg *config.Config) *JobService {
	redisOpt := asynq.RedisClientOpt{Addr: cfg.Redis.Address}

	server := asynq.NewServer(redisOpt, asynq.Config{
		Concurrency: 10,
		Queues: map[string]int{
			QueueCritical: 6,
			QueueDefault:  3,
			QueueLow:      1,
		},
		Logger: asynqLogger{logger},
	})

	return &JobService{
		Client: asynq.NewClient(redisOpt),
		server: server,
		logger: logger,
	}
}

// Start registers the handlers and starts the workers. It does not block.
func (j *JobService) Start() error {
	j.logger.Info().Msg("starting background job server")
	return j.server.Start(j.mux())
}

func (j *JobService) mux() *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.HandleFunc(TaskWelcome, j.handleWelcomeEmailTask)
	mux.HandleFunc(TaskWarmCountryNames, j.handleWarmCountryNamesTask)
	return mux
}

// Stop waits for running tasks, then releases the client.
func (j *JobService) Stop() {
	j.logger.Info().Msg("stopping background job server")
	j.server.Shutdown()
	if err := j.Client.Close(); err != nil {
		j.logger.Warn().Err(err).Msg("failed to close job client")
	}
}

// asynqLogger routes Asynq's own logging into zerolog.
type asynqLogger struct {
	log *zerolog.Logger
}

func (l asynqLogger) Debug(args ...any) {
	l.log.Debug().Str("component", "asynq").Msg(fmt.Sprint(args...))
}
func (l asynqLogger) Info(args ...any) {
	l.log.Info().Str("component", "asynq").Msg(fmt.Sprint(args...))
}
func (l asynqLogger) Warn(args ...any) {
	l.log.Warn().Str("component", "asynq").Msg(fmt.Sprint(args...))
}
func (l asynqLogger) Error(args ...any) {
	l.log.Error().Str("component", "asynq").Msg(fmt.Sprint(args...))
}
func (l asynqLogger) Fatal(args ...any) {
	l.log.Fatal().Str("component", "asynq").Msg(fmt.Sprint(args...))
}
