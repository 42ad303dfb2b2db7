// Package service holds the operations behind each admin endpoint.
//
// Services validate business preconditions (duplicate names, fixed lists),
// call repositories and translate their errors through sqlerr, so handlers
// only ever see *errs.HTTPError values. Repositories, caches and the job
// queue are reached through the small interfaces declared next to each
// service.
package service

import (
	"context"
	"errors"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"

	"github.com/deppfellow/talent-catalog/internal/errs"
	"github.com/deppfellow/talent-catalog/internal/logger"
	"github.com/deppfellow/talent-catalog/internal/sqlerr"
)

// TaskEnqueuer pushes background tasks. *asynq.Client satisfies it.
type TaskEnqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

type base struct {
	log *zerolog.Logger
}

func (b base) logger(ctx context.Context) *zerolog.Logger {
	return logger.FromContext(ctx, b.log)
}

// fail converts a repository error for the client. Anything that ends up
// as a 5xx is logged with its original cause first.
func (b base) fail(ctx context.Context, operation string, err error) error {
	converted := sqlerr.HandleError(err)

	var httpErr *errs.HTTPError
	if errors.As(converted, &httpErr) && httpErr.Status >= 500 {
		b.logger(ctx).Error().
			Err(err).
			Str("operation", operation).
			Msg("repository call failed")
	}
	return converted
}

// enqueue pushes task, logging instead of failing; a lost side task never
// undoes the write that triggered it.
func (b base) enqueue(ctx context.Context, queue TaskEnqueuer, task *asynq.Task, err error) {
	if err == nil && queue != nil {
		_, err = queue.EnqueueContext(ctx, task)
	}
	if err != nil {
		b.logger(ctx).Warn().Err(err).Msg("failed to enqueue background task")
	}
}
