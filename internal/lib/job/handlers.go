package job

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
)

// Mailer sends the emails jobs produce. *email.Client satisfies it.
type Mailer interface {
	SendWelcomeEmail(to, firstName, username string) error
}

// CountryNameWarmer rebuilds the cached country name index.
type CountryNameWarmer interface {
	WarmCountryNames(ctx context.Context) error
}

// InitHandlers hands the job handlers their collaborators. It must run
// before Start.
func (j *JobService) InitHandlers(mailer Mailer, names CountryNameWarmer) {
	j.mailer = mailer
	j.names = names
}

func (j *JobService) handleWelcomeEmailTask(ctx context.Context, t *asynq.Task) error {
	var p WelcomeEmailPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return fmt.Errorf("failed to unmarshal welcome email payload: %w: %w", err, asynq.SkipRetry)
	}

	log := j.logger.With().Str("type", TaskWelcome).Str("to", p.To).Logger()

	if j.mailer == nil {
		return fmt.Errorf("no mailer configured: %w", asynq.SkipRetry)
	}

	log.Info().Msg("processing welcome email task")
	if err := j.mailer.SendWelcomeEmail(p.To, p.FirstName, p.Username); err != nil {
		log.Error().Err(err).Msg("failed to send welcome email")
		return err
	}

	log.Info().Msg("sent welcome email")
	return nil
}

func (j *JobService) handleWarmCountryNamesTask(ctx context.Context, _ *asynq.Task) error {
	if j.names == nil {
		return fmt.Errorf("no country name warmer configured: %w", asynq.SkipRetry)
	}

	if err := j.names.WarmCountryNames(ctx); err != nil {
		j.logger.Error().Err(err).Str("type", TaskWarmCountryNames).Msg("failed to warm country names")
		return err
	}

	j.logger.Debug().Str("type", TaskWarmCountryNames).Msg("country names cache warmed")
	return nil
}
