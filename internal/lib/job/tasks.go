package job

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

const (
	// TaskWelcome sends the welcome email to a new admin user.
	TaskWelcome = "email:welcome"
	// TaskWarmCountryNames rebuilds the cached country name index.
	TaskWarmCountryNames = "cache:country-names"
)

type WelcomeEmailPayload struct {
	To        string `json:"to"`
	FirstName string `json:"first_name"`
	Username  string `json:"username"`
}

func NewWelcomeEmailTask(to, firstName, username string) (*asynq.Task, error) {
	payload, err := json.Marshal(WelcomeEmailPayload{
		To:        to,
		FirstName: firstName,
		Username:  username,
	})
	if err != nil {
		return nil, err
	}

	return asynq.NewTask(
		TaskWelcome,
		payload,
		asynq.MaxRetry(3),
		asynq.Queue(QueueDefault),
		asynq.Timeout(30*time.Second),
	), nil
}

// NewWarmCountryNamesTask is unique for a minute so a burst of country
// edits rebuilds the index once.
func NewWarmCountryNamesTask() (*asynq.Task, error) {
	return asynq.NewTask(
		TaskWarmCountryNames,
		nil,
		asynq.MaxRetry(1),
		asynq.Queue(QueueLow),
		asynq.Timeout(10*time.Second),
		asynq.Unique(time.Minute),
	), nil
}
