package job

import (
	"context"
	"encoding/json"
	"time"

	"github.com/deppfellow/contacts/internal/model"
	"github.com/hibiken/asynq"
)

const (
	// TaskContactCreated is the task type enqueued after a successful create.
	TaskContactCreated = "contact:created"
)

// ContactCreatedPayload is the JSON payload of TaskContactCreated.
type ContactCreatedPayload struct {
	Contact model.Contact `json:"contact"`
}

// NewContactCreatedTask builds a TaskContactCreated task on the low queue
// with up to 3 retries and a 30 second timeout.
func NewContactCreatedTask(contact model.Contact) (*asynq.Task, error) {
	payload, err := json.Marshal(ContactCreatedPayload{Contact: contact})
	if err != nil {
		return nil, err
	}

	return asynq.NewTask(
		TaskContactCreated,
		payload,
		asynq.MaxRetry(3),
		asynq.Queue("low"),
		asynq.Timeout(30*time.Second),
	), nil
}

// EnqueueContactCreated enqueues a TaskContactCreated for contact.
func (j *JobService) EnqueueContactCreated(ctx context.Context, contact model.Contact) error {
	task, err := NewContactCreatedTask(contact)
	if err != nil {
		return err
	}

	info, err := j.Client.EnqueueContext(ctx, task)
	if err != nil {
		return err
	}

	j.logger.Debug().
		Str("task_id", info.ID).
		Str("queue", info.Queue).
		Str("contact_name", contact.ContactName).
		Msg("Enqueued contact created task")

	return nil
}
