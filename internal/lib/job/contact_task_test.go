package job

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/deppfellow/contacts/internal/model"
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewContactCreatedTask(t *testing.T) {
	contact := model.Contact{ContactName: "Alice", PhoneNumber: "555-0100"}

	task, err := NewContactCreatedTask(contact)
	require.NoError(t, err)
	assert.Equal(t, TaskContactCreated, task.Type())

	var payload ContactCreatedPayload
	require.NoError(t, json.Unmarshal(task.Payload(), &payload))
	assert.Equal(t, contact, payload.Contact)
}

func TestHandleContactCreatedTask(t *testing.T) {
	logger := zerolog.Nop()
	j := &JobService{logger: &logger}

	t.Run("bad payload is not retried", func(t *testing.T) {
		err := j.handleContactCreatedTask(context.Background(), asynq.NewTask(TaskContactCreated, []byte("{")))
		require.Error(t, err)
		assert.True(t, errors.Is(err, asynq.SkipRetry))
	})

	t.Run("without an email client the task only logs", func(t *testing.T) {
		task, err := NewContactCreatedTask(model.Contact{ContactName: "Alice"})
		require.NoError(t, err)

		assert.NoError(t, j.handleContactCreatedTask(context.Background(), task))
	})
}
