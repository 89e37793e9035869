package job

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/deppfellow/contacts/internal/config"
	"github.com/deppfellow/contacts/internal/lib/email"
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"
)

// InitHandlers wires the dependencies the task handlers need.
// Without a Resend key or a notify address the handlers only log.
func (j *JobService) InitHandlers(cfg *config.Config, logger *zerolog.Logger) {
	if cfg.Integration.ResendAPIKey == "" || cfg.Integration.NotifyEmail == "" {
		logger.Info().Msg("email notifications disabled, contact tasks will only be logged")
		return
	}

	j.emailClient = email.NewClient(cfg, logger)
	j.notifyEmail = cfg.Integration.NotifyEmail
}

// handleContactCreatedTask sends the new-contact notification.
// Returning an error makes Asynq retry the task.
func (j *JobService) handleContactCreatedTask(ctx context.Context, t *asynq.Task) error {
	var p ContactCreatedPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return fmt.Errorf("failed to unmarshal contact created payload: %w: %w", err, asynq.SkipRetry)
	}

	logger := j.logger.With().
		Str("type", TaskContactCreated).
		Str("contact_name", p.Contact.ContactName).
		Logger()

	if j.emailClient == nil {
		logger.Info().Msg("Contact created")
		return nil
	}

	logger.Info().Str("to", j.notifyEmail).Msg("Processing contact created task")

	if err := j.emailClient.SendContactCreatedEmail(j.notifyEmail, p.Contact); err != nil {
		logger.Error().Err(err).Msg("Failed to send contact created email")
		return err
	}

	logger.Info().Msg("Successfully sent contact created email")

	return nil
}
