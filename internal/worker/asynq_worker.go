package worker

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/sponza-next/internal/logger"
	"github.com/sponza-next/internal/provider"
	"github.com/sponza-next/internal/queue"
	"github.com/sponza-next/internal/service"

	"github.com/hibiken/asynq"
)

const sweepBatchSize = 200

// Consumer asynchronous task consumer
type Consumer struct {
	*provider.Container
}

// NewConsumer creates the consumer
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{
		Container: c,
	}
}

// Register registers task handlers
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskNotificationEmail, c.handleNotificationEmail)
	mux.HandleFunc(queue.TaskInvitationExpire, c.handleInvitationExpire)
	mux.HandleFunc(queue.TaskSubscriptionExpire, c.handleSubscriptionExpire)
}

func (c *Consumer) handleNotificationEmail(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_notification_email_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.NotificationEmailPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_notification_email_unmarshal_failed", "error", err)
		return err
	}
	if payload.NotificationID == 0 {
		logger.Debugw("worker_notification_email_skip_invalid_payload", "notification_id", payload.NotificationID)
		return nil
	}
	notification, err := c.NotificationService.GetByID(payload.NotificationID)
	if err != nil {
		logger.Warnw("worker_notification_email_fetch_failed", "notification_id", payload.NotificationID, "error", err)
		return err
	}
	if notification == nil {
		logger.Debugw("worker_notification_email_skip_not_found", "notification_id", payload.NotificationID)
		return nil
	}
	user, err := c.UserRepo.GetByID(notification.UserID)
	if err != nil {
		logger.Warnw("worker_notification_email_fetch_user_failed", "notification_id", notification.ID, "user_id", notification.UserID, "error", err)
		return err
	}
	if user == nil || strings.TrimSpace(user.Email) == "" {
		logger.Debugw("worker_notification_email_skip_empty_receiver", "notification_id", notification.ID)
		return nil
	}
	if c.EmailService == nil {
		logger.Warnw("worker_notification_email_skip_email_service_nil", "notification_id", notification.ID)
		return nil
	}
	if err := c.EmailService.SendNotificationEmail(user.Email, notification.Title, notification.Body); err != nil {
		if err == service.ErrEmailServiceNotConfigured {
			logger.Debugw("worker_notification_email_skip_disabled", "notification_id", notification.ID)
			return nil
		}
		logger.Warnw("worker_notification_email_send_failed",
			"notification_id", notification.ID,
			"user_id", notification.UserID,
			"error", err,
		)
		return err
	}
	return nil
}

func (c *Consumer) handleInvitationExpire(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		return nil
	}
	swept, err := c.InvitationService.SweepExpired(time.Now(), sweepBatchSize)
	if err != nil {
		logger.Warnw("worker_invitation_expire_failed", "error", err)
		return err
	}
	if swept > 0 {
		logger.Infow("worker_invitation_expire_done", "swept", swept)
	}
	return nil
}

func (c *Consumer) handleSubscriptionExpire(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		return nil
	}
	swept, err := c.SubscriptionService.SweepExpired(time.Now(), sweepBatchSize)
	if err != nil {
		logger.Warnw("worker_subscription_expire_failed", "error", err)
		return err
	}
	if swept > 0 {
		logger.Infow("worker_subscription_expire_done", "swept", swept)
	}
	return nil
}
