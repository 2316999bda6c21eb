package queue

import (
	"encoding/json"

	"github.com/sponza-next/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskNotificationEmail delivers one notification by email
	TaskNotificationEmail = constants.TaskNotificationEmail
	// TaskInvitationExpire sweeps overdue pending invitations
	TaskInvitationExpire = constants.TaskInvitationExpire
	// TaskSubscriptionExpire sweeps lapsed paid subscriptions
	TaskSubscriptionExpire = constants.TaskSubscriptionExpire
)

// NotificationEmailPayload email delivery task payload
type NotificationEmailPayload struct {
	NotificationID uint `json:"notification_id"`
}

// NewNotificationEmailTask creates an email delivery task
func NewNotificationEmailTask(payload NotificationEmailPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskNotificationEmail, body), nil
}

// NewInvitationExpireTask creates an invitation sweep task
func NewInvitationExpireTask() *asynq.Task {
	return asynq.NewTask(TaskInvitationExpire, nil)
}

// NewSubscriptionExpireTask creates a subscription sweep task
func NewSubscriptionExpireTask() *asynq.Task {
	return asynq.NewTask(TaskSubscriptionExpire, nil)
}
