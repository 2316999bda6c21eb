package service

import (
	"time"

	"github.com/sponza-next/internal/logger"
	"github.com/sponza-next/internal/models"
	"github.com/sponza-next/internal/queue"
	"github.com/sponza-next/internal/repository"
)

// NotificationService in-app notifications with best-effort email fanout
type NotificationService struct {
	repo        repository.NotificationRepository
	queueClient *queue.Client
}

// NewNotificationService creates the notification service
func NewNotificationService(repo repository.NotificationRepository, queueClient *queue.Client) *NotificationService {
	return &NotificationService{
		repo:        repo,
		queueClient: queueClient,
	}
}

// Notify stores a notification and queues its email delivery. Queue
// failures are logged, not returned: the in-app copy is the source of
// truth.
func (s *NotificationService) Notify(userID uint, notifType, title, body string) error {
	if s == nil || s.repo == nil || userID == 0 {
		return nil
	}
	now := time.Now()
	notification := &models.Notification{
		UserID:    userID,
		Type:      notifType,
		Title:     title,
		Body:      body,
		Read:      false,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Create(notification); err != nil {
		return err
	}

	if s.queueClient != nil && s.queueClient.Enabled() {
		if err := s.queueClient.EnqueueNotificationEmail(queue.NotificationEmailPayload{
			NotificationID: notification.ID,
		}); err != nil {
			logger.Warnw("notification_email_enqueue_failed",
				"notification_id", notification.ID,
				"error", err,
			)
		}
	}
	return nil
}

// List queries a user's notifications
func (s *NotificationService) List(userID uint, onlyUnread bool, page, pageSize int) ([]models.Notification, int64, error) {
	if userID == 0 {
		return []models.Notification{}, 0, nil
	}
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	if pageSize > 100 {
		pageSize = 100
	}
	return s.repo.List(repository.NotificationListFilter{
		Page:       page,
		PageSize:   pageSize,
		UserID:     userID,
		OnlyUnread: onlyUnread,
	})
}

// UnreadCount counts unread notifications
func (s *NotificationService) UnreadCount(userID uint) (int64, error) {
	return s.repo.CountUnread(userID)
}

// MarkRead marks specific notifications read
func (s *NotificationService) MarkRead(userID uint, ids []uint) (int64, error) {
	return s.repo.MarkRead(userID, ids)
}

// MarkAllRead marks every notification read
func (s *NotificationService) MarkAllRead(userID uint) (int64, error) {
	return s.repo.MarkAllRead(userID)
}

// GetByID fetches a notification (worker use)
func (s *NotificationService) GetByID(id uint) (*models.Notification, error) {
	return s.repo.GetByID(id)
}
