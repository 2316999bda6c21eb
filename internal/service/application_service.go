package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/sponza-next/internal/constants"
	"github.com/sponza-next/internal/logger"
	"github.com/sponza-next/internal/models"
	"github.com/sponza-next/internal/repository"

	"gorm.io/gorm"
)

// ApplicationService influencer applications and the brand's review of
// them. Every transition adjusts the campaign counters in the same
// transaction.
type ApplicationService struct {
	applicationRepo     repository.ApplicationRepository
	campaignRepo        repository.CampaignRepository
	userRepo            repository.UserRepository
	notificationService *NotificationService
}

// NewApplicationService creates the application service
func NewApplicationService(
	applicationRepo repository.ApplicationRepository,
	campaignRepo repository.CampaignRepository,
	userRepo repository.UserRepository,
	notificationService *NotificationService,
) *ApplicationService {
	return &ApplicationService{
		applicationRepo:     applicationRepo,
		campaignRepo:        campaignRepo,
		userRepo:            userRepo,
		notificationService: notificationService,
	}
}

// ApplyInput influencer proposal fields
type ApplyInput struct {
	CampaignID     uint
	Message        string
	ProposedBudget *models.Money
}

// Apply submits a proposal against an active campaign. One live
// application per influencer per campaign; a withdrawn row does not
// block re-applying because the unique index ignores soft-deleted rows
// only, so withdrawn rows are reused.
func (s *ApplicationService) Apply(influencerID uint, input ApplyInput) (*models.Application, error) {
	campaign, err := s.campaignRepo.GetByID(input.CampaignID)
	if err != nil {
		return nil, err
	}
	if campaign == nil {
		return nil, ErrNotFound
	}
	if campaign.Status != constants.CampaignStatusActive {
		return nil, ErrCampaignNotActive
	}

	message := strings.TrimSpace(input.Message)
	if message == "" {
		return nil, ErrProfileEmpty
	}

	existing, err := s.applicationRepo.GetByCampaignAndInfluencer(input.CampaignID, influencerID)
	if err != nil {
		return nil, err
	}
	if existing != nil && existing.Status != constants.ApplicationStatusWithdrawn {
		return nil, ErrDuplicateApplication
	}

	now := time.Now()
	var application *models.Application
	err = s.applicationRepo.Transaction(func(tx *gorm.DB) error {
		applicationTx := s.applicationRepo.WithTx(tx)
		campaignTx := s.campaignRepo.WithTx(tx)

		if existing != nil {
			// Re-apply on a withdrawn row. Counters: back into total and pending.
			rows, err := applicationTx.UpdateStatusIf(existing.ID, constants.ApplicationStatusWithdrawn, map[string]interface{}{
				"status":          constants.ApplicationStatusApplied,
				"message":         message,
				"proposed_budget": input.ProposedBudget,
				"brand_response":  "",
				"withdrawn_at":    nil,
				"updated_at":      now,
			})
			if err != nil {
				return err
			}
			if rows == 0 {
				return ErrDuplicateApplication
			}
			existing.Status = constants.ApplicationStatusApplied
			existing.Message = message
			existing.ProposedBudget = input.ProposedBudget
			existing.WithdrawnAt = nil
			existing.UpdatedAt = now
			application = existing
			return campaignTx.ApplyCounterDelta(campaign.ID, repository.CampaignCounterDelta{Pending: 1})
		}

		application = &models.Application{
			CampaignID:     input.CampaignID,
			InfluencerID:   influencerID,
			Message:        message,
			ProposedBudget: input.ProposedBudget,
			Status:         constants.ApplicationStatusApplied,
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		if err := applicationTx.Create(application); err != nil {
			// Unique index on (campaign_id, influencer_id): a concurrent
			// apply won the race.
			return fmt.Errorf("%w: %v", ErrDuplicateApplication, err)
		}
		return campaignTx.ApplyCounterDelta(campaign.ID, repository.CampaignCounterDelta{Total: 1, Pending: 1})
	})
	if err != nil {
		return nil, err
	}

	s.notify(campaign.BrandID, constants.NotificationTypeApplicationReceived,
		"New application",
		fmt.Sprintf("An influencer applied to your campaign %q.", campaign.Title))
	return application, nil
}

// Accept moves applied -> accepted for a campaign the brand owns
func (s *ApplicationService) Accept(brandID, applicationID uint, response string) (*models.Application, error) {
	return s.review(brandID, applicationID, constants.ApplicationStatusAccepted, response)
}

// Reject moves applied -> rejected for a campaign the brand owns
func (s *ApplicationService) Reject(brandID, applicationID uint, reason string) (*models.Application, error) {
	return s.review(brandID, applicationID, constants.ApplicationStatusRejected, reason)
}

func (s *ApplicationService) review(brandID, applicationID uint, target, response string) (*models.Application, error) {
	application, err := s.applicationRepo.GetByID(applicationID)
	if err != nil {
		return nil, err
	}
	if application == nil {
		return nil, ErrNotFound
	}
	campaign, err := s.campaignRepo.GetByID(application.CampaignID)
	if err != nil {
		return nil, err
	}
	if campaign == nil {
		return nil, ErrNotFound
	}
	if campaign.BrandID != brandID {
		return nil, ErrForbidden
	}
	if application.Status != constants.ApplicationStatusApplied {
		return nil, ErrApplicationNotPending
	}

	now := time.Now()
	updates := map[string]interface{}{
		"status":         target,
		"brand_response": strings.TrimSpace(response),
		"updated_at":     now,
	}
	delta := repository.CampaignCounterDelta{Pending: -1}
	notifType := constants.NotificationTypeApplicationAccepted
	notifTitle := "Application accepted"
	if target == constants.ApplicationStatusAccepted {
		updates["accepted_at"] = now
		delta.Accepted = 1
	} else {
		updates["rejected_at"] = now
		delta.Rejected = 1
		notifType = constants.NotificationTypeApplicationRejected
		notifTitle = "Application rejected"
	}

	err = s.applicationRepo.Transaction(func(tx *gorm.DB) error {
		rows, err := s.applicationRepo.WithTx(tx).UpdateStatusIf(applicationID, constants.ApplicationStatusApplied, updates)
		if err != nil {
			return err
		}
		if rows == 0 {
			return ErrApplicationNotPending
		}
		return s.campaignRepo.WithTx(tx).ApplyCounterDelta(campaign.ID, delta)
	})
	if err != nil {
		return nil, err
	}

	application.Status = target
	application.BrandResponse = strings.TrimSpace(response)
	application.UpdatedAt = now
	if target == constants.ApplicationStatusAccepted {
		application.AcceptedAt = &now
	} else {
		application.RejectedAt = &now
	}

	s.notify(application.InfluencerID, notifType, notifTitle,
		fmt.Sprintf("Your application to %q was %s.", campaign.Title, target))
	return application, nil
}

// Withdraw lets an influencer retract a still-pending application.
// The row stays counted in total applications; only pending drops.
func (s *ApplicationService) Withdraw(influencerID, applicationID uint) (*models.Application, error) {
	application, err := s.applicationRepo.GetByID(applicationID)
	if err != nil {
		return nil, err
	}
	if application == nil {
		return nil, ErrNotFound
	}
	if application.InfluencerID != influencerID {
		return nil, ErrForbidden
	}
	if application.Status != constants.ApplicationStatusApplied {
		return nil, ErrApplicationNotPending
	}

	now := time.Now()
	err = s.applicationRepo.Transaction(func(tx *gorm.DB) error {
		rows, err := s.applicationRepo.WithTx(tx).UpdateStatusIf(applicationID, constants.ApplicationStatusApplied, map[string]interface{}{
			"status":       constants.ApplicationStatusWithdrawn,
			"withdrawn_at": now,
			"updated_at":   now,
		})
		if err != nil {
			return err
		}
		if rows == 0 {
			return ErrApplicationNotPending
		}
		return s.campaignRepo.WithTx(tx).ApplyCounterDelta(application.CampaignID, repository.CampaignCounterDelta{Pending: -1})
	})
	if err != nil {
		return nil, err
	}
	application.Status = constants.ApplicationStatusWithdrawn
	application.WithdrawnAt = &now
	application.UpdatedAt = now
	return application, nil
}

// GetForInfluencer fetches an application the influencer owns
func (s *ApplicationService) GetForInfluencer(influencerID, applicationID uint) (*models.Application, error) {
	application, err := s.applicationRepo.GetByID(applicationID)
	if err != nil {
		return nil, err
	}
	if application == nil {
		return nil, ErrNotFound
	}
	if application.InfluencerID != influencerID {
		return nil, ErrForbidden
	}
	return application, nil
}

// ListForInfluencer lists the influencer's own applications
func (s *ApplicationService) ListForInfluencer(influencerID uint, filter repository.ApplicationListFilter) ([]models.Application, int64, error) {
	filter.InfluencerID = influencerID
	filter.BrandID = 0
	return s.applicationRepo.List(filter)
}

// ListForBrandCampaign lists applications against a campaign the brand owns
func (s *ApplicationService) ListForBrandCampaign(brandID, campaignID uint, filter repository.ApplicationListFilter) ([]models.Application, int64, error) {
	campaign, err := s.campaignRepo.GetByID(campaignID)
	if err != nil {
		return nil, 0, err
	}
	if campaign == nil {
		return nil, 0, ErrNotFound
	}
	if campaign.BrandID != brandID {
		return nil, 0, ErrForbidden
	}
	filter.CampaignID = campaignID
	filter.InfluencerID = 0
	return s.applicationRepo.List(filter)
}

// ListAdmin lists applications without ownership scoping
func (s *ApplicationService) ListAdmin(filter repository.ApplicationListFilter) ([]models.Application, int64, error) {
	return s.applicationRepo.List(filter)
}

// HasAcceptedApplication reports whether the influencer holds an accepted
// application on the campaign (content submission gate)
func (s *ApplicationService) HasAcceptedApplication(campaignID, influencerID uint) (bool, error) {
	application, err := s.applicationRepo.GetByCampaignAndInfluencer(campaignID, influencerID)
	if err != nil {
		return false, err
	}
	return application != nil && application.Status == constants.ApplicationStatusAccepted, nil
}

func (s *ApplicationService) notify(userID uint, notifType, title, body string) {
	if s.notificationService == nil {
		return
	}
	if err := s.notificationService.Notify(userID, notifType, title, body); err != nil {
		logger.Warnw("application_notify_failed", "user_id", userID, "error", err)
	}
}
