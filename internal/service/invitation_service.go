package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/sponza-next/internal/config"
	"github.com/sponza-next/internal/constants"
	"github.com/sponza-next/internal/logger"
	"github.com/sponza-next/internal/models"
	"github.com/sponza-next/internal/repository"
)

// InvitationService brand-to-influencer outreach with time-boxed offers.
// Expiry is derived from expires_at when reading; the stored status only
// changes through responses and the background sweep.
type InvitationService struct {
	cfg                 *config.Config
	invitationRepo      repository.InvitationRepository
	campaignRepo        repository.CampaignRepository
	userRepo            repository.UserRepository
	notificationService *NotificationService
}

// NewInvitationService creates the invitation service
func NewInvitationService(
	cfg *config.Config,
	invitationRepo repository.InvitationRepository,
	campaignRepo repository.CampaignRepository,
	userRepo repository.UserRepository,
	notificationService *NotificationService,
) *InvitationService {
	return &InvitationService{
		cfg:                 cfg,
		invitationRepo:      invitationRepo,
		campaignRepo:        campaignRepo,
		userRepo:            userRepo,
		notificationService: notificationService,
	}
}

// EffectiveStatus resolves the status a reader should see: a stored
// pending invitation past its expiry reads as expired.
func EffectiveStatus(invitation *models.Invitation, now time.Time) string {
	if invitation == nil {
		return ""
	}
	if invitation.Status == constants.InvitationStatusPending && !invitation.ExpiresAt.After(now) {
		return constants.InvitationStatusExpired
	}
	return invitation.Status
}

// CreateInvitationInput brand outreach fields
type CreateInvitationInput struct {
	InfluencerID uint
	CampaignID   *uint
	Message      string
	Terms        string
	ExpiresInDays int
}

// Create sends an invitation. One live pending invitation per
// brand/influencer/campaign tuple; an expired one does not block.
func (s *InvitationService) Create(brandID uint, input CreateInvitationInput) (*models.Invitation, error) {
	if input.InfluencerID == brandID {
		return nil, ErrSelfInvitation
	}
	message := strings.TrimSpace(input.Message)
	if message == "" {
		return nil, ErrProfileEmpty
	}

	influencer, err := s.userRepo.GetByID(input.InfluencerID)
	if err != nil {
		return nil, err
	}
	if influencer == nil || influencer.Role != constants.UserRoleInfluencer {
		return nil, ErrNotFound
	}
	if influencer.Status != constants.UserStatusActive {
		return nil, ErrUserDisabled
	}

	if input.CampaignID != nil {
		campaign, err := s.campaignRepo.GetByID(*input.CampaignID)
		if err != nil {
			return nil, err
		}
		if campaign == nil {
			return nil, ErrNotFound
		}
		if campaign.BrandID != brandID {
			return nil, ErrForbidden
		}
	}

	now := time.Now()
	existing, err := s.invitationRepo.GetPendingByBrandAndInfluencer(brandID, input.InfluencerID, input.CampaignID, now)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrDuplicateInvitation
	}

	days := input.ExpiresInDays
	if days <= 0 {
		days = s.defaultExpireDays()
	}
	invitation := &models.Invitation{
		BrandID:      brandID,
		InfluencerID: input.InfluencerID,
		CampaignID:   input.CampaignID,
		Message:      message,
		Terms:        strings.TrimSpace(input.Terms),
		Status:       constants.InvitationStatusPending,
		ExpiresAt:    now.AddDate(0, 0, days),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.invitationRepo.Create(invitation); err != nil {
		return nil, err
	}

	s.notify(input.InfluencerID, constants.NotificationTypeInvitationReceived,
		"New collaboration invitation",
		fmt.Sprintf("A brand invited you to collaborate. The offer expires on %s.", invitation.ExpiresAt.Format("2006-01-02")))
	return invitation, nil
}

// RespondInput influencer answer to an invitation
type RespondInput struct {
	Accept   bool
	Message  string
	Pricing  *models.Money
	Timeline string
}

// Respond accepts or declines a pending invitation. An invitation past
// its expiry cannot be answered even if the sweep has not run yet.
func (s *InvitationService) Respond(influencerID, invitationID uint, input RespondInput) (*models.Invitation, error) {
	invitation, err := s.invitationRepo.GetByID(invitationID)
	if err != nil {
		return nil, err
	}
	if invitation == nil {
		return nil, ErrNotFound
	}
	if invitation.InfluencerID != influencerID {
		return nil, ErrForbidden
	}

	now := time.Now()
	switch EffectiveStatus(invitation, now) {
	case constants.InvitationStatusPending:
	case constants.InvitationStatusExpired:
		return nil, ErrInvitationExpired
	default:
		return nil, ErrInvitationNotPending
	}

	target := constants.InvitationStatusDeclined
	updates := map[string]interface{}{
		"responded_at":     now,
		"response_message": strings.TrimSpace(input.Message),
		"updated_at":       now,
	}
	if input.Accept {
		target = constants.InvitationStatusAccepted
		updates["response_pricing"] = input.Pricing
		updates["response_timeline"] = strings.TrimSpace(input.Timeline)
	}
	updates["status"] = target

	rows, err := s.invitationRepo.UpdateStatusIf(invitationID, constants.InvitationStatusPending, updates)
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		return nil, ErrInvitationNotPending
	}

	invitation.Status = target
	invitation.RespondedAt = &now
	invitation.ResponseMessage = strings.TrimSpace(input.Message)
	if input.Accept {
		invitation.ResponsePricing = input.Pricing
		invitation.ResponseTimeline = strings.TrimSpace(input.Timeline)
	}
	invitation.UpdatedAt = now

	verb := "declined"
	if input.Accept {
		verb = "accepted"
	}
	s.notify(invitation.BrandID, constants.NotificationTypeInvitationResponded,
		"Invitation "+verb,
		fmt.Sprintf("An influencer %s your collaboration invitation.", verb))
	return invitation, nil
}

// GetForUser fetches an invitation visible to either side
func (s *InvitationService) GetForUser(userID, invitationID uint) (*models.Invitation, error) {
	invitation, err := s.invitationRepo.GetByID(invitationID)
	if err != nil {
		return nil, err
	}
	if invitation == nil {
		return nil, ErrNotFound
	}
	if invitation.BrandID != userID && invitation.InfluencerID != userID {
		return nil, ErrForbidden
	}
	invitation.Status = EffectiveStatus(invitation, time.Now())
	return invitation, nil
}

// ListForBrand lists invitations the brand sent, with derived expiry applied
func (s *InvitationService) ListForBrand(brandID uint, filter repository.InvitationListFilter) ([]models.Invitation, int64, error) {
	filter.BrandID = brandID
	filter.InfluencerID = 0
	return s.list(filter)
}

// ListForInfluencer lists invitations the influencer received
func (s *InvitationService) ListForInfluencer(influencerID uint, filter repository.InvitationListFilter) ([]models.Invitation, int64, error) {
	filter.InfluencerID = influencerID
	filter.BrandID = 0
	return s.list(filter)
}

// ListAdmin lists invitations without ownership scoping
func (s *InvitationService) ListAdmin(filter repository.InvitationListFilter) ([]models.Invitation, int64, error) {
	return s.list(filter)
}

func (s *InvitationService) list(filter repository.InvitationListFilter) ([]models.Invitation, int64, error) {
	invitations, total, err := s.invitationRepo.List(filter)
	if err != nil {
		return nil, 0, err
	}
	now := time.Now()
	for i := range invitations {
		invitations[i].Status = EffectiveStatus(&invitations[i], now)
	}
	return invitations, total, nil
}

// SweepExpired persists the derived expired status for lapsed pending
// invitations. The sweep is a cleanup; reads are already correct without it.
func (s *InvitationService) SweepExpired(now time.Time, limit int) (int, error) {
	lapsed, err := s.invitationRepo.ListExpiredPending(now, limit)
	if err != nil {
		return 0, err
	}
	swept := 0
	for i := range lapsed {
		rows, err := s.invitationRepo.UpdateStatusIf(lapsed[i].ID, constants.InvitationStatusPending, map[string]interface{}{
			"status":     constants.InvitationStatusExpired,
			"updated_at": now,
		})
		if err != nil {
			logger.Errorw("invitation_sweep_failed", "invitation_id", lapsed[i].ID, "error", err)
			continue
		}
		if rows > 0 {
			swept++
		}
	}
	return swept, nil
}

func (s *InvitationService) defaultExpireDays() int {
	if s.cfg != nil && s.cfg.Invitation.DefaultExpireDays > 0 {
		return s.cfg.Invitation.DefaultExpireDays
	}
	return 7
}

func (s *InvitationService) notify(userID uint, notifType, title, body string) {
	if s.notificationService == nil {
		return
	}
	if err := s.notificationService.Notify(userID, notifType, title, body); err != nil {
		logger.Warnw("invitation_notify_failed", "user_id", userID, "error", err)
	}
}
