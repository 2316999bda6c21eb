package provider

import (
	"github.com/sponza-next/internal/authz"
	"github.com/sponza-next/internal/cache"
	"github.com/sponza-next/internal/config"
	"github.com/sponza-next/internal/logger"
	"github.com/sponza-next/internal/models"
	"github.com/sponza-next/internal/queue"
	"github.com/sponza-next/internal/repository"
	"github.com/sponza-next/internal/service"
)

// Container wires repositories and services once at startup
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client

	// Repositories
	AdminRepo        repository.AdminRepository
	UserRepo         repository.UserRepository
	CampaignRepo     repository.CampaignRepository
	ApplicationRepo  repository.ApplicationRepository
	InvitationRepo   repository.InvitationRepository
	ContentRepo      repository.ContentRepository
	SubscriptionRepo repository.SubscriptionRepository
	PaymentRepo      repository.PaymentRepository
	AffiliateRepo    repository.AffiliateRepository
	TransactionRepo  repository.TransactionRepository
	NotificationRepo repository.NotificationRepository
	UserLoginLogRepo repository.UserLoginLogRepository

	// Services
	AuthzService        *authz.Service
	AuthService         *service.AuthService
	UserAuthService     *service.UserAuthService
	UserAdminService    *service.UserAdminService
	EmailService        *service.EmailService
	CaptchaService      *service.CaptchaService
	CampaignService     *service.CampaignService
	ApplicationService  *service.ApplicationService
	InvitationService   *service.InvitationService
	ContentService      *service.ContentService
	SubscriptionService *service.SubscriptionService
	ReferralService     *service.ReferralService
	NotificationService *service.NotificationService
	UserLoginLogService *service.UserLoginLogService
}

// NewContainer initializes the container
func NewContainer(cfg *config.Config) *Container {
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	var queueClient *queue.Client
	if cfg.Queue.Enabled {
		qc, err := queue.NewClient(&cfg.Queue)
		if err != nil {
			logger.Errorw("provider_init_queue_client_failed", "error", err)
		} else {
			queueClient = qc
		}
	}

	c := &Container{
		Config:      cfg,
		QueueClient: queueClient,
	}
	c.initRepositories()
	c.initServices()
	return c
}

func (c *Container) initRepositories() {
	db := models.DB
	c.AdminRepo = repository.NewAdminRepository(db)
	c.UserRepo = repository.NewUserRepository(db)
	c.CampaignRepo = repository.NewCampaignRepository(db)
	c.ApplicationRepo = repository.NewApplicationRepository(db)
	c.InvitationRepo = repository.NewInvitationRepository(db)
	c.ContentRepo = repository.NewContentRepository(db)
	c.SubscriptionRepo = repository.NewSubscriptionRepository(db)
	c.PaymentRepo = repository.NewPaymentRepository(db)
	c.AffiliateRepo = repository.NewAffiliateRepository(db)
	c.TransactionRepo = repository.NewTransactionRepository(db)
	c.NotificationRepo = repository.NewNotificationRepository(db)
	c.UserLoginLogRepo = repository.NewUserLoginLogRepository(db)
}

func (c *Container) initServices() {
	authzService, err := authz.NewService(models.DB)
	if err != nil {
		logger.Errorw("provider_init_authz_failed", "error", err)
		panic(err)
	}
	c.AuthzService = authzService
	if err := c.AuthzService.BootstrapBuiltinRoles(); err != nil {
		logger.Errorw("provider_bootstrap_builtin_roles_failed", "error", err)
		panic(err)
	}

	c.EmailService = service.NewEmailService(&c.Config.Email)
	c.CaptchaService = service.NewCaptchaService(c.Config.Captcha)
	c.NotificationService = service.NewNotificationService(c.NotificationRepo, c.QueueClient)
	c.ReferralService = service.NewReferralService(c.Config, c.AffiliateRepo, c.UserRepo, c.TransactionRepo, c.NotificationService)
	c.AuthService = service.NewAuthService(c.Config, c.AdminRepo)
	c.UserAuthService = service.NewUserAuthService(c.Config, c.UserRepo, c.ReferralService)
	c.UserAdminService = service.NewUserAdminService(c.UserRepo)
	c.SubscriptionService = service.NewSubscriptionService(c.Config, c.SubscriptionRepo, c.PaymentRepo, c.TransactionRepo, c.NotificationService, c.ReferralService)
	c.CampaignService = service.NewCampaignService(c.CampaignRepo, c.ContentRepo, c.SubscriptionService)
	c.ApplicationService = service.NewApplicationService(c.ApplicationRepo, c.CampaignRepo, c.UserRepo, c.NotificationService)
	c.InvitationService = service.NewInvitationService(c.Config, c.InvitationRepo, c.CampaignRepo, c.UserRepo, c.NotificationService)
	c.ContentService = service.NewContentService(c.ContentRepo, c.CampaignRepo, c.ApplicationService, c.NotificationService)
	c.UserLoginLogService = service.NewUserLoginLogService(c.UserLoginLogRepo)
}
