package router

import (
	"fmt"
	"sort"
	"strings"

	"github.com/sponza-next/internal/authz"
	"github.com/sponza-next/internal/cache"
	"github.com/sponza-next/internal/config"
	"github.com/sponza-next/internal/constants"
	adminhandlers "github.com/sponza-next/internal/http/handlers/admin"
	publichandlers "github.com/sponza-next/internal/http/handlers/public"
	"github.com/sponza-next/internal/http/response"
	"github.com/sponza-next/internal/logger"
	"github.com/sponza-next/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter wires middleware and the full route tree.
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	publicHandler := publichandlers.New(c)
	adminHandler := adminhandlers.New(c)
	redisPrefix := strings.TrimSpace(cfg.Redis.Prefix)
	if redisPrefix == "" {
		redisPrefix = "sponza"
	}
	redisClient := cache.Client()
	loginRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:login", redisPrefix),
		WindowSeconds: cfg.Security.LoginRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.LoginRateLimit.MaxAttempts,
	}
	adminLoginRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:admin_login", redisPrefix),
		WindowSeconds: cfg.Security.LoginRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.LoginRateLimit.MaxAttempts,
	}

	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))

	apiV1 := r.Group("/api/v1")
	{
		// Open endpoints
		public := apiV1.Group("/public")
		{
			public.GET("/captcha/image", publicHandler.GetImageCaptcha)
			public.GET("/captcha/setting", publicHandler.GetCaptchaSetting)
			public.GET("/campaigns", publicHandler.BrowseCampaigns)
			public.GET("/campaigns/:id", publicHandler.GetPublicCampaign)
		}

		auth := apiV1.Group("/auth")
		{
			auth.POST("/register", publicHandler.UserRegister)
			auth.POST("/login", RateLimitMiddleware(redisClient, loginRule, KeyByIPAndJSONField("email")), publicHandler.UserLogin)
		}

		// Endpoints for any signed-in user
		user := apiV1.Group("")
		user.Use(UserJWTAuthMiddleware(cfg.UserJWT.SecretKey, c.UserRepo))
		{
			user.GET("/me", publicHandler.GetCurrentUser)
			user.PUT("/me/profile", publicHandler.UpdateProfile)
			user.PUT("/me/password", publicHandler.ChangePassword)
			user.GET("/me/login-logs", publicHandler.GetMyLoginLogs)
			user.GET("/me/notifications", publicHandler.GetMyNotifications)
			user.GET("/me/notifications/unread-count", publicHandler.GetUnreadNotificationCount)
			user.POST("/me/notifications/mark-read", publicHandler.MarkNotificationsRead)
			user.POST("/me/notifications/mark-all-read", publicHandler.MarkAllNotificationsRead)
			user.GET("/me/referral", publicHandler.GetMyReferralProfile)
			user.POST("/me/referral/regenerate", publicHandler.RegenerateReferralCode)
			user.GET("/me/referral/metrics", publicHandler.GetMyReferralMetrics)
			user.GET("/me/referral/rewards", publicHandler.ListMyReferralRewards)
			user.GET("/invitations/:id", publicHandler.GetInvitation)
		}

		// Brand-side endpoints
		brand := apiV1.Group("/brand")
		brand.Use(UserJWTAuthMiddleware(cfg.UserJWT.SecretKey, c.UserRepo), RequireRole(constants.UserRoleBrand))
		{
			brand.POST("/campaigns", publicHandler.CreateCampaign)
			brand.GET("/campaigns", publicHandler.ListMyCampaigns)
			brand.GET("/campaigns/:id", publicHandler.GetMyCampaign)
			brand.PUT("/campaigns/:id", publicHandler.UpdateCampaign)
			brand.PATCH("/campaigns/:id/status", publicHandler.ChangeCampaignStatus)
			brand.DELETE("/campaigns/:id", publicHandler.DeleteCampaign)
			brand.GET("/campaigns/:id/analytics", publicHandler.GetCampaignAnalytics)
			brand.GET("/campaigns/:id/applications", publicHandler.ListCampaignApplications)
			brand.GET("/campaigns/:id/contents", publicHandler.ListCampaignContent)
			brand.POST("/applications/:id/accept", publicHandler.AcceptApplication)
			brand.POST("/applications/:id/reject", publicHandler.RejectApplication)
			brand.POST("/invitations", publicHandler.CreateInvitation)
			brand.GET("/invitations", publicHandler.ListSentInvitations)
			brand.POST("/contents/:id/review", publicHandler.ReviewContent)
			brand.GET("/subscription/plans", publicHandler.ListPlans)
			brand.GET("/subscription", publicHandler.GetMySubscription)
			brand.GET("/subscription/entitlements", publicHandler.GetMyEntitlements)
			brand.POST("/subscription/orders", publicHandler.CreateSubscriptionOrder)
			brand.POST("/subscription/verify", publicHandler.VerifySubscriptionPayment)
			brand.POST("/subscription/cancel", publicHandler.CancelSubscription)
		}

		// Influencer-side endpoints
		influencer := apiV1.Group("/influencer")
		influencer.Use(UserJWTAuthMiddleware(cfg.UserJWT.SecretKey, c.UserRepo), RequireRole(constants.UserRoleInfluencer))
		{
			influencer.POST("/applications", publicHandler.ApplyToCampaign)
			influencer.GET("/applications", publicHandler.ListMyApplications)
			influencer.GET("/applications/:id", publicHandler.GetMyApplication)
			influencer.POST("/applications/:id/withdraw", publicHandler.WithdrawApplication)
			influencer.GET("/invitations", publicHandler.ListReceivedInvitations)
			influencer.POST("/invitations/:id/respond", publicHandler.RespondInvitation)
			influencer.POST("/contents", publicHandler.SubmitContent)
			influencer.GET("/contents", publicHandler.ListMyContent)
			influencer.POST("/contents/:id/publish", publicHandler.PublishContent)
			influencer.PUT("/contents/:id/metrics", publicHandler.UpdateContentMetrics)
		}

		// Admin endpoints
		admin := apiV1.Group("/admin")
		{
			admin.POST("/login", RateLimitMiddleware(redisClient, adminLoginRule, KeyByIP), adminHandler.AdminLogin)

			authorized := admin.Use(JWTAuthMiddleware(cfg.JWT.SecretKey, c.AdminRepo), AdminRBACMiddleware(c.AuthzService))
			{
				authorized.PUT("/password", adminHandler.UpdateAdminPassword)

				authorized.GET("/authz/me", adminHandler.GetAuthzMe)
				authorized.GET("/authz/roles", adminHandler.ListAuthzRoles)
				authorized.POST("/authz/roles", adminHandler.CreateAuthzRole)
				authorized.DELETE("/authz/roles/:role", adminHandler.DeleteAuthzRole)
				authorized.GET("/authz/roles/:role/policies", adminHandler.GetAuthzRolePolicies)
				authorized.POST("/authz/policies", adminHandler.GrantAuthzPolicy)
				authorized.DELETE("/authz/policies", adminHandler.RevokeAuthzPolicy)
				authorized.GET("/authz/admins", adminHandler.ListAuthzAdmins)
				authorized.POST("/authz/admins", adminHandler.CreateAuthzAdmin)
				authorized.PUT("/authz/admins/:id", adminHandler.UpdateAuthzAdmin)
				authorized.DELETE("/authz/admins/:id", adminHandler.DeleteAuthzAdmin)
				authorized.GET("/authz/admins/:id/roles", adminHandler.GetAuthzAdminRoles)
				authorized.PUT("/authz/admins/:id/roles", adminHandler.SetAuthzAdminRoles)
				authorized.GET("/authz/permissions/catalog", func(ctx *gin.Context) {
					response.Success(ctx, buildAdminPermissionCatalog(r))
				})

				authorized.GET("/users", adminHandler.GetAdminUsers)
				authorized.GET("/users/:id", adminHandler.GetAdminUser)
				authorized.PATCH("/users/status", adminHandler.BatchUpdateUserStatus)
				authorized.GET("/user-login-logs", adminHandler.GetAdminUserLoginLogs)

				authorized.GET("/campaigns", adminHandler.GetAdminCampaigns)
				authorized.POST("/campaigns/:id/reconcile", adminHandler.ReconcileCampaignCounters)
				authorized.GET("/applications", adminHandler.GetAdminApplications)
				authorized.GET("/invitations", adminHandler.GetAdminInvitations)
				authorized.GET("/contents", adminHandler.GetAdminContents)

				authorized.GET("/subscriptions", adminHandler.GetAdminSubscriptions)
				authorized.GET("/payments", adminHandler.GetAdminPayments)
				authorized.GET("/transactions", adminHandler.GetAdminTransactions)
				authorized.GET("/referrals", adminHandler.GetAdminReferralProfiles)
				authorized.PATCH("/referrals/:id/status", adminHandler.SetReferralProfileStatus)
			}
		}
	}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	return r
}

type adminPermissionCatalogItem struct {
	Module     string `json:"module"`
	Method     string `json:"method"`
	Object     string `json:"object"`
	Permission string `json:"permission"`
}

// buildAdminPermissionCatalog enumerates registered admin routes so the
// RBAC UI can offer grantable permissions without a hand-kept list.
func buildAdminPermissionCatalog(engine *gin.Engine) []adminPermissionCatalogItem {
	if engine == nil {
		return []adminPermissionCatalogItem{}
	}

	routes := engine.Routes()
	seen := make(map[string]struct{}, len(routes))
	items := make([]adminPermissionCatalogItem, 0, len(routes))

	for _, item := range routes {
		method := strings.ToUpper(strings.TrimSpace(item.Method))
		if method == "" || method == "OPTIONS" || method == "HEAD" {
			continue
		}
		if !strings.HasPrefix(item.Path, "/api/v1/admin/") {
			continue
		}
		if item.Path == "/api/v1/admin/login" {
			continue
		}
		object := authz.NormalizeObject(item.Path)
		permission := method + ":" + object
		if _, exists := seen[permission]; exists {
			continue
		}
		seen[permission] = struct{}{}
		items = append(items, adminPermissionCatalogItem{
			Module:     deriveAdminPermissionModule(object),
			Method:     method,
			Object:     object,
			Permission: permission,
		})
	}

	sort.Slice(items, func(i, j int) bool {
		if items[i].Module == items[j].Module {
			if items[i].Object == items[j].Object {
				return items[i].Method < items[j].Method
			}
			return items[i].Object < items[j].Object
		}
		return items[i].Module < items[j].Module
	})

	return items
}

func deriveAdminPermissionModule(object string) string {
	normalized := strings.TrimPrefix(strings.TrimSpace(object), "/")
	if normalized == "" {
		return "system"
	}
	segments := strings.Split(normalized, "/")
	if len(segments) <= 1 {
		return segments[0]
	}
	if segments[0] != "admin" {
		return segments[0]
	}
	if segments[1] == "authz" {
		return "authz"
	}
	return segments[1]
}
