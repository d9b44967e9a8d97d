package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"clubportal/internal/authz"
	"clubportal/internal/handlers"
	"clubportal/internal/middleware"
)

func SetupRoutes(
	r *gin.Engine,
	limiter middleware.RateLimiter,
	authHandler *handlers.AuthHandler,
	userHandler *handlers.UserHandler,
	resetHandler *handlers.PasswordResetHandler,
	membershipHandler *handlers.MembershipHandler,
) *gin.Engine {

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// ---- public (rate limited)
	public := r.Group("/", middleware.RateLimit(limiter))
	{
		public.POST("/login", authHandler.Login)
		public.POST("/refresh", authHandler.RefreshToken)
		public.POST("/register", userHandler.Register)
		public.POST("/password-reset/request", resetHandler.RequestReset)
		public.GET("/reset-password/:token", resetHandler.ValidateToken)
		public.POST("/reset-password/:token", resetHandler.ResetPassword)
	}

	// ---- protected
	auth := r.Group("/", middleware.AuthMiddleware())

	profile := auth.Group("/profile")
	{
		profile.GET("", userHandler.Profile)
		profile.PUT("", userHandler.UpdateProfile)
		profile.PUT("/password", userHandler.ChangePassword)
		profile.GET("/member-card", userHandler.MemberCard)
	}

	membership := auth.Group("/membership")
	{
		membership.POST("/verify", membershipHandler.Verify)
		membership.GET("/status", membershipHandler.Status)
	}

	admin := auth.Group("/admin", middleware.RequireRoles(authz.RoleAdmin))
	{
		admin.GET("/members", userHandler.ListMembers)
		admin.GET("/members/count", userHandler.MemberCount)
	}

	return r
}
