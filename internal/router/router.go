package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"studybuddy/config"
	"studybuddy/internal/auth"
	"studybuddy/internal/handler"
	"studybuddy/internal/middleware"
	"studybuddy/internal/ws"
	"studybuddy/pkg/logger"
)

// Handlers bundles everything the router wires up.
type Handlers struct {
	Auth         *handler.AuthHandler
	Profile      *handler.ProfileHandler
	Buddy        *handler.BuddyHandler
	Chat         *handler.ChatHandler
	Notification *handler.NotificationHandler
	Overview     *handler.OverviewHandler
	Activity     *handler.ActivityHandler
	Challenge    *handler.ChallengeHandler
	Group        *handler.GroupHandler
	Admin        *handler.AdminHandler
}

func Setup(cfg *config.Config, tokens *auth.Manager, hub *ws.Hub, h Handlers) *gin.Engine {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(logger.RequestLogger(), logger.Recovery())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/ws", ws.Upgrade(tokens, hub))

	loginLimiter := middleware.NewRateLimiter(10, time.Minute)

	api := r.Group("/api/v1")
	{
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/signup", h.Auth.Signup)
			authGroup.POST("/login", loginLimiter.Middleware(), h.Auth.Login)
			authGroup.POST("/refresh", h.Auth.Refresh)
			authGroup.POST("/forgot-password", loginLimiter.Middleware(), h.Auth.ForgotPassword)
			authGroup.POST("/verify-reset-code", loginLimiter.Middleware(), h.Auth.VerifyResetCode)
			authGroup.POST("/reset-password", loginLimiter.Middleware(), h.Auth.ResetPassword)

			authed := authGroup.Group("", middleware.AuthRequired(tokens))
			{
				authed.POST("/logout", h.Auth.Logout)
				authed.GET("/me", h.Auth.Me)
			}
		}

		protected := api.Group("", middleware.AuthRequired(tokens))
		{
			protected.GET("/profile", h.Profile.Get)
			protected.POST("/profile", h.Profile.Save)
			protected.PUT("/profile", h.Profile.Save)

			buddies := protected.Group("/buddies")
			{
				buddies.GET("", h.Buddy.Index)
				buddies.GET("/recommended", h.Buddy.Recommended)
				buddies.GET("/all", h.Buddy.All)
				buddies.POST("/connect", h.Buddy.Connect)
				buddies.GET("/requests", h.Buddy.Requests)
				buddies.POST("/requests/:id/accept", h.Buddy.Accept)
				buddies.POST("/requests/:id/decline", h.Buddy.Decline)
				buddies.GET("/connected", h.Buddy.Connected)
			}

			chat := protected.Group("/chat")
			{
				chat.GET("/messages/:buddy_id", h.Chat.Messages)
				chat.POST("/send/:buddy_id", h.Chat.Send)
				chat.POST("/attach-note/:buddy_id", h.Chat.AttachNote)
				chat.POST("/send-challenge/:buddy_id", h.Chat.SendChallenge)
				chat.GET("/conversations", h.Chat.Conversations)
			}

			notifications := protected.Group("/notifications")
			{
				notifications.GET("", h.Notification.List)
				notifications.PATCH("/:id/read", h.Notification.MarkRead)
				notifications.PATCH("/read-all", h.Notification.MarkAllRead)
				notifications.DELETE("/:id", h.Notification.Delete)
			}

			protected.GET("/overview", h.Overview.Get)
			protected.GET("/activities", h.Activity.List)
			protected.GET("/challenges", h.Challenge.List)
			protected.POST("/challenges", h.Challenge.Create)
			protected.GET("/challenges/personalized", h.Challenge.Personalized)
			protected.PATCH("/challenges/:id/progress", h.Challenge.UpdateProgress)

			groups := protected.Group("/groups")
			{
				groups.GET("", h.Group.List)
				groups.POST("/:id/join", h.Group.Join)
				groups.POST("/:id/leave", h.Group.Leave)
			}
		}

		admin := api.Group("/admin")
		{
			admin.POST("/login", loginLimiter.Middleware(), h.Admin.Login)

			adminAuthed := admin.Group("", middleware.AuthRequired(tokens), middleware.AdminRequired())
			{
				adminAuthed.GET("/me", h.Admin.Me)
				adminAuthed.GET("/stats", h.Admin.Stats)
				adminAuthed.GET("/users", h.Admin.Users)
				adminAuthed.DELETE("/users/:id", h.Admin.DeleteUser)
				adminAuthed.PUT("/users/:id/status", h.Admin.SetUserStatus)
				adminAuthed.GET("/requests", h.Admin.Requests)
				adminAuthed.POST("/approve-request/:id", h.Admin.ApproveRequest)
				adminAuthed.POST("/reject-request/:id", h.Admin.RejectRequest)
			}
		}
	}

	return r
}
