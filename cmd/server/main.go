package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"studybuddy/config"
	"studybuddy/internal/auth"
	"studybuddy/internal/database"
	"studybuddy/internal/handler"
	"studybuddy/internal/repository"
	"studybuddy/internal/router"
	"studybuddy/internal/service"
	"studybuddy/internal/ws"
	"studybuddy/pkg/logger"
	"studybuddy/pkg/mailer"
)

func main() {
	cfg := config.Load()
	logger.Init(cfg.Log)
	defer logger.Sync()

	db, err := database.New(cfg.Database)
	if err != nil {
		logger.Fatal("database connection failed", zap.Error(err))
	}
	if err := database.Migrate(db); err != nil {
		logger.Fatal("migration failed", zap.Error(err))
	}
	if err := database.SeedAdmin(db, cfg.Admin); err != nil {
		logger.Fatal("admin seed failed", zap.Error(err))
	}

	userRepo := repository.NewUserRepository(db)
	profileRepo := repository.NewProfileRepository(db)
	connectionRepo := repository.NewConnectionRepository(db)
	messageRepo := repository.NewMessageRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	activityRepo := repository.NewActivityRepository(db)
	challengeRepo := repository.NewChallengeRepository(db)
	groupRepo := repository.NewGroupRepository(db)

	tokens := auth.NewManager(cfg.JWT)
	hub := ws.NewHub()
	mail := mailer.New(cfg.Mail)

	notificationSvc := service.NewNotificationService(notificationRepo, hub)
	authSvc := service.NewAuthService(userRepo, activityRepo, tokens, mail)
	buddySvc := service.NewBuddyService(userRepo, profileRepo, connectionRepo, activityRepo, notificationSvc)
	chatSvc := service.NewChatService(messageRepo, userRepo, buddySvc, notificationSvc, hub, cfg.Chat)

	retention := service.NewRetentionService(messageRepo, cfg.Chat.RetentionDays)
	retention.Start()

	r := router.Setup(cfg, tokens, hub, router.Handlers{
		Auth:         handler.NewAuthHandler(authSvc, userRepo),
		Profile:      handler.NewProfileHandler(profileRepo),
		Buddy:        handler.NewBuddyHandler(buddySvc),
		Chat:         handler.NewChatHandler(chatSvc),
		Notification: handler.NewNotificationHandler(notificationSvc),
		Overview:     handler.NewOverviewHandler(activityRepo, challengeRepo, groupRepo, buddySvc),
		Activity:     handler.NewActivityHandler(activityRepo),
		Challenge:    handler.NewChallengeHandler(challengeRepo, profileRepo, activityRepo),
		Group:        handler.NewGroupHandler(groupRepo),
		Admin:        handler.NewAdminHandler(authSvc, userRepo, connectionRepo, messageRepo),
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout.Std(),
		WriteTimeout: cfg.Server.WriteTimeout.Std(),
	}

	go func() {
		logger.Info("server listening", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down")

	retention.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("shutdown error", zap.Error(err))
	}
	logger.Info("server stopped")
}
