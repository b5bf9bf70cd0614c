package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"club-manager/backend/internal/config"
	"club-manager/backend/internal/domain/attendance"
	"club-manager/backend/internal/domain/awards"
	"club-manager/backend/internal/domain/budopass"
	"club-manager/backend/internal/domain/payments"
	"club-manager/backend/internal/domain/subscriptions"
	"club-manager/backend/internal/domain/user"
	"club-manager/backend/internal/firebase"
	"club-manager/backend/internal/handlers"
	apihttp "club-manager/backend/internal/http"

	"go.uber.org/zap"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)
	log := logger.Sugar()

	ctx := context.Background()
	cfg := config.Load()

	clients, err := firebase.NewClients(ctx, cfg)
	if err != nil {
		log.Fatalw("firebase init failed", "err", err)
	}
	defer clients.Close()

	// Repositories
	userRepo := user.NewRepo(clients.Firestore)
	awardsRepo := awards.NewRepo(clients.Firestore)
	paymentsRepo := payments.NewRepo(clients.Firestore)
	subscriptionsRepo := subscriptions.NewRepo(clients.Firestore)
	attendanceRepo := attendance.NewRepo(clients.Firestore)
	budoPassRepo := budopass.NewRepo(clients.Firestore)

	// Services
	awardsSvc := awards.NewService(awardsRepo)
	paymentsSvc := payments.NewService(clients.Firestore, paymentsRepo, awardsRepo)
	subscriptionsSvc := subscriptions.NewService(subscriptionsRepo, paymentsSvc)
	attendanceSvc := attendance.NewService(attendanceRepo)
	userSvc := user.NewService(userRepo, clients.Auth, clients.Storage, clients.Bucket,
		awardsSvc, paymentsSvc, attendanceSvc)

	// Stripe pay links (optional - only if configured)
	if cfg.StripeSecretKey != "" {
		paymentsSvc.SetPayLinks(payments.NewPayLinks(clients.Firestore, cfg.StripeSecretKey))
		log.Infow("stripe pay links enabled")
	} else {
		log.Infow("STRIPE_SECRET_KEY not set, card pay links disabled")
	}

	renderer, err := budopass.NewRenderer(cfg.BudoPassFontPath)
	if err != nil {
		log.Fatalw("budo pass font load failed", "path", cfg.BudoPassFontPath, "err", err)
	}
	budoPassSvc := budopass.NewService(budoPassRepo, userRepo, renderer)

	router := apihttp.NewRouter(apihttp.RouterDeps{
		Cfg:              cfg,
		AuthClient:       clients.Auth,
		UserSvc:          userSvc,
		AwardsSvc:        awardsSvc,
		PaymentsSvc:      paymentsSvc,
		SubscriptionsSvc: subscriptionsSvc,
		AttendanceSvc:    attendanceSvc,
		BudoPassSvc:      budoPassSvc,
		Uploads:          handlers.NewUploads(cfg, clients),
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// graceful shutdown
	go func() {
		log.Infow("API listening", "port", cfg.Port, "project", cfg.ProjectID)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalw("listen failed", "err", err)
		}
	}()

	stop := make(chan os.Signal, 2)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	log.Infow("shutting down")
	_ = srv.Shutdown(ctxShutdown)
}
