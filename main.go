package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"medshift/config"
	"medshift/cron"
	"medshift/database"
	contractRepoPkg "medshift/database/repository/contract"
	matchRepoPkg "medshift/database/repository/match"
	proposalRepoPkg "medshift/database/repository/proposal"
	pushTargetRepoPkg "medshift/database/repository/pushtarget"
	requirementRepoPkg "medshift/database/repository/requirement"
	slotRepoPkg "medshift/database/repository/slot"
	"medshift/handlers"
	"medshift/routes"
	"medshift/services/documents"
	"medshift/services/lifecycle"
	"medshift/services/matching"
	"medshift/services/notification"
	"medshift/services/shift"
	"medshift/services/storage"
	"medshift/services/tasks"
	"medshift/services/timetracking"
	"medshift/utils"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitRedis()
	utils.FirebaseInit()

	cld, err := utils.Cloudinary()
	if err != nil {
		logger.Sugar().Fatalf("main: failed to initialize cloudinary: %v", err)
	}

	for _, ensure := range []func() error{
		slotRepoPkg.EnsureIndexes,
		matchRepoPkg.EnsureIndexes,
		contractRepoPkg.EnsureIndexes,
	} {
		if err := ensure(); err != nil {
			logger.Sugar().Fatalf("main: failed to ensure indexes: %v", err)
		}
	}

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())

	// repositories.
	requirementRepo := requirementRepoPkg.NewMongoRequirementRepo()
	slotRepo := slotRepoPkg.NewMongoSlotRepo()
	matchRepo := matchRepoPkg.NewMongoMatchRepo()
	proposalRepo := proposalRepoPkg.NewMongoProposalRepo()
	contractRepo := contractRepoPkg.NewMongoContractRepo()
	pushTargetRepo := pushTargetRepoPkg.NewMongoPushTargetRepo()

	// services.
	dispatcher := tasks.NewAsynqDispatcher()
	defer dispatcher.Close()

	notificationService := &notification.DefaultNotificationService{
		Targets: pushTargetRepo,
	}

	finderService := &matching.DefaultFinderService{
		RequirementRepo: requirementRepo,
		SlotRepo:        slotRepo,
		MatchRepo:       matchRepo,
	}
	cleanupService := &matching.DefaultCleanupService{
		MatchRepo: matchRepo,
	}

	lifecycleService := &lifecycle.DefaultLifecycleService{
		RequirementRepo: requirementRepo,
		MatchRepo:       matchRepo,
		ProposalRepo:    proposalRepo,
		ContractRepo:    contractRepo,
		NotificationSvc: notificationService,
		Renderer:        documents.StubAgreementRenderer{},
		Dispatcher:      dispatcher,
	}

	publicationService := &shift.DefaultPublicationService{
		RequirementRepo: requirementRepo,
		SlotRepo:        slotRepo,
		Dispatcher:      dispatcher,
	}

	recorderService := &timetracking.DefaultRecorderService{
		ContractRepo:    contractRepo,
		NotificationSvc: notificationService,
	}

	// Assemble the handler bundle.
	handlerBundle := &handlers.HandlerBundle{
		PublicationSvc: publicationService,
		LifecycleSvc:   lifecycleService,
		RecorderSvc:    recorderService,
		StorageSvc:     storage.NewStorageService(cld),
		MatchRepo:      matchRepo,
		PushTargetRepo: pushTargetRepo,
		CacheClient:    utils.GetCacheClient(),
	}

	routes.RegisterRoutes(router, handlerBundle)

	utils.StartHealthMonitor(database.MongoClient, utils.GetCacheClient(), 30*time.Second)

	// Start the task worker and the expiry scheduler.
	worker := &cron.Worker{
		Finder:    finderService,
		Cleaner:   cleanupService,
		Lifecycle: lifecycleService,
	}
	worker.Start()
	defer worker.Shutdown()

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
