package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/msKim92/wiselife-project/internal/api"
	"github.com/msKim92/wiselife-project/internal/app/service"
	"github.com/msKim92/wiselife-project/internal/app/worker"
	"github.com/msKim92/wiselife-project/internal/common/security"
	"github.com/msKim92/wiselife-project/internal/domain/repository"
	"github.com/msKim92/wiselife-project/internal/platform/config"
	"github.com/msKim92/wiselife-project/internal/platform/database"
	"github.com/msKim92/wiselife-project/internal/platform/logger"
	"github.com/msKim92/wiselife-project/internal/platform/queue"
	"github.com/msKim92/wiselife-project/internal/platform/storage"
)

func main() {
	// 1. Load Configuration
	config.Load()
	log := logger.New("challenge-api")

	// 2. Initialize JWT
	security.InitJWT()

	// 3. Initialize Database
	database.Connect()
	defer database.Close()
	log.Info("database connected")

	// 4. Initialize Redis
	queue.ConnectRedis()
	defer queue.CloseRedis()
	log.Info("redis connected")

	// 5. Initialize Image Store
	imageStore, err := storage.NewDiskImageStore(config.AppConfig.ImageDir)
	if err != nil {
		log.Fatalf("Could not initialize image store: %v", err)
	}

	// 6. Initialize Repositories
	memberRepo := repository.NewPgMemberRepository(database.DB)
	challengeRepo := repository.NewPgChallengeRepository(database.DB)
	ledgerRepo := repository.NewPgMemberChallengeRepository(database.DB)

	// 7. Initialize Services
	cleanupQueue := worker.NewCleanupQueue(queue.RDB, config.AppConfig.ImageCleanupQueue)
	memberService := service.NewMemberService(memberRepo)
	imageService := service.NewImageService(imageStore, log)
	challengeService := service.NewChallengeService(challengeRepo, ledgerRepo, imageService, cleanupQueue, database.DB, log)

	// 8. Initialize Cleanup Worker (as a goroutine)
	cleanupWorker := worker.NewCleanupWorker(queue.RDB, imageStore, config.AppConfig.ImageCleanupQueue, log)
	workerCtx, workerCancel := context.WithCancel(context.Background())
	defer workerCancel()
	go cleanupWorker.Start(workerCtx)

	// 9. Initialize Router & HTTP Server
	router := api.NewRouter(challengeService, memberService)

	server := &http.Server{
		Addr:         ":" + config.AppConfig.APIPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// 10. Graceful Shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Infof("server starting on port %s", config.AppConfig.APIPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Could not listen on %s: %v", config.AppConfig.APIPort, err)
		}
	}()

	<-stop // Wait for interrupt signal

	log.Info("shutting down server...")
	workerCancel() // Signal worker to stop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server shutdown failed: %v", err)
	}

	log.Info("server and worker stopped gracefully")
}
