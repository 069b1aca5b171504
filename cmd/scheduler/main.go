package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"perfumeshop-be/internal/bootstrap"
	"perfumeshop-be/internal/config"
	"perfumeshop-be/pkg/database"

	"github.com/robfig/cron/v3"
)

func main() {
	cfg := config.Load()

	gormDB, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Panicf("Unable to connect to GORM DB: %v", err)
	}

	container := bootstrap.NewSchedulerContainer(gormDB, cfg)
	sched := container.DeliveryService
	sysLogger := container.Logger

	cronScheduler := cron.New()

	// Delivery advancement + stale-pending reclaim, every 10 minutes.
	_, err = cronScheduler.AddFunc("*/10 * * * *", func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()

		delivered, shipping, err := sched.AdvanceDeliveryStatus(ctx)
		if err != nil {
			sysLogger.Error("Scheduler", "Delivery advancement failed", map[string]interface{}{"error": err})
		} else if delivered > 0 || shipping > 0 {
			sysLogger.Info("Scheduler", "Delivery statuses advanced", map[string]interface{}{
				"delivered": delivered,
				"shipping":  shipping,
			})
		}

		failed, err := sched.ExpireStalePending(ctx)
		if err != nil {
			sysLogger.Error("Scheduler", "Stale pending sweep failed", map[string]interface{}{"error": err})
		} else if failed > 0 {
			sysLogger.Info("Scheduler", "Stale pending orders failed", map[string]interface{}{"count": failed})
		}
	})
	if err != nil {
		log.Fatalf("Failed to register scheduler job: %v", err)
	}

	cronScheduler.Start()
	log.Println("Scheduler started: delivery advancement every 10 minutes")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down gracefully...")
	stopCtx := cronScheduler.Stop()
	select {
	case <-stopCtx.Done():
		log.Println("Scheduler stopped gracefully")
	case <-time.After(5 * time.Second):
		log.Println("Scheduler forced to stop after timeout")
	}
}
