package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"lifeos/internal/bot"
	"lifeos/internal/config"
	"lifeos/internal/repository"
	"lifeos/internal/service"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	db, err := repository.NewDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	sqlDB, err := db.DB()
	if err == nil {
		defer sqlDB.Close()
	}

	userRepo := repository.NewUserRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	focusRepo := repository.NewFocusRepository(db)
	sleepRepo := repository.NewSleepRepository(db)
	expenseRepo := repository.NewExpenseRepository(db)
	progressRepo := repository.NewProgressRepository(db)
	ledgerRepo := repository.NewLedgerRepository(db)

	progressSvc, err := service.NewProgressService(ctx, progressRepo)
	if err != nil {
		log.Fatalf("progress: %v", err)
	}
	ledgerSvc := service.NewLedgerService(ledgerRepo)
	taskSvc := service.NewTaskService(taskRepo, progressSvc, ledgerSvc)
	focusSvc := service.NewFocusService(focusRepo, ledgerSvc)
	sleepSvc := service.NewSleepService(sleepRepo, ledgerSvc)
	expenseSvc := service.NewExpenseService(expenseRepo, ledgerSvc)
	reportSvc := service.NewReportService(taskSvc, focusSvc, sleepSvc, expenseSvc, progressSvc, ledgerSvc)

	telegramBot, err := bot.New(cfg.TelegramToken, userRepo, taskSvc, focusSvc, sleepSvc, expenseSvc, progressSvc, reportSvc)
	if err != nil {
		log.Fatalf("bot: %v", err)
	}

	scheduler := service.NewSchedulerService(time.Local)
	if cfg.ReportInterval > 0 {
		if _, err := scheduler.ScheduleInterval(cfg.ReportInterval, func() {
			jobCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			if err := telegramBot.SendDailyReports(jobCtx); err != nil && !errors.Is(err, context.Canceled) {
				log.Printf("report: %v", err)
			}
		}); err != nil {
			log.Fatalf("schedule reports: %v", err)
		}
		scheduler.Start()
		defer scheduler.Stop()
	}

	log.Println("Life OS bot started.")
	if err := telegramBot.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatalf("bot stopped with error: %v", err)
	}
	log.Println("Shutdown complete.")
}
