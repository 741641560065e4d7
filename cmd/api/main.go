package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"database/sql"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"

	"github.com/hearthledger/budget-service/internal/batch"
	"github.com/hearthledger/budget-service/internal/config"
	"github.com/hearthledger/budget-service/internal/handler"
	"github.com/hearthledger/budget-service/internal/integrations/govcal"
	"github.com/hearthledger/budget-service/internal/middleware"
	"github.com/hearthledger/budget-service/internal/repository"
	"github.com/hearthledger/budget-service/internal/service"
	"github.com/hearthledger/budget-service/internal/utils/email"
)

func main() {
	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logLevel, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL"))
	if err != nil {
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	// Load configuration
	cfg, err := config.NewConfig()
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}

	// Initialize database
	db, err := sql.Open("postgres", cfg.DBConn)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		logger.Fatalf("Failed to ping database: %v", err)
	}

	// Initialize layers
	repo := repository.NewRepository(db)
	holidayClient := govcal.NewClient(cfg, logger)
	svc := service.NewService(repo, logger, cfg, holidayClient)
	h := handler.NewHandler(svc)
	mailer := email.NewSender(cfg, logger)

	// Nightly projection-and-notify batch
	runner := batch.NewRunner(svc, mailer, logger, cfg)
	cronJob, err := runner.Start()
	if err != nil {
		logger.Fatalf("Failed to schedule nightly batch: %v", err)
	}
	defer cronJob.Stop()

	// Setup router
	r := mux.NewRouter()
	r.Use(middleware.RequestIDMiddleware(logger))
	// Public routes
	r.HandleFunc("/register", h.Register).Methods("POST")
	r.HandleFunc("/login", h.Login).Methods("POST")
	// Protected routes
	authRouter := r.PathPrefix("/").Subrouter()
	authRouter.Use(middleware.AuthMiddleware(cfg))
	authRouter.HandleFunc("/obligations", h.CreateObligation).Methods("POST")
	authRouter.HandleFunc("/obligations", h.ListObligations).Methods("GET")
	authRouter.HandleFunc("/obligations/{id:[0-9]+}", h.DeactivateObligation).Methods("DELETE")
	authRouter.HandleFunc("/accounts", h.CreateBankAccount).Methods("POST")
	authRouter.HandleFunc("/projection", h.GetProjection).Methods("GET")
	authRouter.HandleFunc("/progress", h.MarkProgress).Methods("POST")
	authRouter.HandleFunc("/reminders", h.GetReminders).Methods("GET")
	authRouter.HandleFunc("/debts/strategy", h.GetDebtStrategy).Methods("GET")

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	logger.Infof("Starting server on %s", addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatalf("Server failed: %v", err)
	}
}
