package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"student-marksheets/config"
	"student-marksheets/controllers"
	"student-marksheets/driver"
	"student-marksheets/middleware"
)

func main() {
	logrus.SetFormatter(&logrus.JSONFormatter{})

	if err := godotenv.Load(); err != nil {
		logrus.Info("No .env file found, using environment defaults")
	}
	cfg := config.Load()

	db, err := driver.ConnectDB(cfg)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to connect to store")
	}
	defer db.Close()

	if err := driver.EnsureSchema(db, cfg.StoreDriver); err != nil {
		logrus.WithError(err).Fatal("Failed to ensure schema")
	}
	if err := os.MkdirAll(cfg.UploadsRoot, 0o755); err != nil {
		logrus.WithError(err).Fatal("Failed to create uploads root")
	}

	studentController := controllers.StudentController{}
	uploadController := controllers.UploadController{}
	healthController := controllers.HealthController{}

	router := mux.NewRouter()
	router.Use(middleware.RequestLogger)

	router.HandleFunc("/", healthController.Banner()).Methods("GET")
	router.HandleFunc("/health/uploads", healthController.UploadsHealth(cfg)).Methods("GET")

	router.HandleFunc("/students", studentController.GetStudents(db, cfg)).Methods("GET")
	router.HandleFunc("/students", studentController.CreateStudent(db)).Methods("POST")

	router.HandleFunc("/upload/{rollNumber}", uploadController.UploadMarksheet(db, cfg)).Methods("POST")

	// Static serving of uploaded marksheets. http.Dir refuses path
	// traversal outside the uploads root. Stored paths carry the root's
	// base name while links are lowercase, so both prefixes are mounted.
	fileServer := http.FileServer(http.Dir(cfg.UploadsRoot))
	router.PathPrefix("/marksheets/").Handler(http.StripPrefix("/marksheets/", fileServer)).Methods("GET")
	router.PathPrefix("/" + cfg.UploadsRootName() + "/").Handler(http.StripPrefix("/"+cfg.UploadsRootName()+"/", fileServer)).Methods("GET")

	router.NotFoundHandler = middleware.RequestLogger(controllers.NotFoundHandler())

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  time.Minute,
		WriteTimeout: time.Minute,
		IdleTimeout:  2 * time.Minute,
	}

	go func() {
		logrus.WithFields(logrus.Fields{
			"port":         cfg.Port,
			"store_driver": cfg.StoreDriver,
			"uploads_root": cfg.UploadsRoot,
		}).Info("Server started")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.WithError(err).Fatal("Server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logrus.Info("Shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logrus.WithError(err).Error("Graceful shutdown failed")
	}
}
