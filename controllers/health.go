package controllers

import (
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"student-marksheets/config"
	"student-marksheets/models"
	"student-marksheets/utils"
)

type HealthController struct{}

func (hc HealthController) Banner() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Write([]byte("Student Marksheet Service is running"))
	}
}

// UploadsHealth verifies the uploads root exists and is writable by
// creating it if absent and round-tripping a probe file.
func (hc HealthController) UploadsHealth(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		absRoot, err := filepath.Abs(cfg.UploadsRoot)
		if err != nil {
			respondUnhealthy(w, err)
			return
		}
		if err := os.MkdirAll(absRoot, 0o755); err != nil {
			respondUnhealthy(w, err)
			return
		}
		probe := filepath.Join(absRoot, ".healthcheck")
		if err := os.WriteFile(probe, []byte("ok"), 0o644); err != nil {
			respondUnhealthy(w, err)
			return
		}
		os.Remove(probe)

		utils.ResponseJSON(w, models.UploadsHealth{OK: true, Path: absRoot})
	}
}

func respondUnhealthy(w http.ResponseWriter, err error) {
	logrus.WithField("op", "uploads health").WithError(err).Error("Uploads root not writable")
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusInternalServerError)
	json.NewEncoder(w).Encode(models.UploadsHealth{OK: false, Error: err.Error()})
}

func NotFoundHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		utils.RespondWithError(w, http.StatusNotFound, models.Error{Message: "Not found"})
	}
}
