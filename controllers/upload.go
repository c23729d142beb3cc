package controllers

import (
	"database/sql"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"student-marksheets/config"
	"student-marksheets/models"
	"student-marksheets/utils"
)

// maxUploadSize caps the marksheet payload at 5 MiB.
const maxUploadSize = 5 << 20

var allowedMimeTypes = map[string]bool{
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet": true,
	"application/vnd.ms-excel":                                          true,
}

type UploadController struct{}

func (uc UploadController) UploadMarksheet(db *sql.DB, cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rollNumber, err := utils.StrToInt(mux.Vars(r)["rollNumber"])
		if err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, models.Error{Message: "Invalid roll number"})
			return
		}

		// Cap the whole body; the extra headroom covers multipart framing.
		r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize+512*1024)
		if err := r.ParseMultipartForm(maxUploadSize); err != nil {
			var maxErr *http.MaxBytesError
			if errors.As(err, &maxErr) || errors.Is(err, multipart.ErrMessageTooLarge) {
				utils.RespondWithError(w, http.StatusBadRequest, models.Error{Message: "File too large (max 5MB)"})
				return
			}
			utils.RespondWithError(w, http.StatusBadRequest, models.Error{Message: "No file uploaded"})
			return
		}

		file, header, err := r.FormFile("file")
		if err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, models.Error{Message: "No file uploaded"})
			return
		}
		defer file.Close()

		if header.Size > maxUploadSize {
			utils.RespondWithError(w, http.StatusBadRequest, models.Error{Message: "File too large (max 5MB)"})
			return
		}

		ext := strings.ToLower(filepath.Ext(header.Filename))
		if !allowedMimeTypes[header.Header.Get("Content-Type")] && ext != ".xlsx" && ext != ".xls" {
			utils.RespondWithError(w, http.StatusBadRequest, models.Error{Message: "Only Excel files (.xlsx, .xls) are allowed"})
			return
		}

		destDir := filepath.Join(cfg.UploadsRoot, fmt.Sprintf("%d", rollNumber))
		if err := os.MkdirAll(destDir, 0o755); err != nil {
			logrus.WithField("op", "upload marksheet").WithError(err).Error("Failed to create upload directory")
			utils.RespondWithError(w, http.StatusInternalServerError, models.Error{Message: "Upload failed"})
			return
		}

		fileName := utils.SanitizeFileName(header.Filename)
		destPath := filepath.Join(destDir, fileName)
		dst, err := os.Create(destPath)
		if err != nil {
			logrus.WithField("op", "upload marksheet").WithError(err).Error("Failed to create file")
			utils.RespondWithError(w, http.StatusInternalServerError, models.Error{Message: "Upload failed"})
			return
		}
		defer dst.Close()
		if _, err := io.Copy(dst, file); err != nil {
			logrus.WithField("op", "upload marksheet").WithError(err).Error("Failed to write file")
			utils.RespondWithError(w, http.StatusInternalServerError, models.Error{Message: "Upload failed"})
			return
		}

		// Stored relative to the uploads root's parent, forward-slash form.
		storedPath := fmt.Sprintf("%s/%d/%s", cfg.UploadsRootName(), rollNumber, fileName)
		query := "UPDATE Students SET marks_file_path = ? WHERE roll_number = ?"
		if _, err := db.Exec(query, storedPath, rollNumber); err != nil {
			// The file stays on disk; the record simply was not updated.
			logrus.WithFields(logrus.Fields{
				"op":          "upload marksheet",
				"roll_number": rollNumber,
				"file":        destPath,
			}).WithError(err).Error("SQL error")
			utils.RespondWithError(w, http.StatusInternalServerError, models.Error{Message: "Upload failed"})
			return
		}

		webPath := fmt.Sprintf("/marksheets/%d/%s", rollNumber, fileName)
		logrus.WithFields(logrus.Fields{
			"roll_number": rollNumber,
			"path":        storedPath,
		}).Info("Marksheet uploaded")

		utils.ResponseJSON(w, models.UploadResponse{
			Success: true,
			Message: "File uploaded successfully",
			Path:    webPath,
		})
	}
}
