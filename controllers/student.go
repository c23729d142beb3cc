package controllers

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"

	"student-marksheets/config"
	"student-marksheets/models"
	"student-marksheets/utils"
)

type StudentController struct{}

func (sc StudentController) GetStudents(db *sql.DB, cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rows, err := db.Query("SELECT roll_number, first_name, last_name, marks_file_path FROM Students ORDER BY roll_number ASC")
		if err != nil {
			logrus.WithField("op", "list students").WithError(err).Error("SQL error")
			utils.RespondWithError(w, http.StatusInternalServerError, models.Error{Message: "Error fetching students"})
			return
		}
		defer rows.Close()

		rootName := cfg.UploadsRootName()
		students := []models.Student{}
		for rows.Next() {
			var student models.Student
			var marksPath sql.NullString
			if err := rows.Scan(&student.RollNumber, &student.FirstName, &student.LastName, &marksPath); err != nil {
				logrus.WithField("op", "list students").WithError(err).Error("Scan error")
				utils.RespondWithError(w, http.StatusInternalServerError, models.Error{Message: "Error fetching students"})
				return
			}
			student.MarksFilePath = utils.NormalizeMarksPath(utils.NullStringToString(marksPath), rootName)
			students = append(students, student)
		}
		if err := rows.Err(); err != nil {
			logrus.WithField("op", "list students").WithError(err).Error("Rows error")
			utils.RespondWithError(w, http.StatusInternalServerError, models.Error{Message: "Error fetching students"})
			return
		}

		utils.ResponseJSON(w, students)
	}
}

func (sc StudentController) CreateStudent(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.CreateStudentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, models.Error{Message: "Invalid request body"})
			return
		}

		req.FirstName = strings.TrimSpace(req.FirstName)
		req.LastName = strings.TrimSpace(req.LastName)
		if req.FirstName == "" || req.LastName == "" {
			utils.RespondWithError(w, http.StatusBadRequest, models.Error{Message: "First name and last name are required"})
			return
		}

		query := "INSERT INTO Students (first_name, last_name, marks_file_path) VALUES (?, ?, ?)"
		result, err := db.Exec(query, req.FirstName, req.LastName, req.MarksFilePath)
		if err != nil {
			logrus.WithField("op", "create student").WithError(err).Error("SQL error")
			utils.RespondWithError(w, http.StatusInternalServerError, models.Error{Message: err.Error()})
			return
		}

		rollNumber, err := result.LastInsertId()
		if err != nil {
			logrus.WithField("op", "create student").WithError(err).Error("LastInsertId error")
			utils.RespondWithError(w, http.StatusInternalServerError, models.Error{Message: err.Error()})
			return
		}

		student := models.Student{
			RollNumber:    int(rollNumber),
			FirstName:     req.FirstName,
			LastName:      req.LastName,
			MarksFilePath: req.MarksFilePath,
		}
		utils.ResponseJSON(w, models.CreateStudentResponse{Success: true, Student: student})
	}
}
