package controllers_test

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"student-marksheets/config"
	"student-marksheets/controllers"
	"student-marksheets/driver"
	"student-marksheets/models"
)

func newTestEnv(t *testing.T) (*sql.DB, *config.Config, *mux.Router) {
	t.Helper()
	dir := t.TempDir()
	cfg := &config.Config{
		StoreDriver:           "sqlite3",
		StoreConnectionString: filepath.Join(dir, "students.db"),
		UploadsRoot:           filepath.Join(dir, "Marksheets"),
	}
	db, err := driver.ConnectDB(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, driver.EnsureSchema(db, cfg.StoreDriver))

	studentController := controllers.StudentController{}
	uploadController := controllers.UploadController{}
	router := mux.NewRouter()
	router.HandleFunc("/students", studentController.GetStudents(db, cfg)).Methods("GET")
	router.HandleFunc("/students", studentController.CreateStudent(db)).Methods("POST")
	router.HandleFunc("/upload/{rollNumber}", uploadController.UploadMarksheet(db, cfg)).Methods("POST")
	router.NotFoundHandler = controllers.NotFoundHandler()
	return db, cfg, router
}

func createStudent(t *testing.T, router *mux.Router, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/students", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func listStudents(t *testing.T, router *mux.Router) []models.Student {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/students", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	var students []models.Student
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &students))
	return students
}

func rowCount(t *testing.T, db *sql.DB) int {
	t.Helper()
	var n int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM Students").Scan(&n))
	return n
}

func TestCreateStudent(t *testing.T) {
	_, _, router := newTestEnv(t)

	rec := createStudent(t, router, `{"firstName":"Asel","lastName":"Nurlanova"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp models.CreateStudentResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "Asel", resp.Student.FirstName)
	assert.Equal(t, "Nurlanova", resp.Student.LastName)
	assert.Equal(t, "", resp.Student.MarksFilePath)
	assert.Greater(t, resp.Student.RollNumber, 0)

	students := listStudents(t, router)
	require.Len(t, students, 1)
	assert.Equal(t, resp.Student.RollNumber, students[0].RollNumber)
	assert.Equal(t, "", students[0].MarksFilePath)
}

func TestCreateStudentAssignsDistinctRollNumbers(t *testing.T) {
	_, _, router := newTestEnv(t)

	seen := map[int]bool{}
	for _, name := range []string{"A", "B", "C"} {
		rec := createStudent(t, router, `{"firstName":"`+name+`","lastName":"Test"}`)
		require.Equal(t, http.StatusOK, rec.Code)
		var resp models.CreateStudentResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.False(t, seen[resp.Student.RollNumber], "roll number %d assigned twice", resp.Student.RollNumber)
		seen[resp.Student.RollNumber] = true
	}
}

func TestCreateStudentValidation(t *testing.T) {
	db, _, router := newTestEnv(t)

	tests := []struct {
		name string
		body string
	}{
		{"missing both", `{}`},
		{"missing last name", `{"firstName":"Asel"}`},
		{"missing first name", `{"lastName":"Nurlanova"}`},
		{"whitespace only", `{"firstName":"  ","lastName":"\t"}`},
		{"malformed json", `{"firstName": `},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := createStudent(t, router, tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			var errResp models.Error
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &errResp))
			assert.NotEmpty(t, errResp.Message)
		})
	}
	assert.Equal(t, 0, rowCount(t, db), "validation failures must not insert rows")
}

func TestGetStudentsEmptyTable(t *testing.T) {
	_, _, router := newTestEnv(t)

	req := httptest.NewRequest(http.MethodGet, "/students", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "[]", strings.TrimSpace(rec.Body.String()))
}

func TestGetStudentsOrderedByRollNumber(t *testing.T) {
	db, _, router := newTestEnv(t)

	// Insert out of order with explicit roll numbers.
	for _, roll := range []int{30, 10, 20} {
		_, err := db.Exec("INSERT INTO Students (roll_number, first_name, last_name, marks_file_path) VALUES (?, ?, ?, '')", roll, "S", "T")
		require.NoError(t, err)
	}

	students := listStudents(t, router)
	require.Len(t, students, 3)
	assert.Equal(t, 10, students[0].RollNumber)
	assert.Equal(t, 20, students[1].RollNumber)
	assert.Equal(t, 30, students[2].RollNumber)
}

func TestGetStudentsNormalizesMarksPath(t *testing.T) {
	db, _, router := newTestEnv(t)

	rows := []struct {
		roll   int
		stored string
		want   string
	}{
		{1, `Marksheets\1\marks.xlsx`, "/Marksheets/1/marks.xlsx"},
		{2, "Marksheets/2/marks.xlsx", "/Marksheets/2/marks.xlsx"},
		{3, "marksheets/3/m.xls", "/marksheets/3/m.xls"},
		{4, "", ""},
	}
	for _, row := range rows {
		_, err := db.Exec("INSERT INTO Students (roll_number, first_name, last_name, marks_file_path) VALUES (?, 'S', 'T', ?)", row.roll, row.stored)
		require.NoError(t, err)
	}

	students := listStudents(t, router)
	require.Len(t, students, len(rows))
	for i, row := range rows {
		assert.Equal(t, row.want, students[i].MarksFilePath, "roll %d", row.roll)
		assert.NotContains(t, students[i].MarksFilePath, `\`)
	}
}

func TestUnmatchedRouteReturnsJSON404(t *testing.T) {
	_, _, router := newTestEnv(t)

	req := httptest.NewRequest(http.MethodGet, "/no/such/route", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	var errResp models.Error
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &errResp))
	assert.Equal(t, "Not found", errResp.Message)
}
