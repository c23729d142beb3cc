package models

// Student is one row of the Students table. RollNumber is assigned by the
// store on insert and never changes afterward.
type Student struct {
	RollNumber    int    `json:"RollNumber"`
	FirstName     string `json:"FirstName"`
	LastName      string `json:"LastName"`
	MarksFilePath string `json:"MarksFilePath"`
}

type CreateStudentRequest struct {
	FirstName     string `json:"firstName"`
	LastName      string `json:"lastName"`
	MarksFilePath string `json:"marksFilePath,omitempty"`
}

type CreateStudentResponse struct {
	Success bool    `json:"success"`
	Student Student `json:"student"`
}

type UploadResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Path    string `json:"path"`
}

type UploadsHealth struct {
	OK    bool   `json:"ok"`
	Path  string `json:"path,omitempty"`
	Error string `json:"error,omitempty"`
}

type Error struct {
	Message string `json:"error"`
}
