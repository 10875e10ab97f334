package repository

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"subject_recommender/internal/model"
	"subject_recommender/internal/util"

	"github.com/goccy/go-json"
)

// FileCatalog serves subjects and students from JSON exports of the main database,
// for offline runs. Files are read on every call so edits are picked up.
type FileCatalog struct {
	SubjectsFile string
	StudentsFile string
}

func NewFileCatalog(subjectsFile, studentsFile string) *FileCatalog {
	return &FileCatalog{SubjectsFile: subjectsFile, StudentsFile: studentsFile}
}

func (c *FileCatalog) ListWithInfo(_ context.Context) ([]model.Subject, error) {
	var subjects []model.Subject
	if err := readJSON(c.SubjectsFile, &subjects, util.ErrInvalidInput); err != nil {
		return nil, err
	}
	return subjects, nil
}

func (c *FileCatalog) FindByID(_ context.Context, id uint) (*model.Student, error) {
	var students []model.Student
	if err := readJSON(c.StudentsFile, &students, util.ErrStudentNotFound); err != nil {
		return nil, err
	}
	for i := range students {
		if students[i].ID == id {
			return &students[i], nil
		}
	}
	return nil, util.ErrStudentNotFound
}

// ReadStudentFile decodes a single student profile.
func ReadStudentFile(path string) (*model.Student, error) {
	var student model.Student
	if err := readJSON(path, &student, util.ErrStudentNotFound); err != nil {
		return nil, err
	}
	return &student, nil
}

// readJSON 文件不存在时返回 missing 并带上路径，其余读取错误原样返回
func readJSON(path string, v interface{}, missing error) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %s does not exist", missing, path)
	}
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: %s: %w", util.ErrInvalidInput, path, err)
	}
	return nil
}
