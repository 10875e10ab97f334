package repository

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"subject_recommender/internal/model"
	"subject_recommender/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const subjectsJSON = `[
  {
    "id": 5,
    "name": "Machine Learning",
    "code": "ML",
    "subject_info": {
      "level": 2, "semester": 5, "season": "W", "is_easy": false, "activated": true,
      "participants": [120, 180], "elective_for": ["KI23", "IMB23"],
      "prerequisite": {"subjects": [1, 2]},
      "tags": ["AI / ML"]
    }
  },
  {
    "id": 6,
    "name": "Ethics",
    "code": "ETH",
    "subject_info": {
      "level": 1, "semester": 2, "season": "S", "is_easy": true, "activated": false,
      "elective_for": ["KI23"], "prerequisite": {}
    }
  }
]`

const studentsJSON = `[
  {"id": 1, "study_track": "KI23", "current_year": 2, "study_effort": 3, "total_credits": 48,
   "level_credits": [6, 12], "passed_subject_ids": [1], "tags": ["AI / ML"]}
]`

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestFileCatalog(t *testing.T) {
	dir := t.TempDir()
	c := NewFileCatalog(writeFile(t, dir, "subjects.json", subjectsJSON), writeFile(t, dir, "students.json", studentsJSON))
	ctx := context.Background()

	subjects, err := c.ListWithInfo(ctx)
	require.NoError(t, err)
	require.Len(t, subjects, 2)
	assert.Equal(t, uint(5), subjects[0].ID)
	assert.Equal(t, model.RequiredAnySubject, subjects[0].Info.Prerequisite.Kind)
	assert.Equal(t, []uint{1, 2}, subjects[0].Info.Prerequisite.SubjectIDs)
	assert.Equal(t, model.NoPrerequisite, subjects[1].Info.Prerequisite.Kind)
	assert.Equal(t, model.SeasonSummer, subjects[1].Info.Season)

	student, err := c.FindByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "KI23", student.StudyTrack)
	assert.Equal(t, 6, student.LevelCreditsAt(1))

	_, err = c.FindByID(ctx, 99)
	assert.ErrorIs(t, err, util.ErrStudentNotFound)
}

func TestFileCatalogRejectsMalformedPrerequisite(t *testing.T) {
	dir := t.TempDir()
	c := NewFileCatalog(writeFile(t, dir, "subjects.json",
		`[{"id": 1, "name": "X", "subject_info": {"prerequisite": {"credits": 10, "subjects": [2]}}}]`), "")

	_, err := c.ListWithInfo(context.Background())
	assert.ErrorIs(t, err, util.ErrInvalidInput)
}

func TestReadStudentFile(t *testing.T) {
	dir := t.TempDir()
	s, err := ReadStudentFile(writeFile(t, dir, "me.json", `{"id": 3, "study_track": "IE23", "study_effort": 5}`))
	require.NoError(t, err)
	assert.Equal(t, uint(3), s.ID)
	assert.Equal(t, 5, s.StudyEffort)

	_, err = ReadStudentFile(filepath.Join(dir, "missing.json"))
	assert.ErrorIs(t, err, util.ErrStudentNotFound)
	assert.Contains(t, err.Error(), "missing.json")
}

func TestFileCatalogMissingFiles(t *testing.T) {
	dir := t.TempDir()
	c := NewFileCatalog(filepath.Join(dir, "subjects.json"), filepath.Join(dir, "students.json"))
	ctx := context.Background()

	_, err := c.ListWithInfo(ctx)
	assert.ErrorIs(t, err, util.ErrInvalidInput)
	assert.Contains(t, err.Error(), "subjects.json")
	assert.Equal(t, http.StatusBadRequest, util.StatusFor(err))

	_, err = c.FindByID(ctx, 1)
	assert.ErrorIs(t, err, util.ErrStudentNotFound)
	assert.Contains(t, err.Error(), "students.json")
	assert.Equal(t, http.StatusNotFound, util.StatusFor(err))
}
