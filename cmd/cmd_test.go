package cmd

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"subject_recommender/internal/lookup"
	"subject_recommender/internal/model"
	"subject_recommender/internal/repository"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const cliSubjects = `[
  {"id": 1, "name": "Machine Learning", "code": "ML",
   "subject_info": {"level": 1, "semester": 3, "season": "W", "activated": true,
     "participants": [320], "elective_for": ["KI23"], "prerequisite": {},
     "professors": ["Ana"], "technologies": ["Python"], "tags": ["AI / ML"], "evaluation": ["Exam"]}},
  {"id": 2, "name": "Databases", "code": "DB",
   "subject_info": {"level": 1, "semester": 4, "season": "W", "is_easy": true, "activated": false,
     "participants": [80], "elective_for": ["KI23"], "prerequisite": {"credits": 10},
     "professors": ["Boris"], "technologies": ["SQL"], "tags": ["Data Science"], "evaluation": ["Project"]}},
  {"id": 3, "name": "Ethics", "code": "ETH",
   "subject_info": {"level": 1, "semester": 3, "season": "S", "activated": true,
     "elective_for": ["KI23"], "prerequisite": {}, "tags": ["Societal Skills"]}}
]`

const cliStudent = `{"id": 42, "study_track": "KI23", "current_year": 2, "study_effort": 3,
  "total_credits": 30, "level_credits": [0, 0], "passed_subject_ids": [],
  "professors": ["Ana"], "tags": ["AI / ML"], "technologies": ["Python"], "evaluation": ["Exam"]}`

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// setupWorkspace 写入配置、课程目录、学生档案和查找表，返回配置目录和学生文件路径
func setupWorkspace(t *testing.T) (string, string) {
	t.Helper()
	dir := t.TempDir()

	subjectsFile := filepath.Join(dir, "subjects.json")
	require.NoError(t, os.WriteFile(subjectsFile, []byte(cliSubjects), 0644))
	studentFile := filepath.Join(dir, "student.json")
	require.NoError(t, os.WriteFile(studentFile, []byte(cliStudent), 0644))
	studentsFile := filepath.Join(dir, "students.json")
	require.NoError(t, os.WriteFile(studentsFile, []byte("["+cliStudent+"]"), 0644))

	subjects, err := repository.NewFileCatalog(subjectsFile, studentsFile).ListWithInfo(context.Background())
	require.NoError(t, err)
	vocab := lookup.BuildVocabulary(subjects)
	graph, _, err := lookup.BuildTagGraph(vocab, []lookup.TagEdge{{From: "Data Science", To: "AI / ML", Weight: 3}})
	require.NoError(t, err)
	tables, err := lookup.NewTables(vocab, lookup.BuildSubjectVectors(vocab, subjects), graph)
	require.NoError(t, err)
	require.NoError(t, lookup.Write(filepath.Join(dir, "tables"), tables))

	configDir := filepath.Join(dir, "configs")
	require.NoError(t, os.MkdirAll(configDir, 0755))
	cfg := fmt.Sprintf(`server:
  name: subject-recommender-test
  mode: test
log:
  file: %s
storage:
  type: local
  local_path: %s
  tables_prefix: tables
catalog:
  source: file
  subjects_file: %s
  students_file: %s
`, filepath.Join(dir, "logs", "app.log"), dir, subjectsFile, studentsFile)
	require.NoError(t, os.WriteFile(filepath.Join(configDir, "config.yaml"), []byte(cfg), 0644))

	return configDir, studentFile
}

func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.PersistentFlags().VisitAll(reset)
	c.Flags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

func execute(t *testing.T, args ...string) (envelope, error) {
	t.Helper()
	resetFlags(rootCmd)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()

	var resp envelope
	require.NoError(t, json.Unmarshal(out.Bytes(), &resp), out.String())
	return resp, err
}

func TestRecommendCommand(t *testing.T) {
	configDir, studentFile := setupWorkspace(t)

	tests := []struct {
		name     string
		args     []string
		wantCode int
		want     []string
	}{
		{
			name:     "student file winter",
			args:     []string{"recommend", "--config", configDir, "--student-file", studentFile, "--term", "winter"},
			wantCode: 200,
			want:     []string{"Machine Learning", "Databases"},
		},
		{
			name:     "active only",
			args:     []string{"recommend", "--config", configDir, "--student-id", "42", "--term", "1", "--active-only"},
			wantCode: 200,
			want:     []string{"Machine Learning"},
		},
		{
			name:     "summer",
			args:     []string{"recommend", "--config", configDir, "--student-id", "42", "--term", "summer"},
			wantCode: 200,
			want:     []string{"Ethics"},
		},
		{
			name:     "unknown term",
			args:     []string{"recommend", "--config", configDir, "--student-id", "42", "--term", "spring"},
			wantCode: 400,
		},
		{
			name:     "unknown student",
			args:     []string{"recommend", "--config", configDir, "--student-id", "7"},
			wantCode: 404,
		},
		{
			name:     "no student",
			args:     []string{"recommend", "--config", configDir},
			wantCode: 400,
		},
		{
			name:     "watch needs file",
			args:     []string{"recommend", "--config", configDir, "--student-id", "42", "--watch"},
			wantCode: 400,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := execute(t, tt.args...)
			assert.Equal(t, tt.wantCode, resp.Code)
			if tt.wantCode != 200 {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)

			var result struct {
				Recommendations []struct {
					SubjectName string `json:"subject_name"`
				} `json:"recommendations"`
			}
			require.NoError(t, json.Unmarshal(resp.Data, &result))
			var names []string
			for _, r := range result.Recommendations {
				names = append(names, r.SubjectName)
			}
			assert.ElementsMatch(t, tt.want, names)
		})
	}
}

func TestEligibleCommand(t *testing.T) {
	configDir, _ := setupWorkspace(t)

	resp, err := execute(t, "eligible", "--config", configDir, "--student-id", "42", "--term", "any")
	require.NoError(t, err)
	assert.Equal(t, 200, resp.Code)

	var subjects []eligibleSubject
	require.NoError(t, json.Unmarshal(resp.Data, &subjects))
	require.Len(t, subjects, 3)
	assert.Equal(t, uint(1), subjects[0].ID)
	assert.Equal(t, model.SeasonSummer, subjects[2].Season)
}

func TestCheckTablesCommand(t *testing.T) {
	configDir, _ := setupWorkspace(t)

	resp, err := execute(t, "check-tables", "--config", configDir, "--with-catalog")
	require.NoError(t, err)
	assert.Equal(t, 200, resp.Code)

	var report tablesReport
	require.NoError(t, json.Unmarshal(resp.Data, &report))
	assert.Equal(t, 3, report.SubjectVectors)
	assert.Equal(t, 3, report.Vocabulary[lookup.CategoryTags])
	assert.Equal(t, 1, report.TagEdges)
	assert.Empty(t, report.MissingVectors)
}

func TestCheckTablesMissing(t *testing.T) {
	configDir, _ := setupWorkspace(t)
	require.NoError(t, os.RemoveAll(filepath.Join(filepath.Dir(configDir), "tables")))

	resp, err := execute(t, "check-tables", "--config", configDir)
	assert.Error(t, err)
	assert.Equal(t, 500, resp.Code)
}

func TestInvalidateWithoutCache(t *testing.T) {
	configDir, _ := setupWorkspace(t)

	resp, err := execute(t, "invalidate", "--config", configDir, "--student-id", "42")
	require.NoError(t, err)
	assert.Equal(t, 200, resp.Code)
	assert.JSONEq(t, `{"deleted": 0}`, string(resp.Data))
}
