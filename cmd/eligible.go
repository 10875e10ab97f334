package cmd

import (
	"subject_recommender/internal/model"

	"github.com/spf13/cobra"
)

// eligibleSubject 精简输出，不带课程详细信息
type eligibleSubject struct {
	ID        uint         `json:"id"`
	Code      string       `json:"code"`
	Name      string       `json:"name"`
	Level     int          `json:"level"`
	Semester  int          `json:"semester"`
	Season    model.Season `json:"season"`
	IsEasy    bool         `json:"is_easy"`
	Activated bool         `json:"activated"`
}

var eligibleCmd = &cobra.Command{
	Use:   "eligible",
	Short: "List the subjects a student may enrol in, unranked",
	RunE:  runEligible,
}

func init() {
	addRequestFlags(eligibleCmd)
	rootCmd.AddCommand(eligibleCmd)
}

func runEligible(cmd *cobra.Command, _ []string) error {
	req, err := parseRequest(cmd)
	if err != nil {
		return respond(cmd, nil, err)
	}
	src, err := parseStudentSource(cmd)
	if err != nil {
		return respond(cmd, nil, err)
	}

	application, err := openApp(cmd)
	if err != nil {
		return respond(cmd, nil, err)
	}
	ctx := cmdContext(cmd)
	defer application.Close(ctx)

	student, err := src.load(ctx, application.Students())
	if err != nil {
		return respond(cmd, nil, err)
	}
	subjects, err := application.Recommendation.Eligible(ctx, student, req)
	if err != nil {
		return respond(cmd, nil, err)
	}
	return respond(cmd, toEligibleView(subjects), nil)
}

func toEligibleView(subjects []model.Subject) []eligibleSubject {
	out := make([]eligibleSubject, 0, len(subjects))
	for _, s := range subjects {
		view := eligibleSubject{ID: s.ID, Code: s.Code, Name: s.Name}
		if s.Info != nil {
			view.Level = s.Info.Level
			view.Semester = s.Info.Semester
			view.Season = s.Info.Season
			view.IsEasy = s.Info.IsEasy
			view.Activated = s.Info.Activated
		}
		out = append(out, view)
	}
	return out
}
