package cmd

import (
	"context"
	"errors"
	"fmt"

	"subject_recommender/internal/model"
	"subject_recommender/internal/recommend"
	"subject_recommender/internal/repository"
	"subject_recommender/internal/service"
	"subject_recommender/internal/util"

	"github.com/spf13/cobra"
)

// addRequestFlags 注册 recommend / eligible 共用的参数
func addRequestFlags(cmd *cobra.Command) {
	cmd.Flags().Uint("student-id", 0, "load the student from the configured catalog")
	cmd.Flags().String("student-file", "", "read the student profile from a JSON file")
	cmd.Flags().String("term", "any", "term filter: summer|winter|any (or 0|1|2)")
	cmd.Flags().Bool("active-only", false, "drop subjects that are not currently activated")
	cmd.MarkFlagsMutuallyExclusive("student-id", "student-file")
}

func parseRequest(cmd *cobra.Command) (recommend.Request, error) {
	raw, _ := cmd.Flags().GetString("term")
	term, err := model.ParseTerm(raw)
	if err != nil {
		return recommend.Request{}, err
	}
	activeOnly, _ := cmd.Flags().GetBool("active-only")
	return recommend.Request{Term: term, ActiveOnly: activeOnly}, nil
}

// studentSource 学生来源：文件优先，其次按 id 从目录加载
type studentSource struct {
	id   uint
	file string
}

func parseStudentSource(cmd *cobra.Command) (studentSource, error) {
	id, _ := cmd.Flags().GetUint("student-id")
	file, _ := cmd.Flags().GetString("student-file")
	if id == 0 && file == "" {
		return studentSource{}, fmt.Errorf("%w: one of --student-id or --student-file is required", util.ErrInvalidInput)
	}
	return studentSource{id: id, file: file}, nil
}

func (s studentSource) load(ctx context.Context, finder service.StudentFinder) (*model.Student, error) {
	if s.file != "" {
		return repository.ReadStudentFile(s.file)
	}
	if finder == nil {
		return nil, errors.New("no student catalog configured")
	}
	return finder.FindByID(ctx, s.id)
}
