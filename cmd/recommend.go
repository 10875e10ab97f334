package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"subject_recommender/internal/app"
	"subject_recommender/internal/recommend"
	"subject_recommender/internal/util"
	"subject_recommender/pkg/configwatcher"
	"subject_recommender/pkg/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const watchDebounce = 300 * time.Millisecond

var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Rank the subjects a student is eligible for",
	Example: `  subject-recommender recommend --student-id 42 --term winter
  subject-recommender recommend --student-file student.json --active-only --watch`,
	RunE: runRecommend,
}

func init() {
	addRequestFlags(recommendCmd)
	recommendCmd.Flags().Bool("watch", false, "re-run whenever --student-file changes")
	rootCmd.AddCommand(recommendCmd)
}

func runRecommend(cmd *cobra.Command, _ []string) error {
	req, err := parseRequest(cmd)
	if err != nil {
		return respond(cmd, nil, err)
	}
	src, err := parseStudentSource(cmd)
	if err != nil {
		return respond(cmd, nil, err)
	}
	watch, _ := cmd.Flags().GetBool("watch")
	if watch && src.file == "" {
		return respond(cmd, nil, fmt.Errorf("%w: --watch requires --student-file", util.ErrInvalidInput))
	}

	application, err := openApp(cmd)
	if err != nil {
		return respond(cmd, nil, err)
	}
	ctx := cmdContext(cmd)
	defer application.Close(ctx)

	if !watch {
		return recommendOnce(ctx, cmd, application, src, req, false)
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 监听模式下单次失败只输出错误，继续等待下一次修改
	_ = recommendOnce(ctx, cmd, application, src, req, false)
	logger.Log.Info("Watching student profile for changes", zap.String("file", src.file))
	return configwatcher.WatchFile(ctx, src.file, watchDebounce, func() {
		_ = recommendOnce(ctx, cmd, application, src, req, true)
	})
}

// recommendOnce 加载学生并输出一次推荐；invalidate 为 true 时先清掉该学生的缓存
func recommendOnce(ctx context.Context, cmd *cobra.Command, application *app.App, src studentSource, req recommend.Request, invalidate bool) error {
	student, err := src.load(ctx, application.Students())
	if err != nil {
		return respond(cmd, nil, err)
	}
	if invalidate {
		if _, err := application.Recommendation.Invalidate(ctx, student.ID); err != nil {
			logger.Log.Warn("Cache invalidation failed", zap.Uint("student_id", student.ID), zap.Error(err))
		}
	}
	result, err := application.Recommendation.Recommend(ctx, student, req)
	return respond(cmd, result, err)
}
