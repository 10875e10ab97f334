package cmd

import (
	"fmt"
	"time"

	"subject_recommender/internal/app"
	"subject_recommender/internal/repository"
	"subject_recommender/internal/service"
	"subject_recommender/internal/util"
	"subject_recommender/pkg/database"
	"subject_recommender/pkg/logger"

	"github.com/spf13/cobra"
)

var invalidateCmd = &cobra.Command{
	Use:   "invalidate",
	Short: "Drop every cached recommendation of a student",
	Long:  "Run after a student's profile or passed subjects change. Only redis is touched; the lookup tables and the catalog are not loaded.",
	RunE:  runInvalidate,
}

func init() {
	invalidateCmd.Flags().Uint("student-id", 0, "student whose cached results are dropped")
	_ = invalidateCmd.MarkFlagRequired("student-id")
	rootCmd.AddCommand(invalidateCmd)
}

func runInvalidate(cmd *cobra.Command, _ []string) error {
	id, _ := cmd.Flags().GetUint("student-id")
	if id == 0 {
		return respond(cmd, nil, fmt.Errorf("%w: --student-id must be positive", util.ErrInvalidInput))
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return respond(cmd, nil, err)
	}
	ctx := cmdContext(cmd)
	if _, err := app.InitObservability(cfg); err != nil {
		return respond(cmd, nil, err)
	}
	defer logger.Sync()

	if !cfg.Cache.Enabled {
		return respond(cmd, map[string]int{"deleted": 0}, nil)
	}

	rdb, err := database.InitRedis(ctx, &cfg.Redis)
	if err != nil {
		return respond(cmd, nil, err)
	}
	defer rdb.Close()

	cache := repository.NewRecommendationCacheRepository(rdb, cfg.Cache)
	svc := service.NewRecommendationService(nil, nil, nil, cache, time.Duration(cfg.Cache.TTLHours)*time.Hour)
	deleted, err := svc.Invalidate(ctx, id)
	if err != nil {
		return respond(cmd, nil, err)
	}
	return respond(cmd, map[string]int{"deleted": deleted}, nil)
}
