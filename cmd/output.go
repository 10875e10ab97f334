package cmd

import (
	"subject_recommender/internal/service"
	"subject_recommender/internal/util"
	"subject_recommender/pkg/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// respond 以统一响应结构输出到 stdout，失败时仍返回 err 以便设置退出码
func respond(cmd *cobra.Command, data interface{}, err error) error {
	out := cmd.OutOrStdout()
	if err != nil {
		if service.IsRejected(err) {
			logger.Log.Warn("Request rejected", zap.String("command", cmd.Name()), zap.Error(err))
		} else {
			logger.Log.Error("Command failed", zap.String("command", cmd.Name()), zap.Error(err))
		}
		if werr := util.WriteError(out, err); werr != nil {
			return werr
		}
		return err
	}
	return util.Success(out, data)
}
