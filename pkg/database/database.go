package database

import (
	"fmt"

	"subject_recommender/internal/config"
	"subject_recommender/pkg/logger"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// InitDB 只读连接课程库，表结构由主应用维护，这里不做迁移
func InitDB(cfg *config.DatabaseConfig, mode string) (*gorm.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=Local",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.DBName,
		cfg.Charset,
		cfg.ParseTime,
	)

	level := gormlogger.Warn
	if mode == "debug" {
		level = gormlogger.Info
	}

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger:                 gormlogger.Default.LogMode(level),
		SkipDefaultTransaction: true,
	})
	if err != nil {
		return nil, err
	}

	logger.Log.Info("Database connection established")
	return db, nil
}
