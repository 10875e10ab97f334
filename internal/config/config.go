package config

import (
	"errors"
	"fmt"
	"strings"

	"subject_recommender/internal/recommend"
	"subject_recommender/internal/util"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Log      LogConfig `mapstructure:"log"`
	Database DatabaseConfig
	Redis    RedisConfig
	Storage  StorageConfig
	Tracing  TracingConfig    `mapstructure:"tracing"`
	Metrics  MetricsConfig    `mapstructure:"metrics"`
	Cache    CacheConfig      `mapstructure:"cache"`
	Catalog  CatalogConfig    `mapstructure:"catalog"`
	Engine   recommend.Tuning `mapstructure:"engine"`
}

type ServerConfig struct {
	Name string
	Mode string
}

type LogConfig struct {
	File       string `mapstructure:"file"`
	MaxSize    int    `mapstructure:"max_size"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAge     int    `mapstructure:"max_age"`
	Compress   bool   `mapstructure:"compress"`
}

type DatabaseConfig struct {
	Host      string
	Port      int
	User      string
	Password  string
	DBName    string
	Charset   string
	ParseTime bool
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type StorageConfig struct {
	Type          string `mapstructure:"type"`
	LocalPath     string `mapstructure:"local_path"`
	TablesPrefix  string `mapstructure:"tables_prefix"`
	MinioEndpoint string `mapstructure:"minio_endpoint"`
	MinioAccessID string `mapstructure:"minio_access_key"`
	MinioSecret   string `mapstructure:"minio_secret_key"`
	MinioBucket   string `mapstructure:"minio_bucket"`
	MinioUseSSL   bool   `mapstructure:"minio_use_ssl"`
	OSSEndpoint   string `mapstructure:"oss_endpoint"`
	OSSAccessKey  string `mapstructure:"oss_access_key"`
	OSSSecretKey  string `mapstructure:"oss_secret_key"`
	OSSBucket     string `mapstructure:"oss_bucket"`
}

type TracingConfig struct {
	Enabled           bool   `mapstructure:"enabled"`
	CollectorEndpoint string `mapstructure:"collector_endpoint"`
}

// MetricsConfig 无 HTTP 接口，指标写入 node-exporter textfile 目录
type MetricsConfig struct {
	Enabled      bool   `mapstructure:"enabled"`
	TextfilePath string `mapstructure:"textfile_path"`
}

type CacheConfig struct {
	Enabled            bool   `mapstructure:"enabled"`
	TTLHours           int    `mapstructure:"ttl_hours"`
	BreakerMaxFailures uint32 `mapstructure:"breaker_max_failures"`
	BreakerOpenSeconds int    `mapstructure:"breaker_open_seconds"`
	OperationTimeoutMs int    `mapstructure:"operation_timeout_ms"`
}

// CatalogConfig 课程与学生数据来源: database 或 file
type CatalogConfig struct {
	Source       string `mapstructure:"source"`
	SubjectsFile string `mapstructure:"subjects_file"`
	StudentsFile string `mapstructure:"students_file"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.name", "subject-recommender")
	v.SetDefault("server.mode", "debug")

	v.SetDefault("log.file", "logs/app.log")
	v.SetDefault("log.max_size", 100)
	v.SetDefault("log.max_backups", 5)
	v.SetDefault("log.max_age", 30)
	v.SetDefault("log.compress", true)

	v.SetDefault("database.host", "127.0.0.1")
	v.SetDefault("database.port", 3306)
	v.SetDefault("database.charset", "utf8mb4")
	v.SetDefault("database.parsetime", true)

	v.SetDefault("redis.host", "127.0.0.1")
	v.SetDefault("redis.port", 6379)

	v.SetDefault("storage.type", util.StorageLocal)
	v.SetDefault("storage.local_path", "data")
	v.SetDefault("storage.tables_prefix", "tables")

	v.SetDefault("metrics.textfile_path", "metrics/subject_recommender.prom")

	v.SetDefault("cache.enabled", false)
	v.SetDefault("cache.ttl_hours", util.DefaultCacheTTLHours)
	v.SetDefault("cache.breaker_max_failures", 5)
	v.SetDefault("cache.breaker_open_seconds", 30)
	v.SetDefault("cache.operation_timeout_ms", 500)

	v.SetDefault("catalog.source", "file")
	v.SetDefault("catalog.subjects_file", "data/subjects.json")
	v.SetDefault("catalog.students_file", "data/students.json")

	t := recommend.DefaultTuning()
	v.SetDefault("engine.weights.professors", t.Weights.Professors)
	v.SetDefault("engine.weights.assistants", t.Weights.Assistants)
	v.SetDefault("engine.weights.technologies", t.Weights.Technologies)
	v.SetDefault("engine.weights.tags", t.Weights.Tags)
	v.SetDefault("engine.weights.evaluation", t.Weights.Evaluation)
	v.SetDefault("engine.weights.effort", t.Weights.Effort)
	v.SetDefault("engine.weights.activated", t.Weights.Activated)
	v.SetDefault("engine.weights.participants", t.Weights.Participants)
	v.SetDefault("engine.bias_student_has_one", t.BiasStudentHasOne)
	v.SetDefault("engine.bias_subject_has_one", t.BiasSubjectHasOne)
	v.SetDefault("engine.number_of_suggestions", t.NumberOfSuggestions)
	v.SetDefault("engine.level_credit_caps", t.LevelCreditCaps)
	v.SetDefault("engine.low_effort_max", t.LowEffortMax)
	v.SetDefault("engine.high_effort_min", t.HighEffortMin)
	v.SetDefault("engine.match_denominator", t.MatchDenominator)
	v.SetDefault("engine.explain.tags", t.Explain.Tags)
	v.SetDefault("engine.explain.professors", t.Explain.Professors)
	v.SetDefault("engine.explain.assistants", t.Explain.Assistants)
	v.SetDefault("engine.explain.technologies", t.Explain.Technologies)
	v.SetDefault("engine.explain.evaluation", t.Explain.Evaluation)
	v.SetDefault("engine.known_tracks", t.KnownTracks)
}

// LoadConfig reads config.yaml from path. A missing file is not an error: defaults
// and environment variables still apply.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	v.SetEnvPrefix("SUBJECT_REC")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// Database
	v.BindEnv("database.host", "DATABASE_HOST")
	v.BindEnv("database.port", "DATABASE_PORT")
	v.BindEnv("database.user", "DATABASE_USER")
	v.BindEnv("database.password", "DATABASE_PASSWORD")
	v.BindEnv("database.dbname", "DATABASE_NAME")

	// Redis
	v.BindEnv("redis.host", "REDIS_HOST")
	v.BindEnv("redis.port", "REDIS_PORT")
	v.BindEnv("redis.password", "REDIS_PASSWORD")

	// Server
	v.BindEnv("server.mode", "SERVER_MODE")

	// Storage / OSS
	v.BindEnv("storage.type", "STORAGE_TYPE")
	v.BindEnv("storage.oss_endpoint", "OSS_ENDPOINT")
	v.BindEnv("storage.oss_access_key", "OSS_ACCESS_KEY")
	v.BindEnv("storage.oss_secret_key", "OSS_SECRET_KEY")
	v.BindEnv("storage.oss_bucket", "OSS_BUCKET")
	v.BindEnv("storage.minio_endpoint", "MINIO_ENDPOINT")
	v.BindEnv("storage.minio_access_key", "MINIO_ACCESS_KEY")
	v.BindEnv("storage.minio_secret_key", "MINIO_SECRET_KEY")
	v.BindEnv("storage.minio_bucket", "MINIO_BUCKET")

	// Tracing
	v.BindEnv("tracing.enabled", "TRACING_ENABLED")
	v.BindEnv("tracing.collector_endpoint", "TRACING_COLLECTOR_ENDPOINT")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if err := cfg.Engine.Validate(); err != nil {
		return nil, err
	}

	switch cfg.Storage.Type {
	case util.StorageLocal, util.StorageMinio, util.StorageOSS:
	default:
		return nil, fmt.Errorf("%w: %q", util.ErrUnknownStorageProvider, cfg.Storage.Type)
	}

	if cfg.Catalog.Source != "database" && cfg.Catalog.Source != "file" {
		return nil, fmt.Errorf("catalog.source must be database or file, got %q", cfg.Catalog.Source)
	}

	// 生产环境必须显式配置数据库密码
	if cfg.Server.Mode == "release" && cfg.Catalog.Source == "database" && cfg.Database.Password == "" {
		return nil, fmt.Errorf("database password is required in release mode")
	}

	if cfg.Cache.TTLHours <= 0 {
		cfg.Cache.TTLHours = util.DefaultCacheTTLHours
	}

	return &cfg, nil
}
