package config

import (
	"time"

	"github.com/spf13/viper"
)

type (
	Config struct {
		HTTP
		Global
		DataSource
		Database
		LowCode
		Storage
		S3
		Diagnostics
		Logging
	}

	HTTP struct {
		Port int32
		Host string
	}
	Global struct {
		ShutdownTimeoutInSeconds int
	}
	DataSource struct {
		Default string // baas or lowcode; legacy names supabase and jeecg are accepted
	}
	Database struct {
		Path     string
		LogLevel string // silent, error, warn, info
	}
	LowCode struct {
		BaseURL string
		Token   string
		Timeout time.Duration // 0 means no client-side timeout
	}
	Storage struct {
		Provider  string // local or s3
		Dir       string // local provider root
		PublicURL string // base URL objects are served from
		Bucket    string // s3 bucket name
	}
	S3 struct {
		Endpoint  string
		Region    string
		AccessKey string
		SecretKey string
	}
	Diagnostics struct {
		Enabled  bool
		Schedule string // Cron format: "*/15 * * * *" = every 15 minutes
	}
	Logging struct {
		Level string
	}
)

func NewConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", 8000)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("shutdown_timeout_in_seconds", 2)
	v.SetDefault("data_source", "baas")
	v.SetDefault("database_path", DefaultDatabasePath)
	v.SetDefault("database_log_level", "warn")
	v.SetDefault("lowcode_base_url", DefaultLowCodeBaseURL)
	v.SetDefault("lowcode_token", "")
	v.SetDefault("lowcode_timeout", "0s")
	v.SetDefault("storage_provider", StorageLocal)
	v.SetDefault("storage_dir", DefaultStorageDir)
	v.SetDefault("storage_public_url", "/uploads")
	v.SetDefault("storage_bucket", "uploads")
	v.SetDefault("s3_endpoint", "")
	v.SetDefault("s3_region", "us-east-1")
	v.SetDefault("diagnostics_enabled", true)
	v.SetDefault("diagnostics_schedule", "*/15 * * * *")
	v.SetDefault("log_level", "info")

	return &Config{
		HTTP: HTTP{
			Port: v.GetInt32("PORT"),
			Host: v.GetString("HOST"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
		DataSource: DataSource{
			Default: v.GetString("DATA_SOURCE"),
		},
		Database: Database{
			Path:     v.GetString("DATABASE_PATH"),
			LogLevel: v.GetString("DATABASE_LOG_LEVEL"),
		},
		LowCode: LowCode{
			BaseURL: v.GetString("LOWCODE_BASE_URL"),
			Token:   v.GetString("LOWCODE_TOKEN"),
			Timeout: v.GetDuration("LOWCODE_TIMEOUT"),
		},
		Storage: Storage{
			Provider:  v.GetString("STORAGE_PROVIDER"),
			Dir:       v.GetString("STORAGE_DIR"),
			PublicURL: v.GetString("STORAGE_PUBLIC_URL"),
			Bucket:    v.GetString("STORAGE_BUCKET"),
		},
		S3: S3{
			Endpoint:  v.GetString("S3_ENDPOINT"),
			Region:    v.GetString("S3_REGION"),
			AccessKey: v.GetString("S3_ACCESS_KEY"),
			SecretKey: v.GetString("S3_SECRET_KEY"),
		},
		Diagnostics: Diagnostics{
			Enabled:  v.GetBool("DIAGNOSTICS_ENABLED"),
			Schedule: v.GetString("DIAGNOSTICS_SCHEDULE"),
		},
		Logging: Logging{
			Level: v.GetString("LOG_LEVEL"),
		},
	}
}
