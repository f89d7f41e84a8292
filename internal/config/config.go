package config

import (
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Env              string        `mapstructure:"ENV"`
	Port             string        `mapstructure:"PORT"`
	DatabaseURL      string        `mapstructure:"DATABASE_URL"`
	DatasetPath      string        `mapstructure:"DATASET_PATH"`
	ModelURL         string        `mapstructure:"MODEL_URL"`
	AdminKey         string        `mapstructure:"ADMIN_KEY"`
	AssistantBaseURL string        `mapstructure:"ASSISTANT_BASE_URL"`
	AssistantModel   string        `mapstructure:"ASSISTANT_MODEL"`
	AssistantAPIKey  string        `mapstructure:"ASSISTANT_API_KEY"`
	CORSAllowed      string        `mapstructure:"CORS_ALLOWED_ORIGINS"`
	RequestTimeout   time.Duration `mapstructure:"REQUEST_TIMEOUT"`
	LogLevel         string        `mapstructure:"LOG_LEVEL"`
	MaxUploadSizeMB  int64         `mapstructure:"MAX_UPLOAD_MB"`
	RawRowsLimit     int           `mapstructure:"RAW_ROWS_LIMIT"`
}

func Load() (Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	_ = v.ReadInConfig()

	v.SetDefault("ENV", "dev")
	v.SetDefault("PORT", "8080")
	v.SetDefault("DATASET_PATH", "data/orders.csv")
	v.SetDefault("REQUEST_TIMEOUT", "30s")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")
	v.SetDefault("MAX_UPLOAD_MB", 20)
	v.SetDefault("RAW_ROWS_LIMIT", 500)

	// Unmarshal only sees env vars for keys viper already knows about, so
	// every optional key needs at least an empty default.
	for _, key := range []string{
		"DATABASE_URL", "MODEL_URL", "ADMIN_KEY",
		"ASSISTANT_BASE_URL", "ASSISTANT_MODEL", "ASSISTANT_API_KEY",
	} {
		v.SetDefault(key, "")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
