package config

import (
	"time"

	"github.com/spf13/viper"
)

type AppConf struct {
	Env            string `mapstructure:"env"`
	Port           int    `mapstructure:"port"`
	ShutdownSecond int    `mapstructure:"shutdown_seconds"`
}

type S3Conf struct {
	Region      string `mapstructure:"region"`
	Bucket      string `mapstructure:"bucket"`
	Endpoint    string `mapstructure:"endpoint"`
	Folder      string `mapstructure:"folder"`
	PublicRead  bool   `mapstructure:"public_read"`
	PresignTTL  int    `mapstructure:"presign_ttl_seconds"`
	MaxUploadMB int64  `mapstructure:"max_upload_mb"`
}

type AuthConf struct {
	Required      bool   `mapstructure:"required"`
	JWTSecret     string `mapstructure:"jwt_secret"`
	TokenTTLHours int    `mapstructure:"token_ttl_hours"`
}

type StaticConf struct {
	Dir string `mapstructure:"dir"`
}

type RateLimitConf struct {
	PerMinute int `mapstructure:"per_minute"`
}

type Config struct {
	App       AppConf       `mapstructure:"app"`
	S3        S3Conf        `mapstructure:"s3"`
	Auth      AuthConf      `mapstructure:"auth"`
	Static    StaticConf    `mapstructure:"static"`
	RateLimit RateLimitConf `mapstructure:"ratelimit"`
	Log       struct {
		Level string `mapstructure:"level"`
	} `mapstructure:"log"`

	// derived
	ShutdownTimeout time.Duration
	PresignTTL      time.Duration
	TokenTTL        time.Duration
	MaxUploadBytes  int64
}

func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.AutomaticEnv()

	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", 3000)
	v.SetDefault("s3.folder", "sunrise_classroom")
	v.SetDefault("auth.required", true)

	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	if cfg.App.ShutdownSecond == 0 {
		cfg.App.ShutdownSecond = 15
	}
	if cfg.S3.PresignTTL == 0 {
		cfg.S3.PresignTTL = 600
	}
	if cfg.S3.MaxUploadMB == 0 {
		cfg.S3.MaxUploadMB = 50
	}
	if cfg.Auth.TokenTTLHours == 0 {
		cfg.Auth.TokenTTLHours = 12
	}
	if cfg.RateLimit.PerMinute == 0 {
		cfg.RateLimit.PerMinute = 120
	}
	cfg.ShutdownTimeout = time.Duration(cfg.App.ShutdownSecond) * time.Second
	cfg.PresignTTL = time.Duration(cfg.S3.PresignTTL) * time.Second
	cfg.TokenTTL = time.Duration(cfg.Auth.TokenTTLHours) * time.Hour
	cfg.MaxUploadBytes = cfg.S3.MaxUploadMB << 20
	return &cfg, nil
}
