package http

import (
	"time"
)

// Http holds the HTTP server configuration.
type Http struct {
	Host            string
	Port            int
	ContextPath     string `mapstructure:"contextPath"`
	PProf           bool
	ExposeMetrics   bool `mapstructure:"exposeMetrics"`
	AccessLog       bool `mapstructure:"accessLog"`
	ReadTimeout     int  `mapstructure:"readTimeout"`
	WriteTimeout    int  `mapstructure:"writeTimeout"`
	IdleTimeout     int  `mapstructure:"idleTimeout"`
	ShutdownTimeout int  `mapstructure:"shutdownTimeout"`
	TLS             TLS
	Auth            Auth
}

type TLS struct {
	CertFile string
	KeyFile  string
}

type Auth struct {
	SecretKey      string        `mapstructure:"secretKey"`
	AccessExpire   time.Duration `mapstructure:"accessExpire"`
	RefreshExpire  time.Duration `mapstructure:"refreshExpire"`
	RedisKeyPrefix string        `mapstructure:"redisKeyPrefix"`
}
