package config

import (
	"log"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Env        string `env:"ENV" env-required:"true"`
	LogLevel   string `env:"LOG_LEVEL" env-default:"info" env-description:"logging level, debug, info, etc."`
	HttpServer HttpServer
	Database   Database
	Limiter    Limiter
	SMTP       SMTPConfig
	Email      EmailConfig
	Cache      Cache
	Queue      Queue
	Schedule   Schedule
	Lock       Lock
}

type HttpServer struct {
	Port           string        `env:"HTTP_PORT" env-default:"8080"`
	Timeout        time.Duration `env:"HTTP_TIMEOUT" env-default:"4s"`
	IdleTimeout    time.Duration `env:"HTTP_IDLE_TIMEOUT" env-default:"60s"`
	AllowedOrigins []string      `env:"HTTP_ALLOWED_ORIGINS" env-default:"http://localhost:3000"`
	SwaggerEnabled bool          `env:"HTTP_SWAGGER_ENABLED" env-default:"false"`
}

type Database struct {
	Net                string        `env:"DB_NET" env-default:"tcp"`
	Server             string        `env:"DB_SERVER" env-required:"true"`
	DBName             string        `env:"DB_NAME" env-required:"true"`
	User               string        `env:"DB_USER" env-required:"true"`
	Password           string        `env:"DB_PASSWORD" env-required:"true"`
	TimeZone           string        `env:"DB_TIMEZONE"`
	Timeout            time.Duration `env:"DB_TIMEOUT" env-default:"2s"`
	MaxIdleConnections int           `env:"DB_MAX_IDLE_CONNECTIONS" env-default:"10"`
	MaxOpenConnections int           `env:"DB_MAX_OPEN_CONNECTIONS" env-default:"20"`
}

type Limiter struct {
	RPS   int           `env:"LIMITER_RPS" env-default:"10"`
	Burst int           `env:"LIMITER_BURST" env-default:"20"`
	TTL   time.Duration `env:"LIMITER_TTL" env-default:"10m"`
}

type SMTPConfig struct {
	Host string `env:"SMTP_HOST" env-required:"true"`
	Port int    `env:"SMTP_PORT" env-required:"true"`
	From string `env:"SMTP_FROM" env-required:"true"`
	Pass string `env:"SMTP_PASS" env-required:"true"`
}

type EmailConfig struct {
	Enabled   bool   `env:"EMAIL_ENABLED" env-default:"false"`
	BaseURL   string `env:"EMAIL_BASE_URL" env-default:"http://localhost:8080/public" env-description:"prefix for links placed in emails"`
	Templates EmailTemplates
}

type EmailTemplates struct {
	Dir                string `env:"EMAIL_TEMPLATE_DIR" env-default:"./templates"`
	SignupConfirm      string `env:"EMAIL_TEMPLATE_SIGNUP_CONFIRM" env-default:"signup_confirm.html"`
	UpdateConfirm      string `env:"EMAIL_TEMPLATE_UPDATE_CONFIRM" env-default:"update_confirm.html"`
	UpdateReminder     string `env:"EMAIL_TEMPLATE_UPDATE_REMINDER" env-default:"update_reminder.html"`
	UnsubscribeConfirm string `env:"EMAIL_TEMPLATE_UNSUBSCRIBE_CONFIRM" env-default:"unsubscribe_confirm.html"`
}

type Cache struct {
	Type  string `env:"REDIS_TYPE" env-default:"redis" env-description:"specifies provider, one of redis/redisCluster"`
	Redis struct {
		Address  string `env:"REDIS_ADDR" env-default:"localhost:6379" env-description:"redis host:port single instance"`
		Password string `env:"REDIS_PASSWORD" env-default:"" env-description:"redis password if exists"`
		PoolSize int    `env:"REDIS_POOL_SIZE" env-default:"70" env-description:"max tcp connections pool size"`
	}
	RedisCluster struct {
		Addresses []string `env:"REDIS_CLUSTER_ADDRS" env-default:"" env-description:"redis cluster nodes: ['172.27.29.90:7000','172.27.29.91:7001'', '172.27.29.92:7002'']"`
		Password  string   `env:"REDIS_PASSWORD" env-default:"" env-description:"redis password if exists"`
		PoolSize  int      `env:"REDIS_POOL_SIZE" env-default:"70" env-description:"max tcp connections pool size"`
	}
}

type Queue struct {
	Concurrency int `env:"QUEUE_CONCURRENCY" env-default:"10"`
	MaxRetry    int `env:"QUEUE_NOTIFICATION_MAX_RETRY" env-default:"5"`
}

// Schedule holds the periods of the background tasks.
type Schedule struct {
	Reminders           time.Duration `env:"SCHEDULE_REMINDERS" env-default:"1h"`
	ExpireConfirmation  time.Duration `env:"SCHEDULE_EXPIRE_CONFIRMATION" env-default:"30m"`
	ExpireUpdate        time.Duration `env:"SCHEDULE_EXPIRE_UPDATE" env-default:"30m"`
	ExpireUnsubscribe   time.Duration `env:"SCHEDULE_EXPIRE_UNSUBSCRIBE" env-default:"1m"`
	ExpirePendingUpdate time.Duration `env:"SCHEDULE_EXPIRE_PENDING_UPDATE" env-default:"1m"`
	TimeZone            string        `env:"SCHEDULE_TIMEZONE" env-default:"UTC"`
}

type Lock struct {
	TTL  time.Duration `env:"LOCK_TTL" env-default:"10s"`
	Wait time.Duration `env:"LOCK_WAIT" env-default:"3s"`
}

func MustLoad() *Config {
	var cfg Config

	if err := cleanenv.ReadEnv(&cfg); err != nil {
		log.Fatalf("cannot read config from environment: %s", err)
	}

	return &cfg
}
