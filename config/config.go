package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"
)

const (
	StorageLocal = "local"
	StorageS3    = "s3"

	SessionMemory = "memory"
	SessionRedis  = "redis"
)

type (
	APP struct {
		Name          string
		Host          string
		Port          string
		Env           string
		SessionSecret string
		SessionTTL    time.Duration
		BcryptCost    int
	}
	DB struct {
		User     string
		Password string
		Name     string
		Host     string
		Port     string
		SSLMode  string
	}
	Storage struct {
		Backend        string
		LocalDir       string
		UploadMaxBytes int64
	}
	S3 struct {
		Region          string
		AccessKeyID     string
		SecretAccessKey string
		BucketUploads   string
		Prefix          string
		Endpoint        string
	}
	Session struct {
		Store         string
		RedisAddr     string
		RedisPassword string
		RedisDB       int
	}
	MQ struct {
		User         string
		Password     string
		Vhost        string
		Host         string
		AmqpPort     string
		Exchange     string
		ExchangeType string
		QueueName    string
	}

	Config struct {
		App     APP
		DB      DB
		Storage Storage
		S3      S3
		Session Session
		MQ      MQ
	}
)

func getEnv(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	v, err := strconv.Atoi(getEnv(key, ""))
	if err != nil {
		return def
	}
	return v
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	v, err := time.ParseDuration(getEnv(key, ""))
	if err != nil || v <= 0 {
		return def
	}
	return v
}

func Load() Config {
	app := APP{
		Name:          getEnv("SERVICE_NAME", "drive-me-local"),
		Host:          getEnv("SERVICE_HOST", ""),
		Port:          getEnv("SERVICE_PORT", "8080"),
		Env:           getEnv("SERVICE_ENV", ""),
		SessionSecret: getEnv("SERVICE_SESSION_SECRET", ""),
		SessionTTL:    getEnvDuration("SERVICE_SESSION_TTL", 24*time.Hour),
		BcryptCost:    getEnvInt("BCRYPT_COST", 0),
	}
	db := DB{
		User:     getEnv("POSTGRES_USER", ""),
		Password: getEnv("POSTGRES_PASSWORD", ""),
		Name:     getEnv("POSTGRES_DB", ""),
		Host:     getEnv("POSTGRES_HOST", ""),
		Port:     getEnv("POSTGRES_PORT", "5432"),
		SSLMode:  getEnv("POSTGRES_SSLMODE", ""),
	}
	storage := Storage{
		Backend:        getEnv("STORAGE_BACKEND", StorageLocal),
		LocalDir:       getEnv("STORAGE_LOCAL_DIR", "uploads"),
		UploadMaxBytes: int64(getEnvInt("UPLOAD_MAX_BYTES", 10<<20)),
	}
	s3 := S3{
		Region:          getEnv("S3_REGION", ""),
		AccessKeyID:     getEnv("S3_ACCESS_KEY_ID", ""),
		SecretAccessKey: getEnv("S3_SECRET_ACCESS_KEY", ""),
		BucketUploads:   getEnv("S3_BUCKET_UPLOADS", ""),
		Prefix:          getEnv("S3_PREFIX", ""),
		Endpoint:        getEnv("S3_ENDPOINT", ""),
	}
	session := Session{
		Store:         getEnv("SESSION_STORE", SessionMemory),
		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),
	}
	mq := MQ{
		User:         getEnv("RABBITMQ_USER", ""),
		Password:     getEnv("RABBITMQ_PASSWORD", ""),
		Vhost:        getEnv("RABBITMQ_VHOST", ""),
		Host:         getEnv("RABBITMQ_HOST", ""),
		AmqpPort:     getEnv("RABBITMQ_AMQP_PORT", "5672"),
		Exchange:     getEnv("RABBITMQ_EXCHANGE", "drive.activity"),
		ExchangeType: getEnv("RABBITMQ_EXCHANGE_TYPE", "direct"),
		QueueName:    getEnv("RABBITMQ_QUEUE_NAME", "drive.activity.audit"),
	}

	return Config{
		App:     app,
		DB:      db,
		Storage: storage,
		S3:      s3,
		Session: session,
		MQ:      mq,
	}
}

func (c Config) IsProduction() bool {
	switch c.App.Env {
	case "release", "prod", "production":
		return true
	}
	return false
}

func (c Config) Validate() error {
	if len(c.App.SessionSecret) < 32 {
		return fmt.Errorf("SERVICE_SESSION_SECRET must be at least 32 bytes")
	}
	switch c.Storage.Backend {
	case StorageLocal:
		if c.Storage.LocalDir == "" {
			return fmt.Errorf("STORAGE_LOCAL_DIR is required for local storage")
		}
	case StorageS3:
		if c.S3.BucketUploads == "" || c.S3.Region == "" {
			return fmt.Errorf("S3_BUCKET_UPLOADS and S3_REGION are required for s3 storage")
		}
	default:
		return fmt.Errorf("unknown STORAGE_BACKEND %q", c.Storage.Backend)
	}
	switch c.Session.Store {
	case SessionMemory:
	case SessionRedis:
		if c.Session.RedisAddr == "" {
			return fmt.Errorf("REDIS_ADDR is required for redis session store")
		}
	default:
		return fmt.Errorf("unknown SESSION_STORE %q", c.Session.Store)
	}
	if c.Storage.UploadMaxBytes <= 0 {
		return fmt.Errorf("UPLOAD_MAX_BYTES must be positive")
	}
	return nil
}

func (c Config) DBDSN() (string, error) {
	if c.DB.User == "" || c.DB.Name == "" || c.DB.Host == "" || c.DB.Port == "" {
		return "", fmt.Errorf("incomplete DB config")
	}
	return c.dsn(url.UserPassword(c.DB.User, c.DB.Password)), nil
}

// RedactedDBDSN is safe to log.
func (c Config) RedactedDBDSN() string {
	if c.DB.Password == "" {
		return c.dsn(url.User(c.DB.User))
	}
	return c.dsn(url.UserPassword(c.DB.User, "xxxxx"))
}

func (c Config) dsn(userinfo *url.Userinfo) string {
	u := url.URL{
		Scheme: "postgres",
		User:   userinfo,
		Host:   c.DB.Host + ":" + c.DB.Port,
		Path:   "/" + c.DB.Name,
	}
	if c.DB.SSLMode != "" {
		u.RawQuery = url.Values{"sslmode": {c.DB.SSLMode}}.Encode()
	}
	return u.String()
}

// MQEnabled reports whether activity events are fanned out to RabbitMQ.
func (c Config) MQEnabled() bool { return c.MQ.Host != "" }

func (c Config) AMQPDSN() (string, error) {
	if c.MQ.User == "" || c.MQ.Host == "" || c.MQ.AmqpPort == "" {
		return "", fmt.Errorf("invalid MQ config: user, host and amqp port are required")
	}

	return fmt.Sprintf(
		"%s://%s@%s:%s/%s",
		"amqp",
		url.UserPassword(c.MQ.User, c.MQ.Password).String(),
		c.MQ.Host,
		c.MQ.AmqpPort,
		url.PathEscape(c.MQ.Vhost),
	), nil
}
