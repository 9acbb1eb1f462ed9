package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const ENV_FILE = ".env"
const CONFIG_FILE = "config.yaml"

type AppConfig struct {
	Logging   LoggingConfig   `yaml:"logging"`
	Server    ServerConfig    `yaml:"server"`
	Storage   StorageConfig   `yaml:"storage"`
	Mongo     MongoConfig     `yaml:"mongo"`
	Auth      AuthConfig      `yaml:"auth"`
	Password  PasswordConfig  `yaml:"password"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Redis     RedisConfig     `yaml:"redis"`
	Kafka     KafkaConfig     `yaml:"kafka"`
	CORS      CORSConfig      `yaml:"cors"`
	Seeder    SeederConfig    `yaml:"seeder"`
}

type LoggingConfig struct {
	Level string `yaml:"level" env:"LOG_LEVEL"`
}

type ServerConfig struct {
	Addr            string        `yaml:"addr" env:"SERVER_ADDR"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// StorageConfig 는 리소스 저장소 구현을 선택한다.
// "mongo"(기본값) 또는 로컬 개발용 "memory".
type StorageConfig struct {
	Driver string `yaml:"driver" env:"STORAGE_DRIVER"`
}

type MongoConfig struct {
	URI            string        `yaml:"uri" env:"MONGO_URI"`
	Database       string        `yaml:"database" env:"MONGO_DB_NAME"`
	ConnectTimeout time.Duration `yaml:"connect_timeout"`
}

// AuthConfig 는 토큰 서명 설정이다. Secret 은 config.yaml 이 아닌
// SECRET_KEY 환경변수로만 주입한다.
type AuthConfig struct {
	Secret   string        `yaml:"-" env:"SECRET_KEY"`
	Issuer   string        `yaml:"issuer" env:"TOKEN_ISSUER"`
	TokenTTL time.Duration `yaml:"token_ttl"`
}

type PasswordConfig struct {
	Cost int `yaml:"cost"`
}

// WindowConfig 는 하나의 rate limit 스코프(users, posts)에 대한 고정 윈도우 설정이다.
type WindowConfig struct {
	Limit  int           `yaml:"limit"`
	Window time.Duration `yaml:"window"`
}

type RateLimitConfig struct {
	Users WindowConfig `yaml:"users"`
	Posts WindowConfig `yaml:"posts"`

	// MaxEntries 는 인메모리 스토어가 보관하는 클라이언트 키 수의 상한이다.
	MaxEntries int `yaml:"max_entries"`
	// SweepInterval 마다 윈도우가 지난 엔트리를 정리한다.
	SweepInterval time.Duration `yaml:"sweep_interval"`
}

// RedisConfig 가 설정되면 rate limit 카운터를 여러 프로세스가 공유한다.
type RedisConfig struct {
	URL    string `yaml:"url" env:"REDIS_URL"`
	Prefix string `yaml:"prefix"`
}

type KafkaConfig struct {
	BootstrapServers string        `yaml:"bootstrap_servers" env:"KAFKA_BOOTSTRAP_SERVERS"`
	TopicPrefix      string        `yaml:"topic_prefix"`
	EnsureTopics     bool          `yaml:"ensure_topics"`
	Partitions       int           `yaml:"partitions"`
	PublishTimeout   time.Duration `yaml:"publish_timeout"`
	// GroupID 는 activity 워커의 consumer group 이다.
	GroupID string `yaml:"group_id" env:"KAFKA_GROUP_ID"`
}

type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
}

type SeederConfig struct {
	Enabled  bool `yaml:"enabled" env:"SEEDER_ENABLED"`
	MaxCount int  `yaml:"max_count"`
}

var config *AppConfig

func InitApp() {
	c, err := Load(GetBasePath())
	if err != nil {
		panic(err)
	}
	config = c
}

func GetConfig() AppConfig {
	if config == nil {
		InitApp()
	}

	return *config
}

// Load 는 dir 의 .env 와 config.yaml 을 읽고, 환경변수 오버라이드와 기본값을 적용한다.
// config.yaml 이 없으면 기본값과 환경변수만으로 구성한다.
func Load(dir string) (*AppConfig, error) {
	_ = godotenv.Load(filepath.Join(dir, ENV_FILE))

	var c AppConfig
	data, err := os.ReadFile(filepath.Join(dir, CONFIG_FILE))
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &c); err != nil {
			return nil, fmt.Errorf("parse %s: %w", CONFIG_FILE, err)
		}
	case os.IsNotExist(err):
	default:
		return nil, fmt.Errorf("read %s: %w", CONFIG_FILE, err)
	}

	if err := cleanenv.ReadEnv(&c); err != nil {
		return nil, fmt.Errorf("read env: %w", err)
	}

	c.applyDefaults()
	return &c, nil
}

func (c *AppConfig) applyDefaults() {
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Server.ReadTimeout <= 0 {
		c.Server.ReadTimeout = 15 * time.Second
	}
	if c.Server.WriteTimeout <= 0 {
		c.Server.WriteTimeout = 15 * time.Second
	}
	if c.Server.ShutdownTimeout <= 0 {
		c.Server.ShutdownTimeout = 10 * time.Second
	}
	if c.Storage.Driver == "" {
		c.Storage.Driver = "mongo"
	}
	if c.Mongo.URI == "" {
		// local docker-compose default
		c.Mongo.URI = "mongodb://localhost:27017"
	}
	if c.Mongo.Database == "" {
		c.Mongo.Database = "post_board"
	}
	if c.Mongo.ConnectTimeout <= 0 {
		c.Mongo.ConnectTimeout = 10 * time.Second
	}
	if c.Auth.Issuer == "" {
		c.Auth.Issuer = "post-board"
	}
	if c.Auth.TokenTTL <= 0 {
		c.Auth.TokenTTL = 30 * 24 * time.Hour
	}
	if c.RateLimit.Users.Limit <= 0 {
		c.RateLimit.Users.Limit = 5
	}
	if c.RateLimit.Users.Window <= 0 {
		c.RateLimit.Users.Window = time.Minute
	}
	if c.RateLimit.Posts.Limit <= 0 {
		c.RateLimit.Posts.Limit = 60
	}
	if c.RateLimit.Posts.Window <= 0 {
		c.RateLimit.Posts.Window = time.Minute
	}
	if c.RateLimit.MaxEntries <= 0 {
		c.RateLimit.MaxEntries = 10000
	}
	if c.RateLimit.SweepInterval <= 0 {
		c.RateLimit.SweepInterval = time.Minute
	}
	if c.Redis.Prefix == "" {
		c.Redis.Prefix = "post-board:rl:"
	}
	if c.Kafka.TopicPrefix == "" {
		c.Kafka.TopicPrefix = "post-board"
	}
	if c.Kafka.Partitions <= 0 {
		c.Kafka.Partitions = 1
	}
	if c.Kafka.PublishTimeout <= 0 {
		c.Kafka.PublishTimeout = 5 * time.Second
	}
	if c.Kafka.GroupID == "" {
		c.Kafka.GroupID = "post-board-activity"
	}
	if c.Seeder.MaxCount <= 0 {
		c.Seeder.MaxCount = 1000
	}
}

func GetBasePath() string {
	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}

	dir := cwd
	for {
		cfgPath := filepath.Join(dir, CONFIG_FILE)
		if info, err := os.Stat(cfgPath); err == nil && !info.IsDir() {
			return dir
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return ""
}
