package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

const configPathEnv = "DEAL_CONFIG_PATH"

type DealConfig struct {
	Env          string `yaml:"env" env:"ENV" env-default:"local"`
	HTTPServer   `yaml:"http_server"`
	GRPCServer   `yaml:"grpc_server"`
	Storage      `yaml:"storage"`
	DealDB       `yaml:"deal_db"`
	Mongo        `yaml:"mongo"`
	Bolt         `yaml:"bolt"`
	Paystack     `yaml:"paystack"`
	Fees         `yaml:"fees"`
	KafkaService `yaml:"kafka_service"`
	LogConfig    `yaml:"log_config"`
	Reconciler   `yaml:"reconciler"`
	CORS         `yaml:"cors"`
	Notifier     `yaml:"notifier"`
}

type HTTPServer struct {
	Host            string        `yaml:"host" env:"HTTP_HOST" env-default:"0.0.0.0"`
	Port            string        `yaml:"port" env:"PORT" env-default:"5000"`
	ReadTimeout     time.Duration `yaml:"read_timeout" env:"HTTP_READ_TIMEOUT" env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" env:"HTTP_WRITE_TIMEOUT" env-default:"30s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"HTTP_SHUTDOWN_TIMEOUT" env-default:"15s"`
}

type GRPCServer struct {
	Enabled bool   `yaml:"enabled" env:"GRPC_ENABLED" env-default:"false"`
	Host    string `yaml:"host" env:"GRPC_HOST" env-default:"0.0.0.0"`
	Port    string `yaml:"port" env:"GRPC_PORT" env-default:"50051"`
}

// Storage selects the deal store backend: postgres, mongo or bolt.
type Storage struct {
	Driver string `yaml:"driver" env:"STORAGE_DRIVER" env-default:"bolt"`
}

type DealDB struct {
	Dsn            string `yaml:"dsn" env:"DEAL_DB_DSN"`
	MigrationsPath string `yaml:"migrations_path" env:"DEAL_DB_MIGRATIONS_PATH" env-default:"migrations"`
}

type Mongo struct {
	URI        string `yaml:"uri" env:"MONGO_URI" env-default:"mongodb://localhost:27017"`
	Database   string `yaml:"database" env:"MONGO_DATABASE" env-default:"safelink"`
	Collection string `yaml:"collection" env:"MONGO_COLLECTION" env-default:"deals"`
}

type Bolt struct {
	Path string `yaml:"path" env:"BOLT_PATH" env-default:"data/deals.db"`
}

type Paystack struct {
	SecretKey   string        `yaml:"secret_key" env:"PAYSTACK_SECRET_KEY"`
	BaseURL     string        `yaml:"base_url" env:"PAYSTACK_BASE_URL" env-default:"https://api.paystack.co"`
	CallbackURL string        `yaml:"callback_url" env:"PAYSTACK_CALLBACK_URL"`
	FrontendURL string        `yaml:"frontend_url" env:"FRONTEND_URL" env-default:"http://localhost:5173"`
	Currency    string        `yaml:"currency" env:"PAYSTACK_CURRENCY" env-default:"GHS"`
	Timeout     time.Duration `yaml:"timeout" env:"PAYSTACK_TIMEOUT" env-default:"15s"`
}

// Fees are decimal strings so that rates never pass through float64.
type Fees struct {
	ServiceFeeRate string `yaml:"service_fee_rate" env:"SERVICE_FEE_RATE" env-default:"0.01"`
	LevyRate       string `yaml:"levy_rate" env:"LEVY_RATE" env-default:"0.01"`
}

type KafkaService struct {
	Enabled bool   `yaml:"enabled" env:"KAFKA_ENABLED" env-default:"false"`
	Host    string `yaml:"host" env:"KAFKA_HOST" env-default:"localhost"`
	Port    string `yaml:"port" env:"KAFKA_PORT" env-default:"9092"`
	Topic   string `yaml:"topic" env:"KAFKA_DEAL_TOPIC" env-default:"deal-events"`
}

type LogConfig struct {
	LogLevel  string `yaml:"log_level" env:"LOG_LEVEL" env-default:"info"`
	LogFormat string `yaml:"log_format" env:"LOG_FORMAT" env-default:"text"`
}

type Reconciler struct {
	Enabled   bool          `yaml:"enabled" env:"RECONCILER_ENABLED"`
	Interval  time.Duration `yaml:"interval" env:"RECONCILER_INTERVAL" env-default:"1m"`
	MinAge    time.Duration `yaml:"min_age" env:"RECONCILER_MIN_AGE" env-default:"5m"`
	BatchSize int           `yaml:"batch_size" env:"RECONCILER_BATCH_SIZE" env-default:"50"`
}

// Notifier posts deal events to CallbackURL when it is set.
type Notifier struct {
	CallbackURL string        `yaml:"callback_url" env:"DEAL_CALLBACK_URL"`
	Secret      string        `yaml:"secret" env:"DEAL_CALLBACK_SECRET"`
	Timeout     time.Duration `yaml:"timeout" env:"DEAL_CALLBACK_TIMEOUT" env-default:"5s"`
}

type CORS struct {
	AllowedOrigins []string `yaml:"allowed_origins" env:"CORS_ALLOWED_ORIGINS" env-separator:","`
}

// CallbackTarget is where the gateway sends the buyer after checkout.
func (p Paystack) CallbackTarget() string {
	if p.CallbackURL != "" {
		return p.CallbackURL
	}
	return p.FrontendURL + "/payment/callback"
}

// Load reads the YAML file at path, with environment overrides. An empty
// path reads the environment only.
func Load(path string) (*DealConfig, error) {
	var cfg DealConfig
	if path == "" {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("failed to read config from env: %w", err)
		}
		return &cfg, nil
	}

	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("failed to find config file: %w", err)
	}
	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return &cfg, nil
}

func MustLoad() *DealConfig {
	// Processing env config variable and file
	cfg, err := Load(os.Getenv(configPathEnv))
	if err != nil {
		log.Fatalf("%v\n", err)
	}
	return cfg
}
