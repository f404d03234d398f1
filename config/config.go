package config

import (
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	App    AppConfig
	DB     DBConfig
	Redis  RedisConfig
	Kafka  KafkaConfig
	Server ServerConfig
	Fraud  FraudConfig
	Log    LogConfig
}

type AppConfig struct {
	Name        string
	Version     string
	Environment string
}

type DBConfig struct {
	DBPath string // SQLite file path
}

// RedisConfig is ignored unless Enabled is set; the in-memory cache is used otherwise.
type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     string
	Password string
	DB       int
	CacheTTL time.Duration
}

type KafkaConfig struct {
	Enabled          bool
	Brokers          []string
	TransactionTopic string
	FraudAlertTopic  string
	AuditTopic       string
	ConsumerGroupID  string
	ClientID         string
}

type ServerConfig struct {
	HTTPPort        int
	GRPCPort        int
	AllowedOrigins  []string
	ShutdownTimeout time.Duration
}

type FraudConfig struct {
	LargeAmount         float64
	InternationalAmount float64
	ATMWithdrawalAmount float64
	AllowedCountries    []string
	HighRiskScore       float64
}

type LogConfig struct {
	Level      string
	Format     string
	Output     string
	FilePath   string
	MaxSize    int
	MaxBackups int
	MaxAge     int
	Compress   bool
}

// Load reads .env, an optional config.yaml and the environment, in that order of precedence.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	v := newViper()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			log.Printf("Failed to read config file: %v", err)
		}
	}

	return fromViper(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)
	return v
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "FraudGuard API")
	v.SetDefault("app.version", "2.0.0")
	v.SetDefault("app.environment", "development")

	v.SetDefault("db.path", "./data/fraudguard.db")

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", "6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.cache_ttl", "30s")

	v.SetDefault("kafka.enabled", false)
	v.SetDefault("kafka.brokers", "localhost:9092")
	v.SetDefault("kafka.transaction_topic", "fraudguard-transactions")
	v.SetDefault("kafka.fraud_alert_topic", "fraudguard-fraud-alerts")
	v.SetDefault("kafka.audit_topic", "fraudguard-audit-log")
	v.SetDefault("kafka.consumer_group", "fraudguard-alert-tail")
	v.SetDefault("kafka.client_id", "fraudguard-api")

	v.SetDefault("server.http_port", 8080)
	v.SetDefault("server.grpc_port", 50051)
	v.SetDefault("server.allowed_origins", "*")
	v.SetDefault("server.shutdown_timeout", "5s")

	v.SetDefault("fraud.large_amount", 10000)
	v.SetDefault("fraud.international_amount", 5000)
	v.SetDefault("fraud.atm_withdrawal_amount", 2000)
	v.SetDefault("fraud.allowed_countries", "MA")
	v.SetDefault("fraud.high_risk_score", 0.7)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("log.output", "stdout")
	v.SetDefault("log.file_path", "logs/fraudguard.log")
	v.SetDefault("log.max_size", 100)
	v.SetDefault("log.max_backups", 10)
	v.SetDefault("log.max_age", 30)
	v.SetDefault("log.compress", true)
}

func fromViper(v *viper.Viper) *Config {
	return &Config{
		App: AppConfig{
			Name:        v.GetString("app.name"),
			Version:     v.GetString("app.version"),
			Environment: v.GetString("app.environment"),
		},
		DB: DBConfig{
			DBPath: v.GetString("db.path"),
		},
		Redis: RedisConfig{
			Enabled:  v.GetBool("redis.enabled"),
			Host:     v.GetString("redis.host"),
			Port:     v.GetString("redis.port"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
			CacheTTL: v.GetDuration("redis.cache_ttl"),
		},
		Kafka: KafkaConfig{
			Enabled:          v.GetBool("kafka.enabled"),
			Brokers:          stringList(v, "kafka.brokers"),
			TransactionTopic: v.GetString("kafka.transaction_topic"),
			FraudAlertTopic:  v.GetString("kafka.fraud_alert_topic"),
			AuditTopic:       v.GetString("kafka.audit_topic"),
			ConsumerGroupID:  v.GetString("kafka.consumer_group"),
			ClientID:         v.GetString("kafka.client_id"),
		},
		Server: ServerConfig{
			HTTPPort:        v.GetInt("server.http_port"),
			GRPCPort:        v.GetInt("server.grpc_port"),
			AllowedOrigins:  stringList(v, "server.allowed_origins"),
			ShutdownTimeout: v.GetDuration("server.shutdown_timeout"),
		},
		Fraud: FraudConfig{
			LargeAmount:         v.GetFloat64("fraud.large_amount"),
			InternationalAmount: v.GetFloat64("fraud.international_amount"),
			ATMWithdrawalAmount: v.GetFloat64("fraud.atm_withdrawal_amount"),
			AllowedCountries:    stringList(v, "fraud.allowed_countries"),
			HighRiskScore:       v.GetFloat64("fraud.high_risk_score"),
		},
		Log: LogConfig{
			Level:      v.GetString("log.level"),
			Format:     v.GetString("log.format"),
			Output:     v.GetString("log.output"),
			FilePath:   v.GetString("log.file_path"),
			MaxSize:    v.GetInt("log.max_size"),
			MaxBackups: v.GetInt("log.max_backups"),
			MaxAge:     v.GetInt("log.max_age"),
			Compress:   v.GetBool("log.compress"),
		},
	}
}

// stringList reads a list written either as a YAML sequence or as one comma separated string.
func stringList(v *viper.Viper, key string) []string {
	var out []string
	for _, item := range v.GetStringSlice(key) {
		out = append(out, splitList(item)...)
	}
	return out
}

// splitList parses comma separated values such as KAFKA_BROKERS=a:9092,b:9092.
func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
