package utils

import (
	"gopkg.in/yaml.v2"
	"os"
	"strconv"
	"time"
)

type Config struct {
	// Server configuration
	AppPort      string `yaml:"APP_PORT"`
	AppURL       string `yaml:"APP_URL"`
	AppTimeZone  string `yaml:"APP_TIMEZONE"`
	StoreName    string `yaml:"STORE_NAME"`
	BodyLimitMB  int    `yaml:"BODY_LIMIT_MB"`
	RateLimitRPS int    `yaml:"RATE_LIMIT_RPS"`
	LogDir       string `yaml:"LOG_DIR"`

	// Database configuration
	DBUser     string `yaml:"DB_USER"`
	DBName     string `yaml:"DB_NAME"`
	DBPassword string `yaml:"DB_PASSWORD"`
	DBPort     string `yaml:"DB_PORT"`
	DBHost     string `yaml:"DB_HOST"`

	// JWT and admin accounts
	JWTSecret    string `yaml:"JWT_SECRET"`
	AutoRegister bool   `yaml:"AUTO_REGISTER"`

	// Mailing configuration
	SMTPHost         string `yaml:"SMTP_HOST"`
	SMTPPort         string `yaml:"SMTP_PORT"`
	SMTPSenderName   string `yaml:"SMTP_SENDER_NAME"`
	SMTPAuthEmail    string `yaml:"SMTP_AUTH_EMAIL"`
	SMTPAuthPassword string `yaml:"SMTP_AUTH_PASSWORD"`

	// Midtrans configuration
	ClientKey string `yaml:"CLIENT_KEY"`
	ServerKey string `yaml:"SERVER_KEY"`
	IsProd    bool   `yaml:"IsProd"`

	// AWS S3 configuration
	AWSS3Bucket  string `yaml:"AWS_S3_BUCKET"`
	AWSS3Region  string `yaml:"AWS_S3_REGION"`
	AWSAccessKey string `yaml:"AWS_ACCESS_KEY"`
	AWSSecretKey string `yaml:"AWS_SECRET_KEY"`

	// Vision model configuration
	AIProvider     string `yaml:"AI_PROVIDER"` // "openai" or "gemini"
	OpenAIAPIKey   string `yaml:"OPENAI_API_KEY"`
	OpenAIModel    string `yaml:"OPENAI_MODEL"`
	OpenAIBaseURL  string `yaml:"OPENAI_BASE_URL"`
	GeminiAPIKey   string `yaml:"GEMINI_API_KEY"`
	GeminiModel    string `yaml:"GEMINI_MODEL"`
	GeminiBaseURL  string `yaml:"GEMINI_BASE_URL"`
	AITimeoutSec   int    `yaml:"AI_TIMEOUT_SEC"`
	AIRateLimitRPS int    `yaml:"AI_RATE_LIMIT_RPS"`

	// Scanner configuration
	AnalyzeEndpoint     string  `yaml:"ANALYZE_ENDPOINT"`
	CameraDevice        string  `yaml:"CAMERA_DEVICE"`
	CameraWidth         int     `yaml:"CAMERA_WIDTH"`
	CameraHeight        int     `yaml:"CAMERA_HEIGHT"`
	ScanIntervalMS      int     `yaml:"SCAN_INTERVAL_MS"`
	ScanTimeoutSec      int     `yaml:"SCAN_TIMEOUT_SEC"`
	RealtimeQuality     float64 `yaml:"REALTIME_QUALITY"`
	SingleShotQuality   float64 `yaml:"SINGLE_SHOT_QUALITY"`
	FailureNotifyEvery  int     `yaml:"FAILURE_NOTIFY_EVERY"`
	SuccessNotifyEvery  int     `yaml:"SUCCESS_NOTIFY_EVERY"`
	MQTTBroker          string  `yaml:"MQTT_BROKER"`
	MQTTClientID        string  `yaml:"MQTT_CLIENT_ID"`
	MQTTDetectionsTopic string  `yaml:"MQTT_DETECTIONS_TOPIC"`

	// Checkout configuration
	TaxRate          float64 `yaml:"TAX_RATE"`
	AtomicCheckout   bool    `yaml:"ATOMIC_CHECKOUT"`
	CartTTLMinutes   int     `yaml:"CART_TTL_MINUTES"`
	LowStockQuantity int     `yaml:"LOW_STOCK_QUANTITY"`
}

// LoadConfig reads the YAML file at path, fills defaults and applies
// environment overrides for secrets. A missing file is not an error.
func LoadConfig(path string) (Config, error) {
	var config Config

	file, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return Config{}, err
	}
	if err == nil {
		if err := yaml.Unmarshal(file, &config); err != nil {
			return Config{}, err
		}
	}

	applyEnv(&config)
	applyDefaults(&config)
	return config, nil
}

func applyEnv(config *Config) {
	overrideString(&config.DBHost, "DB_HOST")
	overrideString(&config.DBUser, "DB_USER")
	overrideString(&config.DBPassword, "DB_PASSWORD")
	overrideString(&config.DBName, "DB_NAME")
	overrideString(&config.DBPort, "DB_PORT")
	overrideString(&config.JWTSecret, "JWT_SECRET")
	overrideString(&config.ServerKey, "SERVER_KEY")
	overrideString(&config.ClientKey, "CLIENT_KEY")
	overrideString(&config.AWSAccessKey, "AWS_ACCESS_KEY")
	overrideString(&config.AWSSecretKey, "AWS_SECRET_KEY")
	overrideString(&config.OpenAIAPIKey, "OPENAI_API_KEY")
	overrideString(&config.GeminiAPIKey, "GEMINI_API_KEY")
	overrideString(&config.SMTPAuthPassword, "SMTP_AUTH_PASSWORD")
	overrideString(&config.AppPort, "APP_PORT")
}

func overrideString(field *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*field = v
	}
}

func applyDefaults(config *Config) {
	if config.AppPort == "" {
		config.AppPort = "8080"
	}
	if config.AppTimeZone == "" {
		config.AppTimeZone = "Local"
	}
	if config.StoreName == "" {
		config.StoreName = "Supermarket Management System"
	}
	if config.BodyLimitMB <= 0 {
		config.BodyLimitMB = 10
	}
	if config.RateLimitRPS <= 0 {
		config.RateLimitRPS = 10
	}
	if config.LogDir == "" {
		config.LogDir = "./logs"
	}
	if config.AIProvider == "" {
		config.AIProvider = "openai"
	}
	if config.OpenAIModel == "" {
		config.OpenAIModel = "gpt-4o-mini"
	}
	if config.OpenAIBaseURL == "" {
		config.OpenAIBaseURL = "https://api.openai.com/v1"
	}
	if config.GeminiModel == "" {
		config.GeminiModel = "gemini-1.5-flash"
	}
	if config.GeminiBaseURL == "" {
		config.GeminiBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	}
	if config.AITimeoutSec <= 0 {
		config.AITimeoutSec = 30
	}
	if config.AIRateLimitRPS <= 0 {
		config.AIRateLimitRPS = 5
	}
	if config.AnalyzeEndpoint == "" {
		config.AnalyzeEndpoint = "http://127.0.0.1:" + config.AppPort + "/functions/v1/analyze-product"
	}
	if config.CameraDevice == "" {
		config.CameraDevice = "/dev/video0"
	}
	if config.CameraWidth <= 0 {
		config.CameraWidth = 1280
	}
	if config.CameraHeight <= 0 {
		config.CameraHeight = 720
	}
	if config.ScanIntervalMS <= 0 {
		config.ScanIntervalMS = 3000
	}
	if config.ScanTimeoutSec <= 0 {
		config.ScanTimeoutSec = 15
	}
	if config.RealtimeQuality <= 0 || config.RealtimeQuality > 1 {
		config.RealtimeQuality = 0.7
	}
	if config.SingleShotQuality <= 0 || config.SingleShotQuality > 1 {
		config.SingleShotQuality = 0.8
	}
	if config.FailureNotifyEvery <= 0 {
		config.FailureNotifyEvery = 10
	}
	if config.SuccessNotifyEvery <= 0 {
		config.SuccessNotifyEvery = 3
	}
	if config.MQTTClientID == "" {
		config.MQTTClientID = "supermarket-scanner"
	}
	if config.MQTTDetectionsTopic == "" {
		config.MQTTDetectionsTopic = "supermarket/scanner/detections"
	}
	if config.TaxRate <= 0 {
		config.TaxRate = 0.08
	}
	if config.CartTTLMinutes <= 0 {
		config.CartTTLMinutes = 60
	}
	if config.LowStockQuantity <= 0 {
		config.LowStockQuantity = 5
	}
}

func (c Config) ScanInterval() time.Duration {
	return time.Duration(c.ScanIntervalMS) * time.Millisecond
}

func (c Config) ScanTimeout() time.Duration {
	return time.Duration(c.ScanTimeoutSec) * time.Second
}

func (c Config) AITimeout() time.Duration {
	return time.Duration(c.AITimeoutSec) * time.Second
}

func (c Config) CartTTL() time.Duration {
	return time.Duration(c.CartTTLMinutes) * time.Minute
}

func (c Config) SMTPPortNumber() int {
	port, err := strconv.Atoi(c.SMTPPort)
	if err != nil {
		return 587
	}
	return port
}

// Location resolves AppTimeZone, falling back to the local zone when the
// name is unknown.
func (c Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.AppTimeZone)
	if err != nil {
		return time.Local
	}
	return loc
}
