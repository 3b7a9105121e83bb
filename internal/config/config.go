package config

import (
	"time"
)

// Config is the process configuration. Every field can be set from the
// environment variable named in its env tag.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Log       LogConfig       `koanf:"log"`
	Qdrant    QdrantConfig    `koanf:"qdrant"`
	Redis     RedisConfig     `koanf:"redis"`
	Embedder  EmbedderConfig  `koanf:"embedder"`
	LLM       LLMConfig       `koanf:"llm"`
	Retry     RetryConfig     `koanf:"retry"`
	Retrieval RetrievalConfig `koanf:"retrieval"`
	Limits    LimitsConfig    `koanf:"limits"`
	Auth      AuthConfig      `koanf:"auth"`
	SMTP      SMTPConfig      `koanf:"smtp"`
}

type ServerConfig struct {
	Port        int    `koanf:"port"         validate:"min=1,max=65535" env:"PORT"`
	AppVersion  string `koanf:"app_version"                             env:"APP_VERSION"`
	Environment string `koanf:"environment"                             env:"ENV"`
	CORSOrigins string `koanf:"cors_origins"                            env:"CORS_ORIGINS"`
}

type LogConfig struct {
	Level string `koanf:"level" validate:"oneof=debug info warn error disabled" env:"LOG_LEVEL"`
	JSON  bool   `koanf:"json"                                               env:"LOG_JSON"`
}

type QdrantConfig struct {
	Host       string `koanf:"host"       validate:"required"        env:"QDRANT_HOST"`
	Port       int    `koanf:"port"       validate:"min=1,max=65535" env:"QDRANT_PORT"`
	APIKey     string `koanf:"api_key"                               env:"QDRANT_API_KEY"`
	UseTLS     bool   `koanf:"use_tls"                               env:"QDRANT_USE_TLS"`
	Collection string `koanf:"collection" validate:"required"        env:"QDRANT_COLLECTION"`
}

type RedisConfig struct {
	Addr     string `koanf:"addr"     validate:"required" env:"REDIS_ADDR"`
	Password string `koanf:"password"                     env:"REDIS_PASSWORD"`
	DB       int    `koanf:"db"       validate:"min=0"    env:"REDIS_DB"`
}

type EmbedderConfig struct {
	Model      string `koanf:"model"      validate:"required" env:"EMBED_MODEL"`
	Dimensions int    `koanf:"dimensions" validate:"min=0"    env:"EMBED_DIMENSIONS"`
	CacheSize  int    `koanf:"cache_size" validate:"min=0"    env:"EMBED_CACHE_SIZE"`
}

type LLMConfig struct {
	Provider      string  `koanf:"provider"       validate:"oneof=groq gemini" env:"LLM_PROVIDER"`
	Model         string  `koanf:"model"          validate:"required"          env:"LLM_MODEL"`
	FallbackModel string  `koanf:"fallback_model"                              env:"LLM_FALLBACK_MODEL"`
	Temperature   float64 `koanf:"temperature"    validate:"min=0,max=2"       env:"LLM_TEMPERATURE"`
	GroqAPIKey    string  `koanf:"groq_api_key"                                env:"GROQ_API_KEY"`
	GroqBaseURL   string  `koanf:"groq_base_url"  validate:"omitempty,url"     env:"GROQ_BASE_URL"`
	GoogleAPIKey  string  `koanf:"google_api_key"                              env:"GOOGLE_API_KEY"`
	GoogleProject string  `koanf:"google_project"                              env:"GOOGLE_CLOUD_PROJECT"`
	GoogleRegion  string  `koanf:"google_location"                             env:"GOOGLE_CLOUD_LOCATION"`
}

// VertexAI reports whether Google calls go through a Cloud project instead of an API key.
func (c LLMConfig) VertexAI() bool {
	return c.GoogleAPIKey == "" && c.GoogleProject != ""
}

type RetryConfig struct {
	Attempts    int           `koanf:"attempts"     validate:"min=1"                   env:"RETRY_ATTEMPTS"`
	Delay       time.Duration `koanf:"delay"        validate:"gt=0"                    env:"RETRY_DELAY"`
	Strategy    string        `koanf:"strategy"     validate:"oneof=fixed exponential" env:"RETRY_STRATEGY"`
	Jitter      bool          `koanf:"jitter"                                          env:"RETRY_JITTER"`
	CallTimeout time.Duration `koanf:"call_timeout" validate:"min=0"                   env:"CALL_TIMEOUT"`
}

type RetrievalConfig struct {
	TopK int `koanf:"top_k" validate:"min=1,max=100" env:"RETRIEVAL_TOP_K"`
}

type LimitsConfig struct {
	DailyMessages int `koanf:"daily_messages" validate:"min=0" env:"USER_MESSAGE_LIMIT"`
}

type AuthConfig struct {
	SessionTTL     time.Duration `koanf:"session_ttl"      validate:"gt=0"         env:"SESSION_TTL"`
	OTPTTL         time.Duration `koanf:"otp_ttl"          validate:"gt=0"         env:"OTP_TTL"`
	OTPLength      int           `koanf:"otp_length"       validate:"min=4,max=10" env:"OTP_LENGTH"`
	OTPMaxFailures int           `koanf:"otp_max_failures" validate:"min=1"        env:"OTP_MAX_FAILURES"` // wrong guesses before a code is burned
}

type SMTPConfig struct {
	Host     string `koanf:"host"                           env:"SMTP_HOST"`
	Port     int    `koanf:"port"     validate:"min=0"      env:"SMTP_PORT"`
	Username string `koanf:"username"                       env:"SMTP_USERNAME"`
	Password string `koanf:"password"                       env:"SMTP_PASSWORD"`
	From     string `koanf:"from"                           env:"SMTP_FROM"`
}

// Enabled is false when no SMTP host is configured; codes are then only logged.
func (c SMTPConfig) Enabled() bool {
	return c.Host != ""
}

// Default returns the configuration used when nothing is set in the environment.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:        8000,
			Environment: "development",
			CORSOrigins: "*",
		},
		Log: LogConfig{
			Level: "info",
		},
		Qdrant: QdrantConfig{
			Host:       "localhost",
			Port:       6334,
			Collection: "bhagavad-gita",
		},
		Redis: RedisConfig{
			Addr: "localhost:6379",
		},
		Embedder: EmbedderConfig{
			Model:      "text-embedding-004",
			Dimensions: 768,
			CacheSize:  1024,
		},
		LLM: LLMConfig{
			Provider:      "groq",
			Model:         "deepseek-r1-distill-llama-70b",
			FallbackModel: "llama-3.3-70b-versatile",
			GroqBaseURL:   "https://api.groq.com/openai/v1",
			GoogleRegion:  "us-central1",
		},
		Retry: RetryConfig{
			Attempts:    3,
			Delay:       2 * time.Second,
			Strategy:    "fixed",
			CallTimeout: 30 * time.Second,
		},
		Retrieval: RetrievalConfig{
			TopK: 5,
		},
		Limits: LimitsConfig{
			DailyMessages: 50,
		},
		Auth: AuthConfig{
			SessionTTL:     7 * 24 * time.Hour,
			OTPTTL:         10 * time.Minute,
			OTPLength:      6,
			OTPMaxFailures: 5,
		},
		SMTP: SMTPConfig{
			Port: 587,
		},
	}
}
