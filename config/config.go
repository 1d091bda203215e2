package config

import (
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type Config struct {
	Server     Server
	Database   Database
	AI         AI
	Speech     Speech
	Queue      Queue
	Redis      Redis
	Evaluation Evaluation
	Scoring    Scoring
	Log        Log
}

// Server configures the HTTP API. Mode is a gin mode (debug, release, test).
// AllowedOrigins empty or containing "*" allows every origin without credentials.
type Server struct {
	Port           string
	Mode           string
	AllowedOrigins []string
	Swagger        bool
}

type Database struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

// AI selects the rubric grading back end. Provider is "gemini" or "openai".
type AI struct {
	Provider      string
	GeminiAPIKey  string
	GeminiModel   string
	OpenAIBaseURL string
	OpenAIAPIKey  string
	OpenAIModel   string
	Timeout       time.Duration
}

type Speech struct {
	APIKey         string
	BaseURL        string
	Model          string
	Language       string
	Timeout        time.Duration
	FFmpegPath     string
	FallbackPath   string
	ConvertTimeout time.Duration
	TempDir        string
}

// Queue configures job delivery. An empty RabbitURL keeps jobs in process.
type Queue struct {
	RabbitURL  string
	Exchange   string
	Name       string
	RetryQueue string
	Workers    int
}

// Redis backs the usage ledger. An empty Addr uses an in-memory ledger.
type Redis struct {
	Addr     string
	Password string
	DB       int
}

type Evaluation struct {
	MaxAttempts   int
	RetryBase     time.Duration
	MinCompletion float64
}

// Scoring picks the band fallback used when a section is not out of 40.
// Accepted values are "percentage" and "interpolate".
type Scoring struct {
	ListeningFallback string
	ReadingFallback   string
}

type Log struct {
	Level  string
	Format string
}

func setDefaults() {
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("SERVER_MODE", "release")
	viper.SetDefault("SERVER_ALLOWED_ORIGINS", "*")
	viper.SetDefault("SERVER_SWAGGER", true)
	viper.SetDefault("DATABASE_SSLMODE", "disable")
	viper.SetDefault("AI_PROVIDER", "gemini")
	viper.SetDefault("GEMINI_MODEL", "gemini-1.5-flash")
	viper.SetDefault("OPENAI_MODEL", "gpt-4o-mini")
	viper.SetDefault("AI_TIMEOUT", "60s")
	viper.SetDefault("SPEECH_MODEL", "whisper-1")
	viper.SetDefault("SPEECH_LANGUAGE", "en")
	viper.SetDefault("SPEECH_TIMEOUT", "45s")
	viper.SetDefault("FFMPEG_PATH", "ffmpeg")
	viper.SetDefault("FFMPEG_FALLBACK_PATH", "ffmpeg")
	viper.SetDefault("FFMPEG_TIMEOUT", "30s")
	viper.SetDefault("QUEUE_EXCHANGE", "evaluation")
	viper.SetDefault("QUEUE_NAME", "evaluation.jobs")
	viper.SetDefault("QUEUE_RETRY_NAME", "evaluation.jobs.retry")
	viper.SetDefault("QUEUE_WORKERS", 4)
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("EVALUATION_MAX_ATTEMPTS", 3)
	viper.SetDefault("EVALUATION_RETRY_BASE", "2s")
	viper.SetDefault("EVALUATION_MIN_COMPLETION", 0.70)
	viper.SetDefault("SCORING_LISTENING_FALLBACK", "percentage")
	viper.SetDefault("SCORING_READING_FALLBACK", "percentage")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("LOG_FORMAT", "json")
}

func NewConfig() (*Config, error) {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")

	viper.AutomaticEnv()
	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		log.Warn().Err(err).Msg("Error reading config file")
	}

	var config Config

	config.Server.Port = viper.GetString("SERVER_PORT")
	config.Server.Mode = viper.GetString("SERVER_MODE")
	config.Server.AllowedOrigins = splitList(viper.GetString("SERVER_ALLOWED_ORIGINS"))
	config.Server.Swagger = viper.GetBool("SERVER_SWAGGER")
	config.Database.Host = viper.GetString("DATABASE_HOST")
	config.Database.Port = viper.GetString("DATABASE_PORT")
	config.Database.User = viper.GetString("DATABASE_USER")
	config.Database.Password = viper.GetString("DATABASE_PASSWORD")
	config.Database.Name = viper.GetString("DATABASE_NAME")
	config.Database.SSLMode = viper.GetString("DATABASE_SSLMODE")

	config.AI.Provider = strings.ToLower(viper.GetString("AI_PROVIDER"))
	config.AI.GeminiAPIKey = viper.GetString("GEMINI_API_KEY")
	config.AI.GeminiModel = viper.GetString("GEMINI_MODEL")
	config.AI.OpenAIBaseURL = viper.GetString("OPENAI_BASE_URL")
	config.AI.OpenAIAPIKey = viper.GetString("OPENAI_API_KEY")
	config.AI.OpenAIModel = viper.GetString("OPENAI_MODEL")
	config.AI.Timeout = viper.GetDuration("AI_TIMEOUT")

	config.Speech.APIKey = viper.GetString("SPEECH_API_KEY")
	config.Speech.BaseURL = viper.GetString("SPEECH_BASE_URL")
	config.Speech.Model = viper.GetString("SPEECH_MODEL")
	config.Speech.Language = viper.GetString("SPEECH_LANGUAGE")
	config.Speech.Timeout = viper.GetDuration("SPEECH_TIMEOUT")
	config.Speech.FFmpegPath = viper.GetString("FFMPEG_PATH")
	config.Speech.FallbackPath = viper.GetString("FFMPEG_FALLBACK_PATH")
	config.Speech.ConvertTimeout = viper.GetDuration("FFMPEG_TIMEOUT")
	config.Speech.TempDir = viper.GetString("SPEECH_TEMP_DIR")

	config.Queue.RabbitURL = viper.GetString("RABBITMQ_URL")
	config.Queue.Exchange = viper.GetString("QUEUE_EXCHANGE")
	config.Queue.Name = viper.GetString("QUEUE_NAME")
	config.Queue.RetryQueue = viper.GetString("QUEUE_RETRY_NAME")
	config.Queue.Workers = viper.GetInt("QUEUE_WORKERS")

	config.Redis.Addr = viper.GetString("REDIS_ADDR")
	config.Redis.Password = viper.GetString("REDIS_PASSWORD")
	config.Redis.DB = viper.GetInt("REDIS_DB")

	config.Evaluation.MaxAttempts = viper.GetInt("EVALUATION_MAX_ATTEMPTS")
	config.Evaluation.RetryBase = viper.GetDuration("EVALUATION_RETRY_BASE")
	config.Evaluation.MinCompletion = viper.GetFloat64("EVALUATION_MIN_COMPLETION")

	config.Scoring.ListeningFallback = strings.ToLower(viper.GetString("SCORING_LISTENING_FALLBACK"))
	config.Scoring.ReadingFallback = strings.ToLower(viper.GetString("SCORING_READING_FALLBACK"))

	config.Log.Level = viper.GetString("LOG_LEVEL")
	config.Log.Format = viper.GetString("LOG_FORMAT")

	log.Info().
		Str("port", config.Server.Port).
		Str("mode", config.Server.Mode).
		Str("database", config.Database.Name).
		Str("aiProvider", config.AI.Provider).
		Bool("rabbitmq", config.Queue.RabbitURL != "").
		Bool("redis", config.Redis.Addr != "").
		Msg("Config loaded")
	return &config, nil
}

func splitList(raw string) []string {
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
