package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds all tunable limits, thresholds and default weights.
// Threshold defaults are policy choices; everything here can be
// overridden through the environment.
type Config struct {
	Port string

	// Batch limits enforced before scoring starts
	MaxBatchSize  int
	MaxTextLength int

	// Request-scope budgets
	ScoringTimeout time.Duration
	SessionTTL     time.Duration

	// Vector space
	MaxFeatures int

	// Timeline analysis
	GapThresholdDays     int
	OverlapToleranceDays int
	OpenRoleHorizonYears int

	// Fairness audit
	TopKFraction int // percent of the batch selected as top-K
	ImpactLow    float64
	ImpactHigh   float64
	MinGroupSize int

	// Default composite weights
	SemanticWeight    float64
	MustHaveWeight    float64
	NiceToHaveWeight  float64
	TrendWeight       float64
	ConsistencyWeight float64

	// HTTP hardening
	RequestsPerMin int
	RequestTimeout time.Duration
	AllowedOrigins []string
}

// Load reads configuration from the environment with defaults.
func Load() Config {
	return Config{
		Port: getEnvOrDefault("PORT", "8080"),

		MaxBatchSize:  getEnvInt("MAX_BATCH_SIZE", 50),
		MaxTextLength: getEnvInt("MAX_TEXT_LENGTH", 50000),

		ScoringTimeout: getEnvDuration("SCORING_TIMEOUT", 30*time.Second),
		SessionTTL:     getEnvDuration("SESSION_TTL", time.Hour),

		MaxFeatures: getEnvInt("TFIDF_MAX_FEATURES", 5000),

		GapThresholdDays:     getEnvInt("GAP_THRESHOLD_DAYS", 90),
		OverlapToleranceDays: getEnvInt("OVERLAP_TOLERANCE_DAYS", 30),
		OpenRoleHorizonYears: getEnvInt("OPEN_ROLE_HORIZON_YEARS", 35),

		TopKFraction: getEnvInt("TOP_K_PERCENT", 25),
		ImpactLow:    getEnvFloat("DISPARATE_IMPACT_LOW", 0.8),
		ImpactHigh:   getEnvFloat("DISPARATE_IMPACT_HIGH", 1.25),
		MinGroupSize: getEnvInt("MIN_GROUP_SIZE", 5),

		SemanticWeight:    getEnvFloat("SEMANTIC_WEIGHT", 0.35),
		MustHaveWeight:    getEnvFloat("MUST_HAVE_WEIGHT", 0.45),
		NiceToHaveWeight:  getEnvFloat("NICE_TO_HAVE_WEIGHT", 0.15),
		TrendWeight:       getEnvFloat("TREND_WEIGHT", 0.05),
		ConsistencyWeight: getEnvFloat("CONSISTENCY_WEIGHT", 1.0),

		RequestsPerMin: getEnvInt("MAX_REQUESTS_PER_MIN", 60),
		RequestTimeout: getEnvDuration("REQUEST_TIMEOUT", 35*time.Second),
		AllowedOrigins: []string{"http://localhost:3000", "http://localhost:5173"},
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
