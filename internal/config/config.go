package config

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	// Environment
	Environment string

	// Database
	DatabaseURL    string
	MigrateOnStart bool

	// Redis
	RedisURL string

	// Server
	Port        string
	FrontendURL string

	// Session Settings
	TickRate              int
	SnapshotEveryFrames   int
	MaxSessions           int
	SessionIdleMinutes    int
	IdleWorkerPollSeconds int

	// Security
	JWTSecret       string
	TokenTTLMinutes int

	// Physics and gesture tuning
	TuningFile string
	Tuning     Tuning
}

// Tuning holds the simulation constants that may be overridden from a YAML file.
type Tuning struct {
	AirDrag             float64 `yaml:"air_drag"`
	BallRestitution     float64 `yaml:"ball_restitution"`
	BallFriction        float64 `yaml:"ball_friction"`
	ForceScale          float64 `yaml:"force_scale"`
	ForceComponentScale float64 `yaml:"force_component_scale"`
	MaxForceComponent   float64 `yaml:"max_force_component"`
	SlingshotMaxLength  float64 `yaml:"slingshot_max_length"`
	StillSpeed          float64 `yaml:"still_speed"`
	TeleporterOrbit     float64 `yaml:"teleporter_orbit"`
	TeleporterCooldown  int     `yaml:"teleporter_cooldown"`
	PlacementAttempts   int     `yaml:"placement_attempts"`
}

// DefaultTuning returns the stock table behaviour.
func DefaultTuning() Tuning {
	return Tuning{
		AirDrag:             0.005,
		BallRestitution:     1,
		BallFriction:        0,
		ForceScale:          0.0001,
		ForceComponentScale: 0.01,
		MaxForceComponent:   0.06,
		SlingshotMaxLength:  50,
		StillSpeed:          0.005,
		TeleporterOrbit:     100,
		TeleporterCooldown:  10,
		PlacementAttempts:   5000,
	}
}

func Load() *Config {
	// Load .env file if it exists
	godotenv.Load()

	cfg := &Config{
		// Environment
		Environment: getEnv("APP_ENV", "development"),

		// Database
		DatabaseURL:    getEnv("DATABASE_URL", "postgres://localhost:5432/snooker?sslmode=disable"),
		MigrateOnStart: getEnvBool("MIGRATE_ON_START", true),

		// Redis
		RedisURL: getEnv("REDIS_URL", "redis://localhost:6379/0"),

		// Server
		Port:        getEnv("APP_PORT", "8080"),
		FrontendURL: getEnv("FRONTEND_URL", "http://localhost:5173"),

		// Session Settings
		TickRate:              getEnvInt("TICK_RATE", 60),
		SnapshotEveryFrames:   getEnvInt("SNAPSHOT_EVERY_FRAMES", 2),
		MaxSessions:           getEnvInt("MAX_SESSIONS", 100),
		SessionIdleMinutes:    getEnvInt("SESSION_IDLE_MINUTES", 15),
		IdleWorkerPollSeconds: getEnvInt("IDLE_WORKER_POLL_SECONDS", 30),

		// Security
		JWTSecret:       getEnv("JWT_SECRET", "change-me-in-production"),
		TokenTTLMinutes: getEnvInt("TOKEN_TTL_MINUTES", 24*60),

		TuningFile: getEnv("TUNING_FILE", ""),
		Tuning:     DefaultTuning(),
	}

	if cfg.TuningFile != "" {
		tuning, err := LoadTuning(cfg.TuningFile)
		if err != nil {
			log.Printf("[CONFIG] Ignoring tuning file %s: %v", cfg.TuningFile, err)
		} else {
			cfg.Tuning = tuning
			log.Printf("[CONFIG] Loaded tuning from %s", cfg.TuningFile)
		}
	}
	cfg.Tuning.PlacementAttempts = getEnvInt("PLACEMENT_ATTEMPTS", cfg.Tuning.PlacementAttempts)
	cfg.Tuning.AirDrag = getEnvFloat("AIR_DRAG", cfg.Tuning.AirDrag)

	if cfg.TickRate <= 0 {
		cfg.TickRate = 60
	}
	if cfg.SnapshotEveryFrames <= 0 {
		cfg.SnapshotEveryFrames = 1
	}

	return cfg
}

// LoadTuning reads a YAML tuning file. Keys missing from the file keep their defaults.
func LoadTuning(path string) (Tuning, error) {
	tuning := DefaultTuning()
	data, err := os.ReadFile(path)
	if err != nil {
		return tuning, fmt.Errorf("failed to read tuning file: %w", err)
	}
	if err := yaml.Unmarshal(data, &tuning); err != nil {
		return DefaultTuning(), fmt.Errorf("failed to parse tuning file: %w", err)
	}
	if tuning.PlacementAttempts <= 0 {
		tuning.PlacementAttempts = DefaultTuning().PlacementAttempts
	}
	return tuning, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
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

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
