package admin

import (
	"fmt"
	"log"
	"strconv"

	"github.com/jmoiron/sqlx"

	"github.com/playmatatu/snooker/internal/config"
	"github.com/playmatatu/snooker/internal/models"
)

// GetAllRuntimeConfig returns all runtime config entries
func GetAllRuntimeConfig(db *sqlx.DB) ([]models.RuntimeConfig, error) {
	var configs []models.RuntimeConfig
	err := db.Select(&configs, `
		SELECT key, value, value_type, description, updated_by, updated_at
		FROM runtime_config
		ORDER BY key
	`)
	return configs, err
}

// GetRuntimeConfigValue returns a single runtime config value
func GetRuntimeConfigValue(db *sqlx.DB, key string) (*models.RuntimeConfig, error) {
	var cfg models.RuntimeConfig
	err := db.Get(&cfg, `SELECT key, value, value_type, description, updated_by, updated_at FROM runtime_config WHERE key=$1`, key)
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ValidateValue checks value against a runtime config value type.
func ValidateValue(valueType, value string) error {
	switch valueType {
	case "int":
		if _, err := strconv.Atoi(value); err != nil {
			return fmt.Errorf("invalid integer value: %s", value)
		}
	case "float":
		if _, err := strconv.ParseFloat(value, 64); err != nil {
			return fmt.Errorf("invalid float value: %s", value)
		}
	case "bool":
		if value != "true" && value != "false" {
			return fmt.Errorf("invalid boolean value: %s (must be 'true' or 'false')", value)
		}
	}
	return nil
}

// UpdateRuntimeConfigValue updates a single runtime config value
func UpdateRuntimeConfigValue(db *sqlx.DB, key, value, adminUsername string) error {
	existing, err := GetRuntimeConfigValue(db, key)
	if err != nil {
		return fmt.Errorf("config key not found: %s", key)
	}
	if err := ValidateValue(existing.ValueType, value); err != nil {
		return err
	}

	_, err = db.Exec(`
		UPDATE runtime_config SET value=$1, updated_by=$2, updated_at=NOW() WHERE key=$3
	`, value, adminUsername, key)
	return err
}

// ApplyRuntimeConfig applies overrides to cfg. Unknown keys and malformed
// values are skipped. It returns the number of overrides applied.
func ApplyRuntimeConfig(configs []models.RuntimeConfig, cfg *config.Config) int {
	applied := 0
	for _, c := range configs {
		var ok bool
		switch c.Key {
		case "max_sessions":
			ok = setInt(c.Value, &cfg.MaxSessions)
		case "session_idle_minutes":
			ok = setInt(c.Value, &cfg.SessionIdleMinutes)
		case "snapshot_every_frames":
			ok = setInt(c.Value, &cfg.SnapshotEveryFrames)
		case "placement_attempts":
			ok = setInt(c.Value, &cfg.Tuning.PlacementAttempts)
		case "teleporter_cooldown":
			ok = setInt(c.Value, &cfg.Tuning.TeleporterCooldown)
		case "air_drag":
			ok = setFloat(c.Value, &cfg.Tuning.AirDrag)
		case "slingshot_max_length":
			ok = setFloat(c.Value, &cfg.Tuning.SlingshotMaxLength)
		default:
			ok = false
		}
		if ok {
			applied++
		}
	}
	return applied
}

// ApplyRuntimeConfigToConfig loads runtime config from DB and applies overrides to the Config struct
func ApplyRuntimeConfigToConfig(db *sqlx.DB, cfg *config.Config) error {
	configs, err := GetAllRuntimeConfig(db)
	if err != nil {
		return err
	}

	applied := ApplyRuntimeConfig(configs, cfg)
	log.Printf("[CONFIG] Applied %d of %d runtime config overrides from database", applied, len(configs))
	return nil
}

func setInt(value string, dst *int) bool {
	v, err := strconv.Atoi(value)
	if err != nil || v <= 0 {
		return false
	}
	*dst = v
	return true
}

func setFloat(value string, dst *float64) bool {
	v, err := strconv.ParseFloat(value, 64)
	if err != nil || v < 0 {
		return false
	}
	*dst = v
	return true
}
