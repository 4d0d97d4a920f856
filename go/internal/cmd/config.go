package main

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/playgroundhq/playground-reminder/go/internal/models"
	"github.com/playgroundhq/playground-reminder/go/internal/reminder"
	"gopkg.in/yaml.v3"
)

// Config holds everything the reminder binary reads from the environment.
type Config struct {
	Interval   time.Duration
	HealthAddr string
	NATSURL    string

	SolapiAPIKey    string
	SolapiAPISecret string
	SolapiSender    string
	KakaoPfID       string

	WindowsFile string
}

func loadConfigFromEnv() Config {
	return Config{
		Interval:   time.Duration(getEnvAsInt("REMINDER_INTERVAL_MINUTES", 60)) * time.Minute,
		HealthAddr: getEnv("HEALTH_ADDR", ":8082"),
		NATSURL:    os.Getenv("NATS_URL"),

		SolapiAPIKey:    os.Getenv("SOLAPI_API_KEY"),
		SolapiAPISecret: os.Getenv("SOLAPI_API_SECRET"),
		SolapiSender:    os.Getenv("SOLAPI_SENDER"),
		KakaoPfID:       os.Getenv("KAKAO_PFID"),

		WindowsFile: os.Getenv("WINDOWS_CONFIG"),
	}
}

// windowsConfig is the YAML shape of a window-policy override file.
type windowsConfig struct {
	Windows []struct {
		Label      string  `yaml:"label"`
		Hours      float64 `yaml:"hours"`
		Tolerance  float64 `yaml:"tolerance"`
		TemplateID string  `yaml:"template_id"`
	} `yaml:"windows"`
}

// loadWindows reads the window-policy override file, falling back to the
// platform's default three-window schedule when no path is configured.
func loadWindows(path string) ([]reminder.Window, error) {
	if path == "" {
		return reminder.DefaultWindows(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read windows config: %w", err)
	}

	var cfg windowsConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse windows config: %w", err)
	}
	if len(cfg.Windows) == 0 {
		return nil, fmt.Errorf("windows config %s defines no windows", path)
	}

	windows := make([]reminder.Window, 0, len(cfg.Windows))
	for i, w := range cfg.Windows {
		if w.Label == "" {
			return nil, fmt.Errorf("windows config %s: window %d has no label", path, i)
		}
		tolerance := w.Tolerance
		if tolerance == 0 {
			tolerance = 1
		}
		windows = append(windows, reminder.Window{
			Label:      models.WindowLabel(w.Label),
			Hours:      w.Hours,
			Tolerance:  tolerance,
			TemplateID: w.TemplateID,
		})
	}

	return windows, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
