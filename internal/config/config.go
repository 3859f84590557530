// Package config reads the service settings from the environment (optionally
// seeded from a .env file) and the clinic grid from a YAML file.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/harentsoaR/dentaldash-api/internal/calendar"
)

const (
	StoreMemory = "memory"
	StoreMongo  = "mongo"
)

type Config struct {
	Port          string
	StoreDriver   string
	MongoURI      string
	MongoDatabase string
	JWTSecret     string
	CORSOrigins   []string
	BcryptCost    int

	Grid             calendar.Grid
	SchedulingPolicy string

	SyncICSURL   string
	SyncLatency  time.Duration
	SyncTimeout  time.Duration
	SyncSchedule string

	TextbeltKey string
}

// Clinic is the YAML layout of the clinic grid file:
//
//	first_day: saturday
//	closed_day: friday
//	open_hour: 14
//	close_hour: 22
//	slot_minutes: 30
type Clinic struct {
	FirstDay    string `yaml:"first_day"`
	ClosedDay   string `yaml:"closed_day"`
	OpenHour    *int   `yaml:"open_hour"`
	CloseHour   *int   `yaml:"close_hour"`
	SlotMinutes int    `yaml:"slot_minutes"`
}

// Load reads .env if present and builds the configuration from the
// environment. The returned bool reports whether a .env file was found.
func Load() (Config, bool, error) {
	found := godotenv.Load() == nil
	cfg, err := FromEnv()
	return cfg, found, err
}

func FromEnv() (Config, error) {
	cfg := Config{
		Port:             String("API_PORT", "8080"),
		StoreDriver:      strings.ToLower(String("STORE_DRIVER", StoreMemory)),
		MongoURI:         os.Getenv("MONGO_URI"),
		MongoDatabase:    String("MONGO_DATABASE", "dentaldash"),
		JWTSecret:        os.Getenv("JWT_SECRET"),
		CORSOrigins:      List("CORS_ORIGINS", []string{"http://localhost:5173"}),
		SchedulingPolicy: strings.ToLower(os.Getenv("SCHEDULING_POLICY")),
		SyncICSURL:       os.Getenv("SYNC_ICS_URL"),
		SyncSchedule:     os.Getenv("SYNC_SCHEDULE"),
		TextbeltKey:      os.Getenv("TEXTBELT_API_KEY"),
	}

	if p, err := strconv.Atoi(cfg.Port); err != nil || p < 1 || p > 65535 {
		return Config{}, fmt.Errorf("API_PORT must be a valid TCP port (got %q)", cfg.Port)
	}

	switch cfg.StoreDriver {
	case StoreMemory:
	case StoreMongo:
		if cfg.MongoURI == "" {
			return Config{}, fmt.Errorf("MONGO_URI is required when STORE_DRIVER=%s", StoreMongo)
		}
	default:
		return Config{}, fmt.Errorf("unknown STORE_DRIVER %q", cfg.StoreDriver)
	}

	var err error
	if cfg.BcryptCost, err = Int("BCRYPT_COST", 12); err != nil {
		return Config{}, err
	}
	if cfg.SyncLatency, err = Duration("SYNC_LATENCY", 2*time.Second); err != nil {
		return Config{}, err
	}
	if cfg.SyncTimeout, err = Duration("SYNC_TIMEOUT", 30*time.Second); err != nil {
		return Config{}, err
	}

	cfg.Grid = calendar.DefaultGrid()
	if path := os.Getenv("CLINIC_CONFIG"); path != "" {
		if cfg.Grid, err = LoadGrid(path); err != nil {
			return Config{}, err
		}
	}
	return cfg, nil
}

// LoadGrid reads a clinic file; unset keys keep the default grid values.
func LoadGrid(path string) (calendar.Grid, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return calendar.Grid{}, fmt.Errorf("read clinic config: %w", err)
	}
	return ParseGrid(data)
}

func ParseGrid(data []byte) (calendar.Grid, error) {
	var c Clinic
	if err := yaml.Unmarshal(data, &c); err != nil {
		return calendar.Grid{}, fmt.Errorf("parse clinic config: %w", err)
	}

	g := calendar.DefaultGrid()
	if c.FirstDay != "" {
		d, err := parseWeekday(c.FirstDay)
		if err != nil {
			return calendar.Grid{}, err
		}
		g.FirstDay = d
	}
	if c.ClosedDay != "" {
		d, err := parseWeekday(c.ClosedDay)
		if err != nil {
			return calendar.Grid{}, err
		}
		g.ClosedDay = d
	}
	if c.OpenHour != nil {
		g.OpenHour = *c.OpenHour
	}
	if c.CloseHour != nil {
		g.CloseHour = *c.CloseHour
	}
	if c.SlotMinutes != 0 {
		g.SlotWidth = time.Duration(c.SlotMinutes) * time.Minute
	}
	if err := g.Validate(); err != nil {
		return calendar.Grid{}, fmt.Errorf("clinic config: %w", err)
	}
	return g, nil
}

func parseWeekday(s string) (time.Weekday, error) {
	for d := time.Sunday; d <= time.Saturday; d++ {
		if strings.EqualFold(d.String(), strings.TrimSpace(s)) {
			return d, nil
		}
	}
	return 0, fmt.Errorf("unknown weekday %q", s)
}

func String(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}

func Int(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer (got %q)", key, v)
	}
	return n, nil
}

func Duration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be a duration like 2s (got %q)", key, v)
	}
	return d, nil
}

// List splits a comma separated variable.
func List(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
