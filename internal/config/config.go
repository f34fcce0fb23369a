// Package config provides Viper-based configuration loading for the battle game.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// DatabaseConfig holds PostgreSQL connection settings for the name pool.
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Name            string        `mapstructure:"name"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxConns        int32         `mapstructure:"max_conns"`
	MinConns        int32         `mapstructure:"min_conns"`
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"`
}

// DSN returns the PostgreSQL connection string.
//
// Precondition: Host, Port, User, and Name must be non-empty.
// Postcondition: Returns a valid PostgreSQL DSN string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "console".
	Format string `mapstructure:"format"`
	// Output is "stderr", "stdout" or a file path. Narration owns stdout, so
	// the default keeps logs off it.
	Output string `mapstructure:"output"`
}

// Name pool backends.
const (
	BackendStatic   = "static"
	BackendPostgres = "postgres"
	BackendSQLite   = "sqlite"
)

// NamesConfig selects where combatant names come from.
type NamesConfig struct {
	// Backend is one of "static", "postgres" or "sqlite".
	Backend string `mapstructure:"backend"`
	// SQLitePath is the database file used by the sqlite backend.
	SQLitePath string `mapstructure:"sqlite_path"`
}

// GameConfig holds battle and session tuning.
type GameConfig struct {
	// PartySize is how many candidates the player drafts.
	PartySize int `mapstructure:"party_size"`
	// DraftPool is how many candidates are offered per draft.
	DraftPool int `mapstructure:"draft_pool"`
	// EnemyCount is the number of non-Cleric enemies per battle.
	EnemyCount int `mapstructure:"enemy_count"`
	// MaxRounds caps a battle; 0 means unbounded.
	MaxRounds int `mapstructure:"max_rounds"`
	// Seed fixes the random source; 0 uses crypto/rand.
	Seed uint64 `mapstructure:"seed"`
	// Pause waits for Enter after each narrated action.
	Pause bool `mapstructure:"pause"`
	// Color enables ANSI colour output.
	Color bool `mapstructure:"color"`
	// ArchetypesDir holds optional archetype YAML overrides.
	ArchetypesDir string `mapstructure:"archetypes_dir"`
	// ScriptDir holds Lua targeting scripts for the enemy roster.
	ScriptDir string `mapstructure:"script_dir"`
	// CriesPath names an optional YAML cry table.
	CriesPath string `mapstructure:"cries_path"`
	// ScriptInstructionLimit bounds each Lua hook call.
	ScriptInstructionLimit int `mapstructure:"script_instruction_limit"`
}

// Config is the top-level application configuration.
type Config struct {
	Database DatabaseConfig `mapstructure:"database"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Names    NamesConfig    `mapstructure:"names"`
	Game     GameConfig     `mapstructure:"game"`
}

// Validate checks all configuration invariants. Database settings are only
// checked when the postgres name backend is selected.
//
// Postcondition: Returns nil if configuration is valid, or an error describing all violations.
func (c Config) Validate() error {
	var errs []string

	if err := validateLogging(c.Logging); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateNames(c.Names); err != nil {
		errs = append(errs, err.Error())
	}
	if c.Names.Backend == BackendPostgres {
		if err := validateDatabase(c.Database); err != nil {
			errs = append(errs, err.Error())
		}
	}
	if err := validateGame(c.Game); err != nil {
		errs = append(errs, err.Error())
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func validateDatabase(d DatabaseConfig) error {
	var errs []string
	if d.Host == "" {
		errs = append(errs, "database.host must not be empty")
	}
	if d.Port < 1 || d.Port > 65535 {
		errs = append(errs, fmt.Sprintf("database.port must be 1-65535, got %d", d.Port))
	}
	if d.User == "" {
		errs = append(errs, "database.user must not be empty")
	}
	if d.Name == "" {
		errs = append(errs, "database.name must not be empty")
	}
	validSSL := map[string]bool{"disable": true, "require": true, "verify-ca": true, "verify-full": true}
	if !validSSL[d.SSLMode] {
		errs = append(errs, fmt.Sprintf("database.sslmode must be one of [disable, require, verify-ca, verify-full], got %q", d.SSLMode))
	}
	if d.MaxConns < 1 {
		errs = append(errs, fmt.Sprintf("database.max_conns must be >= 1, got %d", d.MaxConns))
	}
	if d.MinConns < 0 {
		errs = append(errs, fmt.Sprintf("database.min_conns must be >= 0, got %d", d.MinConns))
	}
	if d.MinConns > d.MaxConns {
		errs = append(errs, "database.min_conns must not exceed database.max_conns")
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateLogging(l LoggingConfig) error {
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[l.Level] {
		return fmt.Errorf("logging.level must be one of [debug, info, warn, error], got %q", l.Level)
	}
	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[l.Format] {
		return fmt.Errorf("logging.format must be one of [json, console], got %q", l.Format)
	}
	return nil
}

func validateNames(n NamesConfig) error {
	switch n.Backend {
	case BackendStatic, BackendPostgres:
		return nil
	case BackendSQLite:
		if strings.TrimSpace(n.SQLitePath) == "" {
			return fmt.Errorf("names.sqlite_path must not be empty for the sqlite backend")
		}
		return nil
	default:
		return fmt.Errorf("names.backend must be one of [static, postgres, sqlite], got %q", n.Backend)
	}
}

func validateGame(g GameConfig) error {
	var errs []string
	if g.PartySize < 1 {
		errs = append(errs, fmt.Sprintf("game.party_size must be >= 1, got %d", g.PartySize))
	}
	if g.DraftPool < g.PartySize {
		errs = append(errs, fmt.Sprintf("game.draft_pool must be >= game.party_size, got %d < %d", g.DraftPool, g.PartySize))
	}
	if g.EnemyCount < 0 {
		errs = append(errs, fmt.Sprintf("game.enemy_count must be >= 0, got %d", g.EnemyCount))
	}
	if g.MaxRounds < 0 {
		errs = append(errs, fmt.Sprintf("game.max_rounds must be >= 0, got %d", g.MaxRounds))
	}
	if g.ScriptInstructionLimit < 1 {
		errs = append(errs, fmt.Sprintf("game.script_instruction_limit must be >= 1, got %d", g.ScriptInstructionLimit))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

// Load reads configuration from the given file path, applies environment variable
// overrides, and validates the result. An empty path uses defaults and the
// environment only.
//
// Postcondition: Returns a valid Config or a non-nil error.
func Load(path string) (Config, error) {
	v := viper.New()

	// Environment variable overrides with RPJ_ prefix
	v.SetEnvPrefix("RPJ")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("reading config file: %w", err)
		}
	}

	return LoadFromViper(v)
}

// LoadFromViper builds a Config from an already-configured Viper instance.
//
// Precondition: v must be non-nil and have configuration values set.
// Postcondition: Returns a valid Config or a non-nil error.
func LoadFromViper(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// NewViper returns a Viper instance carrying every default, for callers that
// layer flags on top before calling LoadFromViper.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix("RPJ")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)
	return v
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "rpjamma")
	v.SetDefault("database.password", "rpjamma")
	v.SetDefault("database.name", "rpjamma")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_conns", 4)
	v.SetDefault("database.min_conns", 1)
	v.SetDefault("database.max_conn_lifetime", "1h")

	v.SetDefault("logging.level", "warn")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.output", "stderr")

	v.SetDefault("names.backend", BackendStatic)
	v.SetDefault("names.sqlite_path", "names.db")

	v.SetDefault("game.party_size", 4)
	v.SetDefault("game.draft_pool", 10)
	v.SetDefault("game.enemy_count", 3)
	v.SetDefault("game.max_rounds", 0)
	v.SetDefault("game.seed", 0)
	v.SetDefault("game.pause", false)
	v.SetDefault("game.color", true)
	v.SetDefault("game.archetypes_dir", "")
	v.SetDefault("game.script_dir", "")
	v.SetDefault("game.cries_path", "")
	v.SetDefault("game.script_instruction_limit", 100000)
}
