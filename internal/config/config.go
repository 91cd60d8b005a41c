// Package config resolves runtime settings from defaults, an optional .env
// file, an optional meridian.yaml and MERIDIAN_* environment variables, in
// increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const EnvPrefix = "MERIDIAN"

type Config struct {
	DBPath          string        `mapstructure:"db" validate:"required"`
	CatalogPath     string        `mapstructure:"catalog"`
	LogUseCases     bool          `mapstructure:"log_use_cases"`
	ParticipantName string        `mapstructure:"participant"`
	CheckStagger    time.Duration `mapstructure:"check_stagger" validate:"gte=0,lte=1m"`
	TypingDelay     time.Duration `mapstructure:"typing_delay" validate:"gte=0,lte=1m"`
	RampStep        time.Duration `mapstructure:"ramp_step" validate:"gte=0,lte=1m"`
	GapThreshold    float64       `mapstructure:"gap_threshold" validate:"gte=0"`
	PlanStart       string        `mapstructure:"plan_start" validate:"omitempty,datetime=2006-01-02"`
}

// DefaultConfig returns the settings used when nothing overrides them. The
// database lives under ~/.meridian unless the home directory is unknown.
func DefaultConfig() Config {
	dbPath := "meridian.db"
	if home, err := os.UserHomeDir(); err == nil {
		dbPath = filepath.Join(home, ".meridian", "meridian.db")
	}
	return Config{
		DBPath:       dbPath,
		CheckStagger: 600 * time.Millisecond,
		TypingDelay:  900 * time.Millisecond,
		RampStep:     700 * time.Millisecond,
		GapThreshold: 1.0,
	}
}

// PlanStartDate parses PlanStart, falling back to now.
func (c Config) PlanStartDate(now time.Time) time.Time {
	if c.PlanStart == "" {
		return now
	}
	t, err := time.Parse(time.DateOnly, c.PlanStart)
	if err != nil {
		return now
	}
	return t
}

// Options controls where Load looks. Zero values mean the working
// directory.
type Options struct {
	DotEnvPath string
	ConfigDir  string
}

// Load resolves the configuration.
func Load(opts Options) (Config, error) {
	dotEnv := opts.DotEnvPath
	if dotEnv == "" {
		dotEnv = ".env"
	}
	if _, err := os.Stat(dotEnv); err == nil {
		if err := godotenv.Load(dotEnv); err != nil {
			return Config{}, fmt.Errorf("loading %s: %w", dotEnv, err)
		}
	} else if !os.IsNotExist(err) {
		return Config{}, fmt.Errorf("checking %s: %w", dotEnv, err)
	}

	v := viper.New()
	def := DefaultConfig()
	v.SetDefault("db", def.DBPath)
	v.SetDefault("catalog", def.CatalogPath)
	v.SetDefault("log_use_cases", def.LogUseCases)
	v.SetDefault("participant", def.ParticipantName)
	v.SetDefault("check_stagger", def.CheckStagger)
	v.SetDefault("typing_delay", def.TypingDelay)
	v.SetDefault("ramp_step", def.RampStep)
	v.SetDefault("gap_threshold", def.GapThreshold)
	v.SetDefault("plan_start", def.PlanStart)

	v.SetConfigName("meridian")
	v.SetConfigType("yaml")
	if opts.ConfigDir != "" {
		v.AddConfigPath(opts.ConfigDir)
	} else {
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("reading config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}
	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

var validate = validator.New()

// Validate checks field constraints and reports every violation at once.
func Validate(cfg Config) error {
	err := validate.Struct(cfg)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validating config: %w", err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s failed %q (got %v)", fe.Field(), fe.Tag(), fe.Value()))
	}
	return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
}
