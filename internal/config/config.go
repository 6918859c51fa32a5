// Package config resolves the client's settings from flags, the process
// environment, and an optional .env file, in that order of precedence.
package config

import (
	"flag"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/hammamikhairi/ottoguide/internal/logger"
)

// Env var names.
const (
	EnvBaseURL     = "GUIDE_BASE_URL"
	EnvLogFile     = "GUIDE_LOG_FILE"
	EnvProgress    = "GUIDE_PROGRESS"
	EnvChime       = "GUIDE_CHIME"
	EnvHTTPTimeout = "GUIDE_HTTP_TIMEOUT"
)

// Defaults.
const (
	DefaultBaseURL = "http://localhost:5000"
	DefaultLogFile = ".guide-logs/guide.log"
)

// LookupFunc resolves an environment variable.
type LookupFunc func(key string) (string, bool)

// Config is the resolved client configuration.
type Config struct {
	BaseURL     string
	LogLevel    logger.Level
	LogFile     string // "stderr" logs to the console
	Headless    bool   // print projections as lines instead of running the TUI
	Simple      bool   // timer + status only, no ingredient list
	Progress    bool   // poll /progress
	Chime       bool   // audible cue on step change
	HTTPTimeout time.Duration
}

// EnvLookup returns a lookup that consults the process environment first
// and then the given .env files (".env" when none are named). Missing files
// are ignored. Nothing is written to the process environment.
func EnvLookup(dotenvFiles ...string) LookupFunc {
	vals, err := godotenv.Read(dotenvFiles...)
	if err != nil {
		vals = map[string]string{}
	}
	return func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok {
			return v, true
		}
		v, ok := vals[key]
		return v, ok
	}
}

// Load parses args (without the program name) on top of env-derived
// defaults.
func Load(args []string, env LookupFunc) (*Config, error) {
	if env == nil {
		env = os.LookupEnv
	}

	defTimeout, err := envDuration(env, EnvHTTPTimeout)
	if err != nil {
		return nil, err
	}

	fs := flag.NewFlagSet("ottoguide", flag.ContinueOnError)
	baseURL := fs.String("base-url", envString(env, EnvBaseURL, DefaultBaseURL), "cooking-session server base URL")
	verbose := fs.Bool("verbose", false, "enable verbose/debug logging")
	quiet := fs.Bool("quiet", false, "disable all logging")
	logFile := fs.String("log-file", envString(env, EnvLogFile, DefaultLogFile), "file to write logs to (use \"stderr\" to log to console)")
	headless := fs.Bool("headless", false, "print display updates as plain lines instead of the terminal UI")
	simple := fs.Bool("simple", false, "show only step, timer, and passive nutrition (no ingredient list)")
	progress := fs.Bool("progress", envBool(env, EnvProgress), "poll /progress and show a progress bar")
	chimeOn := fs.Bool("chime", envBool(env, EnvChime), "play a chime when the step changes")
	timeout := fs.Duration("http-timeout", defTimeout, "HTTP request timeout (0 = transport default)")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	cfg := &Config{
		BaseURL:     strings.TrimRight(*baseURL, "/"),
		LogLevel:    logger.LevelNormal,
		LogFile:     *logFile,
		Headless:    *headless,
		Simple:      *simple,
		Progress:    *progress,
		Chime:       *chimeOn,
		HTTPTimeout: *timeout,
	}
	if *verbose {
		cfg.LogLevel = logger.LevelVerbose
	}
	if *quiet {
		cfg.LogLevel = logger.LevelOff
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return fmt.Errorf("config: base url %q: %w", c.BaseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("config: base url %q: scheme must be http or https", c.BaseURL)
	}
	if u.Host == "" {
		return fmt.Errorf("config: base url %q: missing host", c.BaseURL)
	}
	if c.HTTPTimeout < 0 {
		return fmt.Errorf("config: http timeout must not be negative")
	}
	return nil
}

func envString(env LookupFunc, key, def string) string {
	if v, ok := env(key); ok && v != "" {
		return v
	}
	return def
}

func envBool(env LookupFunc, key string) bool {
	v, ok := env(key)
	if !ok {
		return false
	}
	b, err := strconv.ParseBool(strings.TrimSpace(v))
	return err == nil && b
}

func envDuration(env LookupFunc, key string) (time.Duration, error) {
	v, ok := env(key)
	if !ok || strings.TrimSpace(v) == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(strings.TrimSpace(v))
	if err != nil {
		return 0, fmt.Errorf("config: %s=%q: %w", key, v, err)
	}
	return d, nil
}
