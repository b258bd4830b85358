// Package config reads command-line flags, with defaults taken from the
// environment so a .env file can configure the watch.
package config

import (
	"flag"
	"fmt"
	"strconv"
	"strings"

	"github.com/hammamikhairi/wristtimer/internal/logger"
	"github.com/hammamikhairi/wristtimer/internal/panel"
	"github.com/hammamikhairi/wristtimer/internal/storage"
)

// Environment variables that provide flag defaults.
const (
	EnvFace     = "WRISTTIMER_FACE"
	EnvStore    = "WRISTTIMER_STORE"
	EnvState    = "WRISTTIMER_STATE"
	EnvClock24h = "WRISTTIMER_CLOCK_24H"
	EnvLogLevel = "WRISTTIMER_LOG_LEVEL"
	EnvNoSound  = "WRISTTIMER_NO_SOUND"
	EnvToneHz   = "WRISTTIMER_TONE_HZ"
)

// Faces.
const (
	FaceTUI     = "tui"
	FaceConsole = "console"
	FacePanel   = "panel"
)

// DefaultLogFile keeps logs off the terminal the faces draw on.
const DefaultLogFile = ".wristtimer-logs/wristtimer.log"

// Config is everything main needs to wire the watch.
type Config struct {
	Face      string
	Store     string
	StatePath string // "" for the default under the user config dir
	Clock24h  bool
	NoSound   bool
	ToneHz    int // 0 keeps the buzzer's default tone
	LogLevel  logger.Level
	LogFile   string // "stderr" logs to the terminal
	Panel     panel.Config
}

// Load parses args (without the program name). getenv supplies defaults;
// pass os.Getenv.
func Load(args []string, getenv func(string) string) (Config, error) {
	var cfg Config

	level, err := logger.ParseLevel(getenv(EnvLogLevel))
	if err != nil {
		return cfg, fmt.Errorf("%s: %w", EnvLogLevel, err)
	}
	clock24, err := envBool(getenv, EnvClock24h)
	if err != nil {
		return cfg, err
	}
	noSound, err := envBool(getenv, EnvNoSound)
	if err != nil {
		return cfg, err
	}

	toneHz, err := envInt(getenv, EnvToneHz)
	if err != nil {
		return cfg, err
	}

	pins := panel.DefaultConfig()

	fs := flag.NewFlagSet("wristtimer", flag.ContinueOnError)
	fs.StringVar(&cfg.Face, "face", envOr(getenv, EnvFace, FaceTUI), "watch face: tui, console or panel")
	fs.StringVar(&cfg.Store, "store", envOr(getenv, EnvStore, storage.KindYAML), "state store: yaml, sqlite or memory")
	fs.StringVar(&cfg.StatePath, "state", getenv(EnvState), "state file path (default under the user config dir)")
	fs.BoolVar(&cfg.Clock24h, "clock24", clock24, "show the wall clock in 24-hour format")
	fs.BoolVar(&cfg.NoSound, "no-sound", noSound, "disable the alert tone")
	fs.IntVar(&cfg.ToneHz, "tone", toneHz, "alert tone frequency in Hz (0 for the default)")
	verbose := fs.Bool("verbose", false, "enable verbose/debug logging")
	quiet := fs.Bool("quiet", false, "disable all logging")
	fs.StringVar(&cfg.LogFile, "log-file", DefaultLogFile, "file to write logs to (use \"stderr\" to log to console)")
	fs.StringVar(&cfg.Panel.Bus, "i2c", pins.Bus, "I²C bus for the panel display")
	fs.StringVar(&cfg.Panel.PinSelect, "pin-select", pins.PinSelect, "GPIO pin of the Select button")
	fs.StringVar(&cfg.Panel.PinUp, "pin-up", pins.PinUp, "GPIO pin of the Up button")
	fs.StringVar(&cfg.Panel.PinDown, "pin-down", pins.PinDown, "GPIO pin of the Down button")
	fs.StringVar(&cfg.Panel.PinMotor, "pin-motor", pins.PinMotor, "GPIO pin of the vibration motor (empty for none)")

	if err := fs.Parse(args); err != nil {
		return cfg, fmt.Errorf("parse flags: %w", err)
	}
	if fs.NArg() > 0 {
		return cfg, fmt.Errorf("unexpected arguments: %s", strings.Join(fs.Args(), " "))
	}

	cfg.LogLevel = level
	if *verbose {
		cfg.LogLevel = logger.LevelVerbose
	}
	if *quiet {
		cfg.LogLevel = logger.LevelOff
	}

	if cfg.ToneHz < 0 {
		return cfg, fmt.Errorf("tone %d Hz: must not be negative", cfg.ToneHz)
	}

	switch cfg.Face {
	case FaceTUI, FaceConsole, FacePanel:
	default:
		return cfg, fmt.Errorf("unknown face %q", cfg.Face)
	}
	switch cfg.Store {
	case storage.KindYAML, storage.KindSQLite, storage.KindMemory:
	default:
		return cfg, fmt.Errorf("unknown store %q", cfg.Store)
	}
	return cfg, nil
}

func envOr(getenv func(string) string, key, fallback string) string {
	if v := strings.TrimSpace(getenv(key)); v != "" {
		return v
	}
	return fallback
}

func envBool(getenv func(string) string, key string) (bool, error) {
	v := strings.TrimSpace(getenv(key))
	if v == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s: %w", key, err)
	}
	return b, nil
}

func envInt(getenv func(string) string, key string) (int, error) {
	v := strings.TrimSpace(getenv(key))
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}
