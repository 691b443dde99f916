package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"reflect"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

const (
	// defaultWidth is the default canvas width in pixels.
	defaultWidth = 1280
	// defaultHeight is the default canvas height in pixels.
	defaultHeight = 720
	// defaultOutput is the default output filepath of the rendered chart.
	defaultOutput = "chart.png"
)

// Config is the configuration struct for the service.
type Config struct {
	// Bars is the filepath to the bar data, json or parquet.
	Bars string
	// Gestures is the filepath to the gesture script.
	Gestures string
	// Output is the filepath the rendered chart is written to.
	Output string
	// FramesDir is the directory a frame per gesture is written to.
	FramesDir string
	// Width is the canvas width in pixels.
	Width int
	// Height is the canvas height in pixels.
	Height int
	// OldestFirst signals the bar data lists bars from oldest to most recent.
	OldestFirst bool
	// LogFile is the filepath of the rotating log file, logs go to stderr when empty.
	LogFile string
	// LogLevel is the minimum log level.
	LogLevel string

	registeredFlags map[string]bool
}

// Validate asserts the config sane inputs.
func (cfg *Config) Validate() error {
	var errs error

	if cfg.Bars == "" {
		errs = errors.Join(errs, fmt.Errorf("bars filepath cannot be an empty string"))
	}
	if cfg.Output == "" {
		errs = errors.Join(errs, fmt.Errorf("output filepath cannot be an empty string"))
	}
	if cfg.Width <= 0 {
		errs = errors.Join(errs, fmt.Errorf("width must be positive, got %d", cfg.Width))
	}
	if cfg.Height <= 0 {
		errs = errors.Join(errs, fmt.Errorf("height must be positive, got %d", cfg.Height))
	}
	if cfg.LogLevel != "" {
		_, err := zerolog.ParseLevel(cfg.LogLevel)
		if err != nil {
			errs = errors.Join(errs, fmt.Errorf("invalid log level %q", cfg.LogLevel))
		}
	}

	return errs
}

// registerFlag registers command line arguments of any type and tracks them to avoid reregistration.
func (cfg *Config) registerFlag(name string, value interface{}, usage string, fallback string) error {
	if cfg.registeredFlags == nil {
		cfg.registeredFlags = make(map[string]bool)
	}

	if cfg.registeredFlags[name] {
		return nil
	}

	cfg.registeredFlags[name] = true

	defValue := os.Getenv(name)
	if defValue == "" {
		defValue = fallback
	}

	val := reflect.ValueOf(value)
	if val.Kind() != reflect.Ptr || val.IsNil() {
		return fmt.Errorf("%s: value must be a non-nil pointer", name)
	}

	switch val.Elem().Kind() {
	case reflect.String:
		flag.StringVar(value.(*string), name, defValue, usage)
	case reflect.Bool:
		var def bool
		if defValue != "" {
			def, _ = strconv.ParseBool(defValue)
		}
		flag.BoolVar(value.(*bool), name, def, usage)
	case reflect.Int:
		var def int
		if defValue != "" {
			def, _ = strconv.Atoi(defValue)
		}
		flag.IntVar(value.(*int), name, def, usage)
	default:
		return fmt.Errorf("%s: unsupported type", name)
	}

	return nil
}

// loadConfig loads the configuration from environment variables and command line flags.
func loadConfig(cfg *Config, path string) error {
	if path == "" {
		path = ".env"
	}

	// Check if the expected .env file exists before loading it.
	_, err := os.Stat(path)
	if err == nil {
		err := godotenv.Load(path)
		if err != nil {
			return fmt.Errorf("loading .env file: %w", err)
		}
	}

	// Register command line arguments using loaded environment variables as defaults.
	flags := []struct {
		name     string
		value    interface{}
		usage    string
		fallback string
	}{
		{"bars", &cfg.Bars, "the bar data filepath (json or parquet)", ""},
		{"gestures", &cfg.Gestures, "the gesture script filepath", ""},
		{"output", &cfg.Output, "the rendered chart filepath", defaultOutput},
		{"framesdir", &cfg.FramesDir, "the directory to write a frame per gesture to", ""},
		{"width", &cfg.Width, "the canvas width in pixels", strconv.Itoa(defaultWidth)},
		{"height", &cfg.Height, "the canvas height in pixels", strconv.Itoa(defaultHeight)},
		{"oldestfirst", &cfg.OldestFirst, "the bar data lists the oldest bar first", ""},
		{"logfile", &cfg.LogFile, "the rotating log filepath", ""},
		{"loglevel", &cfg.LogLevel, "the minimum log level", zerolog.InfoLevel.String()},
	}
	for _, f := range flags {
		err = cfg.registerFlag(f.name, f.value, f.usage, f.fallback)
		if err != nil {
			return err
		}
	}

	// Parse command-line flags.
	flag.Parse()

	return cfg.Validate()
}
