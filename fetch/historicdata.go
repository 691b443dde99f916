package fetch

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/dnldd/terminal/shared"
	"github.com/parquet-go/parquet-go"
	"github.com/rs/zerolog"
	"github.com/tidwall/gjson"
)

// BarsConfig represents the historic bar source configuration.
type BarsConfig struct {
	// FilePath is the filepath to the historic bar data, either json or parquet.
	FilePath string
	// OldestFirst signals the file lists bars from oldest to most recent.
	OldestFirst bool
	// Location is the timezone bar dates are parsed in, defaults to UTC.
	Location *time.Location
	// Logger represents the application logger.
	Logger *zerolog.Logger
}

// Validate asserts the config sane inputs.
func (cfg *BarsConfig) Validate() error {
	var errs error

	if cfg.FilePath == "" {
		errs = errors.Join(errs, fmt.Errorf("bars filepath cannot be an empty string"))
	}
	if cfg.Logger == nil {
		errs = errors.Join(errs, fmt.Errorf("bars logger cannot be nil"))
	}

	return errs
}

// barRecord is the parquet row layout of a bar.
type barRecord struct {
	Open   float64 `parquet:"open"`
	High   float64 `parquet:"high"`
	Low    float64 `parquet:"low"`
	Close  float64 `parquet:"close"`
	Volume float64 `parquet:"volume,optional"`
	// Date is the bar time in unix milliseconds.
	Date int64 `parquet:"date,optional"`
}

// loadJSONBars loads bars from the json file at the provided path.
func loadJSONBars(path string, loc *time.Location) ([]shared.Bar, error) {
	readb, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading bar data from file with path '%s': %w", path, err)
	}

	if !gjson.ValidBytes(readb) {
		return nil, fmt.Errorf("invalid json in bar data file '%s'", path)
	}

	data := gjson.ParseBytes(readb)
	if !data.IsArray() {
		// Allow the bars to be nested under a "bars" key.
		data = data.Get("bars")
	}

	return shared.ParseBars(data.Array(), loc)
}

// loadParquetBars loads bars from the parquet file at the provided path.
func loadParquetBars(path string, loc *time.Location) ([]shared.Bar, error) {
	records, err := parquet.ReadFile[barRecord](path)
	if err != nil {
		return nil, fmt.Errorf("reading bar data from parquet file with path '%s': %w", path, err)
	}

	bars := make([]shared.Bar, 0, len(records))
	for idx := range records {
		bar := shared.Bar{
			Open:   records[idx].Open,
			High:   records[idx].High,
			Low:    records[idx].Low,
			Close:  records[idx].Close,
			Volume: records[idx].Volume,
		}
		if records[idx].Date != 0 {
			bar.Date = time.UnixMilli(records[idx].Date).In(loc)
		}

		bars = append(bars, bar)
	}

	return bars, nil
}

// LoadBars loads, validates and orders the historic bars described by the
// provided config. The returned bars have the most recent bar at index 0.
func LoadBars(cfg *BarsConfig) ([]shared.Bar, error) {
	err := cfg.Validate()
	if err != nil {
		return nil, err
	}

	loc := cfg.Location
	if loc == nil {
		loc = time.UTC
	}

	var bars []shared.Bar
	ext := strings.ToLower(filepath.Ext(cfg.FilePath))
	switch ext {
	case ".json":
		bars, err = loadJSONBars(cfg.FilePath, loc)
	case ".parquet":
		bars, err = loadParquetBars(cfg.FilePath, loc)
	default:
		return nil, fmt.Errorf("unsupported bar data file extension '%s'", ext)
	}
	if err != nil {
		return nil, fmt.Errorf("loading bars: %w", err)
	}

	if len(bars) == 0 {
		return nil, fmt.Errorf("no bars found in '%s'", cfg.FilePath)
	}

	for idx := range bars {
		err := bars[idx].Validate()
		if err != nil {
			return nil, fmt.Errorf("invalid bar at index %d: %w", idx, err)
		}
	}

	if cfg.OldestFirst {
		slices.Reverse(bars)
	}

	cfg.Logger.Info().Msgf("loaded %d bars from %s", len(bars), cfg.FilePath)

	return bars, nil
}

// LoadGestures loads a gesture script from the json file at the provided path.
func LoadGestures(path string) ([]shared.Gesture, error) {
	readb, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading gestures from file with path '%s': %w", path, err)
	}

	if !gjson.ValidBytes(readb) {
		return nil, fmt.Errorf("invalid json in gestures file '%s'", path)
	}

	data := gjson.ParseBytes(readb)
	if !data.IsArray() {
		data = data.Get("gestures")
	}

	return shared.ParseGestures(data.Array()), nil
}
