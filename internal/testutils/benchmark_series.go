package testutils

import (
	"encoding/csv"
	"fmt"
	"math"
	"math/rand/v2"
	"os"
	"strconv"
	"time"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/ahrav/go-ensemble/internal/domain"
)

// BenchmarkSeriesConfig controls the shape of a generated benchmark series.
type BenchmarkSeriesConfig struct {
	// Length is the number of points to generate.
	Length int
	// Start is the timestamp of the first point.
	Start time.Time
	// Frequency is the sampling interval.
	Frequency time.Duration
	// Level is the base value of the series.
	Level float64
	// Trend is the per-step increase.
	Trend float64
	// SeasonalPeriod is the number of steps per seasonal cycle; zero disables
	// seasonality.
	SeasonalPeriod int
	// SeasonalAmplitude scales the seasonal component.
	SeasonalAmplitude float64
	// NoiseSigma is the standard deviation of the Gaussian noise component.
	NoiseSigma float64
}

// DefaultBenchmarkSeriesConfig returns a configuration producing a daily
// series with weekly seasonality, mild trend, and moderate noise.
func DefaultBenchmarkSeriesConfig() BenchmarkSeriesConfig {
	return BenchmarkSeriesConfig{
		Length:            365,
		Start:             time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Frequency:         24 * time.Hour,
		Level:             100,
		Trend:             0.1,
		SeasonalPeriod:    7,
		SeasonalAmplitude: 10,
		NoiseSigma:        2,
	}
}

// GenerateBenchmarkSeries produces a deterministic synthetic series with
// trend, seasonality, and Gaussian noise for exercising combiners against
// realistic data shapes.
func GenerateBenchmarkSeries(config BenchmarkSeriesConfig, seed uint64) (domain.TimeSeries, error) {
	if config.Length < 1 {
		return domain.TimeSeries{}, fmt.Errorf("series length must be at least 1, got %d", config.Length)
	}

	noise := distuv.Normal{
		Mu:    0,
		Sigma: config.NoiseSigma,
		Src:   rand.NewPCG(seed, seed),
	}

	values := make([]float64, config.Length)
	for i := range values {
		value := config.Level + config.Trend*float64(i)
		if config.SeasonalPeriod > 0 {
			phase := 2 * math.Pi * float64(i%config.SeasonalPeriod) / float64(config.SeasonalPeriod)
			value += config.SeasonalAmplitude * math.Sin(phase)
		}
		if config.NoiseSigma > 0 {
			value += noise.Rand()
		}
		values[i] = value
	}

	return domain.NewTimeSeriesFromValues(config.Start, config.Frequency, values)
}

// SaveSeriesCSV writes the series to path as timestamp,value rows with a
// header line.
func SaveSeriesCSV(series domain.TimeSeries, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"timestamp", "value"}); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i := 0; i < series.Len(); i++ {
		p := series.At(i)
		record := []string{
			p.Timestamp.Format(time.RFC3339),
			strconv.FormatFloat(p.Value, 'g', -1, 64),
		}
		if err := w.Write(record); err != nil {
			return fmt.Errorf("writing row %d: %w", i, err)
		}
	}
	w.Flush()
	return w.Error()
}
