package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/ahrav/go-ensemble/internal/testutils"
)

func main() {
	var (
		length     = flag.Int("length", 365, "Number of points to generate")
		seed       = flag.Uint64("seed", 42, "Random seed for the noise component")
		outputPath = flag.String("output", "testdata/benchmark_series.csv", "Output file path")
	)
	flag.Parse()

	config := testutils.DefaultBenchmarkSeriesConfig()
	config.Length = *length

	series, err := testutils.GenerateBenchmarkSeries(config, *seed)
	if err != nil {
		log.Fatalf("Failed to generate series: %v", err)
	}
	if err := testutils.SaveSeriesCSV(series, *outputPath); err != nil {
		log.Fatalf("Failed to save series: %v", err)
	}

	fmt.Printf("Generated benchmark series:\n")
	fmt.Printf("- Path: %s\n", *outputPath)
	fmt.Printf("- Points: %d\n", series.Len())
	fmt.Printf("- Range: %s to %s\n", series.Start(), series.End())
}
