// Command seed writes a demo dataset: the three customer data layers plus a
// supplier plan catalog, one archetypal customer per segment.
package main

import (
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"
)

var (
	outDir  = flag.String("out", "./data", "Output directory for data files")
	verbose = flag.Bool("verbose", false, "Enable verbose logging")
)

func main() {
	flag.Parse()

	var logger *zap.Logger
	var err error
	if *verbose {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	gen := NewGenerator(*outDir, logger)
	if err := gen.Run(); err != nil {
		logger.Fatal("Seed generation failed", zap.Error(err))
	}

	logger.Info("Seed dataset written", zap.String("dir", *outDir))
}
