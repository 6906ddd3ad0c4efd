package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/mikey/legitim/internal/adapters/intake"
	"github.com/mikey/legitim/internal/core"
	"github.com/mikey/legitim/internal/di"
	"go.uber.org/zap"
)

func main() {
	flags := di.ParseFlags()

	container, err := di.BuildCLIContainer(flags)
	if err != nil {
		fmt.Printf("Failed to build dependency container: %v\n", err)
		os.Exit(1)
	}

	if err := container.Invoke(run); err != nil {
		os.Exit(1)
	}
}

func run(flags *di.CLIFlags, logger *zap.Logger, cli *intake.CLI, classifier core.Classifier) error {
	defer logger.Sync()

	var input io.Reader = os.Stdin
	if flags.InputFile != "" {
		file, err := os.Open(flags.InputFile)
		if err != nil {
			logger.Error("Failed to open input file", zap.String("file", flags.InputFile), zap.Error(err))
			return err
		}
		defer file.Close()
		input = file
		logger.Info("Reading email from file", zap.String("file", flags.InputFile))
	} else {
		logger.Info("Reading email from stdin")
	}

	_, err := cli.Check(context.Background(), input)

	if closer, ok := classifier.(interface{ Close() error }); ok {
		if cerr := closer.Close(); cerr != nil {
			logger.Error("Failed to close classifier", zap.Error(cerr))
		}
	}

	return err
}
