package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/assetkit/assetkit/internal/bundle"
)

var bundleCommand = &cli.Command{
	Name:  "bundle",
	Usage: "Collect assets per a manifest and deliver them as files or an archive",
	Arguments: []cli.Argument{
		&cli.StringArg{
			Name:      "manifest",
			UsageText: "The bundle manifest to run",
		},
	},
	Action: func(ctx context.Context, command *cli.Command) error {
		logger := getLogger(ctx)

		manifestPath := command.StringArg("manifest")
		if manifestPath == "" {
			return fmt.Errorf("no manifest file provided")
		}

		manifestData, err := os.ReadFile(manifestPath)
		if err != nil {
			return fmt.Errorf("failed to read manifest: %w", err)
		}

		job, err := bundle.ParseJob(manifestPath, manifestData)
		if err != nil {
			return fmt.Errorf("failed to parse manifest: %w", err)
		}

		runner := bundle.New(logger.Named("bundle"), job)
		if err := runner.Run(ctx); err != nil {
			return fmt.Errorf("failed to run bundle job: %w", err)
		}

		return nil
	},
}
