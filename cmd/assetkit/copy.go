package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"github.com/assetkit/assetkit/pkg/asset"
)

var copyCommand = &cli.Command{
	Name:  "copy",
	Usage: "Copy a local or remote asset into a directory",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:    "dest",
			Aliases: []string{"o"},
			Value:   ".",
			Usage:   "Destination directory",
		},
	},
	Arguments: []cli.Argument{
		&cli.StringArg{
			Name:      "origin",
			UsageText: "Path or http(s) URL of the asset",
		},
	},
	Action: func(ctx context.Context, command *cli.Command) error {
		logger := getLogger(ctx)

		origin := command.StringArg("origin")
		if origin == "" {
			return fmt.Errorf("no asset origin provided")
		}

		store := asset.NewStore()
		destPath, err := store.Copy(ctx, origin, command.String("dest"))
		if err != nil {
			return fmt.Errorf("failed to copy asset: %w", err)
		}

		logger.Info("copied asset",
			zap.String("origin", origin),
			zap.String("dest", destPath))

		return nil
	},
}
