package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"github.com/assetkit/assetkit/pkg/archive"
)

var compressCommand = &cli.Command{
	Name:  "compress",
	Usage: "Archive a directory into a single compressed file",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:    "format",
			Aliases: []string{"f"},
			Value:   string(archive.FormatTarGz),
			Usage:   "Archive format (tar-gz, tar-xz, tar-zst, zip)",
			Action: func(ctx context.Context, command *cli.Command, s string) error {
				_, err := archive.ParseFormat(s)
				return err
			},
		},
		&cli.StringFlag{
			Name:  "prefix",
			Usage: "Relocate the directory's contents under this path inside the archive",
		},
	},
	Arguments: []cli.Argument{
		&cli.StringArg{
			Name:      "src",
			UsageText: "The directory to archive",
		},
		&cli.StringArg{
			Name:      "dest",
			UsageText: "The archive file to create",
		},
	},
	Action: func(ctx context.Context, command *cli.Command) error {
		logger := getLogger(ctx)

		src := command.StringArg("src")
		dest := command.StringArg("dest")
		if src == "" || dest == "" {
			return fmt.Errorf("both a source directory and a destination file are required")
		}

		format, err := archive.ParseFormat(command.String("format"))
		if err != nil {
			return err
		}

		logger.Info("creating archive",
			zap.String("src", src),
			zap.String("dest", dest),
			zap.String("format", string(format)),
			zap.String("prefix", command.String("prefix")))

		req := archive.Request{
			SourceDir:  src,
			DestPath:   dest,
			RootPrefix: command.String("prefix"),
		}
		if err := archive.Create(format, req); err != nil {
			return fmt.Errorf("failed to create archive: %w", err)
		}

		return nil
	},
}
