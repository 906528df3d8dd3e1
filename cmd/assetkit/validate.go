package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"github.com/assetkit/assetkit/internal/bundle"
)

var validateCommand = &cli.Command{
	Name:  "validate",
	Usage: "Validate a bundle manifest",
	Arguments: []cli.Argument{
		&cli.StringArg{
			Name:      "manifest",
			UsageText: "The bundle manifest to validate",
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
			return fmt.Errorf("failed to read manifest '%s': %w", manifestPath, err)
		}

		logger = logger.With(zap.String("manifest", manifestPath))
		logger.Debug("validating manifest")

		if _, err := bundle.ParseJob(manifestPath, manifestData); err != nil {
			fmt.Println(formatValidationError(err))
			return fmt.Errorf("manifest '%s' is invalid", manifestPath)
		}

		fmt.Printf("✓ Manifest '%s' is valid\n", manifestPath)
		return nil
	},
}

func formatValidationError(err error) error {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		var sb strings.Builder
		sb.WriteString(fmt.Sprintf("manifest has %d validation error(s):", len(validationErrs)))
		for _, fe := range validationErrs {
			sb.WriteString(fmt.Sprintf("\n  • %s: failed '%s' validation", fe.Namespace(), fe.Tag()))
			if fe.Param() != "" {
				sb.WriteString(fmt.Sprintf(" (param: %s)", fe.Param()))
			}
		}
		return errors.New(sb.String())
	}
	return err
}
