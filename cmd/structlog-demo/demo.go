package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	structlog "github.com/D-Gaspa/structlog-config"
	"github.com/D-Gaspa/structlog-config/config"
)

func newDemoCommand(configFlag *string) *cobra.Command {
	var filePath string
	var debug bool

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Configure logging and emit sample records",
		RunE: func(cmd *cobra.Command, args []string) error {
			builder, err := newBuilder(*configFlag)
			if err != nil {
				return err
			}
			if filePath != "" {
				builder = builder.WithFile(filePath)
			}
			if debug {
				builder = builder.WithPatternLevel("demo.*", config.LevelDebug)
			}
			if err := builder.Build(); err != nil {
				return fmt.Errorf("configure logging: %w", err)
			}

			runDemo(cmd.Context())

			// A second Build on the same process must be rejected.
			if err := structlog.Configure().Build(); !errors.Is(err, structlog.ErrAlreadyConfigured) {
				return fmt.Errorf("expected the second Build to fail, got: %v", err)
			}
			structlog.GetLogger("demo").Info("second configuration attempt rejected as expected")
			return nil
		},
	}

	cmd.Flags().StringVarP(&filePath, "file", "f", "", "Also write JSON records to this file")
	cmd.Flags().BoolVar(&debug, "debug", false, "Lower demo.* loggers to debug")
	return cmd
}

func newBuilder(configPath string) (*structlog.Builder, error) {
	if configPath == "" {
		return structlog.Configure(), nil
	}
	builder, err := structlog.ConfigureFromFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return builder, nil
}

func runDemo(ctx context.Context) {
	requestID := uuid.NewString()
	ctx = structlog.BindFields(ctx,
		structlog.String("request_id", requestID),
	)

	root := structlog.GetLogger("demo")
	root.InfoContext(ctx, "demo starting")

	http := structlog.GetLogger("demo.http")
	http.DebugContext(ctx, "route resolved", structlog.String("route", "/healthz"))
	http.InfoContext(ctx, "request served",
		structlog.String("method", "GET"),
		structlog.Int("status", 200),
		structlog.Duration("elapsed", 12*time.Millisecond),
	)

	db := structlog.GetLogger("demo.db")
	db.WarnContext(ctx, "slow query",
		structlog.String("query", "SELECT 1"),
		structlog.Duration("elapsed", 250*time.Millisecond),
	)

	err := fmt.Errorf("refresh cache: %w", errors.New("connection refused"))
	db.ErrorContext(ctx, "background refresh failed",
		structlog.Error(err),
		structlog.Stack(),
	)

	root.InfoContext(ctx, "demo finished")
}
