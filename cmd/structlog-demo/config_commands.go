package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/D-Gaspa/structlog-config/config"
)

func newConfigCommand(configFlag *string) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration utilities",
	}

	configCmd.AddCommand(newConfigShowCommand(configFlag))
	configCmd.AddCommand(newConfigValidateCommand(configFlag))
	configCmd.AddCommand(newConfigInitCommand())

	return configCmd
}

func newConfigShowCommand(configFlag *string) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, source, err := loadOrDefault(*configFlag)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Source: %s\n\n", source)

			rows := [][]string{
				{"logging.level", cfg.Level.String()},
				{"logging.console.colors", strconv.FormatBool(cfg.Console.Colors)},
				{"logging.console.rich_tracebacks", strconv.FormatBool(cfg.Console.RichTracebacks)},
				{"logging.file.enabled", strconv.FormatBool(cfg.File.Enabled)},
				{"logging.file.path", cfg.File.Path},
				{"logging.file.max_size", strconv.FormatInt(cfg.File.MaxSize, 10)},
				{"logging.file.backup_count", strconv.Itoa(cfg.File.BackupCount)},
				{"logging.file.encoding", cfg.File.Encoding},
			}
			fmt.Fprintln(out, renderTable([]string{"Setting", "Value"}, rows))

			if rules := cfg.Patterns.Rules(); len(rules) > 0 {
				patternRows := make([][]string, 0, len(rules))
				for _, rule := range rules {
					patternRows = append(patternRows, []string{rule.Pattern, rule.Level.String()})
				}
				fmt.Fprintln(out)
				fmt.Fprintln(out, renderTable([]string{"Pattern", "Level"}, patternRows))
			}
			return nil
		},
	}
}

func newConfigValidateCommand(configFlag *string) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate a configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, source, err := loadOrDefault(*configFlag)
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Config source: %s\n", source)
			fmt.Fprintln(out, "Configuration valid")
			return nil
		},
	}
}

func newConfigInitCommand() *cobra.Command {
	var targetPath string
	var overwrite bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a sample configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			target := strings.TrimSpace(targetPath)
			if target == "" {
				target = "structlog.toml"
			}

			if dir := filepath.Dir(target); dir != "." {
				if err := os.MkdirAll(dir, 0o755); err != nil {
					return fmt.Errorf("create config directory %q: %w", dir, err)
				}
			}

			if !overwrite {
				if _, err := os.Stat(target); err == nil {
					return fmt.Errorf("config file already exists at %s (use --overwrite to replace it)", target)
				} else if !os.IsNotExist(err) {
					return fmt.Errorf("check config path: %w", err)
				}
			}

			if err := config.CreateSample(target); err != nil {
				return fmt.Errorf("create sample config: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Wrote sample configuration to %s\n", target)
			return nil
		},
	}

	cmd.Flags().StringVarP(&targetPath, "path", "p", "", "Destination for the configuration file")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Overwrite existing configuration if present")
	return cmd
}

func loadOrDefault(path string) (config.Config, string, error) {
	if path == "" {
		return config.Default(), "built-in defaults", nil
	}
	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, "", fmt.Errorf("load config: %w", err)
	}
	return cfg, path, nil
}
