// Package main provides the purchases CLI entry point.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"purchases/internal/backend"
	"purchases/internal/cli"
	"purchases/internal/config"
	"purchases/internal/log"
	"purchases/internal/services"
	"purchases/internal/validation"
)

// errInvalidRecords makes the process exit with status 2 without an error line.
var errInvalidRecords = errors.New("invalid records")

func main() {
	err := newRootCmd().Execute()
	switch {
	case err == nil:
	case errors.Is(err, errInvalidRecords):
		os.Exit(2)
	default:
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// app carries the state shared by all subcommands.
type app struct {
	envFile string
	mode    string
	noColor bool

	cfg    *config.Config
	logger *log.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:           "purchases",
		Short:         "Customer purchase reports",
		Long:          `purchases loads customer purchase records and prints expense, debt, price and popularity reports.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return a.init()
		},
	}

	rootCmd.PersistentFlags().StringVar(&a.envFile, "env-file", "", "load environment from this file (default ./.env when present)")
	rootCmd.PersistentFlags().StringVar(&a.mode, "mode", "", "validation mode: permissive or strict (overrides VALIDATION_MODE)")
	rootCmd.PersistentFlags().BoolVar(&a.noColor, "no-color", false, "disable colored output")

	rootCmd.AddCommand(reportCmd(a))
	rootCmd.AddCommand(validateCmd(a))
	rootCmd.AddCommand(importCmd(a))
	rootCmd.AddCommand(publishCmd(a))
	rootCmd.AddCommand(categoriesCmd(a))

	return rootCmd
}

func (a *app) init() error {
	var files []string
	if a.envFile != "" {
		files = append(files, a.envFile)
	}
	if err := cli.LoadEnvFile(files...); err != nil {
		return err
	}

	cfg, err := cli.LoadAndValidateConfig(a.mode)
	if err != nil {
		return err
	}
	level, _ := cfg.Level()

	a.cfg = cfg
	a.logger = cli.SetupLogger(level)
	if a.noColor {
		color.NoColor = true
	}

	a.logger.Debug("Configuration loaded",
		log.FieldOperation, log.OpStartup,
		log.FieldBackend, cfg.SourceBackend,
		"validation_mode", cfg.ValidationMode,
	)
	return nil
}

// orders builds the orders service over the configured backend, or over
// files when any are named.
func (a *app) orders(ctx context.Context, files []string) (*services.OrdersService, func() error, error) {
	bcfg, err := backend.FromAppConfig(a.cfg, files)
	if err != nil {
		return nil, nil, err
	}

	result, err := backend.NewFactory(a.logger).CreateBackend(ctx, bcfg)
	if err != nil {
		return nil, nil, err
	}

	mode, err := validation.ParseMode(a.cfg.ValidationMode)
	if err != nil {
		result.Close()
		return nil, nil, err
	}

	svc := services.NewOrdersService(result.Loaders, services.OrdersServiceConfig{
		Mode:        mode,
		LoadTimeout: a.cfg.LoadTimeout,
	}, a.logger)
	return svc, result.Close, nil
}
