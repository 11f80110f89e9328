package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/matija2209/alexa-maxa-reviews-sdk/config"
	"github.com/matija2209/alexa-maxa-reviews-sdk/display"
	"github.com/matija2209/alexa-maxa-reviews-sdk/filter"
	"github.com/matija2209/alexa-maxa-reviews-sdk/reviews"
)

// skipConfigAnnotation marks commands that run without a loaded configuration
const skipConfigAnnotation = "skip-config"

var (
	cfgFile   string
	cfg       *config.Config
	logger    = zerolog.Nop()
	client    reviews.API
	formatter = display.NewConsoleFormatter(display.FormatOptions{})
	filters   *filter.Manager
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "reviewsctl",
	Short: "Manage product reviews from the command line",
	Long: `reviewsctl talks to the product reviews API. It lists, creates, updates,
approves and deletes reviews, and can run a local mock of the service for development.`,
	PersistentPreRunE: initializeApp,
	SilenceUsage:      true,
	SilenceErrors:     true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd.SetOut(display.Stdout())
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, formatter.FormatError(err))
		stop()
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(getCmd)
	rootCmd.AddCommand(createCmd)
	rootCmd.AddCommand(updateCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(approveCmd)
	rootCmd.AddCommand(adminCmd)
	rootCmd.AddCommand(testCmd)
	rootCmd.AddCommand(mockServerCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(updateCLICmd)
}

// initializeApp loads the configuration and builds the logger and SDK client
func initializeApp(cmd *cobra.Command, args []string) error {
	if cmd.Annotations[skipConfigAnnotation] == "true" {
		logger = setupLogger(config.LoggingConfig{Level: "info", Format: "console", Color: true})
		return nil
	}

	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger = setupLogger(cfg.Logging)

	formatter = display.NewConsoleFormatter(display.FormatOptions{
		ShowDetails: cfg.Output.ShowDetails,
		Color:       display.ColorEnabled(os.Stdout, cfg.Output.Color),
	})

	filters = filter.NewManager()
	if err := filters.RegisterFilters(cfg.Filter.Presets); err != nil {
		return fmt.Errorf("invalid filter preset: %w", err)
	}

	sdk, err := reviews.NewClient(cfg.ClientConfig(), reviews.WithLogger(logger))
	if err != nil {
		return err
	}
	client = sdk

	logger.Debug().
		Str("base_url", sdk.BaseURL()).
		Dur("timeout", sdk.Timeout()).
		Msg("Reviews client ready")

	return nil
}

// setupLogger configures the zerolog logger
func setupLogger(cfg config.LoggingConfig) zerolog.Logger {
	level := zerolog.InfoLevel
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = zerolog.DebugLevel
	case "warn":
		level = zerolog.WarnLevel
	case "error":
		level = zerolog.ErrorLevel
	}

	zerolog.SetGlobalLevel(level)

	if cfg.Format == "json" {
		return zerolog.New(os.Stderr).With().Timestamp().Logger()
	}

	output := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
		NoColor:    !cfg.Color,
	}

	return zerolog.New(output).With().Timestamp().Logger()
}
