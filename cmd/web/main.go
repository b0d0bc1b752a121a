package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/alarke567/alarkey567/internal/catalog"
	"github.com/alarke567/alarkey567/internal/config"
	"github.com/alarke567/alarkey567/internal/observability"
)

var (
	cfgFile string
	envFile string
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "medweb",
		Short: "Bilingual medical mobility catalog site",
		Long: `medweb serves the English/Arabic catalog site: hero slider, product catalog
with search and filters, services, FAQ and the contact form.`,
		SilenceUsage: true,
		RunE:         runServe,
	}
	root.PersistentFlags().StringVar(&cfgFile, "config", "config.yaml", "config file path")
	root.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file loaded before the environment")

	root.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE:  runServe,
	})
	root.AddCommand(&cobra.Command{
		Use:   "check-data [source]",
		Short: "Load and validate a data document",
		Long:  `Loads the data document (file path or http(s) URL, defaults to data.source) and reports every invalid entry.`,
		Args:  cobra.MaximumNArgs(1),
		RunE:  runCheckData,
	})
	return root
}

func loadConfig() (config.Config, error) {
	cfg, err := config.Load(config.WithConfigFile(cfgFile), config.WithEnvFile(envFile))
	if err != nil {
		return config.Config{}, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger, err := observability.NewLogger(cfg.Log.Level)
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = observability.WithLogger(ctx, logger)

	srv, err := newServer(ctx, cfg, logger)
	if err != nil {
		return err
	}
	return srv.run(ctx)
}

func runCheckData(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	source := cfg.Data.Source
	if len(args) == 1 {
		source = args[0]
	}
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	cat, err := catalog.NewLoader(cfg.Data.FetchTimeout).Load(ctx, source)
	if err != nil {
		var verr *catalog.ValidationError
		if errors.As(err, &verr) {
			for _, p := range verr.Problems {
				fmt.Fprintln(cmd.ErrOrStderr(), "  -", p)
			}
			return fmt.Errorf("%s: %d problem(s)", source, len(verr.Problems))
		}
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s: ok (%d products, %d slides, %d services, %d faq, %d partners)\n",
		source, len(cat.Products()), len(cat.Slides()), len(cat.Services()), len(cat.FAQ()), len(cat.Partners()))
	return nil
}

// logStartup reports the effective configuration without secrets.
func logStartup(logger *zap.Logger, cfg config.Config) {
	logger.Info("web listening",
		zap.String("addr", cfg.Server.Addr),
		zap.String("environment", cfg.Site.Environment),
		zap.Bool("dev_mode", cfg.Site.DevMode),
		zap.String("data_source", cfg.Data.Source),
		zap.Bool("contact_relay", cfg.Contact.RelayURL != ""),
	)
}
