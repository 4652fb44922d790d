// Command ratewire starts the exchange-rate MCP server.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/ratewire/ratewire/exchange"
	"github.com/ratewire/ratewire/internal/config"
	"github.com/ratewire/ratewire/mcp"
)

var rootCmd = &cobra.Command{
	Use:   "ratewire",
	Short: "An MCP server for currency exchange rates",
	Long: `ratewire exposes the latest currency exchange rates as an MCP tool
over a JSON-RPC 2.0 interface. It serves HTTP POST requests on /tools by
default, or newline-delimited JSON-RPC on stdin/stdout with --stdio.

Configuration comes from an optional YAML file and the environment
(PORT, EXCHANGE_API_KEY, MCP_TOKEN); flags override both.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
		if !verbose {
			logger = slog.New(slog.NewTextHandler(io.Discard, nil))
		}

		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("port") {
			cfg.Port = port
		}
		if cmd.Flags().Changed("timeout") {
			cfg.Timeout = timeout
		}
		if cmd.Flags().Changed("retries") {
			cfg.Retries = retries
		}

		retryClient := retryablehttp.NewClient()
		retryClient.RetryMax = cfg.Retries
		retryClient.RetryWaitMin = 1 * time.Second
		retryClient.RetryWaitMax = 30 * time.Second
		retryClient.HTTPClient.Timeout = cfg.Timeout
		retryClient.Logger = logger
		client := retryClient.StandardClient()

		if cfg.APIKey == "" {
			logger.Info("EXCHANGE_API_KEY not set, using free provider endpoint")
		}
		rates := exchange.New(exchange.BaseURLFor(cfg.APIKey), cfg.APIKey, client)

		server, err := mcp.NewServer(
			mcp.WithRateService(rates),
			mcp.WithLogger(logger),
		)
		if err != nil {
			return fmt.Errorf("error creating server: %w", err)
		}

		g, ctx := errgroup.WithContext(ctx)

		if stdio {
			g.Go(func() error {
				transport := mcp.NewStdioTransport(server, os.Stdin, os.Stdout, os.Stderr)
				return transport.Run(ctx)
			})
			return g.Wait()
		}

		transport := mcp.NewHTTPTransport(server,
			mcp.WithHTTPLogger(logger),
			mcp.WithToken(cfg.Token),
			mcp.WithVersion(version),
		)
		if cfg.Token == "" {
			logger.Warn("MCP_TOKEN not set, RPC endpoint is open")
		}

		httpServer := &http.Server{
			Addr:    fmt.Sprintf(":%d", cfg.Port),
			Handler: transport.Router(),
		}

		g.Go(func() error {
			logger.Info("starting exchange rate MCP server", "port", cfg.Port)
			if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
		g.Go(func() error {
			<-ctx.Done()
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer shutdownCancel()
			return httpServer.Shutdown(shutdownCtx)
		})

		return g.Wait()
	},
}

var (
	configPath string
	port       int
	timeout    time.Duration
	retries    int
	stdio      bool
	verbose    bool

	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func init() {
	rootCmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to a YAML configuration file")
	rootCmd.Flags().IntVarP(&port, "port", "p", 3000, "TCP port for the HTTP transport")
	rootCmd.Flags().DurationVar(&timeout, "timeout", 10*time.Second, "Upstream request timeout")
	rootCmd.Flags().IntVar(&retries, "retries", 0, "Maximum number of retries for failed upstream requests")
	rootCmd.Flags().BoolVar(&stdio, "stdio", false, "Serve JSON-RPC on stdin/stdout instead of HTTP")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging to stderr")

	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built at: %s)", version, commit, date)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
