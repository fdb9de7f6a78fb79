package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/masonrylabs/masonry"
	"github.com/masonrylabs/masonry/internal/logging"
	httpAdapter "github.com/masonrylabs/masonry/pkg/adapters/http"
	redisAdapter "github.com/masonrylabs/masonry/pkg/adapters/redis"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long:  `Starts the Masonry engine in server mode, exposing assembled pages and the wizard session API over HTTP.`,
	Run: func(cmd *cobra.Command, args []string) {
		dir, _ := cmd.Flags().GetString("dir")
		port, _ := cmd.Flags().GetString("port")
		redisAddr, _ := cmd.Flags().GetString("redis")
		collectURL, _ := cmd.Flags().GetString("collect-url")
		jsonLogs, _ := cmd.Flags().GetBool("json-logs")

		var logger *slog.Logger
		if jsonLogs {
			logger = logging.NewJSON(slog.LevelInfo)
		} else {
			logger = logging.New(slog.LevelInfo)
		}

		reg := prometheus.NewRegistry()
		opts := []masonry.Option{
			masonry.WithLogger(logger),
			masonry.WithMetricsRegistry(reg),
		}
		if collectURL != "" {
			opts = append(opts, masonry.WithCollectURL(collectURL))
		}
		if redisAddr != "" {
			opts = append(opts, masonry.WithStore(redisAdapter.New(redisAddr, "", 0)))
		}

		engine, err := masonry.New(dir, opts...)
		if err != nil {
			fmt.Printf("Error initializing masonry: %v\n", err)
			os.Exit(1)
		}

		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
		mux.Handle("/", httpAdapter.NewHandler(engine, httpAdapter.WithLogger(logger)))

		srv := &http.Server{
			Addr:    ":" + port,
			Handler: mux,
		}

		// Channel to listen for errors coming from the listener.
		serverErrors := make(chan error, 1)

		go func() {
			fmt.Printf("Starting Masonry Server on %s\n", srv.Addr)
			fmt.Printf("Serving site from: %s\n", dir)
			serverErrors <- srv.ListenAndServe()
		}()

		// Channel to listen for interrupt or terminate signals.
		shutdown := make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

		// Blocking main and waiting for shutdown.
		select {
		case err := <-serverErrors:
			fmt.Printf("Server error: %v\n", err)
			os.Exit(1)

		case sig := <-shutdown:
			fmt.Printf("\nStart shutdown... Signal: %v\n", sig)

			// Give outstanding requests a deadline for completion.
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if err := srv.Shutdown(ctx); err != nil {
				fmt.Printf("Graceful shutdown did not complete in %v: %v\n", 5*time.Second, err)
				if err := srv.Close(); err != nil {
					fmt.Printf("Error killing server: %v\n", err)
				}
			}
			fmt.Println("Masonry Server stopped gracefully")
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("port", "p", "8080", "Port to listen on")
	serveCmd.Flags().String("redis", "", "Redis address for session storage (default: in-memory)")
	serveCmd.Flags().String("collect-url", "", "Override the site's lead-capture endpoint")
	serveCmd.Flags().Bool("json-logs", false, "Emit structured JSON logs")
}
