package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/matija2209/alexa-maxa-reviews-sdk/internal/fakeapi"
)

var (
	mockAddr   string
	mockAPIKey string
	mockSeed   int
)

var mockServerCmd = &cobra.Command{
	Use:         "mock-server",
	Short:       "Run an in-memory reviews API for local development",
	Args:        cobra.NoArgs,
	Annotations: map[string]string{skipConfigAnnotation: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		srv := fakeapi.New(mockAPIKey, fakeapi.WithLogger(logger))
		srv.Seed(fakeapi.SampleReviews(time.Now().Add(-time.Duration(mockSeed)*time.Hour), mockSeed)...)

		return serve(cmd.Context(), &http.Server{
			Addr:              mockAddr,
			Handler:           srv.Handler(),
			ReadHeaderTimeout: 10 * time.Second,
		})
	},
}

func init() {
	mockServerCmd.Flags().StringVar(&mockAddr, "addr", ":8080", "listen address")
	mockServerCmd.Flags().StringVar(&mockAPIKey, "api-key", "dev-key", "bearer token accepted by the server")
	mockServerCmd.Flags().IntVar(&mockSeed, "seed", 20, "number of sample reviews to load")
}

// serve runs httpServer until ctx is cancelled, then shuts it down gracefully
func serve(ctx context.Context, httpServer *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", httpServer.Addr).Msg("Mock reviews API listening")
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("mock server failed: %w", err)
	case <-ctx.Done():
	}

	logger.Info().Msg("Shutting down mock server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return httpServer.Shutdown(shutdownCtx)
}
