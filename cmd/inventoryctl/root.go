package main

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/saep/inventory-console/internal/apiclient"
	"github.com/saep/inventory-console/internal/store"
)

const defaultAPIURL = "http://localhost:8080/v1/saep"

// options are the global flag values.
type options struct {
	apiURL  string
	timeout time.Duration
	verbose bool
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:           "inventoryctl",
		Short:         "Inspect the inventory API behind the console",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.apiURL, "api", envOr("INVENTORY_API_URL", defaultAPIURL), "inventory API base URL")
	root.PersistentFlags().DurationVar(&opts.timeout, "timeout", 10*time.Second, "timeout for each collection request")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "log each API call to stderr")

	root.AddCommand(newSnapshotCmd(opts))
	root.AddCommand(newAlertsCmd(opts))
	root.AddCommand(newVersionCmd())
	return root
}

// load performs one reload against the configured API.
func (o *options) load(ctx context.Context, stderr io.Writer) store.Snapshot {
	level := slog.LevelWarn
	if o.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	// Reload detaches from ctx cancellation; the client enforces --timeout.
	api := apiclient.NewClient(o.apiURL, &http.Client{Timeout: o.timeout}, nil)
	return store.New(api, logger, nil).Reload(ctx)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
