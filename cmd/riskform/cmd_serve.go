package main

import (
	"net/http"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/goliatone/go-riskform"
	"github.com/goliatone/go-riskform/internal/httpapi"
)

var (
	serveAddr string
	serveStub bool
)

// serveCmd runs the page and JSON API
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the risk form over HTTP",
	Long: `Serves the form page at / and the JSON API under /api. With --stub the
built-in demo predictor answers POST /api/risk on the same listener.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides http.addr)")
	serveCmd.Flags().BoolVar(&serveStub, "stub", false, "mount the demo predictor at /api/risk")
}

func runServe(cmd *cobra.Command, _ []string) error {
	if serveAddr != "" {
		cfg.HTTP.Addr = serveAddr
	}
	if serveStub {
		cfg.Stub.Enabled = true
	}

	app, err := riskform.New(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}
	server, err := app.Server()
	if err != nil {
		return err
	}

	logger.Info("starting riskform",
		zap.String("addr", cfg.HTTP.Addr),
		zap.String("predict_endpoint", cfg.Predict.Endpoint),
		zap.Bool("stub", cfg.Stub.Enabled),
	)

	g, ctx := errgroup.WithContext(cmd.Context())
	g.Go(func() error {
		return server.ListenAndServe(ctx)
	})
	g.Go(func() error {
		<-ctx.Done()
		logger.Info("shutdown requested")
		return nil
	})
	return g.Wait()
}

var stubAddr string

// stubCmd runs only the demo predictor
var stubCmd = &cobra.Command{
	Use:   "stub",
	Short: "Run the demo prediction service",
	Long: `Answers POST /api/risk with {"prediction": 1} when more than stub.threshold
values sit in the upper half of their range, and {"prediction": 0} otherwise.
For local development only.`,
	RunE: runStub,
}

func init() {
	stubCmd.Flags().StringVar(&stubAddr, "addr", ":5000", "listen address")
}

func runStub(cmd *cobra.Command, _ []string) error {
	srv := &http.Server{
		Addr:              stubAddr,
		Handler:           httpapi.NewStubRouter(cfg.Stub.Threshold, logger.Named("stub")),
		ReadHeaderTimeout: cfg.HTTP.ReadHeaderTimeout,
	}
	return httpapi.Serve(cmd.Context(), srv, cfg.HTTP.ShutdownTimeout, logger)
}
