package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/exec"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/satindergrewal/po33hub/internal/audio"
	"github.com/satindergrewal/po33hub/internal/config"
	"github.com/satindergrewal/po33hub/internal/logging"
	"github.com/satindergrewal/po33hub/internal/sample"
	"github.com/satindergrewal/po33hub/internal/upload"
	"github.com/satindergrewal/po33hub/internal/web"
)

func main() {
	cmd := newRootCommand()
	if err := cmd.Execute(); err != nil {
		if !errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

const shutdownTimeout = 10 * time.Second

// app holds the pieces shared by every subcommand once config is loaded.
type app struct {
	configPath string
	cfg        config.Config
	logger     *slog.Logger
	validator  *sample.Validator
}

func newRootCommand() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:           "po33hub",
		Short:         "PO-33 sample pack upload server",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.serve(cmd.Context())
		},
	}
	rootCmd.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "Configuration file path (TOML)")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.serve(cmd.Context())
		},
	})
	rootCmd.AddCommand(newCheckCommand(a))

	return rootCmd
}

func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	logger, err := logging.New(logging.Options{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
		Output: cmd.ErrOrStderr(),
	})
	if err != nil {
		return err
	}

	ffprobe := cfg.FFprobe
	if ffprobe != "" {
		resolved, err := exec.LookPath(ffprobe)
		if err != nil {
			logger.Warn("ffprobe not found, only wav/flac/mp3/opus are recognized", "ffprobe", ffprobe)
			ffprobe = ""
		} else {
			ffprobe = resolved
		}
	}

	a.cfg = cfg
	a.logger = logger
	a.validator = sample.NewValidator(audio.NewDecoder(ffprobe, cfg.FFprobeTimeoutDuration(), logger))
	return nil
}

func (a *app) routes() *http.ServeMux {
	mux := http.NewServeMux()

	index := web.IndexHandler{}
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		index.ServeHTTP(w, r)
	})
	mux.Handle("/api/samples", upload.NewHandler(a.validator, a.cfg.MaxUploadBytes(), a.logger))
	return mux
}

func (a *app) serve(parent context.Context) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	server := &http.Server{
		Addr:              a.cfg.Addr(),
		Handler:           a.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	ln, err := net.Listen("tcp", server.Addr)
	if err != nil {
		return fmt.Errorf("http listen: %w", err)
	}

	a.logger.Info("po33hub listening", "addr", ln.Addr().String(), "max_upload_bytes", a.cfg.MaxUploadBytes())
	return serveUntilDone(ctx, server, ln, a.logger)
}

// serveUntilDone serves on ln until ctx is cancelled, then returns only after
// in-flight requests have drained or shutdownTimeout has passed.
func serveUntilDone(ctx context.Context, server *http.Server, ln net.Listener, logger *slog.Logger) error {
	shutdownErr := make(chan error, 1)
	go func() {
		<-ctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		shutdownErr <- server.Shutdown(shutdownCtx)
	}()

	if err := server.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server: %w", err)
	}
	if err := <-shutdownErr; err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	return nil
}
