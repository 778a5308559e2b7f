// docgen-server exposes the document-generation pipeline over HTTP.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jessevdk/go-flags"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-docgen/internal/api"
	"github.com/goliatone/go-docgen/pkg/convert"
	"github.com/goliatone/go-docgen/pkg/convert/chromium"
	"github.com/goliatone/go-docgen/pkg/convert/wkhtml"
	"github.com/goliatone/go-docgen/pkg/orchestrator"
)

// cliOptions describes docgen-server flags. Flags win over the config file.
type cliOptions struct {
	Addr       string `short:"a" long:"addr" description:"Listen address" default:":8000"`
	Templates  string `short:"t" long:"templates" description:"Template root directory" default:"templates"`
	DefaultCSS string `short:"c" long:"default-css" description:"Path to the system default stylesheet (embedded default when omitted)"`
	Engine     string `short:"e" long:"engine" description:"Conversion engine" choice:"wkhtmltopdf" choice:"chromium" default:"wkhtmltopdf"`
	ConfigPath string `short:"f" long:"config" description:"Optional YAML config file"`
	Timeout    int    `long:"timeout" description:"Per-request timeout in seconds" default:"60"`
	Verbose    bool   `short:"v" long:"verbose" description:"Enable debug logging"`
}

// fileConfig mirrors cliOptions for YAML config files.
type fileConfig struct {
	Addr       string `yaml:"addr"`
	Templates  string `yaml:"templates"`
	DefaultCSS string `yaml:"default_css"`
	Engine     string `yaml:"engine"`
	Timeout    int    `yaml:"timeout"`
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	opts := &cliOptions{}
	parser := flags.NewParser(opts, flags.HelpFlag|flags.PassDoubleDash)
	parser.Name = "docgen-server"
	if _, err := parser.ParseArgs(args); err != nil {
		var flagErr *flags.Error
		if errors.As(err, &flagErr) && flagErr.Type == flags.ErrHelp {
			fmt.Fprintln(os.Stdout, err.Error())
			return 0
		}
		fmt.Fprintln(os.Stderr, err.Error())
		return 2
	}

	if err := applyConfigFile(opts); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		return 1
	}

	logger := newLogger(opts.Verbose)
	if err := serve(opts, logger); err != nil {
		logger.Error("server failed", "error", err)
		return 1
	}
	return 0
}

// applyConfigFile fills unset flag values from the YAML config, when given.
// Flags keep precedence because go-flags already applied their defaults;
// only fields the file sets and the command line left at default move.
func applyConfigFile(opts *cliOptions) error {
	if opts.ConfigPath == "" {
		return nil
	}

	raw, err := os.ReadFile(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("read config %q: %w", opts.ConfigPath, err)
	}

	var cfg fileConfig
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return fmt.Errorf("parse config %q: %w", opts.ConfigPath, err)
	}

	if cfg.Addr != "" && opts.Addr == ":8000" {
		opts.Addr = cfg.Addr
	}
	if cfg.Templates != "" && opts.Templates == "templates" {
		opts.Templates = cfg.Templates
	}
	if cfg.DefaultCSS != "" && opts.DefaultCSS == "" {
		opts.DefaultCSS = cfg.DefaultCSS
	}
	if cfg.Engine != "" && opts.Engine == "wkhtmltopdf" {
		opts.Engine = cfg.Engine
	}
	if cfg.Timeout > 0 && opts.Timeout == 60 {
		opts.Timeout = cfg.Timeout
	}
	return nil
}

func newLogger(verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func serve(opts *cliOptions, logger *slog.Logger) error {
	engines := convert.NewRegistry()
	engines.MustRegister(wkhtml.New())
	engines.MustRegister(chromium.New())

	genOpts := []orchestrator.Option{
		orchestrator.WithTemplateRoot(opts.Templates),
		orchestrator.WithConverters(engines),
		orchestrator.WithDefaultEngine(opts.Engine),
	}
	if opts.DefaultCSS != "" {
		genOpts = append(genOpts, orchestrator.WithDefaultStylesheet(opts.DefaultCSS))
	}

	gen := orchestrator.New(genOpts...)

	server, err := api.New(gen,
		api.WithLogger(logger),
		api.WithRequestTimeout(time.Duration(opts.Timeout)*time.Second),
	)
	if err != nil {
		return fmt.Errorf("configure transport: %w", err)
	}

	httpServer := &http.Server{
		Addr:              opts.Addr,
		Handler:           server.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", opts.Addr, "templates", opts.Templates, "engine", opts.Engine)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return <-errCh
}
