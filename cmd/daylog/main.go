//go:build !windows

// daylog copies lines from stdin into a daylog logger: the console and/or a directory of
// dated, rotating files.
//
// Usage:
//
//	some-server 2>&1 | daylog --file --dir /var/log/app --max-age 168h
//
// Each input line becomes one record at --line-level. SIGHUP closes and reopens the log
// file, SIGINT and SIGTERM close it and exit.
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/urfave/cli/v3"

	"github.com/lixenwraith/daylog"
	"github.com/lixenwraith/daylog/metrics"
)

// Version can be set with -ldflags "-X main.Version=..."
var Version = "0.1.0-dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := createApp().Run(ctx, os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "daylog: %v\n", err)
		os.Exit(1)
	}
}

func createApp() *cli.Command {
	return &cli.Command{
		Name:    "daylog",
		Usage:   "write stdin lines to the console and dated, rotating log files",
		Version: Version,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "TOML config file, keys under [log]"},
			&cli.BoolFlag{Name: "watch", Usage: "reload --config when it changes"},
			&cli.StringFlag{Name: "dir", Aliases: []string{"d"}, Usage: "log directory"},
			&cli.BoolFlag{Name: "file", Usage: "write to dated log files"},
			&cli.BoolFlag{Name: "console", Usage: "mirror records to stdout", Value: true},
			&cli.StringFlag{Name: "name", Usage: "logger name added to every record"},
			&cli.StringFlag{Name: "format", Aliases: []string{"f"}, Usage: "standard, standard-full-date or raw"},
			&cli.StringFlag{Name: "level", Usage: "minimum level written"},
			&cli.StringFlag{Name: "line-level", Usage: "level of each input line", Value: "info"},
			&cli.DurationFlag{Name: "rotate", Usage: "aligned rotation interval"},
			&cli.StringFlag{Name: "cron", Usage: "cron expression replacing the rotation interval"},
			&cli.DurationFlag{Name: "max-age", Usage: "delete rotated files older than this"},
			&cli.BoolFlag{Name: "local-time", Usage: "use local time instead of UTC"},
			&cli.StringFlag{Name: "metrics-addr", Usage: "serve Prometheus metrics on this address"},
			&cli.BoolFlag{Name: "stats", Usage: "log logger stats before exiting"},
		},
		Action: runPipe,
	}
}

// loadConfig builds the logger config from --config and the flags set on the command line
func loadConfig(cmd *cli.Command) (*daylog.Config, error) {
	cfg := daylog.DefaultConfig()
	if path := cmd.String("config"); path != "" {
		loaded, err := daylog.NewConfigFromFile(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if cmd.IsSet("dir") {
		cfg.Directory = cmd.String("dir")
	}
	if cmd.IsSet("file") {
		cfg.EnableFile = cmd.Bool("file")
	}
	if cmd.IsSet("console") {
		cfg.EnableConsole = cmd.Bool("console")
	}
	if cmd.IsSet("name") {
		cfg.Name = cmd.String("name")
	}
	if cmd.IsSet("format") {
		cfg.Format = cmd.String("format")
	}
	if cmd.IsSet("level") {
		level, err := daylog.Level(cmd.String("level"))
		if err != nil {
			return nil, err
		}
		cfg.Level = level
	}
	if cmd.IsSet("rotate") {
		cfg.RotationIntervalMs = cmd.Duration("rotate").Milliseconds()
	}
	if cmd.IsSet("cron") {
		cfg.RotationCron = cmd.String("cron")
	}
	if cmd.IsSet("max-age") {
		cfg.MaxFileAgeMs = cmd.Duration("max-age").Milliseconds()
	}
	if cmd.IsSet("local-time") {
		cfg.UseZuluTime = !cmd.Bool("local-time")
	}

	return cfg, cfg.Validate()
}

func runPipe(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	lineLevel, err := daylog.Level(cmd.String("line-level"))
	if err != nil {
		return err
	}

	logger := daylog.NewLogger()
	if err := logger.ApplyConfig(cfg); err != nil {
		return err
	}
	if err := logger.Open(); err != nil {
		return err
	}
	defer func() {
		if cmd.Bool("stats") {
			logger.LogStats(daylog.LevelInfo)
		}
		if err := logger.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "daylog: close: %v\n", err)
		}
	}()

	if path := cmd.String("config"); path != "" && cmd.Bool("watch") {
		w, err := logger.WatchConfig(path)
		if err != nil {
			return err
		}
		defer w.Stop()
	}

	if addr := cmd.String("metrics-addr"); addr != "" {
		srv := serveMetrics(logger, addr)
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)

	lines := scanLines(os.Stdin)
	for {
		select {
		case <-ctx.Done():
			return nil

		case <-hup:
			reopen(logger)

		case line, ok := <-lines:
			if !ok {
				return nil
			}
			logger.Log(lineLevel, line, nil)
		}
	}
}

// reopen closes and opens the logger, so an external tool that moved the file gets a
// fresh one. Open is retried while a transition is still in progress.
func reopen(logger *daylog.Logger) {
	if err := logger.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "daylog: close: %v\n", err)
	}
	for attempt := 0; attempt < 5; attempt++ {
		err := logger.Open()
		if err == nil {
			return
		}
		if !daylog.IsKind(err, daylog.KindState) {
			fmt.Fprintf(os.Stderr, "daylog: reopen: %v\n", err)
			return
		}
		time.Sleep(100 * time.Millisecond)
	}
}

// scanLines reads r line by line on a goroutine; the channel closes at EOF
func scanLines(r *os.File) <-chan string {
	out := make(chan string, 64)
	go func() {
		defer close(out)
		scanner := bufio.NewScanner(r)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		for scanner.Scan() {
			out <- scanner.Text()
		}
		if err := scanner.Err(); err != nil {
			fmt.Fprintf(os.Stderr, "daylog: reading stdin: %v\n", err)
		}
	}()
	return out
}

func serveMetrics(logger *daylog.Logger, addr string) *http.Server {
	reg := prometheus.NewRegistry()
	reg.MustRegister(metrics.NewCollector(logger, nil))

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			fmt.Fprintf(os.Stderr, "daylog: metrics server: %v\n", err)
		}
	}()
	return srv
}
