package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/shved/plantwatch/internal/config"
	"github.com/shved/plantwatch/internal/metrics"
	"github.com/shved/plantwatch/internal/monitor"
	"github.com/shved/plantwatch/internal/report"
	"github.com/shved/plantwatch/internal/server"
	"github.com/shved/plantwatch/internal/telemetry"
	"github.com/shved/plantwatch/internal/viewer"
)

func main() {
	configPath := flag.String("config", "", "directory containing plantwatch.yaml")
	flag.Usage = printHelp
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	args := flag.Args()
	cmd := "monitor"
	if len(args) > 0 {
		cmd = args[0]
		args = args[1:]
	}

	switch cmd {
	case "monitor":
		if err := monitor.Run(cfg); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "history":
		viewer.Run(cfg.DataDir)
	case "serve":
		runServe(cfg)
	case "fault":
		runFault(cfg, args)
	case "report":
		runReport(cfg, args)
	case "help", "-h", "--help":
		printHelp()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", cmd)
		printHelp()
		os.Exit(1)
	}
}

func printHelp() {
	fmt.Println("Usage: plantwatch [-config file] [command]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  monitor   Live equipment dashboard (default)")
	fmt.Println("  history   Browse recorded telemetry by day")
	fmt.Println("  serve     Run the telemetry HTTP/WebSocket server")
	fmt.Println("  fault     Inject a fault scenario into a running server")
	fmt.Println("  report    Render a daily report (pdf or xlsx)")
	fmt.Println("  help      Show this help")
}

// ── serve ────────────────────────────────────────────────────────────

func runServe(cfg *config.Config) {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(log)

	if err := metrics.Register(prometheus.DefaultRegisterer); err != nil {
		log.Error("register metrics", "err", err)
		os.Exit(1)
	}

	sim := telemetry.NewSimulator(cfg.Fleet, time.Now().UnixNano())
	srv := server.New(sim, log, cfg.Server.JWTSecret, cfg.Server.Interval)

	httpServer := &http.Server{
		Addr:              cfg.Server.Listen,
		Handler:           srv.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Run(ctx); err != nil && err != context.Canceled {
			log.Error("poll loop", "err", err)
		}
	}()

	go func() {
		log.Info("listening", "addr", cfg.Server.Listen, "machines", len(cfg.Fleet))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("http server", "err", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown", "err", err)
	}
}

// ── fault ────────────────────────────────────────────────────────────

func runFault(cfg *config.Config, args []string) {
	if len(args) < 2 {
		printFaultHelp()
		return
	}

	machine := args[0]
	fault := args[1]
	if !telemetry.ValidFault(fault) {
		fmt.Fprintf(os.Stderr, "Unknown fault: %s\n\n", fault)
		printFaultHelp()
		os.Exit(1)
	}

	polls := 10
	if len(args) > 2 {
		if n, err := strconv.Atoi(args[2]); err == nil {
			polls = n
		}
	}

	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = "http://localhost" + cfg.Server.Listen
	}

	body, _ := json.Marshal(map[string]interface{}{
		"machine": machine,
		"fault":   fault,
		"polls":   polls,
	})
	req, err := http.NewRequest(http.MethodPost, endpoint+"/api/faults", bytes.NewReader(body))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	req.Header.Set("Content-Type", "application/json")
	if cfg.Token != "" {
		req.Header.Set("Authorization", "Bearer "+cfg.Token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var apiErr struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&apiErr)
		fmt.Fprintf(os.Stderr, "Server rejected fault: %s\n", apiErr.Error)
		os.Exit(1)
	}
	fmt.Printf("Injected %s on %s for %d polls\n", fault, machine, polls)
}

func printFaultHelp() {
	fmt.Println("Usage: plantwatch fault <machine> <scenario> [polls]")
	fmt.Println()
	fmt.Println("Scenarios:")
	for _, f := range telemetry.Faults {
		fmt.Printf("  %-14s  %s\n", f.Name, f.Desc)
	}
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  plantwatch fault press-01 overpressure")
	fmt.Println("  plantwatch fault turbine-01 overheat 20")
}

// ── report ───────────────────────────────────────────────────────────

func runReport(cfg *config.Config, args []string) {
	if len(args) < 1 {
		fmt.Println("Usage: plantwatch report <day> [pdf|xlsx] [output file]")
		fmt.Println()
		fmt.Println("Examples:")
		fmt.Println("  plantwatch report 2026-08-21")
		fmt.Println("  plantwatch report 2026-08-21 xlsx fleet.xlsx")
		return
	}

	day := args[0]
	format := "pdf"
	if len(args) > 1 {
		format = args[1]
	}

	rep, err := report.BuildDay(cfg.DataDir, day)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	var out []byte
	switch format {
	case "pdf":
		out, err = report.BuildPDF(rep)
	case "xlsx":
		out, err = report.BuildXLSX(rep)
	default:
		fmt.Fprintf(os.Stderr, "Unknown format: %s (want pdf or xlsx)\n", format)
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	path := fmt.Sprintf("plantwatch-%s.%s", day, format)
	if len(args) > 2 {
		path = args[2]
	}
	if err := os.WriteFile(filepath.Clean(path), out, 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Wrote %s (%d readings, %d alerts)\n", path, rep.Readings, rep.Alerts.Total())
}
