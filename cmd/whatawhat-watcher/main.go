package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/Anoromi/whatawhat-lib/internal/config"
	"github.com/Anoromi/whatawhat-lib/internal/daemon"
	"github.com/Anoromi/whatawhat-lib/internal/notifier"
	"github.com/Anoromi/whatawhat-lib/internal/registry"
	"github.com/Anoromi/whatawhat-lib/internal/sink"
	"github.com/Anoromi/whatawhat-lib/pkg/detector"
	"github.com/Anoromi/whatawhat-lib/pkg/window"
)

var (
	version = "0.1.0"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch command := os.Args[1]; command {
	case "start":
		startDaemon()
	case "stop":
		stopDaemon()
	case "status":
		showStatus()
	case "version":
		fmt.Printf("whatawhat-watcher version %s\n", version)
		fmt.Printf("  commit: %s\n", commit)
		fmt.Printf("  built:  %s\n", date)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Printf(`whatawhat-watcher - Active window change watcher

Usage:
  whatawhat-watcher <command>

Commands:
  start              Start the watcher daemon
  stop               Stop the watcher daemon
  status             Show daemon status
  version            Show version information
  help               Show this help message

Examples:
  whatawhat-watcher start
  whatawhat-watcher status
  whatawhat-watcher stop

Environment Variables:
  WHATAWHAT_POLL_INTERVAL_MS   Poll interval for polling backends (250-60000)
  WHATAWHAT_PID_FILE           PID file path

Version: %s
`, version)
}

func startDaemon() {
	cfg := config.New()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	dm := daemon.New(cfg.Daemon.PIDFile)
	running, pid, err := dm.IsRunning()
	if err != nil {
		log.Fatalf("Failed to check daemon status: %v", err)
	}
	if running {
		log.Fatalf("Watcher is already running (PID: %d)", pid)
	}

	if os.Getenv("WHATAWHAT_DAEMON_CHILD") != "1" {
		daemonize()
		return
	}

	runDaemon(cfg, dm)
}

func runDaemon(cfg *config.Config, dm *daemon.Daemon) {
	logFile, err := os.OpenFile("/tmp/whatawhat-watcher.log", os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err == nil {
		log.SetOutput(logFile)
		defer logFile.Close()
	}

	watcher, err := detector.New(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize window watcher: %v", err)
	}
	defer watcher.Close()

	snk, err := sink.NewDBus()
	if err != nil {
		log.Fatalf("Failed to connect notification sink: %v", err)
	}
	defer snk.Close()

	if err := dm.WritePID(); err != nil {
		log.Fatalf("Failed to write PID file: %v", err)
	}
	defer dm.RemovePID()

	core := notifier.New(registry.New(), snk)
	if hooker, ok := watcher.(window.CaptionHooker); ok {
		core.SetCaptionHooker(hooker)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		log.Println("Received shutdown signal")
		cancel()
	}()

	log.Printf("Starting whatawhat watcher with %s backend...", watcher.Name())
	log.Printf("Configuration:\n%s", cfg.String())

	if err := watcher.Run(ctx, core.HandleSignal); err != nil && err != context.Canceled {
		log.Fatalf("Watcher error: %v", err)
	}

	log.Println("Watcher stopped successfully")
}

func stopDaemon() {
	cfg := config.New()
	dm := daemon.New(cfg.Daemon.PIDFile)

	running, pid, err := dm.IsRunning()
	if err != nil {
		log.Fatalf("Failed to check daemon status: %v", err)
	}

	if !running {
		fmt.Println("Watcher is not running")
		return
	}

	fmt.Printf("Stopping watcher (PID: %d)...\n", pid)
	if err := dm.Stop(); err != nil {
		log.Fatalf("Failed to stop watcher: %v", err)
	}

	fmt.Println("Watcher stopped successfully")
}

func showStatus() {
	cfg := config.New()
	dm := daemon.New(cfg.Daemon.PIDFile)

	running, pid, err := dm.IsRunning()
	if err != nil {
		log.Fatalf("Failed to check daemon status: %v", err)
	}

	if !running {
		fmt.Println("Status: Not running")
	} else {
		fmt.Printf("Status: Running (PID: %d)\n", pid)
		fmt.Printf("Poll Interval: %v\n", cfg.Watcher.PollInterval)
	}

	fmt.Printf("Display Server: %s\n", detector.DetectDisplayServer())
}

func daemonize() {
	env := os.Environ()
	env = append(env, "WHATAWHAT_DAEMON_CHILD=1")

	procAttr := &os.ProcAttr{
		Env:   env,
		Files: []*os.File{nil, nil, nil},
		Sys: &syscall.SysProcAttr{
			Setsid: true,
		},
	}

	process, err := os.StartProcess(os.Args[0], os.Args, procAttr)
	if err != nil {
		log.Fatalf("Failed to start daemon process: %v", err)
	}

	fmt.Printf("Watcher started successfully (PID: %d)\n", process.Pid)
	fmt.Println("Logs: /tmp/whatawhat-watcher.log")
}
