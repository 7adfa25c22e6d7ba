package main

import (
	"flag"
	"log/slog"
	"os"

	"github.com/df07/go-frustum-survey/pkg/config"
	"github.com/df07/go-frustum-survey/web/server"
)

func main() {
	// Parse command line flags
	port := flag.Int("port", 8080, "Port to serve on")
	configPath := flag.String("config", config.DefaultPath, "Settings file")
	verbose := flag.Bool("verbose", false, "Log survey output on the server")
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	settings, err := config.Load(*configPath)
	if err != nil {
		slog.Error("loading settings", "err", err)
		os.Exit(1)
	}

	// Create and start web server
	webServer := server.NewServer(*port, settings)

	slog.Info("Frustum Survey Web Server", "port", *port)

	if err := webServer.Start(); err != nil {
		slog.Error("starting server", "err", err)
		os.Exit(1)
	}
}
