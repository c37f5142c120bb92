// Package main implements the chess-versus-LLM server: a single
// shared game exposed over a RESTful API, with an optional embedded
// web UI and an optional SQLite audit log.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"chessllm/internal/http"
	"chessllm/internal/llm"
	"chessllm/internal/negotiate"
	"chessllm/internal/service"
	"chessllm/internal/storage"
	"chessllm/internal/webserver"
)

const gracefulShutdownTimeout = time.Second * 5

func main() {
	var (
		apiHost     = flag.String("api-host", "localhost", "API server host")
		apiPort     = flag.Int("api-port", 8080, "API server port")
		dev         = flag.Bool("dev", false, "Development mode (relaxed rate limits)")
		storagePath = flag.String("storage-path", "", "Path to SQLite audit database (disables audit log if empty)")
		model       = flag.String("model", "gemini-2.0-flash-001", "Default model ID for move negotiation")

		serve   = flag.Bool("serve", false, "Enable web UI server")
		webHost = flag.String("web-host", "localhost", "Web UI server host")
		webPort = flag.Int("web-port", 9090, "Web UI server port")
	)
	flag.Parse()

	// 1. Initialize storage (optional)
	var store *storage.Store
	if *storagePath != "" {
		log.Printf("Initializing audit storage at: %s", *storagePath)
		var err error
		store, err = storage.NewStore(*storagePath, *dev)
		if err != nil {
			log.Fatalf("Failed to initialize storage: %v", err)
		}
		if err := store.InitDB(); err != nil {
			log.Fatalf("Failed to initialize schema: %v", err)
		}
		defer func() {
			if err := store.Close(); err != nil {
				log.Printf("Warning: failed to close storage cleanly: %v", err)
			}
		}()
	} else {
		log.Printf("Audit storage disabled (use -storage-path to enable)")
	}

	// 2. Initialize the model client. Failure is not fatal: the
	// negotiation engine degrades to random legal moves.
	var client llm.Client
	genaiClient, err := llm.NewGenAIClient(context.Background())
	if err != nil {
		log.Printf("Warning: model client unavailable: %v", err)
		log.Printf("Engine moves will fall back to random legal moves")
	} else {
		client = genaiClient
		log.Printf("Model client initialized (default model: %s)", *model)
	}

	// 3. Wire negotiation engine and service
	engine := negotiate.NewEngine(client, negotiate.NewSelector(nil))
	svc := service.New(engine, store, *model)

	// 4. Initialize the Fiber app
	app := http.NewFiberApp(svc, *dev)

	apiAddr := fmt.Sprintf("%s:%d", *apiHost, *apiPort)

	go func() {
		log.Printf("Chess LLM Server starting...")
		log.Printf("API Listening on: http://%s", apiAddr)
		log.Printf("API Version: v1")
		if *dev {
			log.Printf("Rate Limit: 20 requests/second per IP (DEV MODE)")
		} else {
			log.Printf("Rate Limit: 10 requests/second per IP")
		}
		if *storagePath != "" {
			log.Printf("Storage: Enabled (%s)", *storagePath)
		} else {
			log.Printf("Storage: Disabled")
		}
		log.Printf("Endpoints: http://%s/api/v1/[state|reset|move]", apiAddr)
		log.Printf("Health: http://%s/health", apiAddr)

		if err := app.Listen(apiAddr); err != nil {
			log.Printf("API server listen error: %v", err)
		}
	}()

	// 5. Start web UI server (optional)
	if *serve {
		webAddr := fmt.Sprintf("%s:%d", *webHost, *webPort)
		apiURL := fmt.Sprintf("http://%s", apiAddr)

		go func() {
			log.Printf("Web UI Server starting...")
			log.Printf("Web UI Listening on: http://%s", webAddr)
			log.Printf("Web UI API target: %s", apiURL)

			if err := webserver.Start(*webHost, *webPort, apiURL); err != nil {
				log.Printf("Web UI server error: %v", err)
			}
		}()
	}

	// Wait for an interrupt signal to gracefully shut down
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), gracefulShutdownTimeout)
	defer shutdownCancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}
