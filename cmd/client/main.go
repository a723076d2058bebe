package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/AI-Powered-Itinerary-Planner/voyage-client/internal/config"
	"github.com/AI-Powered-Itinerary-Planner/voyage-client/internal/infrastructure/container"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize dependency injection container
	app, err := container.NewContainer(context.Background(), cfg)
	if err != nil {
		fmt.Printf("Failed to initialize application: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		if err := app.Close(); err != nil {
			fmt.Printf("Error closing application: %v\n", err)
		}
	}()

	if app.Sessions.LoggedIn() {
		fmt.Printf("Signed in as %s\n", app.Sessions.Current().Name)
	} else {
		fmt.Printf("Not signed in. Open %s to sign in with Google\n", app.Relay.URL())
	}

	// Channel to listen for interrupt signals
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	// Start the sign-in relay in a goroutine
	go func() {
		if err := app.Relay.Start(); err != nil {
			fmt.Printf("Relay error: %v\n", err)
			quit <- syscall.SIGTERM
		}
	}()

	fmt.Println("Press Ctrl+C to stop")

	// Wait for interrupt signal
	<-quit

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.Relay.Shutdown(ctx); err != nil {
		fmt.Printf("Relay shutdown error: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Exited properly")
}
