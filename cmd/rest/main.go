package main

import (
	"context"
	"log"

	"unit-chat-be/internal/bootstrap"
	"unit-chat-be/internal/config"
	"unit-chat-be/internal/server"
)

func main() {
	// 1. Load Configuration
	cfg := config.Load()

	// 2. Bootstrap Dependencies (Container)
	container := bootstrap.NewContainer(cfg)

	// 3. Start Background Services
	go func() {
		log.Println("Background: Starting Transcript Consumer...")
		if err := container.ConsumerService.Consume(context.Background()); err != nil {
			log.Printf("Background Consumer Error: %v", err)
		}
	}()

	// 4. Make sure there is a current session on first boot
	if _, err := container.ChatService.ActiveSession(context.Background()); err != nil {
		log.Printf("[WARN] Failed to select active session: %v", err)
	}

	// 5. Initialize Server
	srv := server.New(cfg, container)

	// 6. Run Server
	log.Fatal(srv.Run())
}
