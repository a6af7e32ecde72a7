package main

import (
	"context"
	"log"

	"commerce-assistant-be/internal/bootstrap"
	"commerce-assistant-be/internal/config"
	"commerce-assistant-be/internal/server"
	"commerce-assistant-be/internal/tracer"
)

func main() {
	// 0. Initialize Tracer (no-op unless OTEL_ENABLED=true)
	shutdownTracer := tracer.InitTracer()
	defer shutdownTracer(context.Background())

	// 1. Load Configuration
	cfg := config.Load()

	// 2. Bootstrap Dependencies (Container)
	container := bootstrap.NewContainer(cfg)

	// 3. Gateway lifecycle: install static assets, then activate so stale
	// partition generations are dropped before traffic flows.
	ctx := context.Background()
	container.Gateway.Install(ctx)
	if err := container.Gateway.Activate(ctx); err != nil {
		log.Printf("Gateway activation warning: %v", err)
	}

	// 4. Start Background Services
	go func() {
		log.Println("Background: Starting Consumer Service...")
		if err := container.ConsumerService.Consume(ctx); err != nil {
			log.Printf("Background Consumer Error: %v", err)
		}
	}()
	go container.CacheCommands.Run(ctx)

	if cfg.Cache.PrewarmOnBoot {
		if err := container.CacheCommands.PreCache(ctx); err != nil {
			log.Printf("Boot prewarm warning: %v", err)
		}
	}

	// 5. Initialize Server
	srv := server.New(cfg, container)

	// 6. Run Server
	log.Fatal(srv.Run())
}
