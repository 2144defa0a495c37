package main

import (
	"context"
	"log"

	"ai-specdraft-be/internal/bootstrap"
	"ai-specdraft-be/internal/config"
	"ai-specdraft-be/internal/server"
	"ai-specdraft-be/internal/tracer"
	"ai-specdraft-be/pkg/database"

	"gorm.io/gorm"
)

func main() {
	// 0. Initialize Tracer (no-op unless OTEL_ENABLED=true)
	shutdownTracer := tracer.InitTracer()
	defer shutdownTracer(context.Background())

	// 1. Load Configuration
	cfg := config.Load()

	// 2. Initialize Database (only the postgres checkpoint store needs it)
	var gormDB *gorm.DB
	if cfg.Session.Store == "postgres" {
		db, err := database.NewGormDBFromDSN(cfg.Database.Connection)
		if err != nil {
			log.Panicf("Unable to connect to GORM DB: %v", err)
		}
		gormDB = db
	}

	// 3. Bootstrap Dependencies (Container)
	container := bootstrap.NewContainer(gormDB, cfg)
	defer container.SysLogger.Sync()
	container.SysLogger.Info("MAIN", "application bootstrapped", map[string]interface{}{
		"environment":   cfg.App.Environment,
		"session_store": cfg.Session.Store,
		"llm_provider":  cfg.Ai.LLMProvider,
	})

	// 4. Start Background Services
	go func() {
		log.Println("Background: Starting Archiver Service...")
		if err := container.ArchiverService.Consume(context.Background()); err != nil {
			log.Printf("Background Archiver Error: %v", err)
		}
	}()

	// 5. Initialize Server
	srv := server.New(cfg, container)

	// 6. Run Server
	log.Fatal(srv.Run())
}
