package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"gorm.io/gorm"

	"github.com/ejjsharpe/cook-club-sub004/config"
	"github.com/ejjsharpe/cook-club-sub004/internal/database"
	"github.com/ejjsharpe/cook-club-sub004/internal/server"
	"github.com/ejjsharpe/cook-club-sub004/internal/service"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	redisClient, err := database.NewRedisClient(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}

	var db *gorm.DB
	var history service.ParseHistory
	if cfg.HistoryEnabled() {
		db, err = database.New(cfg)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		history = service.NewHistoryService(db)
	} else {
		log.Println("Parse history disabled (DB_HOST not set)")
	}

	llm, err := service.NewLLMService(cfg)
	if err != nil {
		log.Fatalf("Failed to create LLM service: %v", err)
	}

	parser := service.NewParserService(
		service.NewPageFetcher(cfg.FetchTimeout),
		service.NewContentNormalizer(),
		llm,
		llm,
		service.NewRedisParseCache(redisClient),
		history,
	)

	srv := server.New(cfg, parser, redisClient, db)

	errChan := make(chan error, 1)
	go func() {
		log.Printf("Starting recipe parser on %s:%s", cfg.ServerHost, cfg.ServerPort)
		errChan <- srv.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		if err != nil {
			log.Fatalf("Server error: %v", err)
		}
	case sig := <-quit:
		log.Printf("Received signal: %v", sig)
	}

	log.Println("Shutting down server...")
	if err := srv.Shutdown(context.Background()); err != nil {
		log.Fatalf("Server shutdown error: %v", err)
	}
	log.Println("Server stopped")
}
