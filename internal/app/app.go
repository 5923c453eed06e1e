package app

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	"github.com/gin-gonic/gin"
	_ "github.com/lib/pq"

	"presencebot/internal/bot"
	"presencebot/internal/config"
	"presencebot/internal/discord"
	"presencebot/internal/handlers"
	"presencebot/internal/repositories"
	"presencebot/internal/routes"
	"presencebot/internal/services"
)

// Run wires the whole process: config, database, gateway, services, bot,
// HTTP. It blocks serving HTTP until the listener fails.
func Run(cfgPath string) error {
	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		return err
	}

	// === DB ===
	db, err := sql.Open("postgres", cfg.Database.DSN)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("[app][err] close database: %v", err)
		}
	}()

	// === Repos ===
	taskRepo := repositories.NewTaskRepository(db)
	if err := taskRepo.EnsureSchema(context.Background()); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}

	// === Gateway ===
	gw, err := discord.New(cfg.Discord)
	if err != nil {
		return err
	}

	// === Services ===
	mirrorService := services.NewMirrorService(gw)
	taskService := services.NewTaskService(taskRepo, mirrorService)
	presenceService := services.NewPresenceService(gw, cfg.Discord.UserIDs, cfg.CacheWindow())

	// === Bot ===
	taskBot := bot.New(gw, taskService, cfg.Discord)
	taskBot.Start()
	if err := gw.Open(); err != nil {
		return fmt.Errorf("open gateway: %w", err)
	}
	defer func() {
		if err := gw.Close(); err != nil {
			log.Printf("[app][err] close gateway: %v", err)
		}
	}()

	// === Gin ===
	router := gin.Default()
	router.Use(corsMiddleware())

	presenceHandler := handlers.NewPresenceHandler(presenceService)
	routes.SetupRoutes(router, cfg.API, presenceHandler)

	// === Run ===
	listenAddr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Printf("Presence API listening on %s", listenAddr)
	return router.Run(listenAddr)
}

// RegisterCommands uploads the /task slash command and exits. Pure REST, no
// gateway connection needed.
func RegisterCommands(cfgPath string) error {
	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		return err
	}
	gw, err := discord.New(cfg.Discord)
	if err != nil {
		return err
	}
	if err := gw.RegisterCommands(cfg.Discord.AppID, cfg.Discord.GuildID); err != nil {
		return fmt.Errorf("register commands: %w", err)
	}
	if cfg.Discord.GuildID != "" {
		log.Printf("[commands] registered for guild %s", cfg.Discord.GuildID)
	} else {
		log.Printf("[commands] registered globally")
	}
	return nil
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, x-api-key")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}
