package main

import (
	"log"
	"net/http"

	"gold_billing_backend/internal/config"
	"gold_billing_backend/internal/database"
	"gold_billing_backend/internal/router"
	"gold_billing_backend/pkg/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	utils.InitLogger()

	cfg := config.Load()
	utils.InitJWT(cfg.Auth.JWTSecret)

	db, err := database.Open(cfg.Database)
	if err != nil {
		utils.LogError(err, "Failed to initialize database")
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()
	utils.LogInfo("Database connected", map[string]interface{}{"host": cfg.Database.Host, "name": cfg.Database.DBName})

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(utils.GinLogger())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.App.CORSOrigins
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	corsConfig.AllowCredentials = true
	engine.Use(cors.New(corsConfig))

	engine.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Route not found"})
	})

	router.Setup(engine, db, cfg)

	utils.LogInfo("Server starting", map[string]interface{}{
		"app":           cfg.App.Name,
		"version":       cfg.App.Version,
		"port":          cfg.App.Port,
		"auth_required": cfg.Auth.Required,
	})

	if err := engine.Run(":" + cfg.App.Port); err != nil {
		utils.LogError(err, "Failed to start server")
		log.Fatalf("Failed to start server: %v", err)
	}
}
