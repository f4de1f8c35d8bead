package main

import (
	"log"

	"github.com/gin-gonic/gin"

	"timesheet-backend/internal/blobstore"
	"timesheet-backend/internal/config"
	"timesheet-backend/internal/db"
	"timesheet-backend/internal/routes"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	database, err := db.Open(cfg.DbDsn)
	if err != nil {
		log.Fatalf("db error: %v", err)
	}

	files := blobstore.NewSupabaseClient(cfg.StorageURL, cfg.StorageServiceKey, cfg.StorageBucket)

	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	routes.Register(router, database, files, cfg)

	if err := router.Run(cfg.Addr); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
