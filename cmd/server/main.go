package main

import (
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/healthkeeper/internal/buildinfo"
	"github.com/dmitrijs2005/healthkeeper/internal/server"
	"github.com/dmitrijs2005/healthkeeper/internal/server/config"
	"github.com/gin-gonic/gin"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	gin.SetMode(gin.ReleaseMode)

	app, err := server.NewApp(ctx, cfg, os.Stdout)
	if err != nil {
		log.Fatalf("%v", err)
	}

	if err := app.Run(ctx); err != nil {
		log.Fatalf("%v", err)
	}
}
