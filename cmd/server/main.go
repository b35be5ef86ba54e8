package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"

	"github.com/mkravets/vidstream/internal/app"
	"github.com/mkravets/vidstream/internal/config"
)

func main() {

	// missing .env is fine, config falls back to defaults/flags/env
	_ = godotenv.Load()

	ctx := context.Background()
	cfg := config.LoadConfig()

	a, err := app.NewApp(cfg)
	if err != nil {
		log.Printf("%v", err)
		return
	}

	a.Run(ctx)

}
