package main

import (
	"log"

	"github.com/Sujay149/Kerala-migrates-sub001/internal/app"
	"github.com/Sujay149/Kerala-migrates-sub001/internal/config"
	"github.com/Sujay149/Kerala-migrates-sub001/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	if err := logger.InitLogger(cfg.Env); err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	if err := app.Run(cfg); err != nil {
		log.Fatal(err)
	}
}
