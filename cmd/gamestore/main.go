package main

import (
	"log"

	"github.com/shestoi/GoBigTech/gamestore/internal/app"
	"github.com/shestoi/GoBigTech/gamestore/internal/config"
)

func main() {
	// Загружаем конфигурацию
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Консольное меню поверх того же ядра, что и API
	application, err := app.Build(cfg, app.ModeConsole)
	if err != nil {
		log.Fatalf("Failed to build app: %v", err)
	}

	if err := application.Run(); err != nil {
		log.Fatalf("GameStore error: %v", err)
	}
}
