package main

import (
	"flag"
	"log"

	"github.com/thatredkite/pyrobot/internal/app"
)

func main() {
	configPath := flag.String("config", "config.yaml", "путь к файлу конфигурации")
	flag.Parse()

	application, err := app.NewApp(*configPath)
	if err != nil {
		log.Fatalf("failed to initialize app: %v", err)
	}

	if err := application.Run(); err != nil {
		log.Fatalf("application stopped with error: %v", err)
	}
}
