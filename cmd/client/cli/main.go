package main

import (
	"context"
	"log"

	"binderkeeper/internal/client/cli"
	"binderkeeper/internal/client/config"
)

func main() {
	cfg := config.LoadConfig()

	app, err := cli.NewApp(cfg)
	if err != nil {
		log.Fatalf("%v", err)
	}

	app.Run(context.Background())
}
