package main

import (
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/logboard/internal/config"
	"github.com/dmitrijs2005/logboard/internal/server"
)

func main() {

	ctx := context.Background()
	cfg := config.LoadConfig(os.Args[1:])
	app, err := server.NewApp(ctx, cfg)

	if err != nil {
		log.Printf("%v", err)
		os.Exit(1)
	}

	app.Run(ctx)

}
