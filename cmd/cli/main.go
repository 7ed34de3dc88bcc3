package main

import (
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/logboard/internal/cli"
	"github.com/dmitrijs2005/logboard/internal/config"
	"github.com/dmitrijs2005/logboard/internal/core"
	"github.com/dmitrijs2005/logboard/internal/logging"
	"github.com/dmitrijs2005/logboard/internal/models"
)

func main() {

	ctx := context.Background()

	cfg := config.LoadConfig(os.Args[1:])

	logger, err := logging.New(os.Stderr, cfg.LogFormat, cfg.LogLevel)
	if err != nil {
		log.Fatalf("%v", err)
	}

	c, err := core.New(ctx, cfg, logger, nil)
	if err != nil {
		log.Fatalf("%v", err)
	}
	defer c.Close()

	ctrl, err := c.Session(ctx, models.Users[0])
	if err != nil {
		log.Printf("%v", err)
		return
	}

	cli.NewApp(ctrl).Run(ctx)

}
