package main

import (
	"context"
	"log"

	"github.com/Noyllopa/LiquidNewtab/internal/cli"
)

func main() {
	if err := cli.NewRootCmd().ExecuteContext(context.Background()); err != nil {
		log.Fatalf("❌ liquidtab: %v", err)
	}
}
