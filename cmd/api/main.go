package main

import (
	"context"
	"log"

	"github.com/AhmetSulu/online-shopping-api/internal/app/api"
)

func main() {
	if err := api.Run(context.Background()); err != nil {
		log.Fatalf("shopping API failed: %v", err)
	}
}
