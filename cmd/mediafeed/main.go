package main

import (
	"log"

	"github.com/stupidhair/mediafeed/internal/app"
)

func main() {
	if err := app.New().Run(); err != nil {
		log.Fatalf("❌ mediafeed failed to start: %v", err)
	}
}
