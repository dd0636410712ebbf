package main

import (
	"log"

	"github.com/toolshelf/shelf/internal/app"
)

func main() {
	if err := app.New().Run(); err != nil {
		log.Fatalf("❌ shelf failed to start: %v", err)
	}
}
