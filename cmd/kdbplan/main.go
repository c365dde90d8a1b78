package main

import (
	"context"
	"log"

	"github.com/kdbplan/kdbplan/internal/app"
)

func main() {
	a, err := app.New(context.Background())
	if err != nil {
		log.Fatalf("❌ kdbplan failed to start: %v", err)
	}
	if err := a.Run(); err != nil {
		log.Fatalf("❌ kdbplan failed: %v", err)
	}
}
