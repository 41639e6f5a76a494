package main

import (
	"context"
	"log"

	"refinery/internal/app/bootstrap"
)

// API process entrypoint.
// Data flow:
// 1) Load config.
// 2) Build app wiring (ports + adapters + use cases).
// 3) Start HTTP server.
//
// @title Refinery API
// @version 1.0
// @description Dataset refinement pipeline, package curation, and marketplace transaction engine.
// @BasePath /
func main() {
	log.Println("refinery api starting")
	app, err := bootstrap.BuildAPI()
	if err != nil {
		log.Fatalf("bootstrap api failed: %v", err)
	}
	defer func() {
		if err := app.Close(); err != nil {
			log.Printf("api shutdown close failed: %v", err)
		}
	}()

	if err := app.Run(context.Background()); err != nil {
		log.Fatalf("refinery api stopped with error: %v", err)
	}
}
