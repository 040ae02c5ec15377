package main

import (
	"context"
	"log"

	// Embedded zone data so display_time_zone resolves on minimal images.
	_ "time/tzdata"

	"github.com/dalemusser/waffle/app"
	"github.com/dalemusser/workhub/internal/app/bootstrap"
)

func main() {
	if err := app.Run(context.Background(), bootstrap.Hooks); err != nil {
		log.Fatal(err)
	}
}
