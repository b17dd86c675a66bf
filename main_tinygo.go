//go:build tinygo

package main

import (
	"context"

	"timebeacon/app"
	"timebeacon/config"
	"timebeacon/hal"
)

func main() {
	cfg, _ := config.Load()
	_ = app.New(hal.New(), cfg).Run(context.Background())
	// Tasks only return after a fault; keep the last screen up.
	select {}
}
