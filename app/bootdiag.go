//go:build !(tinygo && bootdebug)

package app

import "timebeacon/hal"

func bootStep(h hal.HAL, msg string) { _, _ = h, msg }
