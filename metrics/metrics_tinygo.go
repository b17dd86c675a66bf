//go:build tinygo

package metrics

import "time"

func ResyncAttempt()              {}
func ResyncFailure(reason string) { _ = reason }
func ResyncSuccess(t time.Time)   { _ = t }
func BroadcastCycle()             {}
func RefreshSkipped()             {}
