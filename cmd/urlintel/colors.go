package main

import (
	"github.com/fatih/color"
	"urlintel/internal/model"
)

var (
	colorSuccess = color.New(color.FgGreen).SprintFunc()
	colorInfo    = color.New(color.FgCyan).SprintFunc()
	colorWarn    = color.New(color.FgYellow).SprintFunc()
	colorError   = color.New(color.FgRed).SprintFunc()
	colorHeading = color.New(color.Bold).SprintFunc()
)

// formatScore colors a safety score by band.
func formatScore(score int) string {
	switch {
	case score >= 80:
		return colorSuccess(score)
	case score >= 50:
		return colorWarn(score)
	default:
		return colorError(score)
	}
}

func formatLoadSpeed(speed model.LoadSpeed) string {
	switch speed {
	case model.LoadSpeedFast:
		return colorSuccess(speed)
	case model.LoadSpeedMedium:
		return colorWarn(speed)
	default:
		return colorError(speed)
	}
}

func formatBool(v bool) string {
	if v {
		return colorSuccess("yes")
	}
	return colorWarn("no")
}
