package service

import (
	"math"

	"urlintel/internal/model"
)

const (
	fastThreshold   = 1.0
	mediumThreshold = 3.0
)

// ClassifyLoadSpeed buckets a response time in seconds.
func ClassifyLoadSpeed(seconds float64) model.LoadSpeed {
	switch {
	case seconds < fastThreshold:
		return model.LoadSpeedFast
	case seconds < mediumThreshold:
		return model.LoadSpeedMedium
	default:
		return model.LoadSpeedSlow
	}
}

// EvaluatePerformance reports timing and size. The speed bucket is derived
// from the rounded response time so the reported fields always agree.
func EvaluatePerformance(fr *FetchResult) model.PerformanceReport {
	responseTime := math.Round(fr.Elapsed.Seconds()*1000) / 1000
	return model.PerformanceReport{
		ResponseTime: responseTime,
		PageSize:     len(fr.Body),
		StatusCode:   fr.StatusCode,
		LoadSpeed:    ClassifyLoadSpeed(responseTime),
	}
}
