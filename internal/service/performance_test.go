package service

import (
	"testing"
	"time"

	"urlintel/internal/model"
)

func TestClassifyLoadSpeed(t *testing.T) {
	tests := []struct {
		seconds  float64
		expected model.LoadSpeed
	}{
		{0, model.LoadSpeedFast},
		{0.999, model.LoadSpeedFast},
		{1.0, model.LoadSpeedMedium},
		{2.999, model.LoadSpeedMedium},
		{3.0, model.LoadSpeedSlow},
		{12.5, model.LoadSpeedSlow},
	}

	for _, tt := range tests {
		if got := ClassifyLoadSpeed(tt.seconds); got != tt.expected {
			t.Errorf("ClassifyLoadSpeed(%v) = %v, want %v", tt.seconds, got, tt.expected)
		}
	}
}

func TestEvaluatePerformance(t *testing.T) {
	tests := []struct {
		name         string
		elapsed      time.Duration
		expectedTime float64
		expectedLoad model.LoadSpeed
	}{
		{name: "Fast", elapsed: 250 * time.Millisecond, expectedTime: 0.25, expectedLoad: model.LoadSpeedFast},
		{name: "Rounds up to boundary", elapsed: 999600 * time.Microsecond, expectedTime: 1.0, expectedLoad: model.LoadSpeedMedium},
		{name: "Exactly three seconds", elapsed: 3 * time.Second, expectedTime: 3.0, expectedLoad: model.LoadSpeedSlow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fr := &FetchResult{StatusCode: 404, Elapsed: tt.elapsed, Body: []byte("hello")}
			got := EvaluatePerformance(fr)

			if got.ResponseTime != tt.expectedTime {
				t.Errorf("ResponseTime = %v, want %v", got.ResponseTime, tt.expectedTime)
			}
			if got.LoadSpeed != tt.expectedLoad {
				t.Errorf("LoadSpeed = %v, want %v", got.LoadSpeed, tt.expectedLoad)
			}
			if got.PageSize != 5 || got.StatusCode != 404 {
				t.Errorf("PageSize/StatusCode = %d/%d, want 5/404", got.PageSize, got.StatusCode)
			}
		})
	}
}
