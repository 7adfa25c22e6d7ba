package survey

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/df07/go-frustum-survey/pkg/core"
)

func TestScheduleFrames(t *testing.T) {
	tests := []struct {
		name     string
		schedule Schedule
		expected []int
	}{
		{"stride divides range", Schedule{0, 20, 10}, []int{0, 10, 20}},
		{"end off stride", Schedule{0, 25, 10}, []int{0, 10, 20, 25}},
		{"single frame", Schedule{5, 5, 3}, []int{5}},
		{"stride larger than range", Schedule{1001, 1004, 10}, []int{1001, 1004}},
		{"every frame", Schedule{-2, 1, 1}, []int{-2, -1, 0, 1}},
		{"near max int", Schedule{math.MaxInt - 5, math.MaxInt, 4}, []int{math.MaxInt - 5, math.MaxInt - 1, math.MaxInt}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.schedule.Frames())
		})
	}
}

func TestScheduleValidate(t *testing.T) {
	tests := []struct {
		name     string
		schedule Schedule
		valid    bool
	}{
		{"valid", Schedule{0, 20, 10}, true},
		{"start after end", Schedule{21, 20, 10}, false},
		{"zero stride", Schedule{0, 20, 0}, false},
		{"negative stride", Schedule{0, 20, -1}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.schedule.Validate()
			if tt.valid {
				assert.NoError(t, err)
				return
			}
			assert.True(t, errors.Is(err, core.ErrInvalidSchedule), "got %v", err)
			assert.Nil(t, tt.schedule.Frames())
		})
	}
}

func TestScheduleFinerStrideVisitsSuperset(t *testing.T) {
	coarse := Schedule{0, 20, 10}.Frames()
	fine := Schedule{0, 20, 5}.Frames()

	visited := make(map[int]bool)
	for _, f := range fine {
		visited[f] = true
	}
	for _, f := range coarse {
		if !visited[f] {
			t.Errorf("Frame %d visited by stride 10 but not by stride 5", f)
		}
	}
}
