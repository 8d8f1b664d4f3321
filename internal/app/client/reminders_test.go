package client

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"leafwise/internal/domain/seasonal"
)

func TestAdjustedInterval(t *testing.T) {
	tests := []struct {
		name     string
		task     CareTask
		baseDays int
		season   seasonal.Season
		want     int
	}{
		{
			name:     "зимой полив реже",
			task:     TaskWater,
			baseDays: 7,
			season:   seasonal.SeasonWinter,
			want:     11,
		},
		{
			name:     "летом полив чаще",
			task:     TaskWater,
			baseDays: 7,
			season:   seasonal.SeasonSummer,
			want:     5,
		},
		{
			name:     "весной базовый интервал полива",
			task:     TaskWater,
			baseDays: 7,
			season:   seasonal.SeasonSpring,
			want:     7,
		},
		{
			name:     "зимой подкормка вдвое реже",
			task:     TaskFertilize,
			baseDays: 14,
			season:   seasonal.SeasonWinter,
			want:     28,
		},
		{
			name:     "весной подкормка чаще",
			task:     TaskFertilize,
			baseDays: 14,
			season:   seasonal.SeasonSpring,
			want:     11,
		},
		{
			name:     "поворот не зависит от сезона",
			task:     TaskRotate,
			baseDays: 10,
			season:   seasonal.SeasonWinter,
			want:     10,
		},
		{
			name:     "интервал не падает ниже одного дня",
			task:     TaskWater,
			baseDays: 1,
			season:   seasonal.SeasonSummer,
			want:     1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, adjustedInterval(tt.task, tt.baseDays, tt.season))
		})
	}
}

func TestReminderStorage(t *testing.T) {
	storage := newTestStorage(t)

	r := &Reminder{
		ID:           "rem-1",
		PlantID:      1,
		Task:         TaskWater,
		IntervalDays: 7,
	}
	assert.NoError(t, storage.SaveReminder(r))

	got, err := storage.GetReminder("rem-1")
	assert.NoError(t, err)
	assert.Equal(t, TaskWater, got.Task)
	assert.Equal(t, 7, got.IntervalDays)

	// напоминание без срока считается просроченным
	due, err := storage.DueReminders(time.Now().UTC())
	assert.NoError(t, err)
	assert.Len(t, due, 1)

	assert.NoError(t, storage.DeleteReminder("rem-1"))

	_, err = storage.GetReminder("rem-1")
	assert.Error(t, err)
}
