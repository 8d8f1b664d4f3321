package client

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"leafwise/internal/domain/seasonal"
)

// Сезонные множители базового интервала ухода. Зимой рост замедляется
// и полив с подкормкой нужны реже, летом наоборот.
var seasonIntervalFactor = map[CareTask]map[seasonal.Season]float64{
	TaskWater: {
		seasonal.SeasonWinter: 1.5,
		seasonal.SeasonSpring: 1.0,
		seasonal.SeasonSummer: 0.75,
		seasonal.SeasonAutumn: 1.25,
	},
	TaskFertilize: {
		seasonal.SeasonWinter: 2.0,
		seasonal.SeasonSpring: 0.75,
		seasonal.SeasonSummer: 1.0,
		seasonal.SeasonAutumn: 1.5,
	},
	TaskRotate: {
		seasonal.SeasonWinter: 1.0,
		seasonal.SeasonSpring: 1.0,
		seasonal.SeasonSummer: 1.0,
		seasonal.SeasonAutumn: 1.0,
	},
}

// adjustedInterval возвращает интервал задачи с учетом текущего сезона
// в настроенном полушарии, минимум один день
func adjustedInterval(task CareTask, baseDays int, season seasonal.Season) int {
	factor, ok := seasonIntervalFactor[task][season]
	if !ok {
		factor = 1.0
	}

	days := int(math.Round(float64(baseDays) * factor))
	if days < 1 {
		days = 1
	}

	return days
}

// AddReminder создает напоминание по уходу; первый срок считается
// от текущего момента с сезонной поправкой
func (a *App) AddReminder(plantID int, task CareTask, intervalDays int) (*Reminder, error) {
	if plantID <= 0 {
		return nil, fmt.Errorf("не указано растение")
	}
	if intervalDays <= 0 {
		return nil, fmt.Errorf("интервал должен быть положительным")
	}

	switch task {
	case TaskWater, TaskFertilize, TaskRotate:
	default:
		return nil, fmt.Errorf("неизвестная задача: %s", task)
	}

	now := time.Now().UTC()
	season := seasonal.SeasonFor(now, a.config.Hemisphere)

	reminder := &Reminder{
		ID:           uuid.NewString(),
		PlantID:      plantID,
		Task:         task,
		IntervalDays: intervalDays,
		NextDue:      now.AddDate(0, 0, adjustedInterval(task, intervalDays, season)),
		CreatedAt:    now,
	}

	if err := a.storage.SaveReminder(reminder); err != nil {
		return nil, err
	}

	return reminder, nil
}

// DueCare возвращает напоминания, срок которых наступил
func (a *App) DueCare() ([]*Reminder, error) {
	return a.storage.DueReminders(time.Now().UTC())
}

// Reminders возвращает все напоминания
func (a *App) Reminders() ([]*Reminder, error) {
	return a.storage.ListReminders()
}

// CompleteTask отмечает выполнение задачи и переносит следующий срок
// от момента выполнения с учетом текущего сезона
func (a *App) CompleteTask(reminderID string) (*Reminder, error) {
	reminder, err := a.storage.GetReminder(reminderID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	season := seasonal.SeasonFor(now, a.config.Hemisphere)

	reminder.LastDone = now
	reminder.NextDue = now.AddDate(0, 0, adjustedInterval(reminder.Task, reminder.IntervalDays, season))

	if err := a.storage.SaveReminder(reminder); err != nil {
		return nil, err
	}

	return reminder, nil
}

// RemoveReminder удаляет напоминание
func (a *App) RemoveReminder(reminderID string) error {
	return a.storage.DeleteReminder(reminderID)
}
