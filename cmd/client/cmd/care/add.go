// cmd/client/cmd/care/add.go
package care

import (
	"fmt"

	"github.com/spf13/cobra"

	"leafwise/cmd/client/cmd/types"
	"leafwise/internal/app/client"
)

var (
	addPlantID  int
	addTask     string
	addInterval int
)

var AddCmd = &cobra.Command{
	Use:   "add",
	Short: "Добавить напоминание",
	Long:  `Создает напоминание по уходу. Задачи: water, fertilize, rotate.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, ok := cmd.Context().Value(types.ClientAppKey).(*client.App)
		if !ok || app == nil {
			return fmt.Errorf("приложение не инициализировано")
		}

		reminder, err := app.AddReminder(addPlantID, client.CareTask(addTask), addInterval)
		if err != nil {
			return fmt.Errorf("ошибка создания напоминания: %w", err)
		}

		fmt.Printf("✅ Напоминание создано: %s каждые %d дней\n", reminder.Task, reminder.IntervalDays)
		fmt.Printf("Следующий срок: %s\n", reminder.NextDue.Format("2006-01-02"))

		return nil
	},
}

func init() {
	AddCmd.Flags().IntVarP(&addPlantID, "plant", "p", 0, "ID растения")
	AddCmd.Flags().StringVarP(&addTask, "task", "t", "water", "задача (water, fertilize, rotate)")
	AddCmd.Flags().IntVarP(&addInterval, "interval", "i", 7, "базовый интервал в днях")
	_ = AddCmd.MarkFlagRequired("plant")
}
