// cmd/client/cmd/care/due.go
package care

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"leafwise/cmd/client/cmd/types"
	"leafwise/internal/app/client"
)

var taskNames = map[client.CareTask]string{
	client.TaskWater:     "полить",
	client.TaskFertilize: "подкормить",
	client.TaskRotate:    "повернуть",
}

var DueCmd = &cobra.Command{
	Use:   "due",
	Short: "Задачи на сегодня",
	Long:  `Показывает напоминания, срок которых наступил.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, ok := cmd.Context().Value(types.ClientAppKey).(*client.App)
		if !ok || app == nil {
			return fmt.Errorf("приложение не инициализировано")
		}

		due, err := app.DueCare()
		if err != nil {
			return fmt.Errorf("ошибка чтения напоминаний: %w", err)
		}

		if len(due) == 0 {
			color.Green("✓ Все задачи выполнены")
			return nil
		}

		fmt.Printf("Задач на сегодня: %d\n\n", len(due))
		for _, r := range due {
			name := taskNames[r.Task]
			if name == "" {
				name = string(r.Task)
			}
			fmt.Printf("• %s растение %d (срок: %s)\n", name, r.PlantID, r.NextDue.Format("2006-01-02"))
			fmt.Printf("  Выполнено: leafwise care done %s\n", r.ID)
		}

		return nil
	},
}
