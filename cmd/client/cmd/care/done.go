// cmd/client/cmd/care/done.go
package care

import (
	"fmt"

	"github.com/spf13/cobra"

	"leafwise/cmd/client/cmd/types"
	"leafwise/internal/app/client"
)

var DoneCmd = &cobra.Command{
	Use:   "done <ID напоминания>",
	Short: "Отметить задачу выполненной",
	Long: `Отмечает выполнение задачи и переносит следующий срок
с учетом текущего сезона.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, ok := cmd.Context().Value(types.ClientAppKey).(*client.App)
		if !ok || app == nil {
			return fmt.Errorf("приложение не инициализировано")
		}

		reminder, err := app.CompleteTask(args[0])
		if err != nil {
			return fmt.Errorf("ошибка отметки задачи: %w", err)
		}

		fmt.Printf("✅ Задача выполнена: %s\n", reminder.Task)
		fmt.Printf("Следующий срок: %s\n", reminder.NextDue.Format("2006-01-02"))

		return nil
	},
}
