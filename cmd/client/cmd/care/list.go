// cmd/client/cmd/care/list.go
package care

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"leafwise/cmd/client/cmd/types"
	"leafwise/internal/app/client"
)

var ListCmd = &cobra.Command{
	Use:   "list",
	Short: "Все напоминания",
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, ok := cmd.Context().Value(types.ClientAppKey).(*client.App)
		if !ok || app == nil {
			return fmt.Errorf("приложение не инициализировано")
		}

		reminders, err := app.Reminders()
		if err != nil {
			return fmt.Errorf("ошибка чтения напоминаний: %w", err)
		}

		if len(reminders) == 0 {
			fmt.Println("Напоминаний нет. Добавьте первое: leafwise care add --plant ...")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintf(w, "ID\tРастение\tЗадача\tИнтервал\tСрок\t\n")
		fmt.Fprintf(w, "---\t---\t---\t---\t---\t\n")

		for _, r := range reminders {
			fmt.Fprintf(w, "%s\t%d\t%s\t%d дн.\t%s\t\n",
				r.ID,
				r.PlantID,
				r.Task,
				r.IntervalDays,
				r.NextDue.Format("2006-01-02"),
			)
		}

		w.Flush()
		return nil
	},
}
