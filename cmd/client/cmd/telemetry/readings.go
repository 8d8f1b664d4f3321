// cmd/client/cmd/telemetry/readings.go
package telemetry

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"leafwise/cmd/client/cmd/types"
	"leafwise/internal/app/client"
)

var (
	readingsPlantID int
	readingsLimit   int
	readingsFormat  string
)

var ReadingsCmd = &cobra.Command{
	Use:   "readings",
	Short: "История замеров растения",
	Long:  `Показывает локальную историю замеров освещенности, новые сверху.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, ok := cmd.Context().Value(types.ClientAppKey).(*client.App)
		if !ok || app == nil {
			return fmt.Errorf("приложение не инициализировано")
		}

		readings, err := app.Readings(readingsPlantID, readingsLimit)
		if err != nil {
			return fmt.Errorf("ошибка чтения истории: %w", err)
		}

		if readingsFormat == "json" {
			encoder := json.NewEncoder(os.Stdout)
			encoder.SetIndent("", "  ")
			return encoder.Encode(readings)
		}

		if len(readings) == 0 {
			fmt.Println("Замеров нет. Запишите первый: leafwise telemetry capture")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintf(w, "Время\tЛюксы\tТемпература\t\n")
		fmt.Fprintf(w, "---\t---\t---\t\n")

		for _, r := range readings {
			temp := "-"
			if r.ColorTempK != nil {
				temp = fmt.Sprintf("%dK", *r.ColorTempK)
			}
			fmt.Fprintf(w, "%s\t%.0f\t%s\t\n",
				r.MeasuredAt.Format("2006-01-02 15:04"),
				r.Lux,
				temp,
			)
		}

		w.Flush()
		fmt.Printf("\nЗамеров: %d\n", len(readings))
		return nil
	},
}

func init() {
	ReadingsCmd.Flags().IntVarP(&readingsPlantID, "plant", "p", 0, "ID растения")
	ReadingsCmd.Flags().IntVar(&readingsLimit, "limit", 20, "ограничение количества замеров")
	ReadingsCmd.Flags().StringVarP(&readingsFormat, "format", "f", "table", "формат вывода (table, json)")
	_ = ReadingsCmd.MarkFlagRequired("plant")
}
