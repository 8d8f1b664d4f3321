// cmd/client/cmd/seasonal/forecast.go
package seasonal

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"leafwise/cmd/client/cmd/types"
	"leafwise/internal/app/client"
)

var forecastJSON bool

// ForecastCmd запрашивает сезонный прогноз ухода для растения
var ForecastCmd = &cobra.Command{
	Use:   "forecast <ID растения>",
	Short: "Сезонный прогноз ухода",
	Long: `Запрашивает у сервера прогноз ухода на текущий сезон:
интервал полива, целевой диапазон освещенности и рекомендации.

Прогноз кэшируется на сервере до конца срока действия.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, ok := cmd.Context().Value(types.ClientAppKey).(*client.App)
		if !ok || app == nil {
			return fmt.Errorf("приложение не инициализировано")
		}

		plantID, err := strconv.Atoi(args[0])
		if err != nil || plantID <= 0 {
			return fmt.Errorf("неверный ID растения: %s", args[0])
		}

		f, err := app.Forecast(cmd.Context(), plantID)
		if err != nil {
			return fmt.Errorf("ошибка получения прогноза: %w", err)
		}

		if forecastJSON {
			encoder := json.NewEncoder(os.Stdout)
			encoder.SetIndent("", "  ")
			return encoder.Encode(f)
		}

		fmt.Printf("=== Прогноз ухода: сезон %s ===\n\n", f.Season)
		fmt.Printf("Полив: каждые %d дней\n", f.WateringIntervalDays)
		fmt.Printf("Освещенность: %.0f - %.0f лк\n", f.TargetLuxMin, f.TargetLuxMax)

		if len(f.Recommendations) > 0 {
			fmt.Println()
			fmt.Println("Рекомендации:")
			for _, r := range f.Recommendations {
				fmt.Printf("  • [%s] %s\n", r.Category, r.Advice)
			}
		}

		fmt.Println()
		fmt.Printf("Действителен до: %s\n", f.ValidUntil.Format("2006-01-02"))

		return nil
	},
}

func init() {
	ForecastCmd.Flags().BoolVar(&forecastJSON, "json", false, "вывод в формате JSON")
}
