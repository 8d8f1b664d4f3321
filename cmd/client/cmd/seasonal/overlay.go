// cmd/client/cmd/seasonal/overlay.go
package seasonal

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"leafwise/cmd/client/cmd/types"
	"leafwise/internal/app/client"
)

var overlayJSON bool

// OverlayCmd запрашивает данные AR-подсказок для растения
var OverlayCmd = &cobra.Command{
	Use:   "overlay <ID растения>",
	Short: "AR-подсказки по освещению",
	Long: `Сравнивает последний замер освещенности с целевым диапазоном сезона
и подсказывает, куда переставить растение.`,
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

		payload, err := app.Overlay(cmd.Context(), plantID)
		if err != nil {
			return fmt.Errorf("ошибка получения подсказок: %w", err)
		}

		if overlayJSON {
			encoder := json.NewEncoder(os.Stdout)
			encoder.SetIndent("", "  ")
			return encoder.Encode(payload)
		}

		fmt.Printf("=== Освещение: сезон %s ===\n\n", payload.Season)
		fmt.Printf("Целевой диапазон: %.0f - %.0f лк\n", payload.TargetLuxMin, payload.TargetLuxMax)
		if payload.CurrentLux > 0 {
			fmt.Printf("Текущий замер: %.0f лк\n", payload.CurrentLux)
		}

		fmt.Println()
		switch {
		case payload.LightDeficit:
			color.Yellow("⚠ Света не хватает")
		case payload.LightExcess:
			color.Yellow("⚠ Света слишком много")
		default:
			color.Green("✓ Освещение в норме")
		}

		if payload.MoveSuggestion != "" {
			fmt.Printf("Совет: %s\n", payload.MoveSuggestion)
		}

		return nil
	},
}

func init() {
	OverlayCmd.Flags().BoolVar(&overlayJSON, "json", false, "вывод в формате JSON")
}
