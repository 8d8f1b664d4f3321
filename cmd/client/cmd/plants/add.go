// cmd/client/cmd/plants/add.go
package plants

import (
	"fmt"

	"github.com/spf13/cobra"

	"leafwise/cmd/client/cmd/types"
	"leafwise/internal/app/client"
	"leafwise/internal/domain/plant"
)

var (
	addName       string
	addSpecies    string
	addLocation   string
	addHemisphere string
	addNotes      string
)

var AddCmd = &cobra.Command{
	Use:   "add",
	Short: "Добавить растение",
	Long: `Создает профиль растения на сервере и кэширует его локально.

Полушарие нужно для сезонных прогнозов: декабрь на севере — зима, на юге — лето.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, ok := cmd.Context().Value(types.ClientAppKey).(*client.App)
		if !ok || app == nil {
			return fmt.Errorf("приложение не инициализировано")
		}

		if addName == "" {
			return fmt.Errorf("укажите имя растения: --name")
		}

		id, err := app.CreatePlant(cmd.Context(), plant.CreateRequest{
			Name:       addName,
			Species:    addSpecies,
			Location:   addLocation,
			Hemisphere: addHemisphere,
			Notes:      addNotes,
		})
		if err != nil {
			return fmt.Errorf("ошибка создания растения: %w", err)
		}

		fmt.Printf("✅ Растение создано (ID: %d)\n", id)
		fmt.Println("Следующий шаг: leafwise telemetry capture --plant", id)

		return nil
	},
}

func init() {
	AddCmd.Flags().StringVarP(&addName, "name", "n", "", "имя растения")
	AddCmd.Flags().StringVarP(&addSpecies, "species", "s", "", "вид (научное название)")
	AddCmd.Flags().StringVarP(&addLocation, "location", "l", "", "где стоит растение")
	AddCmd.Flags().StringVar(&addHemisphere, "hemisphere", "north", "полушарие (north, south)")
	AddCmd.Flags().StringVar(&addNotes, "notes", "", "заметки")
}
