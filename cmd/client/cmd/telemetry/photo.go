// cmd/client/cmd/telemetry/photo.go
package telemetry

import (
	"fmt"

	"github.com/spf13/cobra"

	"leafwise/cmd/client/cmd/types"
	"leafwise/internal/app/client"
)

var (
	photoPlantID  int
	photoHeightCm float64
)

var PhotoCmd = &cobra.Command{
	Use:   "photo <файл>",
	Short: "Загрузить фотографию роста",
	Long: `Загружает фотографию роста растения на сервер с индикатором прогресса.

Если сервер недоступен, фотография встает в очередь и уйдет при синхронизации.
Флагом --height можно записать измеренную высоту растения.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, ok := cmd.Context().Value(types.ClientAppKey).(*client.App)
		if !ok || app == nil {
			return fmt.Errorf("приложение не инициализировано")
		}

		var heightCm *float64
		if photoHeightCm > 0 {
			heightCm = &photoHeightCm
		}

		id, err := app.UploadPhoto(cmd.Context(), photoPlantID, args[0], heightCm)
		if err != nil {
			return fmt.Errorf("ошибка загрузки фотографии: %w", err)
		}

		fmt.Printf("✅ Фотография загружена (ID: %s)\n", id)
		return nil
	},
}

func init() {
	PhotoCmd.Flags().IntVarP(&photoPlantID, "plant", "p", 0, "ID растения")
	PhotoCmd.Flags().Float64Var(&photoHeightCm, "height", 0, "высота растения в сантиметрах")
	_ = PhotoCmd.MarkFlagRequired("plant")
}
