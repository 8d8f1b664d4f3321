// cmd/client/cmd/telemetry/capture.go
package telemetry

import (
	"fmt"

	"github.com/spf13/cobra"

	"leafwise/cmd/client/cmd/types"
	"leafwise/internal/app/client"
)

var (
	capturePlantID int
	captureLux     float64
	captureTempK   int
)

var CaptureCmd = &cobra.Command{
	Use:   "capture",
	Short: "Записать замер освещенности",
	Long: `Записывает замер освещенности в локальную базу и ставит его
в очередь синхронизации. Работает без соединения с сервером.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, ok := cmd.Context().Value(types.ClientAppKey).(*client.App)
		if !ok || app == nil {
			return fmt.Errorf("приложение не инициализировано")
		}

		var tempK *int
		if captureTempK > 0 {
			tempK = &captureTempK
		}

		reading, err := app.CaptureReading(capturePlantID, captureLux, tempK)
		if err != nil {
			return fmt.Errorf("ошибка записи замера: %w", err)
		}

		fmt.Printf("✅ Замер записан: %.0f лк", reading.Lux)
		if reading.ColorTempK != nil {
			fmt.Printf(", %dK", *reading.ColorTempK)
		}
		fmt.Println()
		fmt.Println("Замер уйдет на сервер при следующей синхронизации: leafwise sync")

		return nil
	},
}

func init() {
	CaptureCmd.Flags().IntVarP(&capturePlantID, "plant", "p", 0, "ID растения")
	CaptureCmd.Flags().Float64VarP(&captureLux, "lux", "l", 0, "освещенность в люксах")
	CaptureCmd.Flags().IntVar(&captureTempK, "temp", 0, "цветовая температура в кельвинах")
	_ = CaptureCmd.MarkFlagRequired("plant")
	_ = CaptureCmd.MarkFlagRequired("lux")
}
