package telemetry

import (
	"github.com/spf13/cobra"
)

// TelemetryCmd - родительская команда для замеров и фотографий роста
var TelemetryCmd = &cobra.Command{
	Use:   "telemetry",
	Short: "Замеры освещенности и фотографии роста",
	Long: `Запись замеров освещенности и загрузка фотографий роста.

Замеры сохраняются локально и отправляются на сервер при синхронизации.`,
}
