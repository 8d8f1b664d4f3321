// cmd/client/cmd/identify/identify.go
package identify

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"leafwise/cmd/client/cmd/types"
	"leafwise/internal/app/client"
	"leafwise/internal/domain/plantid"
)

var identifyPlantID int

// IdentifyCmd распознает вид растения по фотографии
var IdentifyCmd = &cobra.Command{
	Use:   "identify <файл>",
	Short: "Распознать растение по фотографии",
	Long: `Отправляет фотографию на сервер для распознавания вида.

Сервер возвращает варианты с уверенностью и краткой справкой по уходу.
Флагом --plant результат привязывается к существующему растению.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, ok := cmd.Context().Value(types.ClientAppKey).(*client.App)
		if !ok || app == nil {
			return fmt.Errorf("приложение не инициализировано")
		}

		data, contentType, err := client.ReadPhotoBase64(args[0])
		if err != nil {
			return err
		}

		req := plantid.IdentifyRequest{
			Data:        data,
			ContentType: contentType,
		}
		if identifyPlantID > 0 {
			req.PlantID = &identifyPlantID
		}

		fmt.Println("Распознавание...")
		ident, err := app.Identify(cmd.Context(), req)
		if err != nil {
			return fmt.Errorf("ошибка распознавания: %w", err)
		}

		if len(ident.Candidates) == 0 {
			fmt.Println("Растение не распознано. Попробуйте фото при лучшем освещении.")
			return nil
		}

		bold := color.New(color.Bold).SprintFunc()

		fmt.Println()
		fmt.Printf("Варианты (%d):\n\n", len(ident.Candidates))
		for i, c := range ident.Candidates {
			name := c.ScientificName
			if c.CommonName != "" {
				name = fmt.Sprintf("%s (%s)", c.ScientificName, c.CommonName)
			}
			fmt.Printf("%d. %s — %.0f%%\n", i+1, bold(name), c.Confidence*100)
			if c.CareSummary != "" {
				fmt.Printf("   %s\n", c.CareSummary)
			}
		}

		return nil
	},
}

func init() {
	IdentifyCmd.Flags().IntVarP(&identifyPlantID, "plant", "p", 0, "привязать результат к растению")
}
