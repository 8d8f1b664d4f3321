// cmd/client/cmd/init.go
package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"leafwise/cmd/client/cmd/auth"
	"leafwise/cmd/client/cmd/care"
	"leafwise/cmd/client/cmd/identify"
	"leafwise/cmd/client/cmd/plants"
	"leafwise/cmd/client/cmd/seasonal"
	"leafwise/cmd/client/cmd/stories"
	"leafwise/cmd/client/cmd/sync"
	"leafwise/cmd/client/cmd/telemetry"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Состояние клиента",
	Long:  `Показывает состояние клиента: устройство, аутентификация, очередь синхронизации, соединение с сервером.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		fmt.Println("=== LeafWise: состояние клиента ===")
		fmt.Println()

		fmt.Printf("Устройство: %s\n", app.DeviceID())
		if login := app.UserLogin(); login != "" {
			fmt.Printf("Пользователь: %s\n", login)
		}

		ok := color.New(color.FgGreen).SprintFunc()
		bad := color.New(color.FgRed).SprintFunc()

		fmt.Print("Аутентификация: ")
		if app.IsAuthenticated() {
			fmt.Println(ok("выполнена"))
		} else {
			fmt.Println(bad("требуется вход"))
		}

		fmt.Print("Сервер: ")
		if err := app.CheckConnection(); err != nil {
			fmt.Println(bad("недоступен"))
		} else {
			fmt.Println(ok("доступен"))
		}

		counts, err := app.QueueSummary()
		if err != nil {
			return fmt.Errorf("ошибка чтения очереди: %w", err)
		}

		fmt.Println()
		fmt.Println("Очередь синхронизации:")
		if len(counts) == 0 {
			fmt.Println("  пусто")
			return nil
		}
		for state, n := range counts {
			fmt.Printf("  %s: %d\n", state, n)
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)

	// Аутентификация
	rootCmd.AddCommand(auth.AuthCmd)
	auth.AuthCmd.AddCommand(auth.RegisterCmd)
	auth.AuthCmd.AddCommand(auth.LoginCmd)
	auth.AuthCmd.AddCommand(auth.LogoutCmd)

	// Растения
	rootCmd.AddCommand(plants.PlantsCmd)
	plants.PlantsCmd.AddCommand(plants.AddCmd)
	plants.PlantsCmd.AddCommand(plants.ListCmd)

	// Телеметрия: замеры и фотографии
	rootCmd.AddCommand(telemetry.TelemetryCmd)
	telemetry.TelemetryCmd.AddCommand(telemetry.CaptureCmd)
	telemetry.TelemetryCmd.AddCommand(telemetry.ReadingsCmd)
	telemetry.TelemetryCmd.AddCommand(telemetry.PhotoCmd)

	// Истории
	rootCmd.AddCommand(stories.StoriesCmd)
	stories.StoriesCmd.AddCommand(stories.PostCmd)
	stories.StoriesCmd.AddCommand(stories.FeedCmd)

	// Распознавание и сезонный уход
	rootCmd.AddCommand(identify.IdentifyCmd)
	rootCmd.AddCommand(seasonal.ForecastCmd)
	rootCmd.AddCommand(seasonal.OverlayCmd)

	// Напоминания по уходу
	rootCmd.AddCommand(care.CareCmd)
	care.CareCmd.AddCommand(care.AddCmd)
	care.CareCmd.AddCommand(care.DueCmd)
	care.CareCmd.AddCommand(care.DoneCmd)
	care.CareCmd.AddCommand(care.ListCmd)

	rootCmd.AddCommand(sync.SyncCmd)
}
