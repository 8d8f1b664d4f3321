package plants

import (
	"github.com/spf13/cobra"
)

// PlantsCmd - родительская команда для работы с профилями растений
var PlantsCmd = &cobra.Command{
	Use:   "plants",
	Short: "Управление растениями",
	Long:  `Создание и просмотр профилей растений. Профили кэшируются локально.`,
}
