package care

import (
	"github.com/spf13/cobra"
)

// CareCmd - родительская команда для напоминаний по уходу
var CareCmd = &cobra.Command{
	Use:   "care",
	Short: "Напоминания по уходу",
	Long: `Локальные напоминания о поливе, подкормке и повороте растений.

Интервал корректируется по текущему сезону: зимой полив реже, летом чаще.`,
}
