package stories

import (
	"github.com/spf13/cobra"
)

// StoriesCmd - родительская команда для историй
var StoriesCmd = &cobra.Command{
	Use:   "stories",
	Short: "Истории о растениях",
	Long:  `Публикация и просмотр историй. История живет 24 часа.`,
}
