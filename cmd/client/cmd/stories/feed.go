// cmd/client/cmd/stories/feed.go
package stories

import (
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"leafwise/cmd/client/cmd/types"
	"leafwise/internal/app/client"
)

var (
	feedCursor string
	feedLimit  int
)

var FeedCmd = &cobra.Command{
	Use:   "feed",
	Short: "Лента актуальных историй",
	Long:  `Показывает истории, опубликованные за последние 24 часа, новые сверху.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, ok := cmd.Context().Value(types.ClientAppKey).(*client.App)
		if !ok || app == nil {
			return fmt.Errorf("приложение не инициализировано")
		}

		feed, err := app.StoryFeed(cmd.Context(), feedCursor, feedLimit)
		if err != nil {
			return fmt.Errorf("ошибка получения ленты: %w", err)
		}

		if len(feed.Stories) == 0 {
			fmt.Println("Лента пуста. Опубликуйте историю: leafwise stories post")
			return nil
		}

		title := color.New(color.Bold).SprintFunc()
		dim := color.New(color.Faint).SprintFunc()

		for _, s := range feed.Stories {
			caption := s.Caption
			if caption == "" {
				caption = "(без подписи)"
			}

			left := time.Until(s.ExpiresAt).Round(time.Minute)
			fmt.Printf("%s %s\n", title(caption), dim(fmt.Sprintf("(истекает через %v)", left)))
			fmt.Printf("  ID: %s | Растение: %d | Просмотров: %d\n", s.ID, s.PlantID, s.ViewCount)
			fmt.Println()
		}

		if feed.HasMore {
			fmt.Printf("Дальше: leafwise stories feed --cursor %s\n", feed.NextCursor)
		}

		return nil
	},
}

func init() {
	FeedCmd.Flags().StringVar(&feedCursor, "cursor", "", "позиция предыдущей страницы")
	FeedCmd.Flags().IntVar(&feedLimit, "limit", 20, "ограничение количества историй")
}
