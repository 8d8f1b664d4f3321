// cmd/client/cmd/stories/post.go
package stories

import (
	"fmt"

	"github.com/spf13/cobra"

	"leafwise/cmd/client/cmd/types"
	"leafwise/internal/app/client"
	"leafwise/internal/domain/story"
)

var (
	postPlantID int
	postCaption string
	postPhotoID string
)

var PostCmd = &cobra.Command{
	Use:   "post",
	Short: "Опубликовать историю",
	Long: `Публикует историю о растении. Через 24 часа история исчезает из ленты.

Флагом --photo можно прикрепить ранее загруженную фотографию роста.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, ok := cmd.Context().Value(types.ClientAppKey).(*client.App)
		if !ok || app == nil {
			return fmt.Errorf("приложение не инициализировано")
		}

		id, err := app.CreateStory(cmd.Context(), story.CreateRequest{
			PlantID: postPlantID,
			Caption: postCaption,
			PhotoID: postPhotoID,
		})
		if err != nil {
			return fmt.Errorf("ошибка публикации истории: %w", err)
		}

		fmt.Printf("✅ История опубликована (ID: %s)\n", id)
		fmt.Println("История будет видна в ленте 24 часа")

		return nil
	},
}

func init() {
	PostCmd.Flags().IntVarP(&postPlantID, "plant", "p", 0, "ID растения")
	PostCmd.Flags().StringVarP(&postCaption, "caption", "c", "", "подпись к истории")
	PostCmd.Flags().StringVar(&postPhotoID, "photo", "", "ID прикрепляемой фотографии")
	_ = PostCmd.MarkFlagRequired("plant")
}
