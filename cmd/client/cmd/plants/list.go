// cmd/client/cmd/plants/list.go
package plants

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"leafwise/cmd/client/cmd/types"
	"leafwise/internal/app/client"
)

var (
	listFormat  string
	refreshList bool
)

var ListCmd = &cobra.Command{
	Use:   "list",
	Short: "Список растений",
	Long: `Показывает растения из локального кэша.

С флагом --refresh кэш сначала обновляется с сервера.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, ok := cmd.Context().Value(types.ClientAppKey).(*client.App)
		if !ok || app == nil {
			return fmt.Errorf("приложение не инициализировано")
		}

		if refreshList {
			if err := app.RefreshPlants(cmd.Context()); err != nil {
				fmt.Printf("⚠️  Не удалось обновить кэш: %v\n", err)
			}
		}

		plants, err := app.Plants(cmd.Context())
		if err != nil {
			return fmt.Errorf("ошибка получения списка растений: %w", err)
		}

		switch listFormat {
		case "json":
			return printPlantsJSON(plants)
		case "table":
			return printPlantsTable(plants)
		default:
			return printPlantsSimple(plants)
		}
	},
}

func printPlantsSimple(plants []*client.CachedPlant) error {
	if len(plants) == 0 {
		fmt.Println("Растения не найдены. Добавьте первое: leafwise plants add --name ...")
		return nil
	}

	fmt.Printf("Растений: %d\n\n", len(plants))

	for _, p := range plants {
		fmt.Printf("%d. %s", p.ID, p.Name)
		if p.Species != "" {
			fmt.Printf(" (%s)", p.Species)
		}
		fmt.Println()
		if p.Location != "" {
			fmt.Printf("   Место: %s\n", p.Location)
		}
	}

	return nil
}

func printPlantsTable(plants []*client.CachedPlant) error {
	if len(plants) == 0 {
		fmt.Println("Растения не найдены")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "ID\tИмя\tВид\tМесто\tВерсия\tИзменено\t\n")
	fmt.Fprintf(w, "---\t---\t---\t---\t---\t---\t\n")

	for _, p := range plants {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%d\t%s\t\n",
			p.ID,
			p.Name,
			p.Species,
			p.Location,
			p.Version,
			p.LastModified.Format("2006-01-02"),
		)
	}

	w.Flush()
	fmt.Printf("\nВсего: %d\n", len(plants))
	return nil
}

func printPlantsJSON(plants []*client.CachedPlant) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(plants)
}

func init() {
	ListCmd.Flags().StringVarP(&listFormat, "format", "f", "simple", "формат вывода (simple, table, json)")
	ListCmd.Flags().BoolVarP(&refreshList, "refresh", "r", false, "обновить кэш с сервера")
}
