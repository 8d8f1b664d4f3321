package sync

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"leafwise/cmd/client/cmd/types"
	"leafwise/internal/app/client"
)

var (
	syncStatus    bool
	showConflicts bool
	resolveID     int
	resolveWith   string
)

var SyncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Управление синхронизацией",
	Long: `Синхронизация данных между клиентом и сервером.

Команда отправляет очередь замеров и фотографий, забирает изменения
с других устройств и разрешает конфликты.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, ok := cmd.Context().Value(types.ClientAppKey).(*client.App)
		if !ok || app == nil {
			return fmt.Errorf("приложение не инициализировано")
		}

		if syncStatus {
			return showSyncStatus(app)
		}

		if showConflicts {
			return showSyncConflicts(cmd.Context(), app)
		}

		if resolveID > 0 {
			return resolveConflict(cmd.Context(), app, resolveID, resolveWith)
		}

		return runSync(cmd.Context(), app)
	},
}

func runSync(ctx context.Context, app *client.App) error {
	fmt.Println("=== Синхронизация данных ===")

	if !app.IsAuthenticated() {
		return fmt.Errorf("требуется аутентификация. Выполните: leafwise auth login")
	}

	fmt.Println("Проверка соединения с сервером...")
	if err := app.CheckConnection(); err != nil {
		return fmt.Errorf("сервер недоступен: %v", err)
	}

	fmt.Println("Начало синхронизации...")
	result, err := app.Sync(ctx)
	if err != nil {
		return fmt.Errorf("ошибка синхронизации: %w", err)
	}

	fmt.Println()
	fmt.Println("✅ Синхронизация завершена!")
	fmt.Printf("Время выполнения: %v\n", result.Duration.Round(time.Millisecond))
	fmt.Printf("Отправлено на сервер: %d записей\n", result.Uploaded)
	fmt.Printf("Получено с сервера: %d записей\n", result.Downloaded)

	if result.Conflicts > 0 {
		fmt.Printf("Обнаружено конфликтов: %d\n", result.Conflicts)
		fmt.Printf("Разрешено конфликтов: %d\n", result.Resolved)

		if result.Resolved < result.Conflicts {
			fmt.Println("⚠️  Некоторые конфликты не были разрешены автоматически")
			fmt.Println("   Используйте 'leafwise sync --conflicts' для просмотра")
		}
	}

	if len(result.Errors) > 0 {
		fmt.Printf("Ошибок при синхронизации: %d\n", len(result.Errors))
		for i, syncErr := range result.Errors {
			if i >= 3 { // Показываем только первые 3 ошибки
				fmt.Printf("  ... и еще %d ошибок\n", len(result.Errors)-3)
				break
			}
			fmt.Printf("  • %s: %s\n", syncErr.Operation, syncErr.Error)
		}
	}

	stats := app.SyncService().GetStats()
	fmt.Printf("Всего синхронизаций: %d\n", stats.TotalSyncs)

	return nil
}

func showSyncStatus(app *client.App) error {
	fmt.Println("=== Статус синхронизации ===")

	engine := app.SyncService()
	stats := engine.GetStats()

	fmt.Println("📊 Статистика:")
	fmt.Printf("  Всего синхронизаций: %d\n", stats.TotalSyncs)
	fmt.Printf("  Отправлено на сервер: %d записей\n", stats.TotalUploaded)
	fmt.Printf("  Получено с сервера: %d записей\n", stats.TotalDownloaded)
	fmt.Printf("  Обнаружено конфликтов: %d\n", stats.TotalConflicts)
	fmt.Printf("  Разрешено конфликтов: %d\n", stats.TotalResolved)
	fmt.Printf("  Ошибок: %d\n", stats.TotalErrors)

	if !stats.LastSuccessful.IsZero() {
		fmt.Printf("\n⏰ Временные метки:\n")
		fmt.Printf("  Последняя успешная: %s\n",
			stats.LastSuccessful.Format("2006-01-02 15:04:05"))
		if !stats.LastFailed.IsZero() {
			fmt.Printf("  Последняя неудачная: %s\n",
				stats.LastFailed.Format("2006-01-02 15:04:05"))
		}
	}

	config := engine.Config()
	fmt.Printf("\n⚙️  Конфигурация:\n")
	fmt.Printf("  Интервал: %v\n", config.Interval)
	fmt.Printf("  Размер пакета: %d записей\n", config.BatchSize)
	fmt.Printf("  Макс. попыток: %d\n", config.MaxAttempts)
	fmt.Printf("  Базовая пауза повтора: %v\n", config.RetryBase)
	fmt.Printf("  Стратегия конфликтов: %s\n", config.ConflictStrategy)
	fmt.Printf("  Авторазрешение: %v\n", config.AutoResolve)
	fmt.Printf("  Включена: %v\n", config.Enabled)

	counts, err := app.QueueSummary()
	if err == nil && len(counts) > 0 {
		fmt.Printf("\n📦 Очередь:\n")
		for state, n := range counts {
			fmt.Printf("  %s: %d\n", state, n)
		}
	}

	fmt.Printf("\n🌐 Соединение с сервером: ")
	if err := app.CheckConnection(); err != nil {
		fmt.Printf("❌ Ошибка: %v\n", err)
	} else {
		fmt.Printf("✅ OK\n")
	}

	fmt.Printf("🔐 Аутентификация: ")
	if app.IsAuthenticated() {
		fmt.Printf("✅ Выполнена\n")
	} else {
		fmt.Printf("❌ Требуется вход\n")
	}

	return nil
}

func showSyncConflicts(ctx context.Context, app *client.App) error {
	fmt.Println("=== Неразрешенные конфликты ===")

	conflicts, err := app.ServerConflicts(ctx)
	if err != nil {
		return fmt.Errorf("ошибка получения конфликтов: %w", err)
	}

	if len(conflicts) == 0 {
		fmt.Println("✅ Конфликтов нет")
		return nil
	}

	fmt.Printf("Конфликтов: %d\n\n", len(conflicts))

	for _, c := range conflicts {
		fmt.Printf("#%d — запись %s (%s)\n", c.ID, c.RecordID, c.RecordKind)
		fmt.Printf("  Тип: %s\n", c.ConflictType)
		fmt.Printf("  Клиент изменил: %s\n", c.ClientMtime.Format("2006-01-02 15:04:05"))
		fmt.Printf("  Сервер изменил: %s\n", c.ServerMtime.Format("2006-01-02 15:04:05"))
		fmt.Printf("  Разрешить: leafwise sync --resolve %d --with client|server|newer\n", c.ID)
		fmt.Println()
	}

	return nil
}

func resolveConflict(ctx context.Context, app *client.App, conflictID int, resolution string) error {
	switch resolution {
	case "client", "server", "newer":
	default:
		return fmt.Errorf("неизвестная стратегия: %s (ожидается client, server или newer)", resolution)
	}

	if err := app.ResolveConflict(ctx, conflictID, resolution); err != nil {
		return fmt.Errorf("ошибка разрешения конфликта: %w", err)
	}

	fmt.Printf("✅ Конфликт #%d разрешен (%s)\n", conflictID, resolution)
	return nil
}

func init() {
	SyncCmd.Flags().BoolVar(&syncStatus, "status", false, "показать статус синхронизации")
	SyncCmd.Flags().BoolVar(&showConflicts, "conflicts", false, "показать неразрешенные конфликты")
	SyncCmd.Flags().IntVar(&resolveID, "resolve", 0, "ID конфликта для разрешения")
	SyncCmd.Flags().StringVar(&resolveWith, "with", "newer", "стратегия разрешения (client, server, newer)")
}
