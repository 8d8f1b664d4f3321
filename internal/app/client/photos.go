package client

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cheggaaa/pb/v3"
	"github.com/google/uuid"

	"leafwise/internal/domain/telemetry"
)

const maxPhotoSize = 10 << 20 // 10 МБ

// UploadPhoto читает фотографию с диска и отправляет ее на сервер,
// показывая прогресс чтения. При недоступном сервере фотография
// встает в очередь синхронизации.
func (a *App) UploadPhoto(ctx context.Context, plantID int, path string, heightCm *float64) (string, error) {
	if plantID <= 0 {
		return "", fmt.Errorf("не указано растение")
	}

	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("файл недоступен: %w", err)
	}
	if info.Size() > maxPhotoSize {
		return "", fmt.Errorf("фотография больше %d МБ", maxPhotoSize>>20)
	}

	file, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("ошибка открытия файла: %w", err)
	}
	defer file.Close()

	bar := pb.New64(info.Size())
	bar.Set(pb.Bytes, true)
	bar.SetTemplate(`Чтение {{counters . }} {{bar . }} {{percent . }}`)
	bar.Start()
	defer bar.Finish()

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, bar.NewProxyReader(file)); err != nil {
		return "", fmt.Errorf("ошибка чтения файла: %w", err)
	}

	contentType := detectPhotoContentType(path, buf.Bytes())
	if !strings.HasPrefix(contentType, "image/") {
		return "", fmt.Errorf("файл не похож на изображение: %s", contentType)
	}

	req := telemetry.PhotoUploadRequest{
		ID:          uuid.NewString(),
		PlantID:     plantID,
		Data:        base64.StdEncoding.EncodeToString(buf.Bytes()),
		ContentType: contentType,
		HeightCm:    heightCm,
		TakenAt:     time.Now().UTC(),
		DeviceID:    a.deviceID,
	}

	id, err := a.httpClient.UploadPhoto(ctx, req)
	if err == nil {
		return id, nil
	}

	// Сервер недоступен — фотография уйдет при следующей синхронизации
	a.log.Debug("Сервер недоступен, фотография поставлена в очередь", "error", err)

	payload, merr := json.Marshal(req)
	if merr != nil {
		return "", fmt.Errorf("ошибка сериализации фотографии: %w", merr)
	}

	now := time.Now().UTC()
	item := &QueueItem{
		ID:         req.ID,
		Kind:       "growth_photo",
		Payload:    payload,
		Version:    1,
		State:      StatePending,
		ModifiedAt: now,
		CreatedAt:  now,
	}
	if qerr := a.storage.Enqueue(item); qerr != nil {
		return "", fmt.Errorf("ошибка постановки в очередь: %w", qerr)
	}

	return req.ID, nil
}

func detectPhotoContentType(path string, data []byte) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".webp":
		return "image/webp"
	case ".heic":
		return "image/heic"
	}

	return http.DetectContentType(data)
}

// ReadPhotoBase64 читает файл и кодирует его для запросов распознавания
func ReadPhotoBase64(path string) (data, contentType string, err error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", "", fmt.Errorf("ошибка чтения файла: %w", err)
	}
	if len(raw) > maxPhotoSize {
		return "", "", fmt.Errorf("фотография больше %d МБ", maxPhotoSize>>20)
	}

	contentType = detectPhotoContentType(path, raw)
	if !strings.HasPrefix(contentType, "image/") {
		return "", "", fmt.Errorf("файл не похож на изображение: %s", contentType)
	}

	return base64.StdEncoding.EncodeToString(raw), contentType, nil
}
