// Package ai — клиент Gemini для распознавания растений и сезонных
// рекомендаций по уходу.
package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"golang.org/x/exp/slog"
	"google.golang.org/genai"

	"leafwise/internal/domain/plant"
	"leafwise/internal/domain/plantid"
	"leafwise/internal/domain/seasonal"
)

const defaultModel = "gemini-2.0-flash"

const identifyPrompt = `You are a botanist. Identify the houseplant in the photo.
Respond with JSON only: an array of up to 5 candidates, each
{"scientific_name": string, "common_name": string, "confidence": number 0..1, "care_summary": string}.
Order by confidence descending.`

const forecastPromptTmpl = `You are a houseplant care expert. The plant is %q (species %q),
kept at %q, hemisphere %q. Current season: %s.
Respond with JSON only:
{"watering_interval_days": int, "target_lux_min": number, "target_lux_max": number,
 "recommendations": [{"category": "watering"|"light"|"fertilizer"|"humidity"|"repotting", "advice": string}]}.`

type Client struct {
	client *genai.Client
	model  string
	log    *slog.Logger
}

func New(ctx context.Context, apiKey, model string, log *slog.Logger) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("GenAI API key is required")
	}
	if model == "" {
		model = defaultModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("create GenAI client: %w", err)
	}

	return &Client{
		client: client,
		model:  model,
		log:    log.With(slog.String("component", "genai")),
	}, nil
}

func (c *Client) ModelName() string {
	return c.model
}

// IdentifyPlant отправляет фотографию модели и разбирает JSON с кандидатами
func (c *Client) IdentifyPlant(ctx context.Context, image []byte, mimeType string) ([]plantid.Candidate, error) {
	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromBytes(image, mimeType),
			genai.NewPartFromText(identifyPrompt),
		}, genai.RoleUser),
	}

	result, err := c.client.Models.GenerateContent(ctx, c.model, contents,
		&genai.GenerateContentConfig{
			ResponseMIMEType: "application/json",
		})
	if err != nil {
		return nil, fmt.Errorf("GenAI identify failed: %w", err)
	}

	raw := strings.TrimSpace(result.Text())
	if raw == "" {
		return nil, fmt.Errorf("empty model response")
	}

	var candidates []plantid.Candidate
	if err := json.Unmarshal([]byte(stripFences(raw)), &candidates); err != nil {
		c.log.Warn("unparseable identify response", slog.String("response", truncate(raw, 200)))
		return nil, fmt.Errorf("parse model response: %w", err)
	}

	return candidates, nil
}

// ForecastCare запрашивает у модели сезонные рекомендации по уходу
func (c *Client) ForecastCare(ctx context.Context, p *plant.Plant, season seasonal.Season) (*seasonal.Forecast, error) {
	prompt := fmt.Sprintf(forecastPromptTmpl,
		p.Name, p.Species, p.Location, p.Hemisphere, season)

	contents := []*genai.Content{
		genai.NewContentFromText(prompt, genai.RoleUser),
	}

	result, err := c.client.Models.GenerateContent(ctx, c.model, contents,
		&genai.GenerateContentConfig{
			ResponseMIMEType: "application/json",
		})
	if err != nil {
		return nil, fmt.Errorf("GenAI forecast failed: %w", err)
	}

	raw := strings.TrimSpace(result.Text())
	if raw == "" {
		return nil, fmt.Errorf("empty model response")
	}

	var f seasonal.Forecast
	if err := json.Unmarshal([]byte(stripFences(raw)), &f); err != nil {
		c.log.Warn("unparseable forecast response", slog.String("response", truncate(raw, 200)))
		return nil, fmt.Errorf("parse model response: %w", err)
	}

	return &f, nil
}

// stripFences убирает обрамление ```json ... ```, которое модель
// иногда добавляет вопреки ResponseMIMEType
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(s, "```")
	}
	return strings.TrimSpace(s)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
