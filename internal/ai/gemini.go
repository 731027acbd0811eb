package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"google.golang.org/api/generativelanguage/v1beta"
	"google.golang.org/api/option"

	"finas/internal/core"
)

const DefaultModel = "gemini-3-flash-preview"

// Gemini talks to the Generative Language API. Prompts and answers are in
// Bahasa Indonesia to match the rest of the application.
type Gemini struct {
	service *generativelanguage.Service
	model   string
}

func NewGemini(ctx context.Context, apiKey, model string) (*Gemini, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("create gemini advisor: empty API key")
	}
	if model == "" {
		model = DefaultModel
	}

	service, err := generativelanguage.NewService(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("create generative language service: %w", err)
	}

	return &Gemini{service: service, model: model}, nil
}

// advicePayload keeps the prompt small; descriptions are trimmed to the
// fields the model actually needs.
type advicePayload struct {
	Date     string `json:"date"`
	Amount   int64  `json:"amount"`
	Type     string `json:"type"`
	Category string `json:"category"`
	Desc     string `json:"desc"`
}

func (g *Gemini) FinancialAdvice(ctx context.Context, transactions []core.Transaction) (core.FinancialInsight, error) {
	payload := make([]advicePayload, 0, len(transactions))
	for _, t := range transactions {
		payload = append(payload, advicePayload{
			Date:     t.Date.String(),
			Amount:   t.Amount,
			Type:     string(t.Type),
			Category: string(t.Category),
			Desc:     t.Description,
		})
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return core.FinancialInsight{}, fmt.Errorf("marshal advice payload: %w", err)
	}

	prompt := "Analisis data keuangan rumah tangga berikut dan berikan saran dalam Bahasa Indonesia. " +
		"Jawab hanya dengan JSON berbentuk {\"summary\": string, \"advice\": [string], \"warnings\": [string]}.\n" +
		string(data)

	text, err := g.generate(ctx, prompt, true)
	if err != nil {
		return core.FinancialInsight{}, fmt.Errorf("generate advice: %w", err)
	}

	insight, err := parseInsight(text)
	if err != nil {
		return core.FinancialInsight{}, fmt.Errorf("parse advice response: %w", err)
	}

	slog.InfoContext(ctx, "Generated financial advice",
		"model", g.model,
		"transactions", len(transactions))

	return insight, nil
}

func (g *Gemini) Categorize(ctx context.Context, description string) (core.Category, error) {
	names := make([]string, 0, len(core.AllCategories))
	for _, c := range core.AllCategories {
		names = append(names, string(c))
	}

	prompt := "Kategorikan transaksi berikut: \"" + description + "\". " +
		"Pilih satu dari kategori ini saja: " + strings.Join(names, ", ") + ". " +
		"Hanya kembalikan nama kategorinya saja."

	text, err := g.generate(ctx, prompt, false)
	if err != nil {
		return "", fmt.Errorf("generate category: %w", err)
	}

	cat, ok := matchCategory(text)
	if !ok {
		slog.WarnContext(ctx, "Model returned no known category, using catch-all",
			"description", description,
			"response", text)
		return core.CategoryLainLain, nil
	}
	return cat, nil
}

func (g *Gemini) generate(ctx context.Context, prompt string, jsonResponse bool) (string, error) {
	req := &generativelanguage.GenerateContentRequest{
		Contents: []*generativelanguage.Content{
			{Parts: []*generativelanguage.Part{{Text: prompt}}},
		},
	}
	if jsonResponse {
		req.GenerationConfig = &generativelanguage.GenerationConfig{
			ResponseMimeType: "application/json",
		}
	}

	resp, err := g.service.Models.GenerateContent("models/"+g.model, req).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("call model %s: %w", g.model, err)
	}

	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if part.Text != "" {
				return part.Text, nil
			}
		}
	}
	return "", fmt.Errorf("model %s returned no text candidates", g.model)
}

// parseInsight reads the model's JSON answer. Models sometimes wrap JSON in
// prose or code fences, so the parse retries on the outermost brace pair.
func parseInsight(text string) (core.FinancialInsight, error) {
	var insight core.FinancialInsight
	if err := json.Unmarshal([]byte(text), &insight); err == nil {
		return insight, nil
	}

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end <= start {
		return core.FinancialInsight{}, fmt.Errorf("no JSON object in response")
	}
	if err := json.Unmarshal([]byte(text[start:end+1]), &insight); err != nil {
		return core.FinancialInsight{}, err
	}
	return insight, nil
}

// matchCategory picks the first known category mentioned in the response,
// in enumeration order so "Gaji Utama" wins over a stray "Lain-lain".
func matchCategory(text string) (core.Category, bool) {
	for _, c := range core.AllCategories {
		if strings.Contains(text, string(c)) {
			return c, true
		}
	}
	return "", false
}
