package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"time"

	"github.com/shivtchandra/food-analysis/models"
)

const geminiBaseURL = "https://generativelanguage.googleapis.com/v1beta/models"

// ErrBadEstimate means the model reply had no parseable estimate; the tier
// fails as a whole and the cascade falls through to the heuristic. There is
// no partial credit for a reply with some of the fields.
var ErrBadEstimate = errors.New("no usable estimate in model response")

// ErrGeminiDisabled is returned when no API key is configured.
var ErrGeminiDisabled = errors.New("gemini estimates disabled: no API key")

var jsonObjectRe = regexp.MustCompile(`(?s)\{.*\}`)

// GeminiService asks a generative model for a rough macro estimate of a food
// name. It is the next-to-last resolution tier: cheap to run, uncertain by
// nature.
type GeminiService struct {
	apiKey  string
	model   string
	client  *http.Client
	baseURL string
}

// NewGeminiService builds the estimator. An empty apiKey disables it.
func NewGeminiService(apiKey, model string) *GeminiService {
	return &GeminiService{
		apiKey:  apiKey,
		model:   model,
		client:  &http.Client{Timeout: 15 * time.Second},
		baseURL: geminiBaseURL,
	}
}

// Enabled reports whether an API key is configured.
func (g *GeminiService) Enabled() bool {
	return g.apiKey != ""
}

type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// All four fields must be present or the estimate is rejected outright.
type macroEstimate struct {
	Calories *float64 `json:"calories"`
	Protein  *float64 `json:"protein"`
	Carbs    *float64 `json:"carbs"`
	Fats     *float64 `json:"fats"`
}

// Estimate returns an unscaled per-item nutrient vector guessed by the
// model. Carbs and fat are clamped to zero when negative; protein and
// calories are passed through as returned.
func (g *GeminiService) Estimate(ctx context.Context, name string) (models.NutrientVector, error) {
	if !g.Enabled() {
		return nil, ErrGeminiDisabled
	}

	prompt := fmt.Sprintf(
		"Estimate calories and macros for: %s\n"+
			`Return JSON: {"calories": number, "protein": number, "carbs": number, "fats": number}`,
		name,
	)

	text, err := g.generate(ctx, prompt)
	if err != nil {
		return nil, err
	}

	raw := jsonObjectRe.FindString(text)
	if raw == "" {
		return nil, ErrBadEstimate
	}
	var est macroEstimate
	if err := json.Unmarshal([]byte(raw), &est); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadEstimate, err)
	}
	if est.Calories == nil || est.Protein == nil || est.Carbs == nil || est.Fats == nil {
		return nil, ErrBadEstimate
	}

	vec := models.NutrientVector{
		models.KeyCalories:     *est.Calories,
		models.KeyProtein:      *est.Protein,
		models.KeyCarbohydrate: clampZero(*est.Carbs),
		models.KeyFat:          clampZero(*est.Fats),
	}
	return vec.Sanitize(), nil
}

func (g *GeminiService) generate(ctx context.Context, prompt string) (string, error) {
	reqBody := geminiRequest{
		Contents: []geminiContent{{Parts: []geminiPart{{Text: prompt}}}},
	}
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshaling Gemini request: %w", err)
	}

	u := fmt.Sprintf("%s/%s:generateContent?key=%s", g.baseURL, g.model, g.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("creating Gemini request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("calling Gemini API: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading Gemini response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("gemini API status %d: %s", resp.StatusCode, string(body))
	}

	var gr geminiResponse
	if err := json.Unmarshal(body, &gr); err != nil {
		return "", fmt.Errorf("parsing Gemini response: %w", err)
	}
	if len(gr.Candidates) == 0 || len(gr.Candidates[0].Content.Parts) == 0 {
		return "", ErrBadEstimate
	}
	return gr.Candidates[0].Content.Parts[0].Text, nil
}

func clampZero(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}
