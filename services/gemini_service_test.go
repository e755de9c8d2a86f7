package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shivtchandra/food-analysis/models"
)

func geminiReply(text string) string {
	resp := map[string]any{
		"candidates": []map[string]any{
			{"content": map[string]any{"parts": []map[string]any{{"text": text}}}},
		},
	}
	b, _ := json.Marshal(resp)
	return string(b)
}

func newTestGemini(t *testing.T, replyText string) *GeminiService {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		fmt.Fprint(w, geminiReply(replyText))
	}))
	t.Cleanup(srv.Close)

	svc := NewGeminiService("test-key", "test-model")
	svc.baseURL = srv.URL
	return svc
}

func TestEstimateParsesJSON(t *testing.T) {
	svc := newTestGemini(t, `{"calories": 540, "protein": 21, "carbs": 60, "fats": 24}`)

	vec, err := svc.Estimate(context.Background(), "chicken burger")
	require.NoError(t, err)
	assert.InDelta(t, 540, vec[models.KeyCalories], 1e-9)
	assert.InDelta(t, 21, vec[models.KeyProtein], 1e-9)
	assert.InDelta(t, 60, vec[models.KeyCarbohydrate], 1e-9)
	assert.InDelta(t, 24, vec[models.KeyFat], 1e-9)
}

func TestEstimateExtractsJSONFromProse(t *testing.T) {
	svc := newTestGemini(t, "Sure! Here is my estimate:\n```json\n{\"calories\": 300, \"protein\": 10, \"carbs\": 40, \"fats\": 9}\n```\nHope that helps.")

	vec, err := svc.Estimate(context.Background(), "veg wrap")
	require.NoError(t, err)
	assert.InDelta(t, 300, vec[models.KeyCalories], 1e-9)
}

func TestEstimateClampAsymmetry(t *testing.T) {
	// Negative carbs/fats are clamped to zero; negative protein and calories
	// pass through as returned.
	svc := newTestGemini(t, `{"calories": -120, "protein": -5, "carbs": -12, "fats": -3}`)

	vec, err := svc.Estimate(context.Background(), "diet soda")
	require.NoError(t, err)
	assert.Equal(t, -120.0, vec[models.KeyCalories])
	assert.Equal(t, -5.0, vec[models.KeyProtein])
	assert.Equal(t, 0.0, vec[models.KeyCarbohydrate])
	assert.Equal(t, 0.0, vec[models.KeyFat])
}

func TestEstimateMissingFieldFails(t *testing.T) {
	svc := newTestGemini(t, `{"calories": 200, "protein": 8}`)

	_, err := svc.Estimate(context.Background(), "mystery dish")
	assert.ErrorIs(t, err, ErrBadEstimate)
}

func TestEstimateNoJSONFails(t *testing.T) {
	svc := newTestGemini(t, "I cannot estimate that, sorry.")

	_, err := svc.Estimate(context.Background(), "mystery dish")
	assert.ErrorIs(t, err, ErrBadEstimate)
}

func TestEstimateMalformedJSONFails(t *testing.T) {
	svc := newTestGemini(t, `{"calories": oops}`)

	_, err := svc.Estimate(context.Background(), "mystery dish")
	assert.ErrorIs(t, err, ErrBadEstimate)
}

func TestEstimateUpstreamErrorFails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	t.Cleanup(srv.Close)

	svc := NewGeminiService("test-key", "test-model")
	svc.baseURL = srv.URL

	_, err := svc.Estimate(context.Background(), "anything")
	assert.Error(t, err)
}

func TestEstimateDisabledWithoutKey(t *testing.T) {
	svc := NewGeminiService("", "test-model")

	_, err := svc.Estimate(context.Background(), "anything")
	assert.ErrorIs(t, err, ErrGeminiDisabled)
	assert.False(t, svc.Enabled())
}
