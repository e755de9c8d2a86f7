package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shivtchandra/food-analysis/models"
)

const fdcSearchBody = `{
	"foods": [
		{"fdcId": 171688, "description": "Apples, raw, with skin"},
		{"fdcId": 999999, "description": "Apple juice"}
	]
}`

const fdcDetailBody = `{
	"foodNutrients": [
		{"nutrient": {"name": "Energy", "unitName": "kcal"}, "amount": 52},
		{"nutrient": {"name": "Protein", "unitName": "g"}, "amount": 0.26},
		{"nutrient": {"name": "Sodium, Na", "unitName": "g"}, "amount": 0.001},
		{"nutrient": {"name": "Obscure compound", "unitName": "g"}, "amount": 9}
	],
	"servingSize": 100,
	"servingSizeUnit": "g"
}`

func newTestFDC(t *testing.T, handler http.Handler) (*FDCService, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	svc := NewFDCService("test-key", NewFDCCache(filepath.Join(t.TempDir(), "cache.json")))
	svc.searchURL = srv.URL + "/search"
	svc.foodURL = srv.URL + "/food"
	svc.retryDelay = time.Millisecond
	return svc, srv
}

func TestLookupMapsNutrients(t *testing.T) {
	svc, _ := newTestFDC(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/search":
			assert.Equal(t, "apple", r.URL.Query().Get("query"))
			assert.Equal(t, "test-key", r.URL.Query().Get("api_key"))
			fmt.Fprint(w, fdcSearchBody)
		case "/food/171688":
			fmt.Fprint(w, fdcDetailBody)
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))

	nutrients, prov, err := svc.Lookup(context.Background(), "apple")
	require.NoError(t, err)

	assert.Equal(t, models.SourceFDC, prov.Source)
	assert.Equal(t, int64(171688), prov.FdcID) // first search result, unconditionally
	assert.Equal(t, "Apples, raw, with skin", prov.Description)
	assert.Equal(t, 100.0, prov.ServingSize)

	assert.InDelta(t, 52, nutrients[models.KeyCalories], 1e-9)
	assert.InDelta(t, 0.26, nutrients[models.KeyProtein], 1e-9)
	// g → mg conversion on sodium
	assert.InDelta(t, 1.0, nutrients[models.KeySodium], 1e-9)
	// unmapped nutrient names are dropped
	assert.Len(t, nutrients, 3)
}

func TestLookupLabelNutrientsFallback(t *testing.T) {
	detail := `{
		"foodNutrients": [],
		"labelNutrients": {
			"calories": {"value": 250},
			"carbohydrates": {"value": 30},
			"unknownLabel": {"value": 1}
		}
	}`
	svc, _ := newTestFDC(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/search" {
			fmt.Fprint(w, `{"foods":[{"fdcId":1,"description":"Branded bar"}]}`)
			return
		}
		fmt.Fprint(w, detail)
	}))

	nutrients, _, err := svc.Lookup(context.Background(), "branded bar")
	require.NoError(t, err)
	assert.InDelta(t, 250, nutrients[models.KeyCalories], 1e-9)
	assert.InDelta(t, 30, nutrients[models.KeyCarbohydrate], 1e-9)
	assert.Len(t, nutrients, 2)
}

func TestLookupCacheRoundTrip(t *testing.T) {
	var searchCalls, detailCalls atomic.Int32
	svc, _ := newTestFDC(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/search" {
			searchCalls.Add(1)
			fmt.Fprint(w, fdcSearchBody)
			return
		}
		detailCalls.Add(1)
		fmt.Fprint(w, fdcDetailBody)
	}))

	first, prov1, err := svc.Lookup(context.Background(), "Apple")
	require.NoError(t, err)
	second, prov2, err := svc.Lookup(context.Background(), "  apple ")
	require.NoError(t, err)

	// normalized queries share one cache key; exactly one external call pair
	assert.Equal(t, int32(1), searchCalls.Load())
	assert.Equal(t, int32(1), detailCalls.Load())
	assert.Equal(t, first, second)
	assert.Equal(t, prov1, prov2)
}

func TestLookupNoResultsCached(t *testing.T) {
	var searchCalls atomic.Int32
	svc, _ := newTestFDC(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		searchCalls.Add(1)
		fmt.Fprint(w, `{"foods":[]}`)
	}))

	nutrients, prov, err := svc.Lookup(context.Background(), "zxqw food")
	require.NoError(t, err)
	assert.Empty(t, nutrients)
	assert.Equal(t, models.SourceNoResults, prov.Source)

	// the empty outcome is cached too
	_, _, err = svc.Lookup(context.Background(), "zxqw food")
	require.NoError(t, err)
	assert.Equal(t, int32(1), searchCalls.Load())
}

func TestLookupClientErrorNoRetry(t *testing.T) {
	var calls atomic.Int32
	svc, _ := newTestFDC(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "bad key", http.StatusForbidden)
	}))

	_, prov, err := svc.Lookup(context.Background(), "apple")
	require.Error(t, err)
	assert.Equal(t, models.SourceLookupFailed, prov.Source)
	assert.Equal(t, int32(1), calls.Load())

	var clientErr *errFDCClient
	assert.True(t, errors.As(err, &clientErr))
}

func TestLookupServerErrorRetries(t *testing.T) {
	var calls atomic.Int32
	svc, _ := newTestFDC(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "upstream down", http.StatusBadGateway)
	}))

	_, prov, err := svc.Lookup(context.Background(), "apple")
	require.Error(t, err)
	assert.Equal(t, models.SourceLookupFailed, prov.Source)
	assert.Equal(t, int32(3), calls.Load())
}

func TestLookupRecoversMidRetry(t *testing.T) {
	var calls atomic.Int32
	svc, _ := newTestFDC(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/search" && calls.Add(1) == 1 {
			http.Error(w, "flaky", http.StatusInternalServerError)
			return
		}
		if r.URL.Path == "/search" {
			fmt.Fprint(w, fdcSearchBody)
			return
		}
		fmt.Fprint(w, fdcDetailBody)
	}))

	nutrients, prov, err := svc.Lookup(context.Background(), "apple")
	require.NoError(t, err)
	assert.Equal(t, models.SourceFDC, prov.Source)
	assert.NotEmpty(t, nutrients)
}

func TestLookupDisabledWithoutKey(t *testing.T) {
	svc := NewFDCService("", NewFDCCache(filepath.Join(t.TempDir(), "cache.json")))

	_, prov, err := svc.Lookup(context.Background(), "apple")
	assert.ErrorIs(t, err, ErrFDCDisabled)
	assert.Equal(t, models.SourceDisabled, prov.Source)
	assert.False(t, svc.Enabled())
}
