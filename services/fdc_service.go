package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/shivtchandra/food-analysis/models"
	"github.com/shivtchandra/food-analysis/utils"
)

const (
	fdcSearchURL = "https://api.nal.usda.gov/fdc/v1/foods/search"
	fdcFoodURL   = "https://api.nal.usda.gov/fdc/v1/food"

	fdcMaxAttempts = 3
	fdcPageSize    = 5
)

// ErrFDCDisabled is returned when no API key is configured: the tier is
// skipped silently rather than failed.
var ErrFDCDisabled = errors.New("fdc lookups disabled: no API key")

// errFDCClient marks a 4xx response, which is terminal and never retried.
type errFDCClient struct {
	status int
	body   string
}

func (e *errFDCClient) Error() string {
	return fmt.Sprintf("fdc client error %d: %s", e.status, e.body)
}

// FDCService resolves free-text queries against USDA FoodData Central, with
// a persistent on-disk cache in front of the network.
type FDCService struct {
	apiKey string
	client *http.Client
	cache  *FDCCache

	searchURL  string
	foodURL    string
	retryDelay time.Duration
}

// NewFDCService builds the resolver. An empty apiKey produces a disabled
// resolver whose Lookup always reports ErrFDCDisabled.
func NewFDCService(apiKey string, cache *FDCCache) *FDCService {
	return &FDCService{
		apiKey:     apiKey,
		client:     &http.Client{Timeout: 10 * time.Second},
		cache:      cache,
		searchURL:  fdcSearchURL,
		foodURL:    fdcFoodURL,
		retryDelay: time.Second,
	}
}

// Enabled reports whether an API key is configured.
func (s *FDCService) Enabled() bool {
	return s.apiKey != ""
}

type fdcSearchResponse struct {
	Foods []struct {
		FdcID       int64  `json:"fdcId"`
		Description string `json:"description"`
	} `json:"foods"`
}

type fdcFoodDetail struct {
	FoodNutrients []struct {
		Nutrient struct {
			Name     string `json:"name"`
			UnitName string `json:"unitName"`
		} `json:"nutrient"`
		NutrientName string   `json:"nutrientName"`
		Name         string   `json:"name"`
		Amount       *float64 `json:"amount"`
		Value        *float64 `json:"value"`
		UnitName     string   `json:"unitName"`
	} `json:"foodNutrients"`
	LabelNutrients map[string]struct {
		Value float64 `json:"value"`
	} `json:"labelNutrients"`
	ServingSize              float64 `json:"servingSize"`
	ServingSizeUnit          string  `json:"servingSizeUnit"`
	HouseholdServingFullText string  `json:"householdServingFullText"`
}

// Lookup resolves a query to an unscaled nutrient vector. The cache is
// checked first; on a hit the stored vector and provenance are returned
// unchanged. A miss searches FDC, takes the first result as-is, fetches its
// detail record, maps it onto canonical keys and persists the outcome. Empty
// outcomes are persisted too, so known-empty queries never hit the network twice.
func (s *FDCService) Lookup(ctx context.Context, query string) (models.NutrientVector, models.Provenance, error) {
	if !s.Enabled() {
		return nil, models.Provenance{Source: models.SourceDisabled}, ErrFDCDisabled
	}

	key := utils.NormalizeQuery(query)
	if entry, ok := s.cache.Get(key); ok {
		return entry.Nutrients, entry.Provenance, nil
	}

	search, err := s.search(ctx, query)
	if err != nil {
		return nil, models.Provenance{Source: models.SourceLookupFailed}, fmt.Errorf("fdc search %q: %w", query, err)
	}
	if len(search.Foods) == 0 {
		prov := models.Provenance{Source: models.SourceNoResults}
		s.store(key, nil, prov)
		return nil, prov, nil
	}

	// First result wins; no re-ranking against the query.
	chosen := search.Foods[0]
	detail, err := s.detail(ctx, chosen.FdcID)
	if err != nil {
		return nil, models.Provenance{Source: models.SourceLookupFailed}, fmt.Errorf("fdc detail %d: %w", chosen.FdcID, err)
	}

	nutrients := extractNutrients(detail)
	prov := models.Provenance{
		Source:          models.SourceFDC,
		FdcID:           chosen.FdcID,
		Description:     chosen.Description,
		ServingSize:     detail.ServingSize,
		ServingSizeUnit: detail.ServingSizeUnit,
		HouseholdText:   detail.HouseholdServingFullText,
	}
	s.store(key, nutrients, prov)
	return nutrients, prov, nil
}

func (s *FDCService) store(key string, nutrients models.NutrientVector, prov models.Provenance) {
	if nutrients == nil {
		nutrients = models.NutrientVector{}
	}
	entry := models.CacheEntry{
		Nutrients:  nutrients,
		Provenance: prov,
		Timestamp:  time.Now().Unix(),
	}
	if err := s.cache.Put(key, entry); err != nil {
		slog.Warn("failed to persist FDC cache", "query", key, "error", err)
	}
}

func (s *FDCService) search(ctx context.Context, query string) (*fdcSearchResponse, error) {
	params := url.Values{}
	params.Set("query", query)
	params.Set("pageSize", fmt.Sprint(fdcPageSize))

	body, err := s.get(ctx, s.searchURL, params)
	if err != nil {
		return nil, err
	}
	var out fdcSearchResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("parsing search response: %w", err)
	}
	return &out, nil
}

func (s *FDCService) detail(ctx context.Context, fdcID int64) (*fdcFoodDetail, error) {
	body, err := s.get(ctx, fmt.Sprintf("%s/%d", s.foodURL, fdcID), url.Values{})
	if err != nil {
		return nil, err
	}
	var out fdcFoodDetail
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("parsing food detail: %w", err)
	}
	return &out, nil
}

// get issues a GET with the API key attached. 4xx responses fail
// immediately; timeouts and 5xx responses are retried up to fdcMaxAttempts
// with linearly increasing delay.
func (s *FDCService) get(ctx context.Context, rawURL string, params url.Values) ([]byte, error) {
	params.Set("api_key", s.apiKey)
	full := rawURL + "?" + params.Encode()

	var lastErr error
	for attempt := 0; attempt < fdcMaxAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(time.Duration(attempt) * s.retryDelay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		body, err := s.getOnce(ctx, full)
		if err == nil {
			return body, nil
		}
		var clientErr *errFDCClient
		if errors.As(err, &clientErr) {
			return nil, err
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		lastErr = err
	}
	return nil, fmt.Errorf("fdc request failed after %d attempts: %w", fdcMaxAttempts, lastErr)
}

func (s *FDCService) getOnce(ctx context.Context, fullURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling FDC: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading FDC response: %w", err)
	}
	if resp.StatusCode >= 400 && resp.StatusCode < 500 {
		return nil, &errFDCClient{status: resp.StatusCode, body: string(body)}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fdc status %d: %s", resp.StatusCode, string(body))
	}
	return body, nil
}
