package services

import (
	"fmt"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	fuzzy "github.com/paul-mannino/go-fuzzywuzzy"

	"github.com/shivtchandra/food-analysis/models"
	"github.com/shivtchandra/food-analysis/utils"
)

// LocalMatcher resolves free-text names against the in-memory food list.
// Match results are memoized in a bounded LRU keyed by normalized name and
// threshold; the cache is an optimization layer only and never changes what
// Match returns.
type LocalMatcher struct {
	store *FoodStore
	memo  *lru.Cache[string, matchResult]
}

type matchResult struct {
	entry *models.FoodEntry
	score int
	ok    bool
}

// NewLocalMatcher builds a matcher over the shared food store. cacheSize
// bounds the memo cache; sizes below 1 fall back to a small default.
func NewLocalMatcher(store *FoodStore, cacheSize int) *LocalMatcher {
	if cacheSize < 1 {
		cacheSize = 128
	}
	// lru.New only errors on a non-positive size, which is guarded above.
	memo, _ := lru.New[string, matchResult](cacheSize)
	return &LocalMatcher{store: store, memo: memo}
}

// Match finds the best local entry for name. Scoring: exact normalized
// equality 100 (immediate return), bidirectional substring containment 85,
// token-set fuzzy similarity otherwise. The best candidate is returned only
// when its score reaches threshold; ties keep the first entry encountered.
func (m *LocalMatcher) Match(name string, threshold int) (*models.FoodEntry, int, bool) {
	q := utils.NormalizeName(name)
	if q == "" || m.store.Len() == 0 {
		return nil, 0, false
	}

	key := fmt.Sprintf("%s|%d", q, threshold)
	if r, ok := m.memo.Get(key); ok {
		return r.entry, r.score, r.ok
	}

	r := m.match(q, threshold)
	m.memo.Add(key, r)
	return r.entry, r.score, r.ok
}

func (m *LocalMatcher) match(q string, threshold int) matchResult {
	entries := m.store.Entries()

	var best *models.FoodEntry
	bestScore := 0

	for i := range entries {
		e := &entries[i]
		if e.Norm == q {
			return matchResult{entry: e, score: 100, ok: true}
		}
		if containsEither(q, e.Norm) && bestScore < 85 {
			best, bestScore = e, 85
		}
	}

	for i := range entries {
		e := &entries[i]
		if sc := fuzzy.TokenSetRatio(q, e.Norm); sc > bestScore {
			best, bestScore = e, sc
		}
	}

	if best != nil && bestScore >= threshold {
		return matchResult{entry: best, score: bestScore, ok: true}
	}
	return matchResult{}
}

func containsEither(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	return strings.Contains(a, b) || strings.Contains(b, a)
}
