package externalapi

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/pageza/dietary-compliance-engine/internal/metrics"
)

const (
	cacheMaxEntries = 500
	cacheTTL        = 1 * time.Hour
)

type cacheEntry struct {
	result Result
	at     time.Time
}

// Fetcher tries USDA FDC then Open Food Facts, with a small in-memory
// cache in front of both. This cache is intentionally not Redis: it is
// a single-process, short-lived memo of API calls already made in this
// run, separate from any shared HTTP response cache the server might
// also keep.
type Fetcher struct {
	usda  *USDAConnector
	off   *OpenFoodFactsConnector
	offOn bool
	log   *zap.Logger
	mu    sync.Mutex
	cache map[string]cacheEntry
}

func NewFetcher(apiKey string, openFoodFactsEnabled bool, timeout time.Duration, log *zap.Logger) *Fetcher {
	client := &http.Client{Timeout: timeout}
	return &Fetcher{
		usda:  NewUSDAConnector(apiKey, client, log),
		off:   NewOpenFoodFactsConnector(client, log),
		offOn: openFoodFactsEnabled,
		log:   log,
		cache: make(map[string]cacheEntry),
	}
}

func cacheKey(normalizedQuery string) string {
	sum := sha256.Sum256([]byte(normalizedQuery))
	return hex.EncodeToString(sum[:])[:32]
}

// FetchIngredient tries USDA FDC (if an API key is configured), then
// Open Food Facts if USDA gave nothing or only a low-confidence result.
// The best available result is returned, never an error: a total
// failure comes back as a nil-ingredient Result with ConfidenceLow.
func (f *Fetcher) FetchIngredient(ctx context.Context, normalizedKey string, useCache bool) Result {
	key := cacheKey(normalizedKey)
	if useCache {
		f.mu.Lock()
		entry, ok := f.cache[key]
		f.mu.Unlock()
		if ok && time.Since(entry.at) < cacheTTL {
			metrics.ObserveCacheHit("external_api")
			return entry.result
		}
		metrics.ObserveCacheMiss("external_api")
	}

	query := strings.TrimSpace(strings.ReplaceAll(normalizedKey, "_", " "))

	var best *Result
	if f.usda.APIKey != "" {
		start := time.Now()
		res := f.usda.Fetch(ctx, query)
		outcome := "miss"
		if res.Ingredient != nil {
			outcome = "hit"
		}
		metrics.ObserveExternalAPICall("usda_fdc", outcome, time.Since(start))
		if f.log != nil {
			f.log.Info("enrichment api fetch",
				zap.String("connector", "usda_fdc"),
				zap.Bool("success", res.Ingredient != nil),
				zap.String("confidence", string(res.Confidence)),
			)
		}
		if res.Ingredient != nil && res.Confidence != ConfidenceLow {
			best = &res
		} else if res.Ingredient != nil && best == nil {
			best = &res
		}
	} else if f.log != nil {
		f.log.Warn("enrichment skip usda_fdc: no api key configured")
	}

	if f.offOn && (best == nil || best.Confidence == ConfidenceLow) {
		start := time.Now()
		res := f.off.Fetch(ctx, query)
		outcome := "miss"
		if res.Ingredient != nil {
			outcome = "hit"
		}
		metrics.ObserveExternalAPICall("open_food_facts", outcome, time.Since(start))
		if f.log != nil {
			f.log.Info("enrichment api fetch",
				zap.String("connector", "open_food_facts"),
				zap.Bool("success", res.Ingredient != nil),
				zap.String("confidence", string(res.Confidence)),
			)
		}
		if res.Ingredient != nil {
			if best == nil || (res.Confidence == ConfidenceHigh && best.Confidence != ConfidenceHigh) {
				best = &res
			} else if best.Confidence == ConfidenceMedium && res.Confidence == ConfidenceHigh {
				best = &res
			}
		}
	}

	var result Result
	if best == nil {
		result = Result{Confidence: ConfidenceLow, Source: "none", Summary: "no_result"}
	} else {
		result = *best
	}

	if f.log != nil {
		if result.Ingredient == nil {
			f.log.Info("external_lookup failed",
				zap.String("normalized_key", truncate(normalizedKey, 80)),
				zap.String("source", result.Source),
			)
		} else {
			f.log.Info("external_lookup resolved",
				zap.String("normalized_key", truncate(normalizedKey, 80)),
				zap.String("canonical_name", truncate(result.Ingredient.CanonicalName, 80)),
				zap.String("source", result.Source),
				zap.String("confidence", string(result.Confidence)),
			)
		}
	}

	if useCache {
		f.mu.Lock()
		if len(f.cache) < cacheMaxEntries {
			f.cache[key] = cacheEntry{result: result, at: time.Now()}
		}
		f.mu.Unlock()
	}

	return result
}
