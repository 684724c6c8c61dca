package externalapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestUSDAConnectorHighConfidenceMatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"foods":[{"description":"Almond milk, unsweetened","fdcId":1,"foodCategory":"Dairy and Egg Products"}]}`))
	}))
	defer srv.Close()

	c := NewUSDAConnector("test-key", srv.Client(), nil)
	c.baseURL = srv.URL

	res := c.Fetch(context.Background(), "almond milk")
	if res.Ingredient == nil {
		t.Fatal("expected ingredient, got nil")
	}
	if res.Confidence != ConfidenceHigh {
		t.Fatalf("confidence = %v, want high", res.Confidence)
	}
	if res.Ingredient.DairySource {
		t.Fatal("expected plant override to prevent dairy_source classification for almond milk")
	}
	if !res.Ingredient.PlantOrigin {
		t.Fatal("expected almond milk to classify as plant_origin")
	}
}

func TestUSDAConnectorNoAPIKey(t *testing.T) {
	c := NewUSDAConnector("", http.DefaultClient, nil)
	res := c.Fetch(context.Background(), "salt")
	if res.Ingredient != nil || res.Confidence != ConfidenceLow {
		t.Fatalf("expected low-confidence empty result without api key, got %+v", res)
	}
}

func TestOpenFoodFactsConnectorClassifiesVeganTag(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"products":[{"product_name":"Vegan cheese block","labels_tags":["en:vegan"]}]}`))
	}))
	defer srv.Close()

	c := NewOpenFoodFactsConnector(srv.Client(), nil)
	c.baseURL = srv.URL

	res := c.Fetch(context.Background(), "vegan cheese")
	if res.Ingredient == nil {
		t.Fatal("expected ingredient")
	}
	if res.Ingredient.AnimalOrigin || res.Ingredient.DairySource {
		t.Fatalf("vegan-tagged product should not classify as animal/dairy: %+v", res.Ingredient)
	}
}

func TestFetcherFallsBackToOpenFoodFactsOnLowConfidence(t *testing.T) {
	usdaSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"foods":[]}`))
	}))
	defer usdaSrv.Close()
	offSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"products":[{"product_name":"Tapioca starch"}]}`))
	}))
	defer offSrv.Close()

	f := NewFetcher("test-key", true, 5*time.Second, nil)
	f.usda.baseURL = usdaSrv.URL
	f.off.baseURL = offSrv.URL

	res := f.FetchIngredient(context.Background(), "tapioca starch", false)
	if res.Ingredient == nil {
		t.Fatal("expected fallback to open_food_facts to resolve an ingredient")
	}
	if res.Source != "open_food_facts" {
		t.Fatalf("source = %s, want open_food_facts", res.Source)
	}
}

func TestFetcherCachesResult(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"foods":[{"description":"Salt","fdcId":1,"foodCategory":"Spices and Herbs"}]}`))
	}))
	defer srv.Close()

	f := NewFetcher("test-key", false, 5*time.Second, nil)
	f.usda.baseURL = srv.URL

	f.FetchIngredient(context.Background(), "salt", true)
	f.FetchIngredient(context.Background(), "salt", true)
	if calls != 1 {
		t.Fatalf("expected cache to prevent a second API call, got %d calls", calls)
	}
}

func TestCacheKeyIsDeterministic(t *testing.T) {
	if cacheKey("peanut butter") != cacheKey("peanut butter") {
		t.Fatal("expected deterministic cache key")
	}
	if len(cacheKey("peanut butter")) != 32 {
		t.Fatalf("expected 32-char cache key, got %d", len(cacheKey("peanut butter")))
	}
}
