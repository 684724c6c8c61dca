package intent

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/pageza/dietary-compliance-engine/internal/utils"
)

const systemPrompt = `You are a JSON parser for a grocery safety assistant. Your ONLY job is to extract structured data from user messages.

Given a user message, return a JSON object with these fields:
- "intent": one of "PROFILE_UPDATE", "INGREDIENT_QUERY", "MIXED", "GREETING", "GENERAL_QUESTION"
- "dietary_preference": string or null (e.g. "Jain", "Vegan", "Halal", "Kosher", "Hindu Veg", "Vegetarian", "Pescatarian", null)
- "ingredients": list of ingredient strings, or empty list
- "allergens": list of allergen strings the user mentions having, or empty list
- "lifestyle": list like ["no alcohol", "no onion"] or empty list
- "remove_allergens": list of allergens user wants removed, or empty list
- "is_greeting": true if the message is a greeting or conversational (hi, thanks, bye, how are you)
- "is_general_question": true if asking about food science/nutrition in general (not about specific ingredient safety)

RULES:
- Extract ACTUAL ingredient names only. "protein bar" is a product, "eggs" is an ingredient.
- Do NOT invent ingredients. Only extract what the user explicitly mentions.
- "can jain eat onion?" → dietary_preference="Jain", ingredients=["onion"], intent="MIXED"
- "is pork halal?" → dietary_preference="Halal", ingredients=["pork"], intent="MIXED"
- "hi how are you" → is_greeting=true, intent="GREETING"
- "eggs, milk, flour" → ingredients=["eggs","milk","flour"], intent="INGREDIENT_QUERY"
- Return ONLY valid JSON. No markdown, no explanation.`

// LLMFallback calls a local Ollama model to extract structured intent
// from a query the rule-based detector couldn't parse. The compliance
// engine itself stays fully deterministic; the LLM only parses input.
type LLMFallback struct {
	URL    string
	Model  string
	Client *http.Client
	Log    *zap.Logger
}

func NewLLMFallback(url, model string, timeout time.Duration, log *zap.Logger) *LLMFallback {
	return &LLMFallback{URL: url, Model: model, Client: &http.Client{Timeout: timeout}, Log: log}
}

type ollamaRequest struct {
	Model   string                 `json:"model"`
	Prompt  string                 `json:"prompt"`
	System  string                 `json:"system"`
	Stream  bool                   `json:"stream"`
	Options map[string]interface{} `json:"options"`
}

type ollamaResponse struct {
	Response string `json:"response"`
}

type llmExtraction struct {
	Intent             string   `json:"intent"`
	DietaryPreference  *string  `json:"dietary_preference"`
	Ingredients        []string `json:"ingredients"`
	Allergens          []string `json:"allergens"`
	Lifestyle          []string `json:"lifestyle"`
	RemoveAllergens    []string `json:"remove_allergens"`
	IsGreeting         bool     `json:"is_greeting"`
	IsGeneralQuestion  bool     `json:"is_general_question"`
}

// Extract returns a ParsedIntent from an LLM-based read of query, or
// false if the model is unreachable or its response can't be parsed.
func (f *LLMFallback) Extract(ctx context.Context, query string) (ParsedIntent, bool) {
	if f == nil || f.URL == "" || strings.TrimSpace(query) == "" {
		return ParsedIntent{}, false
	}

	raw, err := f.callOllama(ctx, query)
	if err != nil {
		if f.Log != nil {
			f.Log.Warn("llm intent call failed", zap.Error(err))
		}
		return ParsedIntent{}, false
	}

	extracted, ok := parseJSONResponse(raw)
	if !ok {
		if f.Log != nil {
			f.Log.Warn("llm intent response unparseable", zap.String("raw", truncateText(raw, 200)))
		}
		return ParsedIntent{}, false
	}

	result := normalizeExtraction(extracted, query)
	if f.Log != nil {
		f.Log.Info("llm intent extracted",
			zap.String("query", truncateText(query, 60)),
			zap.String("intent", string(result.Intent)),
			zap.Strings("ingredients", result.Ingredients),
		)
	}
	return result, true
}

func (f *LLMFallback) callOllama(ctx context.Context, query string) (string, error) {
	prompt := fmt.Sprintf("User message: %q\n\nExtract the structured JSON:", query)
	payload := ollamaRequest{
		Model:  f.Model,
		Prompt: prompt,
		System: systemPrompt,
		Stream: false,
		Options: map[string]interface{}{
			"temperature": 0.0,
			"num_predict": 300,
		},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	var data []byte
	err = utils.Retry(2, 200*time.Millisecond, func() error {
		req, reqErr := http.NewRequestWithContext(ctx, http.MethodPost, f.URL, bytes.NewReader(body))
		if reqErr != nil {
			return reqErr
		}
		req.Header.Set("Content-Type", "application/json")

		resp, doErr := f.Client.Do(req)
		if doErr != nil {
			return doErr
		}
		defer resp.Body.Close()
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return fmt.Errorf("ollama returned status %d", resp.StatusCode)
		}

		data, doErr = io.ReadAll(resp.Body)
		return doErr
	})
	if err != nil {
		return "", err
	}
	var parsed ollamaResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return "", err
	}
	return strings.TrimSpace(parsed.Response), nil
}

var fencedJSONRE = regexp.MustCompile("(?i)```(?:json)?\\s*")
var embeddedJSONRE = regexp.MustCompile(`(?s)\{[^{}]*\}`)

func parseJSONResponse(raw string) (llmExtraction, bool) {
	if raw == "" {
		return llmExtraction{}, false
	}
	cleaned := fencedJSONRE.ReplaceAllString(raw, "")
	cleaned = strings.TrimRight(strings.TrimSpace(cleaned), "`")

	var out llmExtraction
	if err := json.Unmarshal([]byte(cleaned), &out); err == nil {
		return out, true
	}
	if m := embeddedJSONRE.FindString(cleaned); m != "" {
		if err := json.Unmarshal([]byte(m), &out); err == nil {
			return out, true
		}
	}
	return llmExtraction{}, false
}

func normalizeExtraction(e llmExtraction, query string) ParsedIntent {
	var updates ProfileUpdates
	if e.DietaryPreference != nil && strings.TrimSpace(*e.DietaryPreference) != "" {
		updates.DietaryPreference = strings.TrimSpace(*e.DietaryPreference)
	}
	updates.Allergens = cleanStrings(e.Allergens)
	updates.RemoveAllergens = cleanStrings(e.RemoveAllergens)
	updates.Lifestyle = cleanStrings(e.Lifestyle)

	ingredients := cleanStrings(e.Ingredients)

	result := Intent(e.Intent)
	if result == "" {
		result = GeneralQuestion
	}
	switch {
	case e.IsGreeting:
		result = Greeting
	case e.IsGeneralQuestion && len(ingredients) == 0:
		result = GeneralQuestion
	}

	return ParsedIntent{
		Intent:         result,
		ProfileUpdates: updates,
		Ingredients:    ingredients,
		OriginalQuery:  query,
	}
}

func cleanStrings(in []string) []string {
	var out []string
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

func truncateText(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
