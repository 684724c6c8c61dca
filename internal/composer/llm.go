package composer

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

	"github.com/pageza/dietary-compliance-engine/internal/compliance"
	"github.com/pageza/dietary-compliance-engine/internal/profile"
	"github.com/pageza/dietary-compliance-engine/internal/utils"
)

const responseSystemPrompt = `You are a friendly grocery safety assistant. You compose natural responses from STRUCTURED VERDICT DATA.

ABSOLUTE RULES — VIOLATION MEANS FAILURE:
1. Each ingredient has an EXACT verdict: NOT_SAFE, SAFE, or UNCERTAIN. You MUST use the EXACT same classification. NEVER change any ingredient's verdict.
2. Every NOT_SAFE ingredient MUST be described as "not suitable" / "not safe" / "restricted" / "should be avoided".
3. Every SAFE ingredient MUST be described as "fine" / "safe" / "okay" / "compatible".
4. Every UNCERTAIN ingredient MUST be described as "couldn't verify" / "uncertain" / "needs checking".
5. NEVER say a NOT_SAFE ingredient is "fine" or "safe". NEVER say a SAFE ingredient is "not suitable" or "restricted".
6. Use the EXACT REASON provided for each ingredient. Do NOT invent your own reasons.
7. Keep it concise: 2-4 sentences. Be warm but direct.
8. Use **bold** for ingredient names. No emojis. No markdown headers.
9. Do NOT add medical disclaimers unless the verdict is UNCERTAIN.
10. Mention the user's diet name naturally.
11. NEVER offer to brainstorm alternatives, suggest recipes, or provide unsolicited follow-up offers. End the response naturally after delivering the answer.`

// LLMComposer generates human-like verdict narration via a local
// Ollama model, with the template composer as the deterministic
// fallback whenever the model is unavailable or its output contradicts
// the verdict. The LLM never decides safety — it only narrates the
// verdict already computed.
type LLMComposer struct {
	URL    string
	Model  string
	Client *http.Client
	Log    *zap.Logger
}

func NewLLMComposer(url, model string, timeout time.Duration, log *zap.Logger) *LLMComposer {
	return &LLMComposer{URL: url, Model: model, Client: &http.Client{Timeout: timeout}, Log: log}
}

type composerOllamaRequest struct {
	Model   string                 `json:"model"`
	Prompt  string                 `json:"prompt"`
	System  string                 `json:"system"`
	Stream  bool                   `json:"stream"`
	Options map[string]interface{} `json:"options"`
}

type composerOllamaResponse struct {
	Response string `json:"response"`
}

func (c *LLMComposer) callOllama(ctx context.Context, system, prompt string) (string, error) {
	if c == nil || c.URL == "" {
		return "", fmt.Errorf("llm composer not configured")
	}
	payload := composerOllamaRequest{
		Model:  c.Model,
		Prompt: prompt,
		System: system,
		Stream: false,
		Options: map[string]interface{}{
			"temperature": 0.0,
			"num_predict": 400,
		},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}
	var data []byte
	err = utils.Retry(2, 200*time.Millisecond, func() error {
		req, reqErr := http.NewRequestWithContext(ctx, http.MethodPost, c.URL, bytes.NewReader(body))
		if reqErr != nil {
			return reqErr
		}
		req.Header.Set("Content-Type", "application/json")

		resp, doErr := c.Client.Do(req)
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
	var parsed composerOllamaResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return "", err
	}
	return strings.TrimSpace(parsed.Response), nil
}

func buildVerdictPrompt(v compliance.Verdict, p profile.Profile, ingredients []string, profileWasUpdated bool, updatedFields *UpdatedFields) string {
	diet := p.DietaryPreference
	if diet == "" {
		diet = "your preferences"
	}
	triggered := normSet(v.TriggeredIngredients)
	uncertain := normSet(v.UncertainIngredients)

	var lines []string
	lines = append(lines,
		"=== VERDICT DATA (you MUST follow this EXACTLY) ===",
		"Diet: "+diet,
		"Overall: "+string(v.Status),
		"",
		"Per-ingredient verdicts:",
	)

	for _, ing := range ingredients {
		norm := normalizeForMatch(ing)
		switch {
		case triggered[norm]:
			lines = append(lines, fmt.Sprintf("  - %s: NOT_SAFE (reason: %s)", ing, ingredientReason(ing)))
		case uncertain[norm]:
			lines = append(lines, fmt.Sprintf("  - %s: UNCERTAIN (could not verify)", ing))
		default:
			lines = append(lines, fmt.Sprintf("  - %s: SAFE", ing))
		}
	}

	if profileWasUpdated && updatedFields != nil {
		var changes []string
		if updatedFields.DietaryPreference != nil {
			changes = append(changes, "dietary_preference -> "+*updatedFields.DietaryPreference)
		}
		if len(updatedFields.Allergens) > 0 {
			changes = append(changes, "allergens -> "+strings.Join(updatedFields.Allergens, ","))
		}
		if len(updatedFields.Lifestyle) > 0 {
			changes = append(changes, "lifestyle -> "+strings.Join(updatedFields.Lifestyle, ","))
		}
		if len(changes) > 0 {
			lines = append(lines, "", "Profile just updated: "+strings.Join(changes, "; "), "Acknowledge the profile update first.")
		}
	}

	lines = append(lines, "", "Write a natural, friendly response. Follow ALL rules in your system prompt.")
	return strings.Join(lines, "\n")
}

var sentenceSplitRE = regexp.MustCompile(`[.!]`)

var safeWords = []string{"fine", "safe", "okay", "compatible", "suitable for", "good for", "no issue", "perfectly"}
var unsafeWords = []string{"not suitable", "not safe", "restricted", "avoid", "unsuitable", "not compatible", "not okay", "not fine", "cannot", "shouldn't", "should not"}

func anyContainsWord(sentence string, words []string) bool {
	for _, w := range words {
		if strings.Contains(sentence, w) {
			return true
		}
	}
	return false
}

// validateResponse rejects an LLM response that contradicts the
// verdict it was supposed to narrate: a triggered ingredient called
// safe, or a safe ingredient called unsafe, in the same sentence.
func validateResponse(response string, triggeredIngredients, safeIngredients []string) bool {
	respLower := strings.ToLower(response)
	sentences := sentenceSplitRE.Split(respLower, -1)

	for _, ing := range triggeredIngredients {
		ingLower := strings.ToLower(ing)
		if !strings.Contains(respLower, ingLower) {
			continue
		}
		for _, sentence := range sentences {
			if strings.Contains(sentence, ingLower) {
				if anyContainsWord(sentence, safeWords) && !anyContainsWord(sentence, unsafeWords) {
					return false
				}
			}
		}
	}

	for _, ing := range safeIngredients {
		ingLower := strings.ToLower(ing)
		if !strings.Contains(respLower, ingLower) {
			continue
		}
		for _, sentence := range sentences {
			if strings.Contains(sentence, ingLower) {
				if anyContainsWord(sentence, unsafeWords) && !anyContainsWord(sentence, safeWords) {
					return false
				}
			}
		}
	}

	return true
}

// ComposeVerdict asks the LLM to narrate v, validates the result
// against the verdict's actual classifications, and returns false if
// the model is unavailable or its narration contradicts the data —
// the caller should fall back to Verdict() in that case.
func (c *LLMComposer) ComposeVerdict(ctx context.Context, v compliance.Verdict, p profile.Profile, ingredients []string, profileWasUpdated bool, updatedFields *UpdatedFields) (string, bool) {
	prompt := buildVerdictPrompt(v, p, ingredients, profileWasUpdated, updatedFields)
	response, err := c.callOllama(ctx, responseSystemPrompt, prompt)
	if err != nil || response == "" {
		if c != nil && c.Log != nil && err != nil {
			c.Log.Warn("llm composer call failed", zap.Error(err))
		}
		return "", false
	}

	triggeredNorm := normSet(v.TriggeredIngredients)
	uncertainNorm := normSet(v.UncertainIngredients)
	var safeIngs []string
	for _, i := range ingredients {
		n := normalizeForMatch(i)
		if !triggeredNorm[n] && !uncertainNorm[n] {
			safeIngs = append(safeIngs, i)
		}
	}

	if !validateResponse(response, v.TriggeredIngredients, safeIngs) {
		if c.Log != nil {
			c.Log.Warn("llm composer response failed validation, falling back to template")
		}
		return "", false
	}

	if c.Log != nil {
		c.Log.Info("llm composer success", zap.String("status", string(v.Status)), zap.Int("len", len(response)))
	}
	return response, true
}

// ComposeGreeting asks the LLM for a personalized greeting.
func (c *LLMComposer) ComposeGreeting(ctx context.Context, p *profile.Profile) (string, bool) {
	diet := ""
	if p != nil {
		diet = p.DietaryPreference
	}
	var prompt string
	if diet != "" && diet != "No rules" {
		prompt = fmt.Sprintf("The user said hello. Their dietary profile is: %s. Greet them warmly and mention you can check ingredients for their %s diet. Keep it to 1-2 sentences. Do NOT offer recipes or alternatives.", diet, diet)
	} else {
		prompt = "The user said hello. They haven't set up a dietary profile yet. Greet them warmly and invite them to tell you their dietary preferences or ask about any ingredient. Keep it to 1-2 sentences. Do NOT offer recipes or alternatives."
	}
	response, err := c.callOllama(ctx, responseSystemPrompt, prompt)
	if err != nil || response == "" {
		return "", false
	}
	return response, true
}

// ComposeGeneral asks the LLM to respond to an out-of-scope or
// general-nutrition question.
func (c *LLMComposer) ComposeGeneral(ctx context.Context, query string, p *profile.Profile) (string, bool) {
	diet := ""
	if p != nil {
		diet = p.DietaryPreference
	}
	dietContext := ""
	if diet != "" && diet != "No rules" {
		dietContext = " Their diet is: " + diet + "."
	}
	prompt := fmt.Sprintf(
		"The user asked: %q.%s If this is a general food/nutrition question, give a brief helpful answer. "+
			"If they didn't ask about specific ingredients, gently guide them to ask about specific ingredients so you can check safety. "+
			"Keep it to 2-3 sentences. Do NOT offer to brainstorm, suggest recipes, or suggest alternative ingredients.",
		query, dietContext,
	)
	response, err := c.callOllama(ctx, responseSystemPrompt, prompt)
	if err != nil || response == "" {
		return "", false
	}
	return response, true
}
