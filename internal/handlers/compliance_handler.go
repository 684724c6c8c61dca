package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pageza/dietary-compliance-engine/internal/compliance"
	"github.com/pageza/dietary-compliance-engine/internal/composer"
	"github.com/pageza/dietary-compliance-engine/internal/dtos"
	"github.com/pageza/dietary-compliance-engine/internal/intent"
	"github.com/pageza/dietary-compliance-engine/internal/normalize"
	"github.com/pageza/dietary-compliance-engine/internal/profile"
)

// ComplianceHandler wires the compliance engine, intent detector, and
// response composer to the HTTP surface. It holds no state of its own
// beyond the collaborators handed to it at startup.
type ComplianceHandler struct {
	Engine     *compliance.Engine
	Profiles   *profile.Store
	Intent     *intent.LLMFallback
	Composer   *composer.LLMComposer
	LLMTimeout time.Duration
	Log        *zap.Logger
}

func NewComplianceHandler(engine *compliance.Engine, profiles *profile.Store, intentFallback *intent.LLMFallback, llmComposer *composer.LLMComposer, llmTimeout time.Duration, log *zap.Logger) *ComplianceHandler {
	return &ComplianceHandler{
		Engine:     engine,
		Profiles:   profiles,
		Intent:     intentFallback,
		Composer:   llmComposer,
		LLMTimeout: llmTimeout,
		Log:        log,
	}
}

// Evaluate handles POST /v1/evaluate: a full ingredient-list scan
// against the caller's stored profile (or explicit restriction ids).
func (h *ComplianceHandler) Evaluate(c *gin.Context) {
	var req dtos.EvaluateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid request payload")
		return
	}

	restrictionIDs := req.Restrictions
	var p profile.Profile
	if len(restrictionIDs) == 0 && h.Profiles != nil {
		p, _ = h.Profiles.GetOrCreate(req.UserID)
		restrictionIDs = p.RestrictionIDs()
	}

	atoms := normalize.PreprocessIngredients(req.Ingredients)
	ingredients := make([]string, 0, len(atoms))
	traceKeys := make(map[string]bool, len(atoms))
	for _, a := range atoms {
		ingredients = append(ingredients, a.Name)
		if a.Trace {
			traceKeys[a.Name] = true
		}
	}

	verdict := h.Engine.Evaluate(c.Request.Context(), compliance.EvaluateRequest{
		Ingredients:         ingredients,
		RestrictionIDs:      restrictionIDs,
		RegionScope:         req.RegionScope,
		TraceIngredientKeys: traceKeys,
		UseAPIFallback:      true,
		ProfileContext:      map[string]interface{}{"dietary_preference": p.DietaryPreference},
	})

	message := h.narrate(c.Request.Context(), verdict, p, ingredients, false, nil)

	RespondSuccess(c, http.StatusOK, dtos.EvaluateResponse{
		Status:                   string(verdict.Status),
		Message:                  message,
		TriggeredRestrictions:    verdict.TriggeredRestrictions,
		TriggeredIngredients:     verdict.TriggeredIngredients,
		UncertainIngredients:     verdict.UncertainIngredients,
		InformationalIngredients: verdict.InformationalIngredients,
		ConfidenceScore:          verdict.ConfidenceScore,
		OntologyVersion:          verdict.OntologyVersion,
	})
}

// Chat handles POST /v1/chat: one free-text message that may update
// the profile, ask about ingredients, or both.
func (h *ComplianceHandler) Chat(c *gin.Context) {
	var req dtos.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid request payload")
		return
	}

	parsed := intent.Detect(req.Query)
	if parsed.Intent == intent.GeneralQuestion && h.Intent != nil {
		if fromLLM, ok := h.Intent.Extract(c.Request.Context(), req.Query); ok {
			parsed = fromLLM
		}
	}

	var p profile.Profile
	if h.Profiles != nil {
		p, _ = h.Profiles.GetOrCreate(req.UserID)
	}

	var updatedFields *composer.UpdatedFields
	if parsed.HasProfileUpdate() && h.Profiles != nil {
		update := applyIntentToProfile(p, parsed.ProfileUpdates)
		merged, err := h.Profiles.UpdatePartial(req.UserID, update)
		if err == nil {
			p = merged
		}
		updatedFields = &composer.UpdatedFields{
			DietaryPreference: update.DietaryPreference,
			Allergens:         parsed.ProfileUpdates.Allergens,
			RemoveAllergens:   parsed.ProfileUpdates.RemoveAllergens,
			Lifestyle:         parsed.ProfileUpdates.Lifestyle,
		}
	}

	var message string
	switch {
	case parsed.Intent == intent.Greeting:
		message = h.narrateGreeting(c.Request.Context(), p)
	case parsed.Intent == intent.GeneralQuestion && !parsed.HasIngredients():
		message = h.narrateGeneral(c.Request.Context(), req.Query, p)
	case parsed.HasIngredients():
		verdict := h.Engine.Evaluate(c.Request.Context(), compliance.EvaluateRequest{
			Ingredients:    parsed.Ingredients,
			RestrictionIDs: p.RestrictionIDs(),
			UseAPIFallback: true,
			ProfileContext: map[string]interface{}{"dietary_preference": p.DietaryPreference},
		})
		message = h.narrate(c.Request.Context(), verdict, p, parsed.Ingredients, parsed.HasProfileUpdate(), updatedFields)
	case parsed.HasProfileUpdate():
		message = composer.ProfileUpdate(*updatedFields, false)
	default:
		message = composer.NoIngredients()
	}

	RespondSuccess(c, http.StatusOK, dtos.ChatResponse{Message: message, Intent: string(parsed.Intent)})
}

// GetProfile handles GET /v1/profile/:userID.
func (h *ComplianceHandler) GetProfile(c *gin.Context) {
	userID := c.Param("userID")
	p, err := h.Profiles.GetOrCreate(userID)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "failed to load profile")
		return
	}
	RespondSuccess(c, http.StatusOK, toProfileResponse(p))
}

// UpdateProfile handles PUT /v1/profile/:userID.
func (h *ComplianceHandler) UpdateProfile(c *gin.Context) {
	userID := c.Param("userID")
	var req dtos.ProfileUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid request payload")
		return
	}
	update := profile.Update{
		DietaryPreference: req.DietaryPreference,
		Allergens:         req.Allergens,
		HasAllergens:      req.Allergens != nil,
		Lifestyle:         req.Lifestyle,
		HasLifestyle:      req.Lifestyle != nil,
	}
	p, err := h.Profiles.UpdatePartial(userID, update)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "failed to update profile")
		return
	}
	RespondSuccess(c, http.StatusOK, toProfileResponse(p))
}

func toProfileResponse(p profile.Profile) dtos.ProfileResponse {
	return dtos.ProfileResponse{
		UserID:            p.UserID,
		DietaryPreference: p.DietaryPreference,
		Allergens:         p.Allergens,
		Lifestyle:         p.Lifestyle,
	}
}

// applyIntentToProfile turns the diff a chat message asked for
// (add/remove allergens, set diet, add lifestyle flags) into a
// profile.Update against the caller's current profile.
func applyIntentToProfile(current profile.Profile, u intent.ProfileUpdates) profile.Update {
	out := profile.Update{}
	if u.DietaryPreference != "" {
		diet := u.DietaryPreference
		out.DietaryPreference = &diet
	}
	if len(u.Allergens) > 0 || len(u.RemoveAllergens) > 0 {
		merged := mergeStrings(current.Allergens, u.Allergens, u.RemoveAllergens)
		out.Allergens = merged
		out.HasAllergens = true
	}
	if len(u.Lifestyle) > 0 {
		merged := mergeStrings(current.Lifestyle, u.Lifestyle, nil)
		out.Lifestyle = merged
		out.HasLifestyle = true
	}
	return out
}

func mergeStrings(existing, add, remove []string) []string {
	removeSet := make(map[string]bool, len(remove))
	for _, r := range remove {
		removeSet[r] = true
	}
	seen := make(map[string]bool, len(existing)+len(add))
	var out []string
	for _, e := range existing {
		if removeSet[e] || seen[e] {
			continue
		}
		seen[e] = true
		out = append(out, e)
	}
	for _, a := range add {
		if removeSet[a] || seen[a] {
			continue
		}
		seen[a] = true
		out = append(out, a)
	}
	return out
}

func (h *ComplianceHandler) narrate(ctx context.Context, v compliance.Verdict, p profile.Profile, ingredients []string, profileWasUpdated bool, updatedFields *composer.UpdatedFields) string {
	if h.Composer != nil {
		llmCtx, cancel := context.WithTimeout(ctx, h.LLMTimeout)
		defer cancel()
		if msg, ok := h.Composer.ComposeVerdict(llmCtx, v, p, ingredients, profileWasUpdated, updatedFields); ok {
			return msg
		}
	}
	return composer.Verdict(v, p, ingredients, profileWasUpdated, updatedFields, nil)
}

func (h *ComplianceHandler) narrateGreeting(ctx context.Context, p profile.Profile) string {
	if h.Composer != nil {
		llmCtx, cancel := context.WithTimeout(ctx, h.LLMTimeout)
		defer cancel()
		if msg, ok := h.Composer.ComposeGreeting(llmCtx, &p); ok {
			return msg
		}
	}
	return composer.Greeting()
}

func (h *ComplianceHandler) narrateGeneral(ctx context.Context, query string, p profile.Profile) string {
	if h.Composer != nil {
		llmCtx, cancel := context.WithTimeout(ctx, h.LLMTimeout)
		defer cancel()
		if msg, ok := h.Composer.ComposeGeneral(llmCtx, query, &p); ok {
			return msg
		}
	}
	return composer.GeneralQuestion()
}
