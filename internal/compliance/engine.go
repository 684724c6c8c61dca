// Package compliance implements the deterministic dietary-compliance
// pipeline: resolve each ingredient (static ontology, then dynamic,
// then external APIs), evaluate the resolved ingredients against the
// caller's restrictions, and aggregate a single structured verdict with
// a confidence score. One pipeline serves both a full-list scan and a
// single-message chat turn.
package compliance

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/pageza/dietary-compliance-engine/internal/metrics"
	"github.com/pageza/dietary-compliance-engine/internal/ontology"
	"github.com/pageza/dietary-compliance-engine/internal/restrictions"
)

// Engine ties the resolver and restriction registry together into the
// single evaluate() entry point.
type Engine struct {
	Resolver     *Resolver
	Restrictions *restrictions.Registry
	Log          *zap.Logger
}

func NewEngine(resolver *Resolver, restrictionRegistry *restrictions.Registry, log *zap.Logger) *Engine {
	return &Engine{Resolver: resolver, Restrictions: restrictionRegistry, Log: log}
}

// EvaluateRequest bundles Evaluate's inputs; restriction_ids typically
// comes from a user profile (allergens, dietary, religious, lifestyle
// restriction ids), trace_ingredient_keys marks <2% minor ingredients
// whose absence from the ontology is informational only.
type EvaluateRequest struct {
	Ingredients         []string
	RestrictionIDs      []string // nil means "all known restrictions"
	RegionScope         string
	TraceIngredientKeys map[string]bool
	UseAPIFallback      bool
	ProfileContext      map[string]interface{}
}

// Evaluate runs the full pipeline and returns a terminal Verdict. An
// empty ingredient list is UNCERTAIN with zero confidence rather than
// an error: there is nothing to certify as safe.
func (e *Engine) Evaluate(ctx context.Context, req EvaluateRequest) Verdict {
	start := time.Now()
	if len(req.Ingredients) == 0 {
		v := Verdict{
			Status:          StatusUncertain,
			OntologyVersion: e.ontologyVersion(),
		}
		metrics.ObserveEvaluation(string(v.Status), v.ConfidenceScore, time.Since(start))
		return v
	}

	var (
		resolved        []ontology.Ingredient
		resolvedIsTrace []bool
		uncertainRaw    []string
		informational   []string
		levels          []ResolutionLevel
	)

	for _, raw := range req.Ingredients {
		key := strings.ToLower(strings.TrimSpace(raw))
		if key == "" {
			continue
		}
		isTrace := req.TraceIngredientKeys != nil && req.TraceIngredientKeys[key]

		ing, source, level := e.Resolver.Resolve(ctx, raw, req.UseAPIFallback, !isTrace, req.RestrictionIDs, req.ProfileContext)
		if ing != nil {
			resolved = append(resolved, *ing)
			resolvedIsTrace = append(resolvedIsTrace, isTrace)
			levels = append(levels, level)
			if isTrace {
				informational = append(informational, raw)
			}
			continue
		}

		if isTrace {
			informational = append(informational, raw)
			levels = append(levels, LevelHigh) // a missing trace ingredient never reduces confidence
			continue
		}

		uncertainRaw = append(uncertainRaw, raw)
		if source == "api" {
			levels = append(levels, LevelAPIFailed)
		} else {
			levels = append(levels, LevelLow)
		}
	}

	restrictionIDs := e.selectedRestrictionIDs(req.RestrictionIDs, req.RegionScope)

	var (
		triggeredRestrictions []string
		triggeredIngredients  []string
		triggeredFromMinor    = make(map[string]bool)
		warningCount          int
	)

	for _, rid := range restrictionIDs {
		rest, ok := e.Restrictions.Get(rid)
		if !ok {
			continue
		}
		for idx, ing := range resolved {
			action, _ := e.Restrictions.Evaluate(ing, rest)
			switch action {
			case restrictions.ActionFail:
				triggeredRestrictions = append(triggeredRestrictions, rid)
				triggeredIngredients = append(triggeredIngredients, ing.CanonicalName)
				if idx < len(resolvedIsTrace) && resolvedIsTrace[idx] {
					triggeredFromMinor[rid] = true
				}
			case restrictions.ActionWarn:
				warningCount++
			}
		}
	}

	triggeredRestrictions = dedupPreserveOrder(triggeredRestrictions)
	triggeredIngredients = dedupPreserveOrder(triggeredIngredients)

	var status Status
	switch {
	case len(triggeredRestrictions) > 0:
		status = StatusNotSafe
	case len(uncertainRaw) > 0:
		status = StatusUncertain
	default:
		status = StatusSafe
	}

	triggeredOnlyByMinor := len(triggeredRestrictions) > 0 && allInSet(triggeredRestrictions, triggeredFromMinor)

	confidence := computeConfidence(confidenceInput{
		TotalIngredients:     len(req.Ingredients),
		ResolvedCount:        len(resolved),
		UncertainCount:       len(uncertainRaw),
		WarningCount:         warningCount,
		ResolutionLevels:     levelsIfComplete(levels, len(req.Ingredients)),
		TriggeredOnlyByMinor: triggeredOnlyByMinor,
		HasMinorIngredients:  len(informational) > 0,
		Status:               status,
	})

	verdict := Verdict{
		Status:                   status,
		TriggeredRestrictions:    triggeredRestrictions,
		TriggeredIngredients:     triggeredIngredients,
		UncertainIngredients:     uncertainRaw,
		InformationalIngredients: informational,
		ConfidenceScore:          confidence,
		OntologyVersion:          e.ontologyVersion(),
	}
	metrics.ObserveEvaluation(string(verdict.Status), verdict.ConfidenceScore, time.Since(start))
	return verdict
}

func (e *Engine) ontologyVersion() string {
	if e.Resolver == nil || e.Resolver.Static == nil {
		return "0"
	}
	return e.Resolver.Static.Version()
}

// selectedRestrictionIDs narrows the full restriction id set down to the
// caller's profile restrictions (when given) and further by region
// scope (when given); an empty/nil restrictionIDs means "evaluate
// against everything the registry knows".
func (e *Engine) selectedRestrictionIDs(restrictionIDs []string, regionScope string) []string {
	ids := e.Restrictions.ListIDs()
	if restrictionIDs != nil {
		filtered := ids[:0:0]
		for _, rid := range restrictionIDs {
			if _, ok := e.Restrictions.Get(rid); ok {
				filtered = append(filtered, rid)
			}
		}
		ids = filtered
	}
	if regionScope == "" {
		return ids
	}
	filtered := ids[:0:0]
	for _, rid := range ids {
		rest, ok := e.Restrictions.Get(rid)
		if ok && rest.AppliesToRegion(regionScope) {
			filtered = append(filtered, rid)
		}
	}
	return filtered
}

func dedupPreserveOrder(items []string) []string {
	if len(items) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(items))
	out := make([]string, 0, len(items))
	for _, it := range items {
		if !seen[it] {
			seen[it] = true
			out = append(out, it)
		}
	}
	return out
}

func allInSet(items []string, set map[string]bool) bool {
	for _, it := range items {
		if !set[it] {
			return false
		}
	}
	return true
}

func levelsIfComplete(levels []ResolutionLevel, total int) []ResolutionLevel {
	if len(levels) != total {
		return nil
	}
	return levels
}
