package restrictions

import (
	"encoding/json"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/pageza/dietary-compliance-engine/internal/ontology"
)

type restrictionsFile struct {
	Restrictions []Restriction `json:"restrictions"`
}

// Registry loads restrictions.json and evaluates ingredients against
// individual restrictions by id.
type Registry struct {
	byID map[string]Restriction
	ids  []string
	log  *zap.Logger
}

// NewRegistry loads restrictions from path. A missing file yields an
// empty, usable registry, matching the ontology registry's behavior.
func NewRegistry(path string, log *zap.Logger) (*Registry, error) {
	r := &Registry{byID: make(map[string]Restriction), log: log}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			if log != nil {
				log.Warn("restrictions file not found; registry empty", zap.String("path", path))
			}
			return r, nil
		}
		return nil, fmt.Errorf("restrictions: %w", err)
	}
	var file restrictionsFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("restrictions: %w", err)
	}
	for _, restriction := range file.Restrictions {
		r.byID[restriction.ID] = restriction
		r.ids = append(r.ids, restriction.ID)
	}
	if log != nil {
		log.Info("loaded restrictions", zap.Int("count", len(r.byID)), zap.String("path", path))
	}
	return r, nil
}

// Get returns the restriction with the given id.
func (r *Registry) Get(id string) (Restriction, bool) {
	restriction, ok := r.byID[id]
	return restriction, ok
}

// ListIDs returns every known restriction id.
func (r *Registry) ListIDs() []string {
	out := make([]string, len(r.ids))
	copy(out, r.ids)
	return out
}

// fieldValuer is implemented by ontology.Ingredient; kept as an
// interface here so this package doesn't need to know Ingredient's
// concrete shape, only that it can answer rule-field lookups.
type fieldValuer interface {
	FieldValue(field string) (interface{}, bool)
}

// Evaluate checks ingredient against restriction's rules in order and
// returns the action and human-readable reason of the first matching
// rule, or (PASS, "") if none match.
func (r *Registry) Evaluate(ingredient ontology.Ingredient, restriction Restriction) (Action, string) {
	for _, rule := range restriction.Rules {
		if evaluateRule(ingredient, rule) {
			return rule.Action, fmt.Sprintf("%s: %s %s %v", restriction.ID, rule.Field, rule.Operator, rule.Value)
		}
	}
	return "PASS", ""
}

func evaluateRule(fv fieldValuer, rule Rule) bool {
	val, _ := fv.FieldValue(rule.Field)

	switch rule.Operator {
	case OpEquals:
		return looseEqual(val, rule.Value)
	case OpNotEquals:
		return !looseEqual(val, rule.Value)
	case OpContains:
		if val == nil {
			return false
		}
		if list, ok := val.([]string); ok {
			return containsString(list, toString(rule.Value))
		}
		return contains(toString(val), toString(rule.Value))
	case OpGreaterThan:
		if val == nil {
			return false
		}
		vf, vok := toFloat(val)
		tf, tok := toFloat(rule.Value)
		if !vok || !tok {
			return false
		}
		return vf > tf
	case OpInList:
		if val == nil {
			return false
		}
		targets, ok := rule.Value.([]interface{})
		if !ok {
			return looseEqual(val, rule.Value)
		}
		for _, t := range targets {
			if looseEqual(val, t) {
				return true
			}
		}
		return false
	default:
		return false
	}
}
