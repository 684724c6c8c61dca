// Package restrictions implements the data-driven restriction rule DSL:
// a Restriction names a set of Rules, each a single (field, operator,
// value) predicate; the first rule that matches an ingredient decides
// the action (FAIL or WARN), and an ingredient that matches none of a
// restriction's rules PASSes it. No restriction logic is hardcoded in
// Go; everything testable lives in restrictions.json.
package restrictions

// Action is what a matching rule does to the evaluation.
type Action string

const (
	ActionFail Action = "FAIL"
	ActionWarn Action = "WARN"
)

// Category groups restrictions for display/filtering purposes.
type Category string

const (
	CategoryAllergy   Category = "allergy"
	CategoryReligious Category = "religious"
	CategoryMedical   Category = "medical"
	CategoryLifestyle Category = "lifestyle"
)

// Severity communicates how strictly a restriction should be enforced;
// it does not itself change evaluation, only display/response framing.
type Severity string

const (
	SeverityStrict      Severity = "STRICT"
	SeverityModerate    Severity = "MODERATE"
	SeverityConditional Severity = "CONDITIONAL"
)

// Operator is one of the five comparisons a Rule may apply.
type Operator string

const (
	OpEquals      Operator = "equals"
	OpNotEquals   Operator = "not_equals"
	OpContains    Operator = "contains"
	OpGreaterThan Operator = "greater_than"
	OpInList      Operator = "in_list"
)

// Rule is a single predicate: if (field operator value) then action.
type Rule struct {
	Field    string      `json:"field"`
	Operator Operator    `json:"operator"`
	Value    interface{} `json:"value"`
	Action   Action      `json:"action"`
}

// Restriction is a named, region-scoped, severity-tagged set of rules.
type Restriction struct {
	ID          string   `json:"id"`
	Category    Category `json:"category"`
	RegionScope []string `json:"region_scope"`
	Severity    Severity `json:"severity"`
	Rules       []Rule   `json:"rules"`
}

// AppliesToRegion reports whether restriction applies given an optional
// caller-supplied region (empty region means apply regardless of scope).
func (r Restriction) AppliesToRegion(region string) bool {
	if region == "" || len(r.RegionScope) == 0 {
		return true
	}
	for _, scope := range r.RegionScope {
		if scope == "GLOBAL" || scope == region {
			return true
		}
	}
	return false
}
