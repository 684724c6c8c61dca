package compliance

// Status is the terminal outcome of evaluating an ingredient list
// against a set of restrictions. PENDING is declared but the engine
// never assigns it, so it never appears on a returned Verdict.
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusSafe      Status = "SAFE"
	StatusNotSafe   Status = "NOT_SAFE"
	StatusUncertain Status = "UNCERTAIN"
)

// Verdict is the single structured result format shared by scan and
// chat entry points.
type Verdict struct {
	Status                   Status   `json:"status"`
	TriggeredRestrictions    []string `json:"triggered_restrictions"`
	TriggeredIngredients     []string `json:"triggered_ingredients"`
	UncertainIngredients     []string `json:"uncertain_ingredients"`
	InformationalIngredients []string `json:"informational_ingredients"`
	ConfidenceScore          float64  `json:"confidence_score"`
	OntologyVersion          string   `json:"ontology_version"`
}
