package ontology

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// normalizeKey is the deterministic lookup-key normalization: lowercase,
// trim, strip '*' and '.'. It intentionally does no substring or fuzzy
// matching so lookups stay O(1) and predictable.
func normalizeKey(text string) string {
	s := strings.ToLower(strings.TrimSpace(text))
	s = strings.ReplaceAll(s, "*", "")
	s = strings.ReplaceAll(s, ".", "")
	return s
}

type ontologyFile struct {
	OntologyVersion string       `json:"ontology_version"`
	Ingredients     []Ingredient `json:"ingredients"`
}

// Registry is an O(1) lookup of a normalized canonical name or alias to
// its canonical Ingredient. It performs no substring or fuzzy matching;
// an unresolved key must be treated as UNCERTAIN by the caller.
type Registry struct {
	byKey   map[string]Ingredient
	version string
	log     *zap.Logger
}

// NewRegistry loads the static ontology from path. A missing file
// yields an empty, usable registry (matching the original's behavior of
// warning and continuing rather than failing startup).
func NewRegistry(path string, log *zap.Logger) (*Registry, error) {
	r := &Registry{byKey: make(map[string]Ingredient), version: "0", log: log}
	if err := r.load(path); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *Registry) load(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			if r.log != nil {
				r.log.Warn("ontology file not found; registry empty", zap.String("path", path))
			}
			return nil
		}
		return err
	}
	var file ontologyFile
	if err := json.Unmarshal(data, &file); err != nil {
		return err
	}
	r.version = file.OntologyVersion
	if r.version == "" {
		r.version = "0"
	}
	for _, ing := range file.Ingredients {
		r.index(ing)
	}
	if r.log != nil {
		r.log.Info("loaded static ontology", zap.Int("keys", len(r.byKey)), zap.String("path", path))
	}
	return nil
}

func (r *Registry) index(ing Ingredient) {
	keys := append([]string{ing.CanonicalName}, ing.Aliases...)
	for _, k := range keys {
		r.byKey[normalizeKey(k)] = ing
	}
}

// Resolve looks up ingredientStr by normalized key. It returns
// (Ingredient{}, false) when unresolved; callers log the UNKNOWN_INGREDIENT
// event themselves since only they know the broader request context.
func (r *Registry) Resolve(ingredientStr string) (Ingredient, bool) {
	key := normalizeKey(ingredientStr)
	ing, ok := r.byKey[key]
	return ing, ok
}

// Version returns the loaded ontology_version string.
func (r *Registry) Version() string { return r.version }

// Len returns the number of indexed keys (canonical names + aliases).
func (r *Registry) Len() int { return len(r.byKey) }

// DynamicRegistry wraps the enrichment-maintained dynamic_ontology.json:
// ingredients promoted by the enrichment CLI from external API lookups,
// each tagged with the source connector and confidence that produced it.
type DynamicRegistry struct {
	path        string
	byKey       map[string]Ingredient
	version     string
	enrichSrc   map[string]string
	enrichConf  map[string]string
	log         *zap.Logger
}

type dynamicEntry struct {
	Ingredient
	EnrichmentSource     string `json:"_enrichment_source,omitempty"`
	EnrichmentConfidence string `json:"_enrichment_confidence,omitempty"`
}

type dynamicFile struct {
	OntologyVersion string         `json:"ontology_version"`
	Ingredients     []dynamicEntry `json:"ingredients"`
}

// NewDynamicRegistry loads (or initializes empty) the dynamic ontology
// at path.
func NewDynamicRegistry(path string, log *zap.Logger) (*DynamicRegistry, error) {
	d := &DynamicRegistry{
		path:       path,
		byKey:      make(map[string]Ingredient),
		version:    "1.0",
		enrichSrc:  make(map[string]string),
		enrichConf: make(map[string]string),
		log:        log,
	}
	if err := d.load(); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *DynamicRegistry) load() error {
	data, err := os.ReadFile(d.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	var file dynamicFile
	if err := json.Unmarshal(data, &file); err != nil {
		if d.log != nil {
			d.log.Warn("dynamic ontology load failed", zap.Error(err))
		}
		return nil
	}
	d.version = file.OntologyVersion
	for _, entry := range file.Ingredients {
		d.indexEntry(entry)
	}
	if d.log != nil {
		d.log.Info("loaded dynamic ontology", zap.Int("count", len(file.Ingredients)), zap.String("path", d.path))
	}
	return nil
}

func (d *DynamicRegistry) indexEntry(entry dynamicEntry) {
	keys := append([]string{entry.CanonicalName}, entry.Aliases...)
	for _, k := range keys {
		d.byKey[normalizeKey(k)] = entry.Ingredient
	}
	d.enrichSrc[entry.ID] = entry.EnrichmentSource
	d.enrichConf[entry.ID] = entry.EnrichmentConfidence
}

// Resolve looks up ingredientStr against dynamically enriched entries only.
func (d *DynamicRegistry) Resolve(ingredientStr string) (Ingredient, bool) {
	ing, ok := d.byKey[normalizeKey(ingredientStr)]
	return ing, ok
}

// Append adds ingredient to the dynamic ontology, deduping by id, and
// persists to disk via an atomic rename unless persist is false (the
// API_USED tier: an API hit good enough to answer this request but not
// confident enough to promote permanently).
func (d *DynamicRegistry) Append(ingredient Ingredient, source, confidence string, persist bool) error {
	if _, exists := d.enrichSrc[ingredient.ID]; exists {
		if d.log != nil {
			d.log.Debug("dynamic ontology already has id", zap.String("id", ingredient.ID))
		}
		return nil
	}
	entry := dynamicEntry{Ingredient: ingredient, EnrichmentSource: source, EnrichmentConfidence: confidence}
	d.indexEntry(entry)

	if !persist {
		return nil
	}
	return d.save()
}

func (d *DynamicRegistry) save() error {
	entries := make([]dynamicEntry, 0, len(d.enrichSrc))
	seen := make(map[string]bool)
	for key, ing := range d.byKey {
		if seen[ing.ID] {
			continue
		}
		if ing.CanonicalName != "" && normalizeKey(ing.CanonicalName) != key {
			// only emit once, keyed by the canonical-name entry
			continue
		}
		seen[ing.ID] = true
		entries = append(entries, dynamicEntry{
			Ingredient:           ing,
			EnrichmentSource:     d.enrichSrc[ing.ID],
			EnrichmentConfidence: d.enrichConf[ing.ID],
		})
	}

	file := dynamicFile{OntologyVersion: d.version, Ingredients: entries}
	data, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return err
	}

	dir := filepath.Dir(d.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".dynamic_ontology-*.json.tmp")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return err
	}
	return os.Rename(tmpPath, d.path)
}

// Version returns the dynamic ontology's ontology_version string.
func (d *DynamicRegistry) Version() string { return d.version }
