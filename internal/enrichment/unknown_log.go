// Package enrichment tracks ingredients that failed to resolve in any
// ontology tier, so they can be reviewed and promoted into the dynamic
// ontology in bulk via the enrichment command.
package enrichment

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/pageza/dietary-compliance-engine/internal/metrics"
)

const (
	maxRawInputsPerEntry      = 20
	maxRestrictionIDsPerEntry = 10
	restrictionIDsPerRecord   = 5
)

// Entry is one unknown ingredient's running record.
type Entry struct {
	NormalizedKey        string                 `json:"normalized_key"`
	RawInputs            []string               `json:"raw_inputs"`
	Frequency            int                    `json:"frequency"`
	FirstSeen            int64                  `json:"first_seen"`
	LastSeen             int64                  `json:"last_seen"`
	RestrictionIDsSample []string               `json:"restriction_ids_sample"`
	ProfileContextSample map[string]interface{} `json:"profile_context_sample,omitempty"`
}

type fileFormat struct {
	UnknownIngredients map[string]Entry `json:"unknown_ingredients"`
	Version            string           `json:"version"`
}

// UnknownLog is an in-memory table of unresolved ingredients with
// optional persistence to a JSON file, keyed by normalized ingredient
// key.
type UnknownLog struct {
	path    string
	log     *zap.Logger
	mu      sync.Mutex
	entries map[string]Entry
}

func NewUnknownLog(path string, log *zap.Logger) *UnknownLog {
	l := &UnknownLog{path: path, log: log, entries: make(map[string]Entry)}
	l.load()
	return l
}

func (l *UnknownLog) load() {
	data, err := os.ReadFile(l.path)
	if err != nil {
		return
	}
	var parsed fileFormat
	if err := json.Unmarshal(data, &parsed); err != nil {
		if l.log != nil {
			l.log.Warn("unknown ingredients log load failed", zap.Error(err))
		}
		return
	}
	if parsed.UnknownIngredients != nil {
		l.entries = parsed.UnknownIngredients
	}
}

// save writes the log atomically: write to a temp file in the same
// directory, then rename over the target, so a reader never observes a
// partially-written file.
func (l *UnknownLog) save() error {
	dir := filepath.Dir(l.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	payload := fileFormat{UnknownIngredients: l.entries, Version: "1.0"}
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".unknown-log-*.json")
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
	return os.Rename(tmpPath, l.path)
}

// Record adds or updates an unknown ingredient's entry. persist controls
// whether the change is flushed to disk immediately (trace/minor
// ingredients that are merely informational skip persistence upstream).
func (l *UnknownLog) Record(rawInput, normalizedKey string, restrictionIDs []string, profileContext map[string]interface{}, persist bool) error {
	if normalizedKey == "" {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now().Unix()
	ent, ok := l.entries[normalizedKey]
	if !ok {
		ent = Entry{NormalizedKey: normalizedKey, FirstSeen: now}
	}
	if rawInput != "" && !containsString(ent.RawInputs, rawInput) {
		ent.RawInputs = append(ent.RawInputs, rawInput)
		if len(ent.RawInputs) > maxRawInputsPerEntry {
			ent.RawInputs = ent.RawInputs[len(ent.RawInputs)-maxRawInputsPerEntry:]
		}
	}
	ent.Frequency++
	ent.LastSeen = now
	if len(restrictionIDs) > 0 {
		sample := append([]string{}, ent.RestrictionIDsSample...)
		limit := restrictionIDsPerRecord
		if limit > len(restrictionIDs) {
			limit = len(restrictionIDs)
		}
		for _, r := range restrictionIDs[:limit] {
			if !containsString(sample, r) {
				sample = append(sample, r)
			}
		}
		if len(sample) > maxRestrictionIDsPerEntry {
			sample = sample[:maxRestrictionIDsPerEntry]
		}
		ent.RestrictionIDsSample = sample
	}
	if len(profileContext) > 0 && ent.ProfileContextSample == nil {
		ent.ProfileContextSample = profileContext
	}
	l.entries[normalizedKey] = ent
	metrics.ObserveUnknownIngredientLogged()

	if l.log != nil {
		l.log.Info("unknown ingredient logged",
			zap.String("normalized_key", normalizedKey),
			zap.Int("frequency", ent.Frequency),
		)
	}

	if persist {
		return l.save()
	}
	return nil
}

// Entries returns a snapshot copy of the current log.
func (l *UnknownLog) Entries() map[string]Entry {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make(map[string]Entry, len(l.entries))
	for k, v := range l.entries {
		out[k] = v
	}
	return out
}

// KeysForEnrichment returns normalized keys whose frequency has reached
// minFrequency, the candidate set the enrichment command processes.
func (l *UnknownLog) KeysForEnrichment(minFrequency int) []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	var keys []string
	for k, v := range l.entries {
		if v.Frequency >= minFrequency {
			keys = append(keys, k)
		}
	}
	return keys
}

func containsString(list []string, target string) bool {
	for _, s := range list {
		if s == target {
			return true
		}
	}
	return false
}
