package mapping

import (
	"strings"

	"github.com/leadbridge/leadbridge-api/config"
	"github.com/leadbridge/leadbridge-api/pkg/metrics"
)

// Segment keys used by the per-segment field-key tables.
const (
	SegmentKeyCRO         = "cro"
	SegmentKeyPerformance = "performance"
	SegmentKeyDefault     = "default"
)

// SegmentAssignment is the outcome of resolving an event-type name to a
// CRM segment. EventTypeName is carried along for lead metadata.
type SegmentAssignment struct {
	Key           string
	ID            string
	EventTypeName string
}

// KeywordRule maps a substring of the event-type name to a segment. Rules
// are evaluated in slice order, which makes the tie-break between names
// matching several keywords (e.g. "cro performance") explicit.
type KeywordRule struct {
	Keyword string
	Key     string
	ID      string
}

// SegmentTable resolves event-type names to segment ids. Built once at
// startup and read-only afterwards.
type SegmentTable struct {
	exactNames map[string]string
	rules      []KeywordRule
	defaultID  string
}

// NewSegmentTable builds the resolution table from configuration. CRO is
// tested before Performance; segments without a configured id get no rule.
func NewSegmentTable(cfg config.SegmentsConfig) *SegmentTable {
	var rules []KeywordRule
	if cfg.CROID != "" {
		rules = append(rules, KeywordRule{Keyword: "cro", Key: SegmentKeyCRO, ID: cfg.CROID})
	}
	if cfg.PerformanceID != "" {
		rules = append(rules, KeywordRule{Keyword: "performance", Key: SegmentKeyPerformance, ID: cfg.PerformanceID})
	}

	exact := make(map[string]string, len(cfg.ExactNames))
	for name, id := range cfg.ExactNames {
		exact[name] = id
	}

	return &SegmentTable{
		exactNames: exact,
		rules:      rules,
		defaultID:  cfg.DefaultID,
	}
}

// Resolve maps an event-type name to a segment. Exact-name matches win,
// then keyword rules in priority order, then the default segment. An empty
// or unknown name always yields the default segment.
func (t *SegmentTable) Resolve(eventTypeName string) SegmentAssignment {
	if id, ok := t.exactNames[eventTypeName]; ok {
		metrics.SegmentResolutions.WithLabelValues("exact").Inc()
		return SegmentAssignment{Key: segmentKeyForID(t, id), ID: id, EventTypeName: eventTypeName}
	}

	lower := strings.ToLower(eventTypeName)
	for _, rule := range t.rules {
		if strings.Contains(lower, rule.Keyword) {
			metrics.SegmentResolutions.WithLabelValues("keyword").Inc()
			return SegmentAssignment{Key: rule.Key, ID: rule.ID, EventTypeName: eventTypeName}
		}
	}

	metrics.SegmentResolutions.WithLabelValues("default").Inc()
	return SegmentAssignment{Key: SegmentKeyDefault, ID: t.defaultID, EventTypeName: eventTypeName}
}

// segmentKeyForID recovers the segment key for an exact-table id so that
// per-segment field-key lookups still apply to exact matches.
func segmentKeyForID(t *SegmentTable, id string) string {
	for _, rule := range t.rules {
		if rule.ID == id {
			return rule.Key
		}
	}
	return SegmentKeyDefault
}
