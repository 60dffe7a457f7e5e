// Package rulepack loads the automation classification tables and heuristic
// durations from the embedded rules.json, optionally merged with a YAML override
package rulepack

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"impactlog/internal/core/source"
	"impactlog/internal/core/textnorm"
)

//go:embed rules.json
var embedded []byte

// Version is the only rules.json schema version this package understands
const Version = 1

// Match selects how a rule compares a row field against its values
type Match string

const (
	MatchAlways   Match = "always"
	MatchEquals   Match = "equals"
	MatchContains Match = "contains"
)

// Field names a classification input a normalizer can supply
type Field string

const (
	FieldSection        Field = "section"
	FieldTeam           Field = "team"
	FieldTags           Field = "tags"
	FieldLabels         Field = "labels"
	FieldIssueType      Field = "issue_type"
	FieldStatus         Field = "status"
	FieldZapName        Field = "zap_name"
	FieldApp            Field = "app"
	FieldCategory       Field = "category"
	FieldOriginalSource Field = "original_source"
	FieldDealStage      Field = "deal_stage"
	FieldPipeline       Field = "pipeline"
	FieldActivityType   Field = "activity_type"
	FieldApplication    Field = "application"
)

// fieldsByApp is the set of fields each normalizer fills
var fieldsByApp = map[source.App][]Field{
	source.Asana:        {FieldSection, FieldTeam, FieldTags},
	source.Jira:         {FieldLabels, FieldIssueType, FieldStatus},
	source.Zapier:       {FieldZapName, FieldApp, FieldCategory, FieldStatus},
	source.HubSpot:      {FieldOriginalSource, FieldDealStage, FieldPipeline},
	source.Microsoft365: {FieldActivityType, FieldApplication},
}

// Wildcard keys the per app default heuristic
const Wildcard = "*"

type rawRule struct {
	Name   string   `json:"name" yaml:"name"`
	Match  Match    `json:"match" yaml:"match"`
	Fields []Field  `json:"fields,omitempty" yaml:"fields,omitempty"`
	Values []string `json:"values,omitempty" yaml:"values,omitempty"`
}

type rawHeuristics struct {
	FallbackHours *float64                      `json:"fallback_hours,omitempty" yaml:"fallback_hours,omitempty"`
	BySource      map[string]map[string]float64 `json:"by_source,omitempty" yaml:"by_source,omitempty"`
}

type rawPack struct {
	Version    int                `json:"version" yaml:"version"`
	Meta       map[string]any     `json:"meta,omitempty" yaml:"meta,omitempty"`
	Sources    map[string]rawRule `json:"sources" yaml:"sources"`
	Heuristics rawHeuristics      `json:"heuristics" yaml:"heuristics"`
}

// Rule is one compiled per source classification rule
type Rule struct {
	Name   string   `json:"name"`
	Match  Match    `json:"match"`
	Fields []Field  `json:"fields,omitempty"`
	Values []string `json:"values,omitempty"` // folded
}

// Table holds heuristic hours per app and folded category
type Table struct {
	FallbackHours float64                           `json:"fallback_hours"`
	ByApp         map[source.App]map[string]float64 `json:"by_app"`
}

// Pack is a compiled, read only rule pack
type Pack struct {
	Version    int                 `json:"version"`
	Meta       map[string]any      `json:"meta,omitempty"`
	Rules      map[source.App]Rule `json:"rules"`
	Heuristics Table               `json:"heuristics"`
	Origin     string              `json:"origin"`
}

var loadDefault = sync.OnceValues(func() (*Pack, error) { return Load() })

// Default returns the shared pack compiled from the embedded rules.json
// callers must not mutate it
func Default() (*Pack, error) { return loadDefault() }

// Load compiles a fresh pack from the embedded rules.json
func Load() (*Pack, error) {
	var rp rawPack
	if err := json.Unmarshal(embedded, &rp); err != nil {
		return nil, fmt.Errorf("rulepack: parse rules.json: %w", err)
	}
	if rp.Version != Version {
		return nil, fmt.Errorf("rulepack: unsupported rules.json version %d (want %d)", rp.Version, Version)
	}

	p := &Pack{
		Version: rp.Version,
		Meta:    rp.Meta,
		Rules:   make(map[source.App]Rule, len(source.Apps())),
		Heuristics: Table{
			ByApp: make(map[source.App]map[string]float64, len(source.Apps())),
		},
		Origin: "embedded",
	}
	if err := p.apply(rp); err != nil {
		return nil, err
	}
	for _, a := range source.Apps() {
		if _, ok := p.Rules[a]; !ok {
			return nil, fmt.Errorf("rulepack: rules.json has no rule for %s", a)
		}
	}
	return p, nil
}

// apply compiles rp over p, replacing rules and merging heuristics
func (p *Pack) apply(rp rawPack) error {
	for key, rr := range rp.Sources {
		app, ok := source.ParseApp(key)
		if !ok {
			return fmt.Errorf("rulepack: unknown source %q", key)
		}
		r, err := compileRule(app, rr)
		if err != nil {
			return err
		}
		p.Rules[app] = r
	}
	return p.applyHeuristics(rp.Heuristics)
}

// applyHeuristics merges h into p key by key
func (p *Pack) applyHeuristics(h rawHeuristics) error {
	if fb := h.FallbackHours; fb != nil {
		if *fb < 0 {
			return fmt.Errorf("rulepack: fallback_hours must be >= 0, got %v", *fb)
		}
		p.Heuristics.FallbackHours = *fb
	}
	for key, cats := range h.BySource {
		app, ok := source.ParseApp(key)
		if !ok {
			return fmt.Errorf("rulepack: heuristics for unknown source %q", key)
		}
		dst := p.Heuristics.ByApp[app]
		if dst == nil {
			dst = make(map[string]float64, len(cats))
			p.Heuristics.ByApp[app] = dst
		}
		for cat, hours := range cats {
			if hours < 0 {
				return fmt.Errorf("rulepack: %s/%s: hours must be >= 0, got %v", app, cat, hours)
			}
			k := cat
			if k != Wildcard {
				k = textnorm.Fold(cat)
			}
			dst[k] = hours
		}
	}
	return nil
}

func compileRule(app source.App, rr rawRule) (Rule, error) {
	r := Rule{Name: rr.Name, Match: rr.Match}
	if r.Name == "" {
		r.Name = string(app) + "-" + string(rr.Match)
	}

	switch rr.Match {
	case MatchAlways:
		return r, nil
	case MatchEquals, MatchContains:
	default:
		return Rule{}, fmt.Errorf("rulepack: %s: unknown match %q", app, rr.Match)
	}

	if len(rr.Fields) == 0 {
		return Rule{}, fmt.Errorf("rulepack: %s: %s rule needs fields", app, rr.Match)
	}
	for _, f := range rr.Fields {
		if !fieldAllowed(app, f) {
			return Rule{}, fmt.Errorf("rulepack: %s: field %q not available for this source", app, f)
		}
	}
	r.Fields = append([]Field(nil), rr.Fields...)

	seen := make(map[string]struct{}, len(rr.Values))
	for _, v := range rr.Values {
		v = textnorm.Fold(v)
		if v == "" {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		r.Values = append(r.Values, v)
	}
	if len(r.Values) == 0 {
		return Rule{}, fmt.Errorf("rulepack: %s: %s rule needs values", app, rr.Match)
	}
	sort.Strings(r.Values)
	return r, nil
}

func fieldAllowed(app source.App, f Field) bool {
	for _, x := range fieldsByApp[app] {
		if x == f {
			return true
		}
	}
	return false
}

// clone deep copies p so overrides never touch the shared default
func (p *Pack) clone() *Pack {
	out := &Pack{
		Version: p.Version,
		Meta:    p.Meta,
		Rules:   make(map[source.App]Rule, len(p.Rules)),
		Heuristics: Table{
			FallbackHours: p.Heuristics.FallbackHours,
			ByApp:         make(map[source.App]map[string]float64, len(p.Heuristics.ByApp)),
		},
		Origin: p.Origin,
	}
	for a, r := range p.Rules {
		r.Fields = append([]Field(nil), r.Fields...)
		r.Values = append([]string(nil), r.Values...)
		out.Rules[a] = r
	}
	for a, cats := range p.Heuristics.ByApp {
		m := make(map[string]float64, len(cats))
		for k, v := range cats {
			m[k] = v
		}
		out.Heuristics.ByApp[a] = m
	}
	return out
}
