package rulepack

import (
	"strings"

	"impactlog/internal/core/source"
	"impactlog/internal/core/textnorm"
)

// Fields carries the raw cell text a normalizer exposes for classification
type Fields map[Field]string

// Classify reports whether a row is automation and the name of the rule that decided it
// a source with no rule is always manual
func (p *Pack) Classify(app source.App, f Fields) (bool, string) {
	r, ok := p.Rules[app]
	if !ok {
		return false, ""
	}
	return r.matches(f), r.Name
}

func (r Rule) matches(f Fields) bool {
	if r.Match == MatchAlways {
		return true
	}
	for _, field := range r.Fields {
		cell := textnorm.Fold(f[field])
		if cell == "" {
			continue
		}
		switch r.Match {
		case MatchContains:
			for _, v := range r.Values {
				if strings.Contains(cell, v) {
					return true
				}
			}
		case MatchEquals:
			// multi value cells match when any part equals a value
			parts := append([]string{cell}, textnorm.Split(cell)...)
			for _, part := range parts {
				if r.has(part) {
					return true
				}
			}
		}
	}
	return false
}

func (r Rule) has(v string) bool {
	for _, x := range r.Values {
		if x == v {
			return true
		}
	}
	return false
}

// Hours returns the heuristic duration for an automated event without an explicit one
// lookup order is (app, category), (app, *), then the global fallback
func (p *Pack) Hours(app source.App, category string) float64 {
	cats := p.Heuristics.ByApp[app]
	if cats != nil {
		if c := textnorm.Fold(category); c != "" {
			if h, ok := cats[c]; ok {
				return h
			}
		}
		if h, ok := cats[Wildcard]; ok {
			return h
		}
	}
	return p.Heuristics.FallbackHours
}
