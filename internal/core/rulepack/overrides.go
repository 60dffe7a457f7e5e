package rulepack

import (
	"fmt"
	"os"
	"slices"

	"gopkg.in/yaml.v3"

	"impactlog/internal/core/source"
)

// LoadOverrides merges the YAML file at path over the default pack
// an empty path returns the default pack unchanged
//
// The file uses the rules.json shape. A source listed under sources may only add
// values to its equals or contains rule; its match and fields are fixed. Heuristic
// entries are merged key by key
func LoadOverrides(path string) (*Pack, error) {
	base, err := Default()
	if err != nil {
		return nil, err
	}
	if path == "" {
		return base, nil
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("rulepack: read overrides: %w", err)
	}
	return Merge(base, b)
}

// Merge applies YAML override bytes to a copy of base
func Merge(base *Pack, doc []byte) (*Pack, error) {
	var rp rawPack
	if err := yaml.Unmarshal(doc, &rp); err != nil {
		return nil, fmt.Errorf("rulepack: parse overrides: %w", err)
	}
	if rp.Version != 0 && rp.Version != Version {
		return nil, fmt.Errorf("rulepack: unsupported overrides version %d (want %d)", rp.Version, Version)
	}

	p := base.clone()
	if err := p.extend(rp.Sources); err != nil {
		return nil, err
	}
	if err := p.applyHeuristics(rp.Heuristics); err != nil {
		return nil, err
	}
	if rp.Meta != nil {
		p.Meta = rp.Meta
	}
	p.Origin = "overrides"
	return p, nil
}

// extend adds override values to the existing rules
func (p *Pack) extend(sources map[string]rawRule) error {
	for key, rr := range sources {
		app, ok := source.ParseApp(key)
		if !ok {
			return fmt.Errorf("rulepack: unknown source %q", key)
		}
		cur, ok := p.Rules[app]
		if !ok {
			return fmt.Errorf("rulepack: %s: no rule to extend", app)
		}
		if rr.Match != "" && rr.Match != cur.Match {
			return fmt.Errorf("rulepack: %s: overrides cannot change match %q to %q", app, cur.Match, rr.Match)
		}
		if len(rr.Fields) > 0 && !sameFields(rr.Fields, cur.Fields) {
			return fmt.Errorf("rulepack: %s: overrides cannot change fields %v to %v", app, cur.Fields, rr.Fields)
		}

		name := cur.Name
		if rr.Name != "" {
			name = rr.Name
		}
		if cur.Match == MatchAlways {
			if len(rr.Values) > 0 {
				return fmt.Errorf("rulepack: %s: %s rule takes no values", app, cur.Match)
			}
			cur.Name = name
			p.Rules[app] = cur
			continue
		}

		r, err := compileRule(app, rawRule{
			Name:   name,
			Match:  cur.Match,
			Fields: cur.Fields,
			Values: append(slices.Clone(cur.Values), rr.Values...),
		})
		if err != nil {
			return err
		}
		p.Rules[app] = r
	}
	return nil
}

// sameFields compares field lists ignoring order and repeats
func sameFields(a, b []Field) bool {
	for _, f := range a {
		if !slices.Contains(b, f) {
			return false
		}
	}
	for _, f := range b {
		if !slices.Contains(a, f) {
			return false
		}
	}
	return true
}
