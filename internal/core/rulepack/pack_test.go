package rulepack

import (
	"os"
	"path/filepath"
	"testing"

	"impactlog/internal/core/source"
)

func TestLoad_EmbeddedCoversEverySource(t *testing.T) {
	p, err := Load()
	if err != nil {
		t.Fatalf("Load(): %v", err)
	}
	if p.Version != Version {
		t.Fatalf("version = %d, want %d", p.Version, Version)
	}
	for _, a := range source.Apps() {
		r, ok := p.Rules[a]
		if !ok {
			t.Fatalf("missing rule for %s", a)
		}
		if r.Name == "" {
			t.Fatalf("rule for %s has no name", a)
		}
		if _, ok := p.Heuristics.ByApp[a][Wildcard]; !ok {
			t.Fatalf("missing wildcard heuristic for %s", a)
		}
	}
	if p.Heuristics.FallbackHours <= 0 {
		t.Fatalf("fallback hours should be positive, got %v", p.Heuristics.FallbackHours)
	}
}

func TestDefault_Shared(t *testing.T) {
	a, err := Default()
	if err != nil {
		t.Fatalf("Default(): %v", err)
	}
	b, _ := Default()
	if a != b {
		t.Fatalf("Default should return the same compiled pack")
	}
}

func TestClassify_Table(t *testing.T) {
	p, err := Load()
	if err != nil {
		t.Fatalf("Load(): %v", err)
	}

	tests := []struct {
		name string
		app  source.App
		in   Fields
		want bool
	}{
		{"zapier always", source.Zapier, nil, true},
		{"jira bug label", source.Jira, Fields{FieldLabels: "bug"}, false},
		{"jira automation label", source.Jira, Fields{FieldLabels: "automation-cleanup"}, true},
		{"jira automation label case", source.Jira, Fields{FieldLabels: "ops, AUTOMATION"}, true},
		{"jira automation issue type", source.Jira, Fields{FieldIssueType: "Automation Task"}, true},
		{"jira status ignored", source.Jira, Fields{FieldStatus: "automation"}, false},
		{"asana automation section", source.Asana, Fields{FieldSection: "Automations"}, true},
		{"asana team match", source.Asana, Fields{FieldTeam: " Bots "}, true},
		{"asana partial is not equal", source.Asana, Fields{FieldSection: "Automation backlog"}, false},
		{"asana manual", source.Asana, Fields{FieldSection: "In Progress"}, false},
		{"hubspot workflow", source.HubSpot, Fields{FieldOriginalSource: "Workflow"}, true},
		{"hubspot organic", source.HubSpot, Fields{FieldOriginalSource: "Organic Search"}, false},
		{"m365 copilot", source.Microsoft365, Fields{FieldActivityType: "Copilot Summarize Email"}, true},
		{"m365 manual", source.Microsoft365, Fields{FieldActivityType: "Send Email"}, false},
		{"unknown app", source.App("Trello"), Fields{FieldLabels: "automation"}, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, _ := p.Classify(tc.app, tc.in)
			if got != tc.want {
				t.Fatalf("Classify(%s, %v) = %v, want %v", tc.app, tc.in, got, tc.want)
			}
		})
	}
}

func TestClassify_ReportsRuleName(t *testing.T) {
	p, _ := Load()
	ok, rule := p.Classify(source.Zapier, nil)
	if !ok || rule != "zapier-execution" {
		t.Fatalf("got (%v, %q)", ok, rule)
	}
}

func TestHours_LookupOrder(t *testing.T) {
	p, _ := Load()

	if h := p.Hours(source.Zapier, "email-automation"); h != 0.5 {
		t.Fatalf("zapier email-automation = %v, want 0.5", h)
	}
	if h := p.Hours(source.Zapier, "Email-Automation "); h != 0.5 {
		t.Fatalf("category lookup should fold, got %v", h)
	}
	if h := p.Hours(source.Zapier, "unknown"); h != 0.25 {
		t.Fatalf("zapier wildcard = %v, want 0.25", h)
	}
	if h := p.Hours(source.Jira, ""); h != 1.0 {
		t.Fatalf("jira wildcard = %v, want 1.0", h)
	}
	if h := p.Hours(source.App("Trello"), "x"); h != p.Heuristics.FallbackHours {
		t.Fatalf("unknown app should use fallback, got %v", h)
	}
}

func TestMerge_OverridesDoNotLeak(t *testing.T) {
	base, _ := Load()
	doc := []byte(`
sources:
  hubspot:
    name: hubspot-custom
    values: [Partner Referral]
heuristics:
  fallback_hours: 0.1
  by_source:
    zapier:
      email-automation: 0.75
      Reporting: 2
`)
	p, err := Merge(base, doc)
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	if p.Origin != "overrides" {
		t.Fatalf("origin = %q", p.Origin)
	}
	if ok, name := p.Classify(source.HubSpot, Fields{FieldOriginalSource: "partner referral"}); !ok || name != "hubspot-custom" {
		t.Fatalf("override value not applied: %v %q", ok, name)
	}
	if ok, _ := p.Classify(source.HubSpot, Fields{FieldOriginalSource: "Workflow"}); !ok {
		t.Fatalf("embedded values must survive an override")
	}
	if h := p.Hours(source.Zapier, "email-automation"); h != 0.75 {
		t.Fatalf("override heuristic = %v", h)
	}
	if h := p.Hours(source.Zapier, "reporting"); h != 2 {
		t.Fatalf("new folded category = %v", h)
	}
	if h := p.Hours(source.Zapier, "data-sync"); h != 0.33 {
		t.Fatalf("untouched category should survive merge, got %v", h)
	}
	if p.Heuristics.FallbackHours != 0.1 {
		t.Fatalf("fallback = %v", p.Heuristics.FallbackHours)
	}

	// base stays pristine
	if h := base.Hours(source.Zapier, "email-automation"); h != 0.5 {
		t.Fatalf("base mutated: %v", h)
	}
	if ok, _ := base.Classify(source.HubSpot, Fields{FieldOriginalSource: "Partner Referral"}); ok {
		t.Fatalf("base rule mutated")
	}
}

func TestMerge_Rejects(t *testing.T) {
	base, _ := Load()
	bad := map[string]string{
		"unknown source":  "sources:\n  trello:\n    match: always\n",
		"unknown match":   "sources:\n  jira:\n    match: regex\n    fields: [labels]\n    values: [x]\n",
		"foreign field":   "sources:\n  jira:\n    match: equals\n    fields: [deal_stage]\n    values: [x]\n",
		"no values":       "sources:\n  jira:\n    match: contains\n    fields: [labels]\n",
		"negative hours":  "heuristics:\n  by_source:\n    jira:\n      bug: -1\n",
		"wrong version":   "version: 9\n",
		"invalid yaml":    "sources: [\n",
		"neg fallback":    "heuristics:\n  fallback_hours: -0.5\n",
		"heur source":     "heuristics:\n  by_source:\n    trello:\n      '*': 1\n",
		"zapier contains": "sources:\n  zapier: {match: contains, fields: [status], values: [success]}\n",
		"zapier values":   "sources:\n  zapier:\n    values: [success]\n",
		"jira equals":     "sources:\n  jira:\n    match: equals\n    fields: [labels, issue_type]\n    values: [x]\n",
		"jira one field":  "sources:\n  jira:\n    fields: [status]\n    values: [done]\n",
	}
	for name, doc := range bad {
		t.Run(name, func(t *testing.T) {
			if _, err := Merge(base, []byte(doc)); err == nil {
				t.Fatalf("expected error for %s", name)
			}
		})
	}
}

func TestMerge_ExtendsFixedRules(t *testing.T) {
	base, _ := Load()
	doc := []byte(`
sources:
  zapier:
    name: zapier-runs
  jira:
    fields: [issue_type, labels]
    values: [bot]
`)
	p, err := Merge(base, doc)
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}

	if ok, name := p.Classify(source.Zapier, Fields{FieldStatus: "failed"}); !ok || name != "zapier-runs" {
		t.Fatalf("zapier must stay automated: %v %q", ok, name)
	}
	if r := p.Rules[source.Jira]; r.Match != MatchContains || len(r.Fields) != 2 {
		t.Fatalf("jira rule shape changed: %+v", r)
	}
	if ok, _ := p.Classify(source.Jira, Fields{FieldLabels: "automation-cleanup"}); !ok {
		t.Fatalf("embedded jira marker lost")
	}
	if ok, _ := p.Classify(source.Jira, Fields{FieldIssueType: "Bot Task"}); !ok {
		t.Fatalf("added jira value not applied")
	}
	if ok, _ := p.Classify(source.Jira, Fields{FieldLabels: "bug"}); ok {
		t.Fatalf("bug label must stay manual")
	}
}

func TestLoadOverrides_File(t *testing.T) {
	p, err := LoadOverrides("")
	if err != nil {
		t.Fatalf("LoadOverrides(\"\"): %v", err)
	}
	if p.Origin != "embedded" {
		t.Fatalf("empty path should return default pack, origin %q", p.Origin)
	}

	path := filepath.Join(t.TempDir(), "rules.yaml")
	if err := os.WriteFile(path, []byte("heuristics:\n  by_source:\n    jira:\n      '*': 2\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	p, err = LoadOverrides(path)
	if err != nil {
		t.Fatalf("LoadOverrides(file): %v", err)
	}
	if h := p.Hours(source.Jira, "whatever"); h != 2 {
		t.Fatalf("jira wildcard override = %v", h)
	}

	if _, err := LoadOverrides(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
