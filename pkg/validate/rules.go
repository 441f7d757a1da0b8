// Package validate checks outgoing call parameters against per-operation rules.
package validate

import (
	"strings"
)

// Rule tags.
const (
	RuleRequired  = "required"
	RuleInt       = "int"
	RuleTelephone = "telephone"
)

// FieldRule is the ordered rule list for one field.
type FieldRule struct {
	Field string
	Rules []string
}

// Has reports whether tag is among the field's rules.
func (f FieldRule) Has(tag string) bool {
	for _, r := range f.Rules {
		if r == tag {
			return true
		}
	}
	return false
}

// OperationRules is the ordered field list of one operation.
type OperationRules []FieldRule

// RuleSet maps an operation name to its field rules. It is built once and
// only read afterwards.
type RuleSet map[string]OperationRules

// ParseTags splits a "required|telephone" rule string.
func ParseTags(s string) []string {
	var out []string
	for _, t := range strings.Split(s, "|") {
		t = strings.TrimSpace(t)
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}

// DefaultRules returns the built-in rule set.
func DefaultRules() RuleSet {
	return RuleSet{
		"sendMessage": {
			{Field: "to", Rules: []string{RuleRequired, RuleTelephone}},
			{Field: "from", Rules: []string{RuleTelephone}},
		},
		"getBalance": {},
		"queryMessage": {
			{Field: "apiMsgId", Rules: []string{RuleRequired}},
		},
		"routeCoverage": {
			{Field: "msisdn", Rules: []string{RuleTelephone}},
		},
		"getMessageCharge": {
			{Field: "apiMsgId", Rules: []string{RuleRequired}},
		},
		"stopMessage": {
			{Field: "apiMsgId", Rules: []string{RuleRequired}},
		},
	}
}

// MergeRuleSets returns base with every operation in override replacing the
// base entry of the same name.
func MergeRuleSets(base, override RuleSet) RuleSet {
	merged := make(RuleSet, len(base)+len(override))
	for op, rules := range base {
		merged[op] = rules
	}
	for op, rules := range override {
		merged[op] = rules
	}
	return merged
}
