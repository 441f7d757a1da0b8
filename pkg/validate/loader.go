package validate

import (
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"
)

const loaderLogPrefix = "validate:loader"

// RulesFileEnv names the environment variable holding a rule-set file path.
const RulesFileEnv = "CLICKATELL_RULES_FILE"

// LoadRuleSet loads rule overrides and merges them over DefaultRules.
// It tries paths in order: any paths passed in, then CLICKATELL_RULES_FILE,
// then config/rules.yaml and rules.yaml. A file that fails to parse is
// skipped with a warning. With no readable file the defaults are returned.
//
// The file is YAML (JSON also parses) mapping operation -> field -> rules,
// where rules is either "required|telephone" or a list of tags.
func LoadRuleSet(paths ...string) (RuleSet, error) {
	all := make([]string, 0, len(paths)+3)
	for _, p := range paths {
		if p != "" {
			all = append(all, p)
		}
	}
	if envPath := os.Getenv(RulesFileEnv); envPath != "" {
		all = append(all, envPath)
	}
	all = append(all, "config/rules.yaml", "rules.yaml")

	for _, p := range all {
		data, err := os.ReadFile(p)
		if err != nil {
			continue
		}

		override, err := ParseRuleSet(data)
		if err != nil {
			slog.Warn(fmt.Sprintf("%s - Failed to parse rules file %s: %v", loaderLogPrefix, p, err))
			continue
		}

		slog.Info(fmt.Sprintf("%s - Loaded %d operation rule(s) from %s", loaderLogPrefix, len(override), p))
		return MergeRuleSets(DefaultRules(), override), nil
	}

	slog.Debug(fmt.Sprintf("%s - Using default rules", loaderLogPrefix))
	return DefaultRules(), nil
}

// ParseRuleSet decodes a rule-set document, keeping field order.
func ParseRuleSet(data []byte) (RuleSet, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%s - failed to decode rules: %w", loaderLogPrefix, err)
	}
	if len(doc.Content) == 0 {
		return RuleSet{}, nil
	}

	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%s - rules root must be a mapping, got %s", loaderLogPrefix, kindName(root.Kind))
	}

	out := make(RuleSet, len(root.Content)/2)
	for i := 0; i+1 < len(root.Content); i += 2 {
		op := root.Content[i].Value
		fields := root.Content[i+1]

		if fields.Kind == yaml.ScalarNode && fields.Tag == "!!null" {
			out[op] = OperationRules{}
			continue
		}
		if fields.Kind != yaml.MappingNode {
			return nil, fmt.Errorf("%s - rules for %s must be a mapping, got %s", loaderLogPrefix, op, kindName(fields.Kind))
		}

		rules := make(OperationRules, 0, len(fields.Content)/2)
		for j := 0; j+1 < len(fields.Content); j += 2 {
			field := fields.Content[j].Value
			tags, err := decodeTags(fields.Content[j+1])
			if err != nil {
				return nil, fmt.Errorf("%s - rules for %s.%s: %w", loaderLogPrefix, op, field, err)
			}
			for _, t := range tags {
				if t != RuleRequired && t != RuleInt && t != RuleTelephone {
					slog.Warn(fmt.Sprintf("%s - Unknown rule %q on %s.%s is ignored", loaderLogPrefix, t, op, field))
				}
			}
			rules = append(rules, FieldRule{Field: field, Rules: tags})
		}
		out[op] = rules
	}
	return out, nil
}

func decodeTags(n *yaml.Node) ([]string, error) {
	switch n.Kind {
	case yaml.ScalarNode:
		return ParseTags(n.Value), nil
	case yaml.SequenceNode:
		var tags []string
		if err := n.Decode(&tags); err != nil {
			return nil, err
		}
		return tags, nil
	default:
		return nil, fmt.Errorf("expected a string or list, got %s", kindName(n.Kind))
	}
}

func kindName(k yaml.Kind) string {
	switch k {
	case yaml.DocumentNode:
		return "document"
	case yaml.SequenceNode:
		return "sequence"
	case yaml.MappingNode:
		return "mapping"
	case yaml.ScalarNode:
		return "scalar"
	case yaml.AliasNode:
		return "alias"
	default:
		return "unknown"
	}
}
