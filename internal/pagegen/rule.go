package pagegen

import (
	"errors"
	"fmt"
	"strings"
)

// Rule describes how one data collection maps to a parent/child page hierarchy.
type Rule struct {
	DataFile       string `yaml:"data_file" toml:"data_file" json:"data_file"`
	ParentKey      string `yaml:"parent_key" toml:"parent_key" json:"parent_key"`
	SubKey         string `yaml:"sub_key" toml:"sub_key" json:"sub_key"`
	OutDir         string `yaml:"out_dir,omitempty" toml:"out_dir,omitempty" json:"out_dir,omitempty"`
	ParentTemplate string `yaml:"parent_template" toml:"parent_template" json:"parent_template"`
	ChildTemplate  string `yaml:"child_template,omitempty" toml:"child_template,omitempty" json:"child_template,omitempty"`
}

// ResolvedRule is a validated Rule with defaults applied and sub_key split.
type ResolvedRule struct {
	Rule
	// CollectionField holds the sub-category list on each category record.
	CollectionField string
	// NameField holds the display name on each sub-category record.
	NameField string
}

// ErrInvalidRule is wrapped by every error returned from Rule.Resolve.
var ErrInvalidRule = errors.New("invalid generation rule")

// Resolve validates the rule and applies defaults: out_dir and child_template
// both fall back to data_file.
func (r Rule) Resolve() (ResolvedRule, error) {
	var problems []error
	if strings.TrimSpace(r.DataFile) == "" {
		problems = append(problems, errors.New("data_file is required"))
	}
	if strings.TrimSpace(r.ParentKey) == "" {
		problems = append(problems, errors.New("parent_key is required"))
	}
	if strings.TrimSpace(r.ParentTemplate) == "" {
		problems = append(problems, errors.New("parent_template is required"))
	}

	collection, name, err := splitSubKey(r.SubKey)
	if err != nil {
		problems = append(problems, err)
	}

	if len(problems) > 0 {
		return ResolvedRule{}, fmt.Errorf("%w: %w", ErrInvalidRule, errors.Join(problems...))
	}

	resolved := ResolvedRule{Rule: r, CollectionField: collection, NameField: name}
	if resolved.OutDir == "" {
		resolved.OutDir = r.DataFile
	}
	if resolved.ChildTemplate == "" {
		resolved.ChildTemplate = r.DataFile
	}
	return resolved, nil
}

func splitSubKey(subKey string) (collection, name string, err error) {
	if strings.TrimSpace(subKey) == "" {
		return "", "", errors.New("sub_key is required")
	}
	parts := strings.Split(subKey, ".")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("sub_key %q must have the form <collection>.<name>", subKey)
	}
	return parts[0], parts[1], nil
}
