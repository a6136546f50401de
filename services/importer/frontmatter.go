package importer

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

var frontMatterPattern = regexp.MustCompile(`(?s)\A---[ \t]*\r?\n(.*?)\r?\n---[ \t]*(?:\r?\n|\z)`)

type frontMatter struct {
	Title    string     `yaml:"title"`
	Category string     `yaml:"category"`
	Tags     stringList `yaml:"tags"`
	Color    string     `yaml:"color"`
	Priority string     `yaml:"priority"`
	Favorite bool       `yaml:"favorite"`
	Pinned   bool       `yaml:"pinned"`
	Updated  string     `yaml:"updated"`
}

// stringList accepts either a YAML sequence or a comma separated scalar.
type stringList []string

func (l *stringList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		var items []string
		for _, item := range strings.Split(value.Value, ",") {
			if item = strings.TrimSpace(item); item != "" {
				items = append(items, item)
			}
		}
		*l = items
		return nil
	case yaml.SequenceNode:
		var items []string
		if err := value.Decode(&items); err != nil {
			return err
		}
		*l = items
		return nil
	default:
		return fmt.Errorf("line %d: tags must be a list or a comma separated string", value.Line)
	}
}

// splitFrontMatter separates a leading YAML block from the markdown body.
// Content without one is all body.
func splitFrontMatter(content string) (frontMatter, string, error) {
	var fm frontMatter
	loc := frontMatterPattern.FindStringSubmatchIndex(content)
	if loc == nil {
		return fm, strings.TrimSpace(content), nil
	}

	if err := yaml.Unmarshal([]byte(content[loc[2]:loc[3]]), &fm); err != nil {
		return fm, "", fmt.Errorf("invalid front matter: %w", err)
	}
	return fm, strings.TrimSpace(content[loc[1]:]), nil
}

var updatedLayouts = []string{time.RFC3339, "2006-01-02 15:04", "2006-01-02"}

func parseUpdated(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range updatedLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
