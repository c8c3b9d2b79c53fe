// Package types provides type definitions for the prompt records stored in the library.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Prompt is one video-generation prompt record, loaded from a single YAML file.
type Prompt struct {
	Title       string       `yaml:"title" json:"title"`
	Category    string       `yaml:"category" json:"category"`
	Summary     string       `yaml:"summary,omitempty" json:"summary,omitempty"`
	Tags        []string     `yaml:"tags,omitempty" json:"tags,omitempty"`
	Created     string       `yaml:"created,omitempty" json:"created,omitempty"`
	DemoLink    string       `yaml:"demo_link,omitempty" json:"demo_link,omitempty"`
	Camera      *Camera      `yaml:"camera,omitempty" json:"camera,omitempty"`
	Performance *Performance `yaml:"performance,omitempty" json:"performance,omitempty"`
}

// Camera describes the shot setup of a prompt
type Camera struct {
	Lens     string `yaml:"lens,omitempty" json:"lens,omitempty"`
	Movement string `yaml:"movement,omitempty" json:"movement,omitempty"`
	Framing  string `yaml:"framing,omitempty" json:"framing,omitempty"`
}

// Performance holds engagement metrics measured on the published demo video.
// Nil means the metric was not recorded, which is different from zero.
type Performance struct {
	Retention3s    *float64 `yaml:"retention_3s,omitempty" json:"retention_3s,omitempty"`
	Retention5s    *float64 `yaml:"retention_5s,omitempty" json:"retention_5s,omitempty"`
	CompletionRate *float64 `yaml:"completion_rate,omitempty" json:"completion_rate,omitempty"`
	Replays        *int     `yaml:"replays,omitempty" json:"replays,omitempty"`

	// Invalid lists the metrics present in the record whose values could not
	// be read as numbers. They are left nil.
	Invalid []string `yaml:"-" json:"-"`
}

// UnmarshalYAML decodes each metric on its own so one unreadable value, such
// as "85%", does not discard the rest of the record.
func (p *Performance) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: performance must be a mapping", value.Line)
	}

	*p = Performance{}
	for i := 0; i+1 < len(value.Content); i += 2 {
		key, item := value.Content[i].Value, value.Content[i+1]

		var err error
		switch key {
		case "retention_3s":
			p.Retention3s, err = decodeMetric[float64](item)
		case "retention_5s":
			p.Retention5s, err = decodeMetric[float64](item)
		case "completion_rate":
			p.CompletionRate, err = decodeMetric[float64](item)
		case "replays":
			p.Replays, err = decodeMetric[int](item)
		default:
			continue
		}
		if err != nil {
			p.Invalid = append(p.Invalid, key)
		}
	}
	return nil
}

func decodeMetric[T float64 | int](node *yaml.Node) (*T, error) {
	if node.Tag == "!!null" {
		return nil, nil
	}
	var v T
	if err := node.Decode(&v); err != nil {
		return nil, err
	}
	return &v, nil
}

// IsEmpty reports whether no metric has been recorded.
// Unreadable metrics do not count as recorded.
func (p *Performance) IsEmpty() bool {
	return p == nil || (p.Retention3s == nil && p.Retention5s == nil && p.CompletionRate == nil && p.Replays == nil)
}

// TitleOrDefault returns the prompt title, or "Untitled" when missing.
func (p *Prompt) TitleOrDefault() string {
	if p.Title == "" {
		return "Untitled"
	}
	return p.Title
}

// CategoryOrDefault returns the prompt category, or "unknown" when missing.
func (p *Prompt) CategoryOrDefault() string {
	if p.Category == "" {
		return "unknown"
	}
	return p.Category
}
