package statemachine

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// YAML declaration source: the declarative counterpart of explicit
// registration calls. Documents look like:
//
//	states:
//	  - name: draft
//	    title: Draft
//	    default: true
//	  - name: published
//	    color: "#2ecc71"
//	    permitted_roles: [admin]
//	transitions:
//	  - from: draft
//	    to: review
//	    handler: submit_for_review
//	  - from: review
//	    to: [published, rejected]
//
// States are merged with last-writer-wins semantics for singleton fields;
// transitions are unioned with any edges already registered.
type yamlDocument struct {
	States      []StateDefinition `yaml:"states"`
	Transitions []yamlTransition  `yaml:"transitions"`
}

type yamlTransition struct {
	From    string     `yaml:"from"`
	To      stringList `yaml:"to"`
	Handler string     `yaml:"handler"`
}

// stringList accepts either a scalar or a sequence of strings.
type stringList []string

func (l *stringList) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var s string
		if err := node.Decode(&s); err != nil {
			return err
		}
		*l = stringList{s}
		return nil
	case yaml.SequenceNode:
		var items []string
		if err := node.Decode(&items); err != nil {
			return err
		}
		*l = items
		return nil
	default:
		return fmt.Errorf("unexpected yaml node kind %d for transition target", node.Kind)
	}
}

type yamlSource struct {
	reader io.Reader
}

// NewYAMLSource returns a Source that reads a YAML declaration document from
// r when applied.
func NewYAMLSource(r io.Reader) Source {
	return &yamlSource{reader: r}
}

// YAMLFile returns a Source that reads a YAML declaration document from the
// given path when applied. The file is opened lazily so registries can be
// declared before their configuration exists.
func YAMLFile(path string) Source {
	return SourceFunc(func(r *Registry) error {
		f, err := os.Open(path)
		if err != nil {
			return configErr(err)
		}
		defer f.Close()
		return NewYAMLSource(f).Apply(r)
	})
}

func (s *yamlSource) Apply(r *Registry) error {
	var doc yamlDocument
	if err := yaml.NewDecoder(s.reader).Decode(&doc); err != nil {
		return configErr(fmt.Errorf("decode state declaration: %w", err))
	}

	for _, def := range doc.States {
		if err := r.Merge(def); err != nil {
			return err
		}
	}
	for _, t := range doc.Transitions {
		if t.From == "" || len(t.To) == 0 {
			return configErr(ErrEdgeIncomplete)
		}
		var opts []EdgeOption
		if t.Handler != "" {
			opts = append(opts, WithHandler(t.Handler))
		}
		if err := r.AllowMany(t.From, t.To, opts...); err != nil {
			return err
		}
	}
	return nil
}
