// Package modelfile reads annotation tables from YAML or JSON model documents.
package modelfile

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/psantana5/cpxanno/pkg/models"
)

// ErrMissingField is returned when an element lacks a required key
var ErrMissingField = errors.New("missing required field")

// Document models a model file:
//
//	name: facility
//	annotations:
//	  - scope: variables
//	    elements:
//	      - {name: open_1, index: 0, value: 1}
//	      - {index: 3, value: 2}
type Document struct {
	Name        string       `yaml:"name" json:"name"`
	Annotations []ScopeBlock `yaml:"annotations" json:"annotations"`
}

// ScopeBlock lists the annotated elements of one scope
type ScopeBlock struct {
	Scope    string         `yaml:"scope" json:"scope"`
	Elements []ElementEntry `yaml:"elements" json:"elements"`
}

// ElementEntry is one annotated element. Index and Value are required.
type ElementEntry struct {
	Name  string `yaml:"name,omitempty" json:"name,omitempty"`
	Index *int   `yaml:"index" json:"index"`
	Value *int64 `yaml:"value" json:"value"`
}

// Decode parses a document without building a model
func Decode(r io.Reader) (*Document, error) {
	var doc Document
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return &doc, nil
		}
		return nil, fmt.Errorf("parse model document: %w", err)
	}
	return &doc, nil
}

type elementKey struct {
	scope models.Scope
	name  string
	index int
}

// Model builds the annotation table described by the document.
// Repeated scopes merge into the position of their first block, and a
// repeated element (same scope, name and index) keeps its last value.
func (d *Document) Model() (*models.Model, error) {
	m := models.NewModel(d.Name)
	seen := make(map[elementKey]*models.Element)
	for i, block := range d.Annotations {
		scope, err := models.ParseScope(block.Scope)
		if err != nil {
			return nil, fmt.Errorf("annotations[%d]: %w", i, err)
		}
		for j, e := range block.Elements {
			if e.Index == nil {
				return nil, fmt.Errorf("annotations[%d].elements[%d]: %w: index", i, j, ErrMissingField)
			}
			if e.Value == nil {
				return nil, fmt.Errorf("annotations[%d].elements[%d]: %w: value", i, j, ErrMissingField)
			}
			key := elementKey{scope: scope, name: e.Name, index: *e.Index}
			el, ok := seen[key]
			if !ok {
				el = models.NewElement(e.Name, *e.Index)
				seen[key] = el
			}
			m.Annotate(scope, el, *e.Value)
		}
	}
	return m, nil
}

// Load decodes a document and builds its model
func Load(r io.Reader) (*models.Model, error) {
	doc, err := Decode(r)
	if err != nil {
		return nil, err
	}
	return doc.Model()
}

// LoadFile loads the model document at path
func LoadFile(path string) (*models.Model, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open model document: %w", err)
	}
	defer f.Close()

	m, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}
