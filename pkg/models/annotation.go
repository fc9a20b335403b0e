package models

import "fmt"

// Object is a model element that can carry an annotation.
// A negative index means the element has not been added to a model.
// An empty name means the element is unnamed.
type Object interface {
	Index() int
	Name() string
}

// Element is a plain Object
type Element struct {
	ElementName  string `json:"name,omitempty" yaml:"name,omitempty"`
	ElementIndex int    `json:"index" yaml:"index"`
}

// NewElement creates an element with the given name and index
func NewElement(name string, index int) *Element {
	return &Element{ElementName: name, ElementIndex: index}
}

// Index implements Object
func (e *Element) Index() int { return e.ElementIndex }

// Name implements Object
func (e *Element) Name() string { return e.ElementName }

func (e *Element) String() string {
	if e.ElementName != "" {
		return e.ElementName
	}
	return fmt.Sprintf("#%d", e.ElementIndex)
}

// Annotation pairs an object with its Benders partition value
type Annotation struct {
	Object Object
	Value  int64
}

// ScopeAnnotations is one row of the annotation table
type ScopeAnnotations struct {
	Scope       Scope
	Annotations []Annotation
}

// Annotated is implemented by anything exposing an annotation table.
// Rows are returned in scope insertion order.
type Annotated interface {
	AnnotationsByScope() []ScopeAnnotations
}
