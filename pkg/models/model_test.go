package models

import (
	"errors"
	"testing"
)

func TestParseScope(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Scope
		wantErr bool
	}{
		{"variables", "variables", ScopeVariable, false},
		{"variable alias", "Var", ScopeVariable, false},
		{"linear", "linear", ScopeLinearConstraint, false},
		{"linear long form", "linear-constraints", ScopeLinearConstraint, false},
		{"indicator", " indicator ", ScopeIndicatorConstraint, false},
		{"quadratic", "QUADRATIC", ScopeQuadraticConstraint, false},
		{"piecewise", "pwl", ScopePiecewiseConstraint, false},
		{"sos", "sos", ScopeSOS, false},
		{"unknown", "cones", 0, true},
		{"empty", "", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseScope(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseScope(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if tt.wantErr {
				if !errors.Is(err, ErrUnknownScope) {
					t.Errorf("ParseScope(%q) error = %v, want ErrUnknownScope", tt.input, err)
				}
				return
			}
			if got != tt.want {
				t.Errorf("ParseScope(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestScopePrefix(t *testing.T) {
	tests := []struct {
		scope Scope
		want  string
	}{
		{ScopeVariable, "x"},
		{ScopeLinearConstraint, "c"},
		{ScopeIndicatorConstraint, "ic"},
		{ScopeQuadraticConstraint, "qc"},
		{ScopePiecewiseConstraint, "pwl"},
		{ScopeSOS, "sos"},
		{Scope(42), ""},
	}

	for _, tt := range tests {
		if got := tt.scope.Prefix(); got != tt.want {
			t.Errorf("%v.Prefix() = %q, want %q", tt.scope, got, tt.want)
		}
	}
	if Scope(42).Valid() {
		t.Error("Scope(42) should not be valid")
	}
	if got := Scope(42).String(); got != "scope(42)" {
		t.Errorf("Scope(42).String() = %q", got)
	}
}

func TestModelPreservesScopeInsertionOrder(t *testing.T) {
	m := NewModel("order")
	m.Annotate(ScopeQuadraticConstraint, NewElement("q", 0), 1)
	m.Annotate(ScopeVariable, NewElement("x", 0), 2)
	m.Annotate(ScopeLinearConstraint, NewElement("c", 0), 3)
	m.Annotate(ScopeVariable, NewElement("y", 1), 4)

	rows := m.AnnotationsByScope()
	want := []Scope{ScopeQuadraticConstraint, ScopeVariable, ScopeLinearConstraint}
	if len(rows) != len(want) {
		t.Fatalf("got %d rows, want %d", len(rows), len(want))
	}
	for i, scope := range want {
		if rows[i].Scope != scope {
			t.Errorf("row %d scope = %v, want %v", i, rows[i].Scope, scope)
		}
	}
	if len(rows[1].Annotations) != 2 {
		t.Errorf("variables row has %d annotations, want 2", len(rows[1].Annotations))
	}
	if m.NumAnnotations() != 4 {
		t.Errorf("NumAnnotations() = %d, want 4", m.NumAnnotations())
	}
}

func TestModelAnnotateOverwritesInPlace(t *testing.T) {
	m := NewModel("overwrite")
	a := NewElement("a", 0)
	b := NewElement("b", 1)
	m.Annotate(ScopeVariable, a, 1)
	m.Annotate(ScopeVariable, b, 2)
	m.Annotate(ScopeVariable, a, 9)

	rows := m.AnnotationsByScope()
	got := rows[0].Annotations
	if len(got) != 2 {
		t.Fatalf("got %d annotations, want 2", len(got))
	}
	if got[0].Object != a || got[0].Value != 9 {
		t.Errorf("first annotation = %v/%d, want a/9", got[0].Object, got[0].Value)
	}
	if v, ok := m.Annotation(ScopeVariable, a); !ok || v != 9 {
		t.Errorf("Annotation(a) = %d, %v", v, ok)
	}
	if _, ok := m.Annotation(ScopeSOS, a); ok {
		t.Error("Annotation in unused scope should not exist")
	}
}

func TestModelRemoveAndClear(t *testing.T) {
	m := NewModel("remove")
	a := NewElement("a", 0)
	b := NewElement("b", 1)
	c := NewElement("c", 2)
	m.Annotate(ScopeVariable, a, 1)
	m.Annotate(ScopeVariable, b, 2)
	m.Annotate(ScopeVariable, c, 3)

	if !m.RemoveAnnotation(ScopeVariable, b) {
		t.Fatal("RemoveAnnotation(b) = false")
	}
	if m.RemoveAnnotation(ScopeVariable, b) {
		t.Error("second RemoveAnnotation(b) = true")
	}
	if m.RemoveAnnotation(ScopeSOS, a) {
		t.Error("RemoveAnnotation in unused scope = true")
	}

	// c moved down; updating it must not touch a
	m.Annotate(ScopeVariable, c, 30)
	rows := m.AnnotationsByScope()
	if got := rows[0].Annotations; len(got) != 2 || got[0].Value != 1 || got[1].Value != 30 {
		t.Errorf("after remove: %+v", got)
	}

	m.ClearAnnotations()
	if m.NumAnnotations() != 0 || len(m.AnnotationsByScope()) != 0 {
		t.Error("ClearAnnotations left entries behind")
	}
}

func TestAnnotationsByScopeReturnsCopies(t *testing.T) {
	m := NewModel("copies")
	m.Annotate(ScopeVariable, NewElement("a", 0), 1)

	rows := m.AnnotationsByScope()
	rows[0].Annotations[0].Value = 100

	if v, _ := m.Annotation(ScopeVariable, rows[0].Annotations[0].Object); v != 1 {
		t.Errorf("model mutated through returned slice: value = %d", v)
	}
}
