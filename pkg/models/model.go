package models

// Model holds Benders annotations grouped by scope.
// Objects used as keys must be comparable; pointers are the usual choice.
// Model is not safe for concurrent mutation.
type Model struct {
	Name   string
	order  []Scope
	tables map[Scope]*scopeTable
}

type scopeTable struct {
	entries []Annotation
	pos     map[Object]int
}

// NewModel creates an empty model
func NewModel(name string) *Model {
	return &Model{
		Name:   name,
		tables: make(map[Scope]*scopeTable),
	}
}

func (m *Model) table(scope Scope, create bool) *scopeTable {
	t, ok := m.tables[scope]
	if !ok && create {
		t = &scopeTable{pos: make(map[Object]int)}
		m.tables[scope] = t
		m.order = append(m.order, scope)
	}
	return t
}

// Annotate sets the Benders value of obj in scope.
// Re-annotating an object overwrites its value in place.
func (m *Model) Annotate(scope Scope, obj Object, value int64) {
	t := m.table(scope, true)
	if i, ok := t.pos[obj]; ok {
		t.entries[i].Value = value
		return
	}
	t.pos[obj] = len(t.entries)
	t.entries = append(t.entries, Annotation{Object: obj, Value: value})
}

// Annotation returns the Benders value of obj in scope
func (m *Model) Annotation(scope Scope, obj Object) (int64, bool) {
	t := m.table(scope, false)
	if t == nil {
		return 0, false
	}
	i, ok := t.pos[obj]
	if !ok {
		return 0, false
	}
	return t.entries[i].Value, true
}

// RemoveAnnotation drops the annotation of obj in scope, reporting whether it existed.
// The scope keeps its position in the table even when it becomes empty.
func (m *Model) RemoveAnnotation(scope Scope, obj Object) bool {
	t := m.table(scope, false)
	if t == nil {
		return false
	}
	i, ok := t.pos[obj]
	if !ok {
		return false
	}
	t.entries = append(t.entries[:i], t.entries[i+1:]...)
	delete(t.pos, obj)
	for j := i; j < len(t.entries); j++ {
		t.pos[t.entries[j].Object] = j
	}
	return true
}

// ClearAnnotations removes every annotation
func (m *Model) ClearAnnotations() {
	m.order = nil
	m.tables = make(map[Scope]*scopeTable)
}

// NumAnnotations counts annotations across all scopes
func (m *Model) NumAnnotations() int {
	n := 0
	for _, t := range m.tables {
		n += len(t.entries)
	}
	return n
}

// AnnotationsByScope implements Annotated. The returned slices are copies.
func (m *Model) AnnotationsByScope() []ScopeAnnotations {
	rows := make([]ScopeAnnotations, 0, len(m.order))
	for _, scope := range m.order {
		entries := m.tables[scope].entries
		cp := make([]Annotation, len(entries))
		copy(cp, entries)
		rows = append(rows, ScopeAnnotations{Scope: scope, Annotations: cp})
	}
	return rows
}
