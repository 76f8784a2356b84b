package netedit

// Sexp is a node of an edit file: an atom or a list.
type Sexp interface {
	IsLeaf() bool
	Len() int
	String() string
}

// Symbol is an atom, quoted or bare.
type Symbol string

func (s Symbol) IsLeaf() bool   { return true }
func (s Symbol) Len() int       { return 0 }
func (s Symbol) String() string { return string(s) }

// List is a parenthesized sequence.
type List struct {
	Line     int
	elements []Sexp
}

func (l *List) IsLeaf() bool { return false }
func (l *List) Len() int     { return len(l.elements) }

func (l *List) String() string {
	result := "("
	for i, elem := range l.elements {
		if i > 0 {
			result += " "
		}
		result += elem.String()
	}
	return result + ")"
}

// Get returns the element at index, or nil when out of range.
func (l *List) Get(index int) Sexp {
	if index < 0 || index >= len(l.elements) {
		return nil
	}
	return l.elements[index]
}

// Tag returns the leading symbol of the list.
func (l *List) Tag() string {
	if s, ok := l.Get(0).(Symbol); ok {
		return string(s)
	}
	return ""
}

// Field finds the first child list tagged name and returns its first value.
func (l *List) Field(name string) (string, bool) {
	if len(l.elements) == 0 {
		return "", false
	}
	for _, e := range l.elements[1:] {
		child, ok := e.(*List)
		if !ok || child.Tag() != name || child.Len() < 2 {
			continue
		}
		if v, ok := child.Get(1).(Symbol); ok {
			return string(v), true
		}
	}
	return "", false
}
