// Package record defines the structural model for decoded log messages.
//
// A Record is a tree: scalar leaves, composites of named fields, and
// sequences of elements. The set of shapes is closed; consumers branch on
// the concrete type and treat anything else as unknown.
package record

// Kind discriminates the record shapes.
type Kind int

const (
	KindUnknown Kind = iota
	KindScalar
	KindComposite
	KindSequence
)

func (k Kind) String() string {
	switch k {
	case KindScalar:
		return "scalar"
	case KindComposite:
		return "composite"
	case KindSequence:
		return "sequence"
	default:
		return "unknown"
	}
}

// Record is a self-describing structured value. Implementations outside
// this package report KindUnknown to consumers and carry no readable
// content.
type Record interface {
	Kind() Kind
}

// Scalar is a leaf. Value holds one of int64, float64, bool, string,
// []byte or nil.
type Scalar struct {
	Value any
}

func (*Scalar) Kind() Kind { return KindScalar }

// Field is one named child of a Composite. Order is significant.
type Field struct {
	Name  string
	Value Record
}

// Composite is an ordered list of named fields.
type Composite struct {
	Fields []Field
}

func (*Composite) Kind() Kind { return KindComposite }

// Add appends a field and returns the composite for chaining.
func (c *Composite) Add(name string, value Record) *Composite {
	c.Fields = append(c.Fields, Field{Name: name, Value: value})
	return c
}

// Sequence is an ordered list of elements.
type Sequence struct {
	Items []Record
}

func (*Sequence) Kind() Kind { return KindSequence }

// Append adds elements and returns the sequence for chaining.
func (s *Sequence) Append(items ...Record) *Sequence {
	s.Items = append(s.Items, items...)
	return s
}

// KindOf reports the shape of rec, mapping nil and foreign implementations
// to KindUnknown.
func KindOf(rec Record) Kind {
	switch rec.(type) {
	case *Scalar:
		return KindScalar
	case *Composite:
		return KindComposite
	case *Sequence:
		return KindSequence
	default:
		return KindUnknown
	}
}
