package types

import "reflect"

// BaseType is the storage representation of a field. Tokens outside the
// constants below are representable so that unknown source types reach the
// assessor intact.
type BaseType string

const (
	Boolean BaseType = "boolean"
	Float   BaseType = "float"
	Double  BaseType = "double"
	String  BaseType = "string"
	Enum    BaseType = "enum"
	Int     BaseType = "int"
	Long    BaseType = "long"
	Array   BaseType = "array"
	Bytes   BaseType = "bytes"
	Record  BaseType = "record"
)

// LogicalType refines a BaseType. The empty value means no logical type.
type LogicalType string

const (
	Decimal         LogicalType = "decimal"
	Date            LogicalType = "date"
	TimeMillis      LogicalType = "time-millis"
	TimeMicros      LogicalType = "time-micros"
	TimestampMillis LogicalType = "timestamp-millis"
	TimestampMicros LogicalType = "timestamp-micros"
)

type Schema struct {
	Type        BaseType
	LogicalType LogicalType
	Nullable    bool

	// decimal
	Precision int
	Scale     int

	// enum
	Symbols []string

	// array
	Items *Schema

	// record
	Name   string
	Fields []Field
}

type Field struct {
	Name   string
	Schema *Schema
}

func Of(t BaseType) *Schema {
	return &Schema{Type: t}
}

func Logical(t BaseType, lt LogicalType) *Schema {
	return &Schema{Type: t, LogicalType: lt}
}

func DecimalOf(precision, scale int) *Schema {
	return &Schema{Type: Bytes, LogicalType: Decimal, Precision: precision, Scale: scale}
}

func EnumOf(symbols ...string) *Schema {
	return &Schema{Type: Enum, Symbols: symbols}
}

func ArrayOf(items *Schema) *Schema {
	return &Schema{Type: Array, Items: items}
}

func RecordOf(name string, fields ...Field) *Schema {
	return &Schema{Type: Record, Name: name, Fields: fields}
}

// Nullable returns a nullable copy of s.
func Nullable(s *Schema) *Schema {
	c := s.Clone()
	c.Nullable = true
	return c
}

// NonNullable returns s with nullability stripped. A non-nullable schema is
// returned as is.
func (s *Schema) NonNullable() *Schema {
	if !s.Nullable {
		return s
	}
	c := s.Clone()
	c.Nullable = false
	return c
}

func (s *Schema) Clone() *Schema {
	if s == nil {
		return nil
	}
	c := *s
	if s.Symbols != nil {
		c.Symbols = append([]string(nil), s.Symbols...)
	}
	c.Items = s.Items.Clone()
	if s.Fields != nil {
		c.Fields = make([]Field, len(s.Fields))
		for i, f := range s.Fields {
			c.Fields[i] = Field{Name: f.Name, Schema: f.Schema.Clone()}
		}
	}
	return &c
}

func (s *Schema) Equal(other *Schema) bool {
	return reflect.DeepEqual(s, other)
}

// Field looks up a record field by name.
func (s *Schema) Field(name string) (Field, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}
