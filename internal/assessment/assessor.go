package assessment

import "github.com/alexanderjulianmartinez/delta-bq/pkg/types"

// Assessor decides the target column types for a table description T.
type Assessor[T any] interface {
	Assess(T) (TableAssessment, error)
}

type ColumnAssessment struct {
	Name string
	Type string
}

// TableAssessment is the ordered, read-only list of column decisions for one
// table.
type TableAssessment struct {
	columns []ColumnAssessment
}

func NewTableAssessment(columns []ColumnAssessment) TableAssessment {
	return TableAssessment{columns: append([]ColumnAssessment(nil), columns...)}
}

// Columns returns a copy of the column assessments in source order.
func (a TableAssessment) Columns() []ColumnAssessment {
	return append([]ColumnAssessment(nil), a.columns...)
}

func (a TableAssessment) Len() int {
	return len(a.columns)
}

func (a TableAssessment) Column(i int) ColumnAssessment {
	return a.columns[i]
}

// Type returns the target type assessed for the named column.
func (a TableAssessment) Type(column string) (string, bool) {
	for _, c := range a.columns {
		if c.Name == column {
			return c.Type, true
		}
	}
	return "", false
}

// BigQueryAssessor assesses tables against the BigQuery type system.
type BigQueryAssessor struct{}

var _ Assessor[types.TableDetail] = BigQueryAssessor{}

// Assess maps every field of the table in declared order. The first
// unsupported column aborts the assessment; its error is returned unwrapped.
func (BigQueryAssessor) Assess(table types.TableDetail) (TableAssessment, error) {
	fields := table.Fields()
	columns := make([]ColumnAssessment, 0, len(fields))
	for _, field := range fields {
		t, err := MapType(field)
		if err != nil {
			return TableAssessment{}, err
		}
		columns = append(columns, ColumnAssessment{Name: field.Name, Type: t})
	}
	return TableAssessment{columns: columns}, nil
}
