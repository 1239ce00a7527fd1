package types

// TableDetail is the standardized description of a source table handed to
// an assessor.
type TableDetail struct {
	Database   string
	Table      string
	Schema     *Schema
	PrimaryKey []string
}

func (t TableDetail) Fields() []Field {
	if t.Schema == nil {
		return nil
	}
	return t.Schema.Fields
}
