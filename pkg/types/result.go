package types

type CheckResult struct {
	Table             string
	Columns           int
	UnsupportedTypes  int
	MissingPrimaryKey bool
	Status            string
}
