package check

import (
	"errors"

	"github.com/alexanderjulianmartinez/delta-bq/internal/assessment"
	"github.com/alexanderjulianmartinez/delta-bq/internal/source"
	"github.com/alexanderjulianmartinez/delta-bq/pkg/types"
)

type Issue struct {
	Table    string
	Column   string
	Kind     string
	Severity string
	Message  string
}

type Report struct {
	Tables      []string
	Issues      []Issue
	Assessments map[string]assessment.TableAssessment
}

// Validate assesses every wanted table found in the inspection result.
// Errors other than unsupported column types abort the check.
func Validate(
	inspection *source.InspectionResult,
	wanted []string,
	assessor assessment.Assessor[types.TableDetail],
) (*Report, error) {
	report := &Report{
		Tables:      wanted,
		Assessments: map[string]assessment.TableAssessment{},
	}

	for _, name := range wanted {
		table, ok := inspection.Table(name)
		if !ok {
			report.add(name, "", "table_missing", "")
			continue
		}
		if len(table.PrimaryKey) == 0 {
			report.add(name, "", "missing_primary_key", "")
		}

		result, err := assessor.Assess(table)
		if err != nil {
			var unsupported *assessment.UnsupportedTypeError
			if !errors.As(err, &unsupported) {
				return nil, err
			}
			report.add(name, unsupported.Column, "unsupported_type", unsupported.Error())
			continue
		}
		report.Assessments[name] = result

		for _, col := range result.Columns() {
			if col.Type == "array" {
				report.add(name, col.Name, "bare_array", "")
			}
		}
	}
	return report, nil
}

func (r *Report) add(table, column, kind, detail string) {
	r.Issues = append(r.Issues, Issue{
		Table:    table,
		Column:   column,
		Kind:     kind,
		Severity: SeverityForIssue(kind),
		Message:  MessageForIssue(kind, detail),
	})
}

// Blocking reports whether any table cannot be replicated.
func (r *Report) Blocking() bool {
	for _, iss := range r.Issues {
		if iss.Severity == SeverityBlock {
			return true
		}
	}
	return false
}

// Results summarizes the report per table, in the order tables were asked for.
func (r *Report) Results() []types.CheckResult {
	results := make([]types.CheckResult, 0, len(r.Tables))
	for _, name := range r.Tables {
		res := types.CheckResult{Table: name, Status: SeverityInfo}
		if a, ok := r.Assessments[name]; ok {
			res.Columns = a.Len()
		}
		for _, iss := range r.Issues {
			if iss.Table != name {
				continue
			}
			switch iss.Kind {
			case "unsupported_type":
				res.UnsupportedTypes++
			case "missing_primary_key":
				res.MissingPrimaryKey = true
			}
			if rank(iss.Severity) > rank(res.Status) {
				res.Status = iss.Severity
			}
		}
		results = append(results, res)
	}
	return results
}
