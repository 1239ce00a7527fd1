package source

import (
	"context"

	"github.com/alexanderjulianmartinez/delta-bq/pkg/types"
)

type InspectionResult struct {
	Tables []types.TableDetail
}

// Table returns the inspected table with the given name.
func (r *InspectionResult) Table(name string) (types.TableDetail, bool) {
	for _, t := range r.Tables {
		if t.Table == name {
			return t, true
		}
	}
	return types.TableDetail{}, false
}

// Inspector reads table schemas from a source database. Tables that do not
// exist are left out of the result rather than reported as errors.
type Inspector interface {
	Inspect(ctx context.Context, tables []string) (*InspectionResult, error)
}
