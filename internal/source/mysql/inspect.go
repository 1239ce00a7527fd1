package mysql

import (
	"context"
	"fmt"

	"github.com/alexanderjulianmartinez/delta-bq/internal/source"
	"github.com/alexanderjulianmartinez/delta-bq/pkg/types"
)

var _ source.Inspector = (*Inspector)(nil)

// Inspect reads the schema and primary key of each requested table. With no
// tables given, every base table in the schema is inspected.
func (i *Inspector) Inspect(ctx context.Context, tables []string) (*source.InspectionResult, error) {
	existing, err := i.FetchTableNames(ctx)
	if err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}
	if len(tables) == 0 {
		tables = existing
	}
	present := make(map[string]bool, len(existing))
	for _, name := range existing {
		present[name] = true
	}

	var results []types.TableDetail
	for _, tableName := range tables {
		if !present[tableName] {
			continue
		}
		cols, err := i.FetchSchema(ctx, tableName)
		if err != nil {
			return nil, fmt.Errorf("fetch schema of %s: %w", tableName, err)
		}

		pk, err := i.FetchPrimaryKey(ctx, tableName)
		if err != nil {
			return nil, fmt.Errorf("fetch primary key of %s: %w", tableName, err)
		}

		results = append(results, TableDetail(i.schema, tableName, cols, pk))
	}

	return &source.InspectionResult{
		Tables: results,
	}, nil
}
