package mysql

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderjulianmartinez/delta-bq/internal/assessment"
	"github.com/alexanderjulianmartinez/delta-bq/pkg/types"
)

func TestColumnSchema(t *testing.T) {
	tests := []struct {
		dataType   string
		columnType string
		want       *types.Schema
	}{
		{"tinyint", "tinyint(1)", types.Of(types.Int)},
		{"tinyint", "tinyint(4)", types.Of(types.Int)},
		{"bit", "bit(1)", types.Of(types.Boolean)},
		{"bit", "bit(8)", types.Of(types.Bytes)},
		{"int", "int(10) unsigned", types.Of(types.Int)},
		{"year", "year", types.Of(types.Int)},
		{"bigint", "bigint(20)", types.Of(types.Long)},
		{"float", "float", types.Of(types.Float)},
		{"double", "double", types.Of(types.Double)},
		{"date", "date", types.Logical(types.Int, types.Date)},
		{"time", "time(3)", types.Logical(types.Long, types.TimeMicros)},
		{"datetime", "datetime(6)", types.Logical(types.Long, types.TimestampMicros)},
		{"timestamp", "timestamp", types.Of(types.String)},
		{"varchar", "varchar(255)", types.Of(types.String)},
		{"json", "json", types.Of(types.String)},
		{"set", "set('x','y')", types.Of(types.String)},
		{"longblob", "longblob", types.Of(types.Bytes)},
		{"GEOMETRY", "geometry", types.Of("geometry")},
	}
	for _, tt := range tests {
		t.Run(tt.columnType, func(t *testing.T) {
			got := ColumnSchema(ColumnInfo{Name: "c", DataType: tt.dataType, ColumnType: tt.columnType})
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestColumnSchema_DecimalAndNullable(t *testing.T) {
	got := ColumnSchema(ColumnInfo{Name: "amt", DataType: "decimal", ColumnType: "decimal(12,2)", Nullable: true, Precision: 12, Scale: 2})
	assert.Equal(t, types.Bytes, got.Type)
	assert.Equal(t, types.Decimal, got.LogicalType)
	assert.Equal(t, 12, got.Precision)
	assert.Equal(t, 2, got.Scale)
	assert.True(t, got.Nullable)
}

func TestEnumSymbols(t *testing.T) {
	assert.Equal(t, []string{"new", "paid", "it's"}, enumSymbols("enum('new','paid','it''s')"))
	assert.Equal(t, []string{"a,b"}, enumSymbols("enum('a,b')"))
	assert.Nil(t, enumSymbols("enum"))
}

func TestTableDetailAssessment(t *testing.T) {
	cols := []ColumnInfo{
		{Name: "id", DataType: "bigint", ColumnType: "bigint(20)"},
		{Name: "status", DataType: "enum", ColumnType: "enum('new','paid')", Nullable: true},
		{Name: "total", DataType: "decimal", ColumnType: "decimal(10,2)", Precision: 10, Scale: 2},
		{Name: "created_at", DataType: "datetime", ColumnType: "datetime"},
	}
	td := TableDetail("shop", "orders", cols, []string{"id"})
	require.Len(t, td.Fields(), 4)
	assert.Equal(t, []string{"id"}, td.PrimaryKey)

	got, err := assessment.BigQueryAssessor{}.Assess(td)
	require.NoError(t, err)
	assert.Equal(t, []assessment.ColumnAssessment{
		{Name: "id", Type: "int64"},
		{Name: "status", Type: "string"},
		{Name: "total", Type: "numeric"},
		{Name: "created_at", Type: "timestamp"},
	}, got.Columns())
}
