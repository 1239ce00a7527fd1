package mysql

import (
	"strings"

	"github.com/alexanderjulianmartinez/delta-bq/pkg/types"
)

// ColumnInfo is one row of INFORMATION_SCHEMA.COLUMNS.
type ColumnInfo struct {
	Name       string
	DataType   string // e.g. "int"
	ColumnType string // e.g. "int(10) unsigned"
	Nullable   bool
	Precision  int
	Scale      int
}

// TableDetail builds the standardized table description from inspected
// columns, keeping their ordinal order.
func TableDetail(database, table string, cols []ColumnInfo, primaryKey []string) types.TableDetail {
	fields := make([]types.Field, 0, len(cols))
	for _, col := range cols {
		fields = append(fields, types.Field{Name: col.Name, Schema: ColumnSchema(col)})
	}
	return types.TableDetail{
		Database:   database,
		Table:      table,
		Schema:     types.RecordOf(table, fields...),
		PrimaryKey: primaryKey,
	}
}

// ColumnSchema converts a MySQL column to a field schema, following the
// representation Debezium uses for the same column. Types with no
// equivalent keep their MySQL name as base type.
func ColumnSchema(col ColumnInfo) *types.Schema {
	s := columnSchema(col)
	s.Nullable = col.Nullable
	return s
}

func columnSchema(col ColumnInfo) *types.Schema {
	dataType := strings.ToLower(col.DataType)
	columnType := strings.ToLower(col.ColumnType)

	switch dataType {
	case "bool", "boolean":
		return types.Of(types.Boolean)
	case "bit":
		if columnType == "bit(1)" || columnType == "bit" {
			return types.Of(types.Boolean)
		}
		return types.Of(types.Bytes)
	case "tinyint", "smallint", "mediumint", "int", "integer", "year":
		return types.Of(types.Int)
	case "bigint":
		return types.Of(types.Long)
	case "float":
		return types.Of(types.Float)
	case "double", "real":
		return types.Of(types.Double)
	case "decimal", "numeric":
		return types.DecimalOf(col.Precision, col.Scale)
	case "date":
		return types.Logical(types.Int, types.Date)
	case "time":
		return types.Logical(types.Long, types.TimeMicros)
	case "datetime":
		return types.Logical(types.Long, types.TimestampMicros)
	case "timestamp":
		// change events carry it as an ISO-8601 string with zone offset
		return types.Of(types.String)
	case "char", "varchar", "tinytext", "text", "mediumtext", "longtext", "json", "set":
		return types.Of(types.String)
	case "enum":
		return types.EnumOf(enumSymbols(col.ColumnType)...)
	case "binary", "varbinary", "tinyblob", "blob", "mediumblob", "longblob":
		return types.Of(types.Bytes)
	default:
		return types.Of(types.BaseType(dataType))
	}
}

// enumSymbols parses the values of a column type like enum('a','b''c').
func enumSymbols(columnType string) []string {
	open := strings.IndexByte(columnType, '(')
	closing := strings.LastIndexByte(columnType, ')')
	if open < 0 || closing <= open {
		return nil
	}
	body := columnType[open+1 : closing]

	var symbols []string
	var cur strings.Builder
	inQuote := false
	for i := 0; i < len(body); i++ {
		c := body[i]
		switch {
		case c == '\'' && inQuote && i+1 < len(body) && body[i+1] == '\'':
			cur.WriteByte('\'')
			i++
		case c == '\'':
			if inQuote {
				symbols = append(symbols, cur.String())
				cur.Reset()
			}
			inQuote = !inQuote
		case inQuote:
			cur.WriteByte(c)
		}
	}
	return symbols
}
