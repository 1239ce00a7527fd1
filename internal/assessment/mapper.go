package assessment

import (
	"strings"

	"github.com/alexanderjulianmartinez/delta-bq/pkg/types"
)

// BigQuery standard SQL type names.
const (
	sqlBool      = "BOOL"
	sqlFloat64   = "FLOAT64"
	sqlString    = "STRING"
	sqlInt64     = "INT64"
	sqlArray     = "ARRAY"
	sqlBytes     = "BYTES"
	sqlStruct    = "STRUCT"
	sqlNumeric   = "NUMERIC"
	sqlDate      = "DATE"
	sqlTime      = "TIME"
	sqlTimestamp = "TIMESTAMP"
)

// MapType returns the lowercase BigQuery type name for a field. A logical
// type, when set, decides the result on its own; the base type is only
// consulted when there is none.
func MapType(field types.Field) (string, error) {
	name, err := bigQueryType(field)
	if err != nil {
		return "", err
	}
	return strings.ToLower(name), nil
}

func bigQueryType(field types.Field) (string, error) {
	schema := field.Schema
	if schema == nil {
		return "", &UnsupportedTypeError{Column: field.Name, Token: "null"}
	}
	schema = schema.NonNullable()

	if schema.LogicalType != "" {
		switch schema.LogicalType {
		case types.Decimal:
			return sqlNumeric, nil
		case types.Date:
			return sqlDate, nil
		case types.TimeMillis, types.TimeMicros:
			return sqlTime, nil
		case types.TimestampMillis, types.TimestampMicros:
			return sqlTimestamp, nil
		default:
			return "", &UnsupportedTypeError{Column: field.Name, Token: string(schema.LogicalType)}
		}
	}

	switch schema.Type {
	case types.Boolean:
		return sqlBool, nil
	case types.Float, types.Double:
		return sqlFloat64, nil
	case types.String, types.Enum:
		return sqlString, nil
	case types.Int, types.Long:
		return sqlInt64, nil
	case types.Array:
		// TODO: carry the element type (ARRAY<T>) once the loader can create repeated columns.
		return sqlArray, nil
	case types.Bytes:
		return sqlBytes, nil
	case types.Record:
		return sqlStruct, nil
	default:
		return "", &UnsupportedTypeError{Column: field.Name, Token: strings.ToLower(string(schema.Type))}
	}
}
