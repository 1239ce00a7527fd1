package debezium

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/alexanderjulianmartinez/delta-bq/internal/cdc"
	"github.com/alexanderjulianmartinez/delta-bq/pkg/types"
)

// Kafka Connect and Debezium semantic type names.
const (
	connectDecimal   = "org.apache.kafka.connect.data.Decimal"
	connectDate      = "org.apache.kafka.connect.data.Date"
	connectTime      = "org.apache.kafka.connect.data.Time"
	connectTimestamp = "org.apache.kafka.connect.data.Timestamp"

	debeziumDate           = "io.debezium.time.Date"
	debeziumTime           = "io.debezium.time.Time"
	debeziumMicroTime      = "io.debezium.time.MicroTime"
	debeziumTimestamp      = "io.debezium.time.Timestamp"
	debeziumMicroTimestamp = "io.debezium.time.MicroTimestamp"
	debeziumZonedTimestamp = "io.debezium.time.ZonedTimestamp"
	debeziumEnum           = "io.debezium.data.Enum"
)

var ErrNoSchema = errors.New("debezium message carries no schema (enable value.converter.schemas.enable)")

type connectSchema struct {
	Type       string            `json:"type"`
	Optional   bool              `json:"optional"`
	Name       string            `json:"name"`
	Field      string            `json:"field"`
	Fields     []connectSchema   `json:"fields"`
	Items      *connectSchema    `json:"items"`
	Parameters map[string]string `json:"parameters"`
}

type envelope struct {
	Schema  *connectSchema  `json:"schema"`
	Payload json.RawMessage `json:"payload"`
}

type payload struct {
	Before map[string]any `json:"before"`
	After  map[string]any `json:"after"`
	Source struct {
		DB    string `json:"db"`
		Table string `json:"table"`
	} `json:"source"`
	Op string `json:"op"`
}

// Decode parses a Debezium JSON change event with an embedded schema.
func Decode(value []byte) (cdc.Event, error) {
	var env envelope
	if err := json.Unmarshal(value, &env); err != nil {
		return cdc.Event{}, fmt.Errorf("decode envelope: %w", err)
	}
	if env.Schema == nil || len(env.Payload) == 0 {
		return cdc.Event{}, ErrNoSchema
	}

	dec := json.NewDecoder(bytes.NewReader(env.Payload))
	dec.UseNumber()
	var p payload
	if err := dec.Decode(&p); err != nil {
		return cdc.Event{}, fmt.Errorf("decode payload: %w", err)
	}

	ev := cdc.Event{
		Database: p.Source.DB,
		Table:    p.Source.Table,
		Op:       cdc.Op(p.Op),
	}

	image := "after"
	ev.Row = p.After
	if ev.Op == cdc.OpDelete {
		image = "before"
		ev.Row = p.Before
	}
	if ev.Row == nil {
		return cdc.Event{}, fmt.Errorf("event for %s.%s has no %s image", ev.Database, ev.Table, image)
	}

	for _, f := range env.Schema.Fields {
		if f.Field == image {
			row := toSchema(f)
			row.Nullable = false
			ev.Schema = row
			break
		}
	}
	if ev.Schema == nil {
		return cdc.Event{}, fmt.Errorf("envelope schema has no %s field", image)
	}
	return ev, nil
}

func toSchema(c connectSchema) *types.Schema {
	s := semanticSchema(c)
	if s == nil {
		s = primitiveSchema(c)
	}
	s.Nullable = c.Optional
	return s
}

func semanticSchema(c connectSchema) *types.Schema {
	switch c.Name {
	case connectDecimal:
		scale, _ := strconv.Atoi(c.Parameters["scale"])
		precision, _ := strconv.Atoi(c.Parameters["connect.decimal.precision"])
		return types.DecimalOf(precision, scale)
	case connectDate, debeziumDate:
		return types.Logical(types.Int, types.Date)
	case connectTime, debeziumTime:
		return types.Logical(types.Int, types.TimeMillis)
	case debeziumMicroTime:
		return types.Logical(types.Long, types.TimeMicros)
	case connectTimestamp, debeziumTimestamp:
		return types.Logical(types.Long, types.TimestampMillis)
	case debeziumMicroTimestamp:
		return types.Logical(types.Long, types.TimestampMicros)
	case debeziumZonedTimestamp:
		return types.Of(types.String)
	case debeziumEnum:
		var symbols []string
		if allowed := c.Parameters["allowed"]; allowed != "" {
			symbols = strings.Split(allowed, ",")
		}
		return types.EnumOf(symbols...)
	default:
		return nil
	}
}

func primitiveSchema(c connectSchema) *types.Schema {
	switch c.Type {
	case "boolean":
		return types.Of(types.Boolean)
	case "int8", "int16", "int32":
		return types.Of(types.Int)
	case "int64":
		return types.Of(types.Long)
	case "float32":
		return types.Of(types.Float)
	case "float64":
		return types.Of(types.Double)
	case "string":
		return types.Of(types.String)
	case "bytes":
		return types.Of(types.Bytes)
	case "array":
		var items *types.Schema
		if c.Items != nil {
			items = toSchema(*c.Items)
		}
		return types.ArrayOf(items)
	case "struct":
		fields := make([]types.Field, 0, len(c.Fields))
		for _, f := range c.Fields {
			fields = append(fields, types.Field{Name: f.Field, Schema: toSchema(f)})
		}
		return types.RecordOf(c.Name, fields...)
	default:
		return types.Of(types.BaseType(c.Type))
	}
}
