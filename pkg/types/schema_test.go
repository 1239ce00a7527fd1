package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNonNullable(t *testing.T) {
	s := Nullable(Logical(Long, TimestampMicros))
	require.True(t, s.Nullable)

	n := s.NonNullable()
	assert.False(t, n.Nullable)
	assert.Equal(t, Long, n.Type)
	assert.Equal(t, TimestampMicros, n.LogicalType)
	// original untouched
	assert.True(t, s.Nullable)

	plain := Of(String)
	assert.Same(t, plain, plain.NonNullable())
}

func TestCloneIsDeep(t *testing.T) {
	orig := RecordOf("row",
		Field{Name: "tags", Schema: ArrayOf(Of(String))},
		Field{Name: "kind", Schema: EnumOf("a", "b")},
	)
	c := orig.Clone()
	require.True(t, orig.Equal(c))

	c.Fields[0].Schema.Items.Type = Long
	c.Fields[1].Schema.Symbols[0] = "z"
	c.Fields = append(c.Fields, Field{Name: "extra", Schema: Of(Int)})

	assert.Equal(t, String, orig.Fields[0].Schema.Items.Type)
	assert.Equal(t, "a", orig.Fields[1].Schema.Symbols[0])
	assert.Len(t, orig.Fields, 2)
	assert.False(t, orig.Equal(c))
}

func TestFieldLookup(t *testing.T) {
	s := RecordOf("row", Field{Name: "id", Schema: Of(Long)})
	f, ok := s.Field("id")
	require.True(t, ok)
	assert.Equal(t, Long, f.Schema.Type)

	_, ok = s.Field("missing")
	assert.False(t, ok)
}

func TestTableDetailFields(t *testing.T) {
	assert.Nil(t, TableDetail{Table: "t"}.Fields())
	td := TableDetail{Table: "t", Schema: RecordOf("t", Field{Name: "id", Schema: Of(Int)})}
	assert.Len(t, td.Fields(), 1)
}
