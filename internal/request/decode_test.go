package request

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/koustreak/vschema/internal/errs"
	"github.com/koustreak/vschema/internal/metadata"
	"github.com/koustreak/vschema/internal/sqlnode"
)

const innerJoinPushdown = `{
	"type": "pushdown",
	"schemaMetadataInfo": {"name": "VS", "adapterNotes": "", "properties": {}},
	"involvedTables": [
		{"name": "T1", "columns": [{"name": "ID", "dataType": {"type": "DECIMAL", "precision": 18, "scale": 0}}]},
		{"name": "T2", "columns": [{"name": "ID", "dataType": {"type": "DECIMAL", "precision": 18, "scale": 0}}]}
	],
	"pushdownRequest": {
		"type": "select",
		"from": {
			"type": "join",
			"join_type": "inner",
			"left":  {"name": "T1", "type": "table"},
			"right": {"name": "T2", "type": "table"},
			"condition": {
				"left":  {"columnNr": 0, "name": "ID", "tableName": "T1", "type": "column"},
				"right": {"columnNr": 0, "name": "ID", "tableName": "T2", "type": "column"},
				"type": "predicate_equal"
			}
		}
	}
}`

func TestDecode_InnerJoinPushdown(t *testing.T) {
	req, err := Decode([]byte(innerJoinPushdown))
	require.NoError(t, err)
	require.Equal(t, TypePushdown, req.Type())

	pd, ok := req.(*Pushdown)
	require.True(t, ok)
	assert.Equal(t, "VS", pd.SchemaMetadataInfo().Name)
	require.Len(t, pd.InvolvedTables, 2)

	t2, ok := pd.Table("T2")
	require.True(t, ok)
	assert.Equal(t, metadata.Decimal{Precision: 18}, t2.Columns[0].Type)
	_, ok = pd.Table("T3")
	assert.False(t, ok)

	from, ok := pd.Select().From.(*sqlnode.Join)
	require.True(t, ok)
	assert.Equal(t, sqlnode.TypeJoin, from.Type())
	assert.Equal(t, sqlnode.JoinInner, from.JoinType)
	assert.Equal(t, sqlnode.TypePredicateEqual, from.Condition.Type())
	assert.Equal(t, sqlnode.TypeTable, from.Left.Type())
	assert.Equal(t, sqlnode.TypeTable, from.Right.Type())

	cond := from.Condition.(*sqlnode.ComparisonPredicate)
	assert.Equal(t, sqlnode.TypeColumn, cond.Left.Type())
	assert.Equal(t, sqlnode.TypeColumn, cond.Right.Type())

	assert.Equal(t, `SELECT * FROM "T1" INNER JOIN "T2" ON "T1"."ID" = "T2"."ID"`, sqlnode.Render(pd.Select()))
}

func TestDecode_PushdownClicks(t *testing.T) {
	src := `{
		"type": "pushdown",
		"schemaMetadataInfo": {
			"name": "MY_HIVE_VSCHEMA",
			"adapterNotes": {"lastRefreshed": "2015-03-01 12:10:01", "key": "Any custom schema state here"},
			"properties": {"HIVE_SERVER": "my-hive-server", "HIVE_DB": "my-hive-db", "HIVE_USER": "my-hive-user"}
		},
		"involvedTables": [{
			"name": "CLICKS",
			"adapterNotes": "",
			"columns": [
				{"name": "ID", "dataType": {"type": "DECIMAL", "precision": 22, "scale": 0}},
				{"name": "URL", "dataType": {"type": "VARCHAR", "size": 1000, "characterSet": "UTF8"}}
			]
		}],
		"pushdownRequest": {
			"type": "select",
			"selectList": [{"type": "column", "columnNr": 1, "name": "URL", "tableName": "CLICKS"}],
			"from": {"type": "table", "name": "CLICKS"},
			"filter": {"type": "predicate_like",
				"expression": {"type": "column", "columnNr": 1, "name": "URL", "tableName": "CLICKS"},
				"pattern": {"type": "literal_string", "value": "%exasol%"}},
			"limit": {"numElements": 10}
		}
	}`
	req, err := Decode([]byte(src))
	require.NoError(t, err)

	info := req.SchemaMetadataInfo()
	assert.Equal(t, `{"lastRefreshed":"2015-03-01 12:10:01","key":"Any custom schema state here"}`, info.AdapterNotes)
	assert.Equal(t, map[string]string{
		"HIVE_SERVER": "my-hive-server",
		"HIVE_DB":     "my-hive-db",
		"HIVE_USER":   "my-hive-user",
	}, info.Properties)

	pd := req.(*Pushdown)
	assert.Equal(t, `SELECT "CLICKS"."URL" FROM "CLICKS" WHERE "CLICKS"."URL" LIKE '%exasol%' LIMIT 10`,
		sqlnode.Render(pd.Select()))
}

func TestDecode_SetProperties(t *testing.T) {
	src := `{
		"type": "setProperties",
		"schemaMetadataInfo": {
			"name": "VS",
			"properties": {"EXISTING_PROP_1": "Old Value 1", "EXISTING_PROP_2": "Old Value 2"}
		},
		"properties": {
			"EXISTING_PROP_1": "New Value",
			"EXISTING_PROP_2": null,
			"NEW_PROP": "VAL2",
			"EMPTY_PROP": "",
			"DELETED_PROP_NON_EXISTING": null
		}
	}`
	req, err := Decode([]byte(src))
	require.NoError(t, err)
	sp, ok := req.(*SetProperties)
	require.True(t, ok)

	assert.Equal(t, map[string]metadata.PropertyValue{
		"EXISTING_PROP_1":           metadata.Present("New Value"),
		"EXISTING_PROP_2":           metadata.Deleted(),
		"NEW_PROP":                  metadata.Present("VAL2"),
		"EMPTY_PROP":                metadata.Present(""),
		"DELETED_PROP_NON_EXISTING": metadata.Deleted(),
	}, sp.Properties)
	assert.NotEqual(t, sp.Properties["EMPTY_PROP"], sp.Properties["EXISTING_PROP_2"])
	assert.True(t, sp.Properties["UNMENTIONED"].IsUnset())

	assert.Equal(t, map[string]string{
		"EXISTING_PROP_1": "New Value",
		"NEW_PROP":        "VAL2",
		"EMPTY_PROP":      "",
	}, sp.MergedProperties())
	assert.Equal(t, "Old Value 2", sp.SchemaInfo.Properties["EXISTING_PROP_2"], "old properties must not change")

	assert.Equal(t, []string{
		"DELETED_PROP_NON_EXISTING", "EMPTY_PROP", "EXISTING_PROP_1", "EXISTING_PROP_2", "NEW_PROP",
	}, sp.ChangedKeys())
}

func TestDecode_Refresh(t *testing.T) {
	req, err := Decode([]byte(`{"type": "refresh", "schemaMetadataInfo": {"name": "VS"}}`))
	require.NoError(t, err)
	r := req.(*Refresh)
	assert.False(t, r.IsRefreshForTables())

	req, err = Decode([]byte(`{"type": "refresh", "schemaMetadataInfo": {"name": "VS"}, "requestedTables": ["A", "B"]}`))
	require.NoError(t, err)
	r = req.(*Refresh)
	assert.True(t, r.IsRefreshForTables())
	assert.Equal(t, []string{"A", "B"}, r.RequestedTables)
}

func TestDecode_SchemaOnlyRequests(t *testing.T) {
	tests := []struct {
		typ  RequestType
		want AdapterRequest
	}{
		{TypeCreateVirtualSchema, &CreateVirtualSchema{}},
		{TypeDropVirtualSchema, &DropVirtualSchema{}},
		{TypeGetCapabilities, &GetCapabilities{}},
	}
	for _, tt := range tests {
		t.Run(string(tt.typ), func(t *testing.T) {
			req, err := Decode([]byte(`{"type": "` + string(tt.typ) + `", "schemaMetadataInfo": {"name": "VS", "adapterNotes": "state"}}`))
			require.NoError(t, err)
			assert.IsType(t, tt.want, req)
			assert.Equal(t, tt.typ, req.Type())
			assert.Equal(t, "state", req.SchemaMetadataInfo().AdapterNotes)
		})
	}
}

func TestDecode_Errors(t *testing.T) {
	tests := []struct {
		name  string
		src   string
		check func(error) bool
	}{
		{name: "invalid json", src: `{"type": `, check: errs.IsMalformedRequest},
		{name: "missing type", src: `{"schemaMetadataInfo": {"name": "VS"}}`, check: errs.IsMalformedRequest},
		{name: "unknown type", src: `{"type": "alterSchema"}`, check: errs.IsUnsupportedNode},
		{name: "empty schema name", src: `{"type": "refresh", "schemaMetadataInfo": {"name": ""}}`, check: errs.IsMalformedRequest},
		{name: "properties missing", src: `{"type": "setProperties", "schemaMetadataInfo": {"name": "VS"}}`, check: errs.IsMalformedRequest},
		{name: "property not a string", src: `{"type": "setProperties", "properties": {"A": 1}}`, check: errs.IsMalformedRequest},
		{name: "requested tables not strings", src: `{"type": "refresh", "requestedTables": [1]}`, check: errs.IsMalformedRequest},
		{
			name:  "pushdown without statement",
			src:   `{"type": "pushdown", "involvedTables": [{"name": "T", "columns": [{"name": "C", "dataType": {"type": "DATE"}}]}]}`,
			check: errs.IsMalformedRequest,
		},
		{
			name: "pushdown root not a statement",
			src: `{"type": "pushdown", "involvedTables": [{"name": "T", "columns": [{"name": "C", "dataType": {"type": "DATE"}}]}],
				"pushdownRequest": {"type": "table", "name": "T"}}`,
			check: errs.IsUnsupportedNode,
		},
		{
			name: "pushdown table without columns",
			src: `{"type": "pushdown", "involvedTables": [{"name": "T", "columns": []}],
				"pushdownRequest": {"type": "select", "from": {"type": "table", "name": "T"}}}`,
			check: errs.IsMalformedMetadata,
		},
		{
			name: "pushdown bad node",
			src: `{"type": "pushdown", "involvedTables": [{"name": "T", "columns": [{"name": "C", "dataType": {"type": "DATE"}}]}],
				"pushdownRequest": {"type": "select", "from": {"type": "table", "name": "T"}, "filter": {"type": "predicate_greater"}}}`,
			check: errs.IsUnsupportedNode,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := Decode([]byte(tt.src))
			require.Error(t, err)
			assert.Nil(t, req)
			assert.True(t, tt.check(err), "unexpected error kind: %v", err)
		})
	}
}
