package paramreg

import (
	"testing"

	"github.com/alecthomas/assert/v2"

	"github.com/litestar-org/sqlspec-core/dialect"
	"github.com/litestar-org/sqlspec-core/sqlspec"
	"github.com/litestar-org/sqlspec-core/sqlvalue"
)

func TestDetectStyleSingleStyle(t *testing.T) {
	style, mixed, err := DetectStyle("SELECT * FROM users WHERE id = $1 AND active = $2", dialect.Postgres)
	assert.NoError(t, err)
	assert.False(t, mixed)
	assert.Equal(t, sqlspec.NumericDollar, style)
}

func TestDetectStyleMixed(t *testing.T) {
	_, mixed, err := DetectStyle("SELECT * FROM users WHERE id = $1 AND name = :name", dialect.Postgres)
	assert.NoError(t, err)
	assert.True(t, mixed)
}

func TestRequireSingleStyleRejectsMixed(t *testing.T) {
	_, err := RequireSingleStyle("SELECT * FROM users WHERE id = ? AND name = :name", dialect.SQLite)
	assert.Error(t, err)
}

func TestParsePlaceholdersIgnoresQuotedText(t *testing.T) {
	occs, err := ParsePlaceholders("SELECT '?' , \"? \" FROM users WHERE id = ?", dialect.SQLite)
	assert.NoError(t, err)
	assert.Equal(t, 1, len(occs))
}

func TestRenderConvertsStyle(t *testing.T) {
	out, err := Render("SELECT id FROM users WHERE id = ?", dialect.Postgres, sqlspec.NumericDollar, nil)
	assert.NoError(t, err)
	assert.Equal(t, "SELECT id FROM users WHERE id = $1", out)
}

func TestAllocateSkipsExistingNames(t *testing.T) {
	bag := NewParamBag()
	assert.NoError(t, bag.Add(ParamSlot{Name: "lit_1", Value: sqlvalue.Int(1), Present: true}))
	name := Allocate(bag, "lit")
	assert.Equal(t, "lit_2", name)
}

func TestMergeAppendsAndRenumbers(t *testing.T) {
	primary := NewParamBag()
	assert.NoError(t, primary.Add(ParamSlot{Name: "id", Value: sqlvalue.Int(1), Present: true}))

	extracted := NewParamBag()
	assert.NoError(t, extracted.Add(ParamSlot{Name: "lit_1", Value: sqlvalue.String("x"), Present: true}))

	merged, err := Merge(primary, extracted)
	assert.NoError(t, err)
	assert.Equal(t, 2, merged.Len())

	slot, ok := merged.ByPosition(2)
	assert.True(t, ok)
	assert.Equal(t, "lit_1", slot.Name)
}

func TestMergeIdempotentOnEqualValue(t *testing.T) {
	primary := NewParamBag()
	assert.NoError(t, primary.Add(ParamSlot{Name: "id", Value: sqlvalue.Int(1), Present: true}))

	extracted := NewParamBag()
	assert.NoError(t, extracted.Add(ParamSlot{Name: "id", Value: sqlvalue.Int(1), Present: true}))

	merged, err := Merge(primary, extracted)
	assert.NoError(t, err)
	assert.Equal(t, 1, merged.Len())
}

func TestMergeConflictOnDifferentValue(t *testing.T) {
	primary := NewParamBag()
	assert.NoError(t, primary.Add(ParamSlot{Name: "id", Value: sqlvalue.Int(1), Present: true}))

	extracted := NewParamBag()
	assert.NoError(t, extracted.Add(ParamSlot{Name: "id", Value: sqlvalue.Int(2), Present: true}))

	_, err := Merge(primary, extracted)
	assert.Error(t, err)
}

func TestBindPositionalAndNamed(t *testing.T) {
	slots := []ParamSlot{
		{Position: 1},
		{Name: "status"},
	}
	bag, err := Bind(BindInput{
		Positional: []sqlvalue.Value{sqlvalue.Int(7)},
		Named:      map[string]sqlvalue.Value{"status": sqlvalue.String("active")},
	}, slots)
	assert.NoError(t, err)
	assert.Equal(t, 2, bag.Len())

	s, ok := bag.ByName("status")
	assert.True(t, ok)
	v, _ := s.Value.AsString()
	assert.Equal(t, "active", v)
}

func TestBindArityMismatchOnLeftoverValues(t *testing.T) {
	slots := []ParamSlot{{Position: 1}}
	_, err := Bind(BindInput{Positional: []sqlvalue.Value{sqlvalue.Int(1), sqlvalue.Int(2)}}, slots)
	assert.Error(t, err)
}

func TestBindMissingNamedValue(t *testing.T) {
	slots := []ParamSlot{{Name: "id"}}
	_, err := Bind(BindInput{}, slots)
	assert.Error(t, err)
}
