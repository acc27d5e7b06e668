package sqlvalue

import (
	"testing"
	"time"

	"github.com/alecthomas/assert/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func TestKindString(t *testing.T) {
	assert.Equal(t, "Int", KindInt.String())
	assert.Equal(t, "Json", KindJSON.String())
	assert.Equal(t, "Unknown", Kind(99).String())
}

func TestConstructorsAndAccessors(t *testing.T) {
	assert.True(t, Null().IsNull())
	assert.Equal(t, KindNull, Null().Kind())

	b, ok := Bool(true).AsBool()
	assert.True(t, ok)
	assert.True(t, b)

	i, ok := Int(42).AsInt()
	assert.True(t, ok)
	assert.Equal(t, int64(42), i)

	f, ok := Float(1.5).AsFloat()
	assert.True(t, ok)
	assert.Equal(t, 1.5, f)

	s, ok := String("hi").AsString()
	assert.True(t, ok)
	assert.Equal(t, "hi", s)

	bs, ok := Bytes([]byte("data")).AsBytes()
	assert.True(t, ok)
	assert.Equal(t, []byte("data"), bs)

	id := uuid.New()
	u, ok := Uuid(id).AsUuid()
	assert.True(t, ok)
	assert.Equal(t, id, u)

	j, ok := JSON(`{"a":1}`).AsJSON()
	assert.True(t, ok)
	assert.Equal(t, `{"a":1}`, j)

	now := time.Now()
	tm, ok := DateTime(now).AsTime()
	assert.True(t, ok)
	assert.True(t, tm.Equal(now))

	// Mismatched accessor returns ok=false.
	_, ok = Int(1).AsString()
	assert.False(t, ok)
}

func TestDecimalFromString(t *testing.T) {
	v, err := DecimalFromString("10.50")
	assert.NoError(t, err)
	d, ok := v.AsDecimal()
	assert.True(t, ok)
	assert.True(t, d.Equal(decimal.RequireFromString("10.50")))

	_, err = DecimalFromString("not-a-number")
	assert.Error(t, err)
	assert.True(t, err != nil)
}

func TestEqual(t *testing.T) {
	assert.True(t, Int(1).Equal(Int(1)))
	assert.False(t, Int(1).Equal(Int(2)))
	assert.False(t, Int(1).Equal(String("1")))
	assert.True(t, Null().Equal(Null()))

	d1, _ := DecimalFromString("1.00")
	d2, _ := DecimalFromString("1.0")
	assert.True(t, d1.Equal(d2))

	now := time.Now()
	assert.True(t, DateTime(now).Equal(DateTime(now)))
}

func TestGoString(t *testing.T) {
	assert.Equal(t, "Null", Null().GoString())
	assert.Equal(t, "Bool(true)", Bool(true).GoString())
	assert.Equal(t, "Int(7)", Int(7).GoString())
	assert.Equal(t, `String("x")`, String("x").GoString())
}
