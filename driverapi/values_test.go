package driverapi

import (
	"testing"

	"github.com/alecthomas/assert/v2"

	"github.com/litestar-org/sqlspec-core/paramreg"
	"github.com/litestar-org/sqlspec-core/sqlvalue"
)

func TestValueToGo(t *testing.T) {
	assert.Equal(t, nil, ValueToGo(sqlvalue.Null()))
	assert.Equal(t, int64(7), ValueToGo(sqlvalue.Int(7)))
	assert.Equal(t, "Ada", ValueToGo(sqlvalue.String("Ada")))
	assert.Equal(t, true, ValueToGo(sqlvalue.Bool(true)))
}

func TestOrderedArgs(t *testing.T) {
	bag := paramreg.NewParamBag()
	assert.NoError(t, bag.Add(paramreg.ParamSlot{Value: sqlvalue.Int(7), Present: true, Origin: paramreg.OriginUser}))
	assert.NoError(t, bag.Add(paramreg.ParamSlot{Value: sqlvalue.String("Ada"), Present: true, Origin: paramreg.OriginUser}))

	args := OrderedArgs(bag)
	assert.Equal(t, 2, len(args))
	assert.Equal(t, int64(7), args[0])
	assert.Equal(t, "Ada", args[1])
}
