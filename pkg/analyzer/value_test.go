package analyzer

import (
	"testing"

	"github.com/acaciamc/acacia/pkg/diag"
	"github.com/acaciamc/acacia/pkg/util/source"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstFoldingS1(t *testing.T) {
	// S1: x = 0XF2e + 0b11 -> 3889, folded entirely at compile time.
	file := source.NewSourceFile("test.aca", []byte(""))
	ce := NewConstEval(file)
	span := source.NewSpan(0, 1)

	result, err := ce.Arith(span, "+", 0xf2e, 0b11)
	require.Nil(t, err)
	assert.Equal(t, int32(3889), result)
}

func TestArithDivisionByZero(t *testing.T) {
	file := source.NewSourceFile("test.aca", []byte(""))
	ce := NewConstEval(file)
	span := source.NewSpan(0, 1)

	_, err := ce.Arith(span, "/", 1, 0)
	require.NotNil(t, err)
	assert.Equal(t, diag.ConstArithmetic, err.Kind)
}

func TestArithOverflow(t *testing.T) {
	file := source.NewSourceFile("test.aca", []byte(""))
	ce := NewConstEval(file)
	span := source.NewSpan(0, 1)

	_, err := ce.Arith(span, "*", 1<<30, 4)
	require.NotNil(t, err)
	assert.Equal(t, diag.ConstArithmetic, err.Kind)
}

func TestListIndexOutOfBounds(t *testing.T) {
	file := source.NewSourceFile("test.aca", []byte(""))
	ce := NewConstEval(file)
	span := source.NewSpan(0, 1)
	list := []Value{IntValue(1), IntValue(2)}

	_, err := ce.ListIndex(span, list, 5)
	require.NotNil(t, err)
	assert.Equal(t, diag.ListIndexOutOfBounds, err.Kind)

	v, err := ce.ListIndex(span, list, -1)
	require.Nil(t, err)
	assert.Equal(t, int32(2), v.Int)
}

func TestMapGetMissingKey(t *testing.T) {
	file := source.NewSourceFile("test.aca", []byte(""))
	ce := NewConstEval(file)
	span := source.NewSpan(0, 1)

	_, err := ce.MapGet(span, []Value{IntValue(1)}, []Value{IntValue(10)}, IntValue(2))
	require.NotNil(t, err)
	assert.Equal(t, diag.MapKeyNotFound, err.Kind)

	v, err := ce.MapGet(span, []Value{IntValue(1)}, []Value{IntValue(10)}, IntValue(1))
	require.Nil(t, err)
	assert.Equal(t, int32(10), v.Int)
}

func TestListRepeatRequiresLiteralFactor(t *testing.T) {
	file := source.NewSourceFile("test.aca", []byte(""))
	ce := NewConstEval(file)
	span := source.NewSpan(0, 1)

	_, err := ce.ListRepeat(span, []Value{IntValue(1)}, 3, false)
	require.NotNil(t, err)
	assert.Equal(t, diag.ListMultimesNonLiteral, err.Kind)

	out, err := ce.ListRepeat(span, []Value{IntValue(1), IntValue(2)}, 2, true)
	require.Nil(t, err)
	assert.Len(t, out, 4)
}
