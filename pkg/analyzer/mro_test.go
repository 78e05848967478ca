package analyzer

import (
	"testing"

	"github.com/acaciamc/acacia/pkg/diag"
	"github.com/acaciamc/acacia/pkg/util/source"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// S4: A, B(A), C(A), D(B, C) succeeds with MRO D, B, C, A; D(C, B) also
// succeeds with MRO D, C, B, A; combining an X(B,C)/Y(C,B) inconsistency
// into Z(X, Y) fails with *mro*.
func TestMRODiamond(t *testing.T) {
	file := source.NewSourceFile("test.aca", []byte(""))
	span := source.NewSpan(0, 0)

	a, err := Linearize(span, file, "A", nil, nil)
	require.Nil(t, err)
	assert.Equal(t, []string{"A"}, a)

	b, err := Linearize(span, file, "B", [][]string{a}, []string{"A"})
	require.Nil(t, err)
	assert.Equal(t, []string{"B", "A"}, b)

	c, err := Linearize(span, file, "C", [][]string{a}, []string{"A"})
	require.Nil(t, err)
	assert.Equal(t, []string{"C", "A"}, c)

	d, err := Linearize(span, file, "D", [][]string{b, c}, []string{"B", "C"})
	require.Nil(t, err)
	assert.Equal(t, []string{"D", "B", "C", "A"}, d)

	d2, err := Linearize(span, file, "D", [][]string{c, b}, []string{"C", "B"})
	require.Nil(t, err)
	assert.Equal(t, []string{"D", "C", "B", "A"}, d2)
}

func TestMROInconsistencyFails(t *testing.T) {
	file := source.NewSourceFile("test.aca", []byte(""))
	span := source.NewSpan(0, 0)

	a, _ := Linearize(span, file, "A", nil, nil)
	b, _ := Linearize(span, file, "B", [][]string{a}, []string{"A"})
	c, _ := Linearize(span, file, "C", [][]string{a}, []string{"A"})

	x, err := Linearize(span, file, "X", [][]string{b, c}, []string{"B", "C"})
	require.Nil(t, err)

	y, err := Linearize(span, file, "Y", [][]string{c, b}, []string{"C", "B"})
	require.Nil(t, err)

	_, zerr := Linearize(span, file, "Z", [][]string{x, y}, []string{"X", "Y"})
	require.NotNil(t, zerr)
	assert.Equal(t, diag.MRO, zerr.Kind)
}
