package formula_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/masonrylabs/masonry/pkg/formula"
)

func TestParseOutputs_MultiOutput(t *testing.T) {
	outs, ok := formula.ParseOutputs("({x: a+b, y: a-b})")
	require.True(t, ok)
	require.Len(t, outs, 2)
	assert.Equal(t, formula.Output{Key: "x", Expr: "a+b"}, outs[0])
	assert.Equal(t, formula.Output{Key: "y", Expr: "a-b"}, outs[1])
}

func TestParseOutputs_SingleExpression(t *testing.T) {
	_, ok := formula.ParseOutputs("a*b")
	assert.False(t, ok)

	// A parenthesized plain expression is still single-output.
	_, ok = formula.ParseOutputs("(a*b)")
	assert.False(t, ok)
}

func TestParseOutputs_UnwrappedBraces(t *testing.T) {
	outs, ok := formula.ParseOutputs("{total: a+b}")
	require.True(t, ok)
	require.Len(t, outs, 1)
	assert.Equal(t, "total", outs[0].Key)
}

func TestParseOutputs_NestedParensNotSplit(t *testing.T) {
	outs, ok := formula.ParseOutputs("({avg: (a+b)/2, span: (b-a)})")
	require.True(t, ok)
	require.Len(t, outs, 2)
	assert.Equal(t, "(a+b)/2", outs[0].Expr)
	assert.Equal(t, "(b-a)", outs[1].Expr)
}

func TestParseOutputs_DropsBadPairs(t *testing.T) {
	outs, ok := formula.ParseOutputs("({good: a+1, 9bad: b, noexpr: , bare})")
	require.True(t, ok)
	require.Len(t, outs, 1)
	assert.Equal(t, "good", outs[0].Key)
}

func TestSanitize_AllowList(t *testing.T) {
	assert.Equal(t, "a  b  1", formula.Sanitize(`a {} b [] 1;:'"`))
	assert.Equal(t, "x+y*2", formula.Sanitize("x+y*2"))
	// An expression made entirely of disallowed characters empties out.
	assert.Equal(t, "", formula.Sanitize(`{};:'"`+"`"))
}

func TestCompile_RejectsDisallowed(t *testing.T) {
	_, err := formula.Compile("a + b; drop()")
	assert.Error(t, err)
	var cerr *formula.CompileError
	assert.ErrorAs(t, err, &cerr)

	_, err = formula.Compile("a[0] + b")
	assert.Error(t, err)
}

func TestCompileLenient_EmptyAfterSanitizeMeansNoOutput(t *testing.T) {
	p, err := formula.CompileLenient(`{};`)
	assert.NoError(t, err)
	assert.Nil(t, p)
}

func TestCompileLenient_Strips(t *testing.T) {
	p, err := formula.CompileLenient("a + b;")
	require.NoError(t, err)
	require.NotNil(t, p)
	v, err := p.Eval(map[string]float64{"a": 2, "b": 3})
	require.NoError(t, err)
	assert.Equal(t, 5.0, v)
}

func TestProgram_Eval(t *testing.T) {
	p, err := formula.Compile("(a + b) * 2 - c / 4 + a % 3")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, p.Inputs())

	v, err := p.Eval(map[string]float64{"a": 5, "b": 1, "c": 8})
	require.NoError(t, err)
	assert.Equal(t, 12.0, v)
}

func TestProgram_UnaryMinus(t *testing.T) {
	p, err := formula.Compile("-a + 10")
	require.NoError(t, err)
	v, err := p.Eval(map[string]float64{"a": 4})
	require.NoError(t, err)
	assert.Equal(t, 6.0, v)
}

func TestProgram_MissingInputIsZero(t *testing.T) {
	p, err := formula.Compile("a + b")
	require.NoError(t, err)
	v, err := p.Eval(map[string]float64{"a": 3})
	require.NoError(t, err)
	assert.Equal(t, 3.0, v)
}

func TestProgram_NonFiniteIsFailure(t *testing.T) {
	p, err := formula.Compile("a / b")
	require.NoError(t, err)
	_, err = p.Eval(map[string]float64{"a": 1, "b": 0})
	assert.Error(t, err)

	_, err = p.Eval(map[string]float64{"a": 0, "b": 0}) // NaN
	assert.Error(t, err)
}

func TestCompile_Malformed(t *testing.T) {
	for _, src := range []string{"a +", "* b", "(a + b", "a + (b))", "1.2.3", ""} {
		_, err := formula.Compile(src)
		assert.Error(t, err, "source: %q", src)
	}
}
