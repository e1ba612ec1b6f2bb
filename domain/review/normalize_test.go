package review

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize_Lowercases(t *testing.T) {
	assert.Equal(t, "use strictequal", Normalize("Use StrictEqual"))
}

func TestNormalize_StripsDiacritics(t *testing.T) {
	assert.Equal(t, "securite", Normalize("sécurité"))
	assert.Equal(t, "funcao nao e segura", Normalize("função não é segura"))
}

func TestNormalize_KeepsSafePunctuation(t *testing.T) {
	assert.Equal(t, "arr.map(x) {y} [z] snake_case kebab-case",
		Normalize("arr.map(x) {y} [z] snake_case kebab-case"))
}

func TestNormalize_ReplacesUnsafePunctuation(t *testing.T) {
	assert.Equal(t, "a b", Normalize("a,b"))
	assert.Equal(t, "don t use eval", Normalize("don't use eval!"))
	assert.Equal(t, "x y", Normalize("x == y?"))
}

func TestNormalize_CollapsesWhitespace(t *testing.T) {
	assert.Equal(t, "a b c", Normalize("  a \t b \n\n c  "))
}

func TestNormalize_Empty(t *testing.T) {
	assert.Equal(t, "", Normalize(""))
	assert.Equal(t, "", Normalize("   \t\n  "))
	assert.Equal(t, "", Normalize("!!@@##"))
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{
		"Évitez les appels synchrones!",
		"Use `const` instead of `var`",
		"arr.filter(Boolean)  --  NOT  arr.filter(x => x)",
	}
	for _, in := range inputs {
		once := Normalize(in)
		assert.Equal(t, once, Normalize(once), "input %q", in)
	}
}
