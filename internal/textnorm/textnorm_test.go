package textnorm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "empty", input: "", want: ""},
		{name: "separators removed", input: "A.B,C-D\\E/F|G H", want: "abcdefgh"},
		{name: "lower-cased", input: "CNMG120408", want: "cnmg120408"},
		{name: "cyrillic words dropped", input: "Пластина CNMG 120408-PM", want: "cnmg120408pm"},
		{name: "cyrillic homoglyphs dropped too", input: "НК12", want: "12"},
		{name: "only cyrillic", input: "Фреза", want: ""},
		{name: "digits kept", input: "12.5-30", want: "12530"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.input))
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{
		"", "CNMG 120408-PM", "Пластина APMT1135 PDER", "a/b\\c|d", "ÄÖÜ-ß", "İstanbul 12", "ёлка-Ё",
	}

	for _, in := range inputs {
		once := Normalize(in)
		assert.Equal(t, once, Normalize(once), "input %q", in)
	}
}

func TestNormalizePtr(t *testing.T) {
	assert.Equal(t, "", NormalizePtr(nil))

	s := "APMT-1135"
	assert.Equal(t, "apmt1135", NormalizePtr(&s))
}

func TestTransliterate(t *testing.T) {
	assert.Equal(t, "ABE-123", Transliterate("АВЕ-123"))
	assert.Equal(t, "KMHOPCTX", Transliterate("КМНОРСТХ"))
	// lower-case and non look-alike letters are not mapped
	assert.Equal(t, "Ж-ab", Transliterate("Ж-ab"))
	assert.Equal(t, "", Transliterate(""))
}

func TestStringify(t *testing.T) {
	assert.Equal(t, "*a*b*c*", Stringify("abc"))
	assert.Equal(t, "*1*", Stringify("1"))
	assert.Equal(t, "", Stringify(""))
}

func TestStringify_EscapesReservedCharacters(t *testing.T) {
	// 1/2" HSS keeps its inch mark after normalization
	assert.Equal(t, `*1*2*\"*h*s*s*`, Stringify(Normalize(`1/2" HSS`)))
	assert.Equal(t, `*a*\(*1*\)*`, Stringify("a(1)"))
	assert.Equal(t, `*r*\:*\~*\^*`, Stringify("r:~^"))
	assert.Equal(t, "*a*b*", Stringify("a<>b"))
	assert.Equal(t, "", Stringify("<>"))
}

func TestRemoveCyrillic(t *testing.T) {
	assert.Equal(t, "T-1 ", RemoveCyrillic("T-1 ок"))
	assert.Equal(t, "abc", RemoveCyrillic("aбbвc"))
}
