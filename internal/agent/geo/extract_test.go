package geo

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestExtractLocationFromMessage(t *testing.T) {
	cases := []struct {
		message string
		want    string
	}{
		{"Estoy en SJL, ¿dónde hago la revisión?", "san juan de lurigancho"},
		{"vivo por Comas", "carabayllo"},
		{"mi carro está en villa maría", "villa maria del triunfo"},
		{"¿tienen algo en el Callao?", "callao"},
		{"¿cuánto cuesta la revisión?", ""},
		{"hola", ""},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, ExtractLocationFromMessage(tc.message), tc.message)
	}
}

func TestExtractLocationFromPhrase(t *testing.T) {
	got := ExtractLocationFromMessage("me encuentro cerca de la avenida arequipa")
	assert.NotEmpty(t, got)
}

func TestExtractLocationKeepsRunesWhole(t *testing.T) {
	// a 30-byte cut would land inside the last ñ of the window
	got := ExtractLocationFromMessage("estoy por " + strings.Repeat("ñ", 20))
	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, strings.Repeat("ñ", 20), got)
}
