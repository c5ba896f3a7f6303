package geo

import (
	"strings"
)

// districtKeywords maps phrases users actually type to the canonical
// district fed to the geocoder. Aliases cover abbreviations and neighboring
// zones served by the same plant.
var districtKeywords = []struct {
	keyword  string
	district string
}{
	{"san juan de lurigancho", "san juan de lurigancho"},
	{"sjl", "san juan de lurigancho"},
	{"lurigancho", "san juan de lurigancho"},
	{"trapiche", "trapiche"},
	{"carabayllo", "carabayllo"},
	{"comas", "carabayllo"},
	{"jicamarca", "jicamarca"},
	{"chosica", "chosica"},
	{"santa eulalia", "chosica"},
	{"callao", "callao"},
	{"ate", "ate"},
	{"huaycán", "ate"},
	{"naranjal", "naranjal"},
	{"independencia", "naranjal"},
	{"san luis", "san luis"},
	{"atocongo", "atocongo"},
	{"san juan de miraflores", "atocongo"},
	{"surco", "surco"},
	{"santiago de surco", "surco"},
	{"villa maria", "villa maria del triunfo"},
	{"villa maría", "villa maria del triunfo"},
	{"vmt", "villa maria del triunfo"},
	{"lurin", "lurin"},
	{"lurín", "lurin"},
}

var locationPhrases = []string{
	"cerca de", "en", "por", "próximo a", "proximo a", "cercano a",
}

var fillerWords = []string{"mi", "la", "el", "los", "las", "ubicación", "ubicacion"}

// ExtractLocationFromMessage pulls a location hint out of raw user text when
// no location fact has been captured yet. Returns "" when nothing matches.
func ExtractLocationFromMessage(message string) string {
	message = strings.ToLower(message)

	for _, entry := range districtKeywords {
		if strings.Contains(message, entry.keyword) {
			return entry.district
		}
	}

	for _, phrase := range locationPhrases {
		idx := strings.Index(message, phrase)
		if idx < 0 {
			continue
		}
		// window is measured in runes so accented text never gets cut
		// mid-sequence
		window := []rune(message[idx+len(phrase):])
		if len(window) > 30 {
			window = window[:30]
		}
		locationText := strings.TrimSpace(string(window))
		for _, filler := range fillerWords {
			locationText = strings.ReplaceAll(locationText, " "+filler+" ", " ")
		}
		if len(locationText) > 3 {
			return locationText
		}
	}

	return ""
}
