package parsers

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DarkCodePE/agent-auto-nort/internal/agent/model"
)

func TestParseVehicleInfo(t *testing.T) {
	raw := `{"vehicle_type": "taxi", "model": "Toyota Yaris", "annual": null, "location": "comas", "plant_location": null}`

	info, err := ParseVehicleInfo(raw)
	require.NoError(t, err)
	require.NotNil(t, info.VehicleType)
	assert.Equal(t, "taxi", *info.VehicleType)
	require.NotNil(t, info.Model)
	assert.Equal(t, "Toyota Yaris", *info.Model)
	assert.Nil(t, info.Annual)
	require.NotNil(t, info.Location)
	assert.Equal(t, "comas", *info.Location)
	assert.Nil(t, info.PlantLocation)
}

func TestParseVehicleInfoFencedWithProse(t *testing.T) {
	raw := "Claro, aquí está el resultado:\n```json\n{\"vehicle_type\": null, \"model\": null, \"annual\": \"2018\", \"location\": null, \"plant_location\": \"ate\"}\n```\n"

	info, err := ParseVehicleInfo(raw)
	require.NoError(t, err)
	assert.Nil(t, info.VehicleType)
	require.NotNil(t, info.Annual)
	assert.Equal(t, "2018", *info.Annual)
	require.NotNil(t, info.PlantLocation)
	assert.Equal(t, "ate", *info.PlantLocation)
}

func TestParseVehicleInfoNoJSON(t *testing.T) {
	_, err := ParseVehicleInfo("no encontré información estructurada")
	assert.Error(t, err)
}

func TestParseVehicleInfoTooLarge(t *testing.T) {
	_, err := ParseVehicleInfo(strings.Repeat("a", maxPayloadSize+1))
	assert.Error(t, err)
}

func TestParseAmbiguity(t *testing.T) {
	raw := `{"is_ambiguous": true, "ambiguity_category": "tipo_vehiculo", "clarification_question": "¿Qué tipo de vehículo tienes?"}`

	result, err := ParseAmbiguity(raw)
	require.NoError(t, err)
	assert.True(t, result.IsAmbiguous)
	assert.Equal(t, model.CategoryVehicleType, result.AmbiguityCategory)
	assert.Equal(t, "¿Qué tipo de vehículo tienes?", result.ClarificationQuestion)
}

func TestParseAmbiguityDefaultsCategory(t *testing.T) {
	result, err := ParseAmbiguity(`{"is_ambiguous": false, "clarification_question": ""}`)
	require.NoError(t, err)
	assert.False(t, result.IsAmbiguous)
	assert.Equal(t, model.CategoryNone, result.AmbiguityCategory)
}

func TestParseAmbiguityMalformed(t *testing.T) {
	_, err := ParseAmbiguity(`{"is_ambiguous": "maybe"}`)
	assert.Error(t, err)
}
