package nodes

import (
	"fmt"
	"strings"

	"github.com/cloudwego/eino/schema"

	"github.com/DarkCodePE/agent-auto-nort/internal/agent/model"
)

// noneLiteral is what the prompts expect for an unknown fact.
const noneLiteral = "None"

// ===== Small helpers to keep nodes simple/readable =====

func factOrNone(v *string) string {
	if v == nil || strings.TrimSpace(*v) == "" {
		return noneLiteral
	}
	return *v
}

func joinOrNone(items []string) string {
	if len(items) == 0 {
		return noneLiteral
	}
	return strings.Join(items, ", ")
}

// renderMessages flattens messages into the human/ai transcript form the
// prompts consume.
func renderMessages(msgs []*schema.Message) string {
	if len(msgs) == 0 {
		return noneLiteral
	}
	lines := make([]string, 0, len(msgs))
	for _, m := range msgs {
		if m == nil || strings.TrimSpace(m.Content) == "" {
			continue
		}
		lines = append(lines, fmt.Sprintf("%s: %s", historyRole(m.Role), m.Content))
	}
	if len(lines) == 0 {
		return noneLiteral
	}
	return strings.Join(lines, "\n")
}

func historyRole(role schema.RoleType) string {
	switch role {
	case schema.User:
		return "human"
	case schema.Assistant:
		return "ai"
	default:
		return string(role)
	}
}

// formatVehicleInfo renders the known facts block for the prompts.
func formatVehicleInfo(s *model.ConversationState) string {
	return strings.Join([]string{
		"tipo de vehículo: " + factOrNone(s.VehicleType),
		"ubicación del usuario: " + factOrNone(s.Location),
		"planta de interés: " + factOrNone(s.PlantLocation),
		"modelo del vehículo: " + factOrNone(s.Model),
		"año de fabricación: " + factOrNone(s.Annual),
	}, "\n")
}

// formatPlantList renders the top ranked plants for the location prompt and
// the deterministic fallback answer.
func formatPlantList(plants []model.PlantDistance, max int) string {
	if len(plants) == 0 {
		return noneLiteral
	}
	if max > 0 && len(plants) > max {
		plants = plants[:max]
	}
	lines := make([]string, 0, len(plants))
	for i, p := range plants {
		lines = append(lines, fmt.Sprintf(
			"%d. %s\n   Dirección: %s\n   Teléfono: %s\n   Horario: %s\n   Distancia: %s (%s en auto)",
			i+1, p.Name, p.Address, p.Phone, p.Hours, p.DistanceText, p.DurationText))
	}
	return strings.Join(lines, "\n")
}
