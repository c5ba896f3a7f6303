package parsers

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/DarkCodePE/agent-auto-nort/internal/agent/model"
)

// maxPayloadSize guards against runaway model output before unmarshaling.
const maxPayloadSize = 64 * 1024

// extractJSON pulls the first JSON object out of raw model output, stripping
// markdown fences and any prose around it.
func extractJSON(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	if len(s) > maxPayloadSize {
		return "", fmt.Errorf("payload too large: %d bytes", len(s))
	}
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		if idx := strings.LastIndex(s, "```"); idx >= 0 {
			s = s[:idx]
		}
		s = strings.TrimSpace(s)
	}
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end <= start {
		return "", fmt.Errorf("no JSON object found in output")
	}
	return s[start : end+1], nil
}

// ParseVehicleInfo decodes the extraction model's JSON verdict. Missing or
// null fields stay nil.
func ParseVehicleInfo(raw string) (model.VehicleInfo, error) {
	var info model.VehicleInfo
	payload, err := extractJSON(raw)
	if err != nil {
		return info, fmt.Errorf("vehicle info parse: %w", err)
	}
	if err := json.Unmarshal([]byte(payload), &info); err != nil {
		return info, fmt.Errorf("vehicle info parse: %w", err)
	}
	return info, nil
}

// ParseAmbiguity decodes the ambiguity classifier's JSON verdict. The
// category is uppercased and defaults to NINGUNA when absent.
func ParseAmbiguity(raw string) (model.AmbiguityClassification, error) {
	var result model.AmbiguityClassification
	payload, err := extractJSON(raw)
	if err != nil {
		return result, fmt.Errorf("ambiguity parse: %w", err)
	}
	if err := json.Unmarshal([]byte(payload), &result); err != nil {
		return result, fmt.Errorf("ambiguity parse: %w", err)
	}
	result.AmbiguityCategory = strings.ToUpper(strings.TrimSpace(result.AmbiguityCategory))
	if result.AmbiguityCategory == "" {
		result.AmbiguityCategory = model.CategoryNone
	}
	return result, nil
}
