package llm

import (
	"encoding/json"
	"strings"

	"github.com/healthsignal/health-engine/pkg/jsonutil"
	"github.com/healthsignal/health-engine/pkg/models"
)

// ParseRecommendations extracts recommendations from a model response in the
// pipe-delimited format. Some models ignore the format instructions and
// return a JSON array instead, so that shape is accepted too. Lines that do
// not match are skipped; an empty result signals the caller to use the
// rule-based fallback. At most three recommendations are returned.
func ParseRecommendations(content string) []models.Recommendation {
	if recs := parseJSONRecommendations(content); len(recs) > 0 {
		return recs
	}

	var recs []models.Recommendation

	for _, line := range strings.Split(content, "\n") {
		if !strings.Contains(line, "|") || !strings.Contains(line, "ACTION:") {
			continue
		}
		parts := strings.Split(line, "|")
		if len(parts) < 4 {
			continue
		}

		action := segmentValue(parts[0], "ACTION:")
		priority := strings.ToLower(segmentValue(parts[1], "PRIORITY:"))
		timeline := segmentValue(parts[2], "TIMELINE:")
		reasoning := segmentValue(parts[3], "REASONING:")
		if action == "" || priority == "" {
			continue
		}

		recs = append(recs, models.Recommendation{
			Action:    action,
			Priority:  normalizePriority(priority),
			Timeline:  timeline,
			Reasoning: reasoning,
		})
		if len(recs) == 3 {
			break
		}
	}
	return recs
}

// parseJSONRecommendations handles responses where the model returned a JSON
// array despite the format instructions. Field values arrive as raw messages
// because models occasionally emit numbers or booleans where strings belong.
func parseJSONRecommendations(content string) []models.Recommendation {
	trimmed := strings.TrimSpace(content)
	if md, ok := strings.CutPrefix(trimmed, "```json"); ok {
		trimmed = strings.TrimSuffix(strings.TrimSpace(md), "```")
	}
	start := strings.Index(trimmed, "[")
	end := strings.LastIndex(trimmed, "]")
	if start < 0 || end <= start {
		return nil
	}

	var items []struct {
		Action    json.RawMessage `json:"action"`
		Priority  json.RawMessage `json:"priority"`
		Timeline  json.RawMessage `json:"timeline"`
		Reasoning json.RawMessage `json:"reasoning"`
	}
	if err := json.Unmarshal([]byte(trimmed[start:end+1]), &items); err != nil {
		return nil
	}

	var recs []models.Recommendation
	for _, item := range items {
		action := strings.TrimSpace(jsonutil.FlexibleStringValue(item.Action))
		priority := strings.ToLower(strings.TrimSpace(jsonutil.FlexibleStringValue(item.Priority)))
		if action == "" || priority == "" {
			continue
		}
		recs = append(recs, models.Recommendation{
			Action:    action,
			Priority:  normalizePriority(priority),
			Timeline:  strings.TrimSpace(jsonutil.FlexibleStringValue(item.Timeline)),
			Reasoning: strings.TrimSpace(jsonutil.FlexibleStringValue(item.Reasoning)),
		})
		if len(recs) == 3 {
			break
		}
	}
	return recs
}

// segmentValue pulls the text after the label within one pipe segment.
func segmentValue(segment, label string) string {
	idx := strings.Index(segment, label)
	if idx < 0 {
		return ""
	}
	return strings.TrimSpace(segment[idx+len(label):])
}

func normalizePriority(p string) models.Priority {
	switch models.Priority(p) {
	case models.PriorityLow, models.PriorityMedium, models.PriorityHigh, models.PriorityCritical:
		return models.Priority(p)
	default:
		return models.PriorityMedium
	}
}
