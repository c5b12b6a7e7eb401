package tutor

import (
	"regexp"
	"strings"

	"lingua-bot/internal/domain"
)

// InvalidInputSentinel is what the model returns when no name and age are present.
const InvalidInputSentinel = "INVALID_INPUT"

var fencedLevel = regexp.MustCompile("(?s)```(.*?)```")

// ExtractLevel returns the first fenced token as the level and the response
// with every fenced token removed as the explanation.
func ExtractLevel(raw string) (level, explanation string) {
	level = domain.UnknownLevel
	if m := fencedLevel.FindStringSubmatch(raw); m != nil {
		if trimmed := strings.TrimSpace(m[1]); trimmed != "" {
			level = trimmed
		}
	}
	explanation = strings.TrimSpace(fencedLevel.ReplaceAllString(raw, ""))
	return level, explanation
}

// ParseIntroduction expects "Name Age" with a numeric age.
func ParseIntroduction(raw string) (*domain.Introduction, error) {
	if strings.Contains(raw, InvalidInputSentinel) {
		return nil, domain.NewExtractionAmbiguityError("name and age not found")
	}
	parts := strings.Fields(raw)
	if len(parts) < 2 || !isDigits(parts[1]) {
		return nil, domain.NewExtractionAmbiguityError("unexpected introduction format")
	}
	return &domain.Introduction{Name: parts[0], Age: parts[1]}, nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// StripThinking removes a <think>...</think> block some local models emit.
func StripThinking(raw string) string {
	cleaned := strings.TrimSpace(raw)
	if thinkStart := strings.Index(cleaned, "<think>"); thinkStart != -1 {
		if thinkEnd := strings.Index(cleaned, "</think>"); thinkEnd != -1 && thinkEnd > thinkStart {
			cleaned = cleaned[:thinkStart] + cleaned[thinkEnd+len("</think>"):]
		}
	}
	return strings.TrimSpace(cleaned)
}

// ExtractJSON drops a leading and trailing ``` fence line.
func ExtractJSON(raw string) string {
	cleaned := strings.TrimSpace(raw)
	if !strings.HasPrefix(cleaned, "```") {
		return cleaned
	}
	lines := strings.Split(cleaned, "\n")
	if len(lines) > 0 && strings.HasPrefix(lines[0], "```") {
		lines = lines[1:]
	}
	if len(lines) > 0 && strings.HasPrefix(strings.TrimSpace(lines[len(lines)-1]), "```") {
		lines = lines[:len(lines)-1]
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
