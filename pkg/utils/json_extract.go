package utils

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// codeBlockPattern matches fenced blocks with an optional language tag
var codeBlockPattern = regexp.MustCompile("(?s)```(\\w*)\\s*\\n(.+?)\\n```")

// ExtractJSON pulls the JSON document out of a planner answer. Fenced json
// blocks win over raw objects found in the text.
func ExtractJSON(response string) (string, error) {
	for _, match := range codeBlockPattern.FindAllStringSubmatch(response, -1) {
		lang := strings.ToLower(match[1])
		if lang != "" && lang != "json" {
			continue
		}
		content := strings.TrimSpace(match[2])
		if json.Valid([]byte(content)) {
			return content, nil
		}
	}

	trimmed := strings.TrimSpace(response)
	if json.Valid([]byte(trimmed)) {
		return trimmed, nil
	}

	start := strings.IndexAny(response, "{[")
	if start < 0 {
		return "", fmt.Errorf("no JSON object found in response")
	}
	closing := byte('}')
	if response[start] == '[' {
		closing = ']'
	}
	for end := strings.LastIndexByte(response, closing); end > start; end = strings.LastIndexByte(response[:end], closing) {
		candidate := response[start : end+1]
		if json.Valid([]byte(candidate)) {
			return candidate, nil
		}
	}

	return "", fmt.Errorf("no valid JSON object found in response")
}
