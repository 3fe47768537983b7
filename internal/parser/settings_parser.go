package parser

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseAssignment splits "key=value" and types the value: integers and
// floats become numbers, true/false become booleans, anything else stays a
// string. Quotes force a string.
func ParseAssignment(input string) (string, any, error) {
	key, raw, ok := strings.Cut(input, "=")
	key = strings.TrimSpace(key)
	if !ok || key == "" {
		return "", nil, fmt.Errorf("invalid setting %q. Use: key=value", input)
	}
	return key, parseValue(strings.TrimSpace(raw)), nil
}

func parseValue(raw string) any {
	if len(raw) >= 2 && (raw[0] == '"' || raw[0] == '\'') && raw[len(raw)-1] == raw[0] {
		return raw[1 : len(raw)-1]
	}
	if n, err := strconv.Atoi(raw); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return f
	}
	switch strings.ToLower(raw) {
	case "true", "on", "yes":
		return true
	case "false", "off", "no":
		return false
	}
	return raw
}
