package models

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Recognized setting keys
const (
	SettingFocusTime               = "focusTime"
	SettingBreakTime               = "breakTime"
	SettingLongBreakTime           = "longBreakTime"
	SettingSessionsBeforeLongBreak = "sessionsBeforeLongBreak"
	SettingSoundEnabled            = "soundEnabled"
)

// Setting is one stored key of the settings mapping. Value holds JSON.
type Setting struct {
	Key   string `gorm:"primaryKey"`
	Value string `gorm:"not null"`
}

// Settings is the flat mapping the settings rows collapse into
type Settings map[string]any

// TimerSettings is the typed view of the recognized keys
type TimerSettings struct {
	FocusTime               int  `json:"focusTime"`
	BreakTime               int  `json:"breakTime"`
	LongBreakTime           int  `json:"longBreakTime"`
	SessionsBeforeLongBreak int  `json:"sessionsBeforeLongBreak"`
	SoundEnabled            bool `json:"soundEnabled"`
}

// DefaultTimerSettings returns the classic 25/5/15 cadence
func DefaultTimerSettings() TimerSettings {
	return TimerSettings{
		FocusTime:               25,
		BreakTime:               5,
		LongBreakTime:           15,
		SessionsBeforeLongBreak: 4,
		SoundEnabled:            true,
	}
}

// Minutes returns the configured length of mode
func (ts TimerSettings) Minutes(mode Mode) int {
	switch mode {
	case ModeBreak:
		return ts.BreakTime
	case ModeLongBreak:
		return ts.LongBreakTime
	default:
		return ts.FocusTime
	}
}

// Settings converts to the stored mapping
func (ts TimerSettings) Settings() Settings {
	return Settings{
		SettingFocusTime:               ts.FocusTime,
		SettingBreakTime:               ts.BreakTime,
		SettingLongBreakTime:           ts.LongBreakTime,
		SettingSessionsBeforeLongBreak: ts.SessionsBeforeLongBreak,
		SettingSoundEnabled:            ts.SoundEnabled,
	}
}

// TimerSettings overlays the recognized keys of s on the defaults.
// Non-positive numbers and values of the wrong type are ignored.
func (s Settings) TimerSettings() TimerSettings {
	ts := DefaultTimerSettings()
	if v, ok := s.Int(SettingFocusTime); ok && v > 0 {
		ts.FocusTime = v
	}
	if v, ok := s.Int(SettingBreakTime); ok && v > 0 {
		ts.BreakTime = v
	}
	if v, ok := s.Int(SettingLongBreakTime); ok && v > 0 {
		ts.LongBreakTime = v
	}
	if v, ok := s.Int(SettingSessionsBeforeLongBreak); ok && v > 0 {
		ts.SessionsBeforeLongBreak = v
	}
	if v, ok := s[SettingSoundEnabled].(bool); ok {
		ts.SoundEnabled = v
	}
	return ts
}

// Int reads key as an integer
func (s Settings) Int(key string) (int, bool) {
	switch v := s[key].(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		if v == float64(int(v)) {
			return int(v), true
		}
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return int(n), true
		}
	}
	return 0, false
}

// EncodeSettingValue serializes a value for the settings table
func EncodeSettingValue(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("encode setting: %w", err)
	}
	return string(b), nil
}

// DecodeSettingValue reverses EncodeSettingValue. Whole numbers come back
// as int so a saved mapping loads back equal.
func DecodeSettingValue(raw string) (any, error) {
	var v any
	dec := json.NewDecoder(strings.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("decode setting: %w", err)
	}
	return normalizeNumbers(v), nil
}

func normalizeNumbers(v any) any {
	switch val := v.(type) {
	case json.Number:
		if n, err := val.Int64(); err == nil {
			return int(n)
		}
		if f, err := val.Float64(); err == nil {
			return f
		}
		return val.String()
	case map[string]any:
		for k, inner := range val {
			val[k] = normalizeNumbers(inner)
		}
		return val
	case []any:
		for i, inner := range val {
			val[i] = normalizeNumbers(inner)
		}
		return val
	}
	return v
}
