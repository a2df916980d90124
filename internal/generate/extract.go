package generate

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// emptyArray is returned when the model said nothing at all.
const emptyArray = "[]"

const fence = "```"

// ExtractJSONArray isolates the JSON array in a model reply. It strips a
// surrounding code fence (dropping the language tag line), then returns the
// text from the first '[' through the last ']'. Text with no such pair comes
// back trimmed but otherwise unchanged, so the caller's parse fails on it.
func ExtractJSONArray(text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return emptyArray
	}

	if strings.HasPrefix(text, fence) {
		if nl := strings.IndexByte(text, '\n'); nl >= 0 {
			text = text[nl+1:]
		}
		text = strings.TrimSuffix(text, fence)
		text = strings.TrimSpace(text)
	}

	start := strings.IndexByte(text, '[')
	end := strings.LastIndexByte(text, ']')
	if start >= 0 && end > start {
		return text[start : end+1]
	}
	return text
}

// Candidate is one shape-like record from the model, before kind validation.
type Candidate struct {
	Type   string
	X      float64
	Y      float64
	Width  float64
	Height float64
	Color  string
}

// ParseCandidates decodes a JSON array of shape records. Field names match
// case-insensitively. Numbers may also arrive as numeric strings; absent or
// unusable numbers become 0. Array elements that are not objects are skipped.
// Only a document that is not a JSON array fails, with ErrMalformed.
func ParseCandidates(raw string) ([]Candidate, error) {
	var items []json.RawMessage
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	cands := make([]Candidate, 0, len(items))
	for _, item := range items {
		fields, ok := decodeObject(item)
		if !ok {
			continue
		}
		cands = append(cands, Candidate{
			Type:   stringField(fields["type"]),
			X:      numberField(fields["x"]),
			Y:      numberField(fields["y"]),
			Width:  numberField(fields["width"]),
			Height: numberField(fields["height"]),
			Color:  stringField(fields["color"]),
		})
	}
	return cands, nil
}

// decodeObject returns the object's fields keyed by lower-cased name. An
// exactly lower-case key wins over other spellings of the same name.
func decodeObject(item json.RawMessage) (map[string]json.RawMessage, bool) {
	if !bytes.HasPrefix(bytes.TrimSpace(item), []byte("{")) {
		return nil, false
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(item, &obj); err != nil {
		return nil, false
	}
	fields := make(map[string]json.RawMessage, len(obj))
	for k, v := range obj {
		if k == strings.ToLower(k) {
			fields[k] = v
		}
	}
	for k, v := range obj {
		lk := strings.ToLower(k)
		if _, seen := fields[lk]; !seen {
			fields[lk] = v
		}
	}
	return fields, true
}

func stringField(raw json.RawMessage) string {
	var s string
	if len(raw) == 0 || json.Unmarshal(raw, &s) != nil {
		return ""
	}
	return s
}

func numberField(raw json.RawMessage) float64 {
	if len(raw) == 0 {
		return 0
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return f
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if f, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
			return f
		}
	}
	return 0
}
