// Package extract recovers JSON values embedded in free-form model output.
package extract

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"
)

// emptyObject is returned when text contains no opening brace.
const emptyObject = "{}"

// ErrNoObject is returned by ObjectFields when text has no '{' at all.
var ErrNoObject = errors.New("no JSON object in text")

var arrayPattern = regexp.MustCompile(`(?s)\[.*?\]`)

// Object returns the first JSON object candidate in text. Braces are counted
// from the first '{'; when depth returns to zero that span is returned. When it
// never does, the span runs to the last '}' seen after the first '{', or to the
// end of text if there is none. The result is a candidate only and may not parse.
func Object(text string) string {
	start := strings.IndexByte(text, '{')
	if start == -1 {
		return emptyObject
	}

	depth := 0
	lastClose := -1
	for i := start; i < len(text); i++ {
		switch text[i] {
		case '{':
			depth++
		case '}':
			depth--
			lastClose = i
			if depth == 0 {
				return text[start : i+1]
			}
		}
	}

	if lastClose != -1 {
		return text[start : lastClose+1]
	}
	return text[start:]
}

// StringArray scans text for non-overlapping bracketed spans and returns the
// first one that decodes as a JSON array of strings.
func StringArray(text string) ([]string, bool) {
	for _, m := range arrayPattern.FindAllString(text, -1) {
		var items []string
		if err := json.Unmarshal([]byte(m), &items); err != nil {
			continue
		}
		if items == nil {
			items = []string{}
		}
		return items, true
	}
	return nil, false
}

// Field is one member of a JSON object with its value left undecoded.
type Field struct {
	Key   string
	Value json.RawMessage
}

// Fields decodes candidate as a single JSON object and returns its members in
// document order. Duplicate keys are returned as they appear.
func Fields(candidate string) ([]Field, error) {
	dec := json.NewDecoder(strings.NewReader(candidate))
	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("read object start: %w", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, fmt.Errorf("expected JSON object, got %v", tok)
	}

	var fields []Field
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("read key: %w", err)
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected key %v", tok)
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, fmt.Errorf("read value for %q: %w", key, err)
		}
		fields = append(fields, Field{Key: key, Value: raw})
	}
	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("read object end: %w", err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("trailing data after object")
	}
	return fields, nil
}

// ObjectFields extracts the first object candidate from text and decodes it.
// Text without any '{' is an error rather than an empty object.
func ObjectFields(text string) ([]Field, error) {
	if !strings.Contains(text, "{") {
		return nil, ErrNoObject
	}
	return Fields(Object(text))
}

// String reports whether raw is a JSON string and returns it.
func String(raw json.RawMessage) (string, bool) {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}

// Int coerces raw into an integer the way a lenient reader would: integral
// numbers, floats (truncated toward zero), numeric strings and booleans.
func Int(raw json.RawMessage) (int, bool) {
	raw = bytes.TrimSpace(raw)
	var n json.Number
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return 0, false
	}
	switch t := v.(type) {
	case json.Number:
		n = t
	case string:
		n = json.Number(strings.TrimSpace(t))
	case bool:
		if t {
			return 1, true
		}
		return 0, true
	default:
		return 0, false
	}
	if i, err := n.Int64(); err == nil {
		return int(i), true
	}
	if _, isString := v.(string); isString {
		// int("4.5") fails for strings; only bare numbers truncate.
		return 0, false
	}
	f, err := n.Float64()
	if err != nil {
		return 0, false
	}
	return int(f), true
}
