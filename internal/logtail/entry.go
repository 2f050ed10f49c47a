package logtail

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Entry is one parsed log line.
type Entry struct {
	Time    string
	Level   string
	Message string
	Fields  []Field
}

// Field is a key/value pair attached to an entry, in file order.
type Field struct {
	Key   string
	Value string
}

// Parse reads a line written by logrus in either text or JSON format. ok is
// false for lines that are neither.
func Parse(line string) (Entry, bool) {
	trimmed := strings.TrimSpace(line)
	if strings.HasPrefix(trimmed, "{") {
		return parseJSON(trimmed)
	}
	return parseText(trimmed)
}

func parseJSON(line string) (Entry, bool) {
	var raw map[string]any
	if err := json.Unmarshal([]byte(line), &raw); err != nil {
		return Entry{}, false
	}
	entry := Entry{
		Time:    stringify(raw["time"]),
		Level:   stringify(raw["level"]),
		Message: stringify(raw["msg"]),
	}
	keys := make([]string, 0, len(raw))
	for k := range raw {
		switch k {
		case "time", "level", "msg":
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		entry.Fields = append(entry.Fields, Field{Key: k, Value: stringify(raw[k])})
	}
	return entry, entry.Level != ""
}

func parseText(line string) (Entry, bool) {
	pairs, ok := splitPairs(line)
	if !ok {
		return Entry{}, false
	}
	var entry Entry
	for _, p := range pairs {
		switch p.Key {
		case "time":
			entry.Time = p.Value
		case "level":
			entry.Level = p.Value
		case "msg":
			entry.Message = p.Value
		default:
			entry.Fields = append(entry.Fields, p)
		}
	}
	return entry, entry.Level != ""
}

// splitPairs tokenizes logfmt-style key=value pairs; values may be Go-quoted.
func splitPairs(line string) ([]Field, bool) {
	var out []Field
	rest := line
	for {
		rest = strings.TrimLeft(rest, " ")
		if rest == "" {
			return out, len(out) > 0
		}
		eq := strings.IndexByte(rest, '=')
		if eq <= 0 || strings.ContainsAny(rest[:eq], " \"") {
			return nil, false
		}
		key := rest[:eq]
		rest = rest[eq+1:]

		var value string
		if strings.HasPrefix(rest, `"`) {
			end := closingQuote(rest)
			if end < 0 {
				return nil, false
			}
			unquoted, err := strconv.Unquote(rest[:end+1])
			if err != nil {
				return nil, false
			}
			value = unquoted
			rest = rest[end+1:]
		} else {
			sp := strings.IndexByte(rest, ' ')
			if sp < 0 {
				sp = len(rest)
			}
			value = rest[:sp]
			rest = rest[sp:]
		}
		out = append(out, Field{Key: key, Value: value})
	}
}

func closingQuote(s string) int {
	for i := 1; i < len(s); i++ {
		switch s[i] {
		case '\\':
			i++
		case '"':
			return i
		}
	}
	return -1
}

func stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return fmt.Sprint(t)
	}
}
