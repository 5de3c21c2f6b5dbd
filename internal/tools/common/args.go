package common

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// StringArg returns a trimmed string argument, or def when it is absent or
// empty.
func StringArg(args map[string]interface{}, name, def string) string {
	v, ok := args[name].(string)
	if !ok {
		return def
	}
	v = strings.TrimSpace(v)
	if v == "" {
		return def
	}
	return v
}

// RequiredString returns a non-empty string argument.
func RequiredString(args map[string]interface{}, name string) (string, error) {
	v := StringArg(args, name, "")
	if v == "" {
		return "", fmt.Errorf("%s is required", name)
	}
	return v, nil
}

// OptionalString returns a pointer to a string argument when the caller
// passed one, even an empty one, so that updates can clear a field.
func OptionalString(args map[string]interface{}, name string) *string {
	v, ok := args[name].(string)
	if !ok {
		return nil
	}
	return &v
}

// IntArg returns an integer argument. JSON numbers arrive as float64;
// numeric strings are accepted as well.
func IntArg(args map[string]interface{}, name string, def int) int {
	switch v := args[name].(type) {
	case float64:
		return int(math.Round(v))
	case int:
		return v
	case int64:
		return int(v)
	case string:
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return n
		}
	}
	return def
}

// OptionalInt64 returns an integer argument, or nil when it is absent. Zero
// is a valid value.
func OptionalInt64(args map[string]interface{}, name string) *int64 {
	if _, ok := args[name]; !ok {
		return nil
	}
	const missing = math.MinInt
	n := IntArg(args, name, missing)
	if n == missing {
		return nil
	}
	v := int64(n)
	return &v
}

// BoolArg returns a boolean argument. The strings "true" and "false" are
// accepted since some hosts send every value as text.
func BoolArg(args map[string]interface{}, name string, def bool) bool {
	switch v := args[name].(type) {
	case bool:
		return v
	case string:
		if b, err := strconv.ParseBool(strings.TrimSpace(v)); err == nil {
			return b
		}
	}
	return def
}

// StringSliceArg returns a list argument given either as an array or as a
// comma-separated string. Empty entries are dropped.
func StringSliceArg(args map[string]interface{}, name string) []string {
	var raw []string
	switch v := args[name].(type) {
	case []interface{}:
		for _, item := range v {
			if s, ok := item.(string); ok {
				raw = append(raw, s)
			}
		}
	case []string:
		raw = v
	case string:
		raw = strings.Split(v, ",")
	default:
		return nil
	}

	out := make([]string, 0, len(raw))
	for _, s := range raw {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
