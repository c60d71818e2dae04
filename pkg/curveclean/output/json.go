// Package output provides JSON serialization of chart objects.
package output

import (
	"encoding/json"
)

// ToJSON serializes a value to JSON, indented by two spaces when pretty is set.
func ToJSON(v any, pretty bool) ([]byte, error) {
	if pretty {
		return json.MarshalIndent(v, "", "  ")
	}
	return json.Marshal(v)
}

// Dump returns the pretty-printed JSON of a value as a string.
func Dump(v any) (string, error) {
	data, err := ToJSON(v, true)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
