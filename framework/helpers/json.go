package helpers

import (
	"encoding/json"

	"github.com/launchdarkly/go-sdk-common/v3/ldvalue"
)

// AsJSON is a shortcut for calling json.Marshal and taking only the first result.
func AsJSON(value interface{}) []byte {
	ret, _ := json.Marshal(value)
	return ret
}

// AsJSONString calls json.Marshal and returns the result as a string.
func AsJSONString(value interface{}) string { return string(AsJSON(value)) }

// CanonicalizedJSONString reformats a JSON value so that object properties are alphabetized,
// making it easier for a human reader to compare two payloads.
func CanonicalizedJSONString(value ldvalue.Value) string {
	var decoded interface{}
	if err := json.Unmarshal([]byte(value.JSONString()), &decoded); err != nil {
		return value.JSONString()
	}
	return AsJSONString(decoded) // encoding/json sorts map keys
}
