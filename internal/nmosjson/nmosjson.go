// Package nmosjson manipulates the opaque JSON payload carried by an
// nmos.Resource without unmarshalling it into a Go struct, the same
// path-based get/set style nias3-engine's read model uses over its stored
// documents.
package nmosjson

import (
	"fmt"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// ID extracts the "id" field from a resource's JSON payload.
func ID(data []byte) (string, error) {
	res := gjson.GetBytes(data, "id")
	if !res.Exists() {
		return "", fmt.Errorf("nmosjson: payload has no id field")
	}
	return res.String(), nil
}

// Version extracts the "version" field (an NMOS timestamp string of the
// form "seconds:nanoseconds") from a resource's JSON payload, if present.
func Version(data []byte) string {
	return gjson.GetBytes(data, "version").String()
}

// SetVersion returns a copy of data with its "version" field set. The
// engine itself does not call it.
func SetVersion(data []byte, version string) ([]byte, error) {
	return sjson.SetBytes(data, "version", version)
}

// RegistrationBody builds the request body the Registration API expects for
// a POST to /resource: {"type": "<type>", "data": <downgraded payload>}.
func RegistrationBody(resourceType string, data []byte) ([]byte, error) {
	body, err := sjson.SetBytes([]byte(`{}`), "type", resourceType)
	if err != nil {
		return nil, err
	}
	return sjson.SetRawBytes(body, "data", data)
}

// Get extracts an arbitrary path from a resource's JSON payload, used by
// callers that need a single field without unmarshalling the whole
// document (e.g. reading a device's "type" for logging).
func Get(data []byte, path string) gjson.Result {
	return gjson.GetBytes(data, path)
}

// Set returns a copy of data with the value at path replaced.
func Set(data []byte, path string, value interface{}) ([]byte, error) {
	return sjson.SetBytes(data, path, value)
}
