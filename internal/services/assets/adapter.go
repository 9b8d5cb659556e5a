package assets

import (
	"encoding/json"
	"fmt"
)

// decodeList unwraps a listing response that arrives either as a bare JSON
// array or wrapped in a data field
func decodeList(body []byte) ([]map[string]interface{}, error) {
	var bare []map[string]interface{}
	if err := json.Unmarshal(body, &bare); err == nil {
		return bare, nil
	}

	var wrapped struct {
		Data []map[string]interface{} `json:"data"`
	}
	if err := json.Unmarshal(body, &wrapped); err != nil {
		return nil, fmt.Errorf("failed to parse listing response: %w", err)
	}
	return wrapped.Data, nil
}

// firstString probes the given keys in order and returns the first non-empty
// string value
func firstString(item map[string]interface{}, keys ...string) string {
	for _, key := range keys {
		if value, ok := item[key].(string); ok && value != "" {
			return value
		}
	}
	return ""
}

// normalizeAccessPoint collapses the upstream field-name variants of one AP
// entry into the internal shape
func normalizeAccessPoint(item map[string]interface{}) AccessPoint {
	status := firstString(item, "status", "state")
	if status == "" {
		status = "unknown"
	}
	return AccessPoint{
		SerialNumber: firstString(item, "serialNumber", "serial", "serial_no", "mac", "macAddress"),
		Name:         firstString(item, "name", "hostname", "id"),
		Model:        firstString(item, "model", "deviceModel", "type"),
		IPAddress:    firstString(item, "ipAddress", "ip"),
		Status:       status,
	}
}
