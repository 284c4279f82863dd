package mqtt

import (
	"fmt"
	"strings"
)

// expected: {prefix}/analysis/{kind}/{requestId}
func ParseRequestID(topic, prefix string) (string, error) {
	parts := strings.Split(topic, "/")
	prefixParts := strings.Split(prefix, "/")
	if len(parts) != len(prefixParts)+3 {
		return "", fmt.Errorf("invalid topic: %s", topic)
	}
	for i, p := range prefixParts {
		if parts[i] != p {
			return "", fmt.Errorf("topic prefix mismatch: %s", topic)
		}
	}
	if parts[len(prefixParts)] != "analysis" {
		return "", fmt.Errorf("invalid topic pattern: %s", topic)
	}
	requestID := parts[len(parts)-1]
	if requestID == "" || requestID == "+" || requestID == "#" {
		return "", fmt.Errorf("invalid request id: %s", topic)
	}
	return requestID, nil
}
