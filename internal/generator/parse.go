package generator

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"farmvibe/internal/classifier"
)

var replyJSONFencePattern = regexp.MustCompile("(?s)^```(?:json)?\\s*\\n?(.*?)\\s*```$")

// ParseDescriptor decodes a model reply into a descriptor. The reply must
// be a JSON object, optionally wrapped in a markdown code fence.
func ParseDescriptor(reply string) (classifier.Descriptor, error) {
	raw := strings.TrimSpace(reply)
	if match := replyJSONFencePattern.FindStringSubmatch(raw); len(match) == 2 {
		raw = strings.TrimSpace(match[1])
	}
	if raw == "" {
		return classifier.Descriptor{}, fmt.Errorf("%w: empty reply", ErrMalformedReply)
	}

	var descriptor classifier.Descriptor
	if err := json.Unmarshal([]byte(raw), &descriptor); err != nil {
		return classifier.Descriptor{}, fmt.Errorf("%w: %v", ErrMalformedReply, err)
	}
	if descriptor.IsZero() {
		return classifier.Descriptor{}, fmt.Errorf("%w: no descriptor fields", ErrMalformedReply)
	}

	return descriptor, nil
}
