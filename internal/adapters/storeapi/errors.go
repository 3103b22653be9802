package storeapi

import (
	"encoding/json"
	"fmt"
	"strings"

	jmespath "github.com/jmespath-community/go-jmespath"
)

const defaultMessagePath = "message"

// messageExtractor pulls a human-readable message out of an error body. The
// auth service answers either {"message": "Unauthorized"} or, for validation
// failures, {"message": ["email must be an email", ...]}.
type messageExtractor struct {
	expr string
}

func newMessageExtractor(expr string) (*messageExtractor, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		expr = defaultMessagePath
	}
	if _, err := jmespath.Compile(expr); err != nil {
		return nil, fmt.Errorf("compile error message path %q: %w", expr, err)
	}
	return &messageExtractor{expr: expr}, nil
}

// extract returns "" when the body is not JSON or holds no usable message.
func (m *messageExtractor) extract(raw []byte) string {
	if len(raw) == 0 {
		return ""
	}
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return ""
	}
	found, err := jmespath.Search(m.expr, doc)
	if err != nil {
		return ""
	}
	return messageText(found)
}

func messageText(v any) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case []any:
		parts := make([]string, 0, len(t))
		for _, item := range t {
			if s := messageText(item); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, "; ")
	default:
		return ""
	}
}
