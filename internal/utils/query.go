package utils

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseQueryList handles both repeated and comma-separated query params.
// Example:
//
//	?admin_id=1,2   → ["1","2"]
//	?admin_id=1&admin_id=2  → ["1","2"]
func ParseQueryList(q map[string][]string, key string) []string {
	values := q[key]

	if len(values) == 0 {
		return nil
	}

	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			part = strings.TrimSpace(part)
			if part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// ParseQueryIDs parses a ParseQueryList result as positive int64 ids.
func ParseQueryIDs(q map[string][]string, key string) ([]int64, error) {
	raw := ParseQueryList(q, key)
	if len(raw) == 0 {
		return nil, nil
	}

	ids := make([]int64, 0, len(raw))
	for _, s := range raw {
		id, err := strconv.ParseInt(s, 10, 64)
		if err != nil || id <= 0 {
			return nil, fmt.Errorf("invalid %s: %q", key, s)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
