package cache

import (
	"fmt"
	"strings"
)

// keySeparator joins the namespace, operation name, and parameters.
const keySeparator = ":"

// GenerateKey builds a deterministic cache key from an operation name and
// an ordered parameter list: namespace, operation, and each parameter's
// textual form joined by ":". Nil parameters render as "null".
//
//	c.GenerateKey("GetTeams")            // "ESPN:GetTeams"
//	c.GenerateKey("GetBoxScore", 401547) // "ESPN:GetBoxScore:401547"
func (c *Cache) GenerateKey(operation string, params ...any) string {
	parts := make([]string, 0, len(params)+2)
	parts = append(parts, c.config.Namespace, operation)
	for _, p := range params {
		if p == nil {
			parts = append(parts, "null")
			continue
		}
		parts = append(parts, fmt.Sprintf("%v", p))
	}
	return strings.Join(parts, keySeparator)
}

// operationFromKey extracts the operation segment of a generated key.
// Keys without a namespace prefix are treated as bare operation names.
func (c *Cache) operationFromKey(key string) string {
	parts := strings.Split(key, keySeparator)
	if len(parts) >= 2 && parts[0] == c.config.Namespace {
		return parts[1]
	}
	return parts[0]
}
