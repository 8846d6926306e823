package util

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseMemory converts a human-readable memory string to bytes.
// Supported suffixes: k/ki (KiB), m/mi (MiB), g/gi (GiB), t/ti (TiB).
// Without a suffix, the value is treated as bytes.
func ParseMemory(s string) (int64, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" {
		return 0, fmt.Errorf("util: empty memory string")
	}

	multiplier := int64(1)
	switch {
	case strings.HasSuffix(s, "ti"):
		multiplier = 1 << 40
		s = strings.TrimSuffix(s, "ti")
	case strings.HasSuffix(s, "gi"):
		multiplier = 1 << 30
		s = strings.TrimSuffix(s, "gi")
	case strings.HasSuffix(s, "mi"):
		multiplier = 1 << 20
		s = strings.TrimSuffix(s, "mi")
	case strings.HasSuffix(s, "ki"):
		multiplier = 1 << 10
		s = strings.TrimSuffix(s, "ki")
	case strings.HasSuffix(s, "t"):
		multiplier = 1 << 40
		s = strings.TrimSuffix(s, "t")
	case strings.HasSuffix(s, "g"):
		multiplier = 1 << 30
		s = strings.TrimSuffix(s, "g")
	case strings.HasSuffix(s, "m"):
		multiplier = 1 << 20
		s = strings.TrimSuffix(s, "m")
	case strings.HasSuffix(s, "k"):
		multiplier = 1 << 10
		s = strings.TrimSuffix(s, "k")
	}

	val, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("util: parse memory %q: %w", s, err)
	}
	if val < 0 {
		return 0, fmt.Errorf("util: memory must be non-negative: %d", val)
	}
	return val * multiplier, nil
}

// FormatMemory converts bytes to a human-readable string.
func FormatMemory(bytes int64) string {
	switch {
	case bytes >= 1<<30:
		return fmt.Sprintf("%dg", bytes/(1<<30))
	case bytes >= 1<<20:
		return fmt.Sprintf("%dm", bytes/(1<<20))
	case bytes >= 1<<10:
		return fmt.Sprintf("%dk", bytes/(1<<10))
	default:
		return fmt.Sprintf("%d", bytes)
	}
}
