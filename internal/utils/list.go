package utils

import "strings"

func SliceToString(slice []string) string {
	return strings.Join(slice, ",")
}

// StringToSlice splits a comma separated list, trimming entries and
// skipping empty ones.
func StringToSlice(str string) []string {
	if str == "" {
		return []string{}
	}
	parts := strings.Split(str, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func FirstOrEmpty(slice []string) string {
	if len(slice) == 0 {
		return ""
	}
	return slice[0]
}
