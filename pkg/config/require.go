package config

import (
	"log"
	"sort"
	"strings"
)

// Missing returns the names of required settings whose value is empty,
// sorted so that the fatal message is stable.
func Missing(required map[string]string) []string {
	var missing []string
	for name, v := range required {
		if strings.TrimSpace(v) == "" {
			missing = append(missing, name)
		}
	}
	sort.Strings(missing)
	return missing
}

func MustNonEmpty(required map[string]string) {
	if missing := Missing(required); len(missing) > 0 {
		log.Fatalf("missing required env %s", strings.Join(missing, ", "))
	}
}
