// Package workflow reports results through GitHub Actions workflow commands,
// step outputs and the job summary.
package workflow

import (
	"fmt"
	"sort"
	"strings"
)

var (
	dataEscaper     = strings.NewReplacer("%", "%25", "\r", "%0D", "\n", "%0A")
	propertyEscaper = strings.NewReplacer("%", "%25", "\r", "%0D", "\n", "%0A", ":", "%3A", ",", "%2C")
)

// Command renders "::name key=value,...::message" with workflow-command escaping.
// Properties are written in key order so output is deterministic.
func Command(name string, props map[string]string, message string) string {
	var sb strings.Builder
	sb.WriteString("::")
	sb.WriteString(name)

	keys := make([]string, 0, len(props))
	for k, v := range props {
		if v != "" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	for i, k := range keys {
		if i == 0 {
			sb.WriteByte(' ')
		} else {
			sb.WriteByte(',')
		}
		fmt.Fprintf(&sb, "%s=%s", k, propertyEscaper.Replace(props[k]))
	}

	sb.WriteString("::")
	sb.WriteString(dataEscaper.Replace(message))
	return sb.String()
}
