package extract

import "strings"

// BuildFeedback renders validation failure reasons as corrective
// context for the next model attempt. It is a deterministic function of
// the ordered reasons so retries are reproducible given the same model
// behavior.
func BuildFeedback(reasons []string) string {
	if len(reasons) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("Previous attempt failed because: ")
	b.WriteString(strings.Join(reasons, "; "))
	b.WriteString(". Correct the command and respond again.")
	return b.String()
}
