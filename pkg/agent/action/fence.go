package action

import "strings"

// StripFence removes a markdown code fence the model may wrap its reply in,
// even though the instructions forbid it. Only one leading fence line
// (``` or ```json) and one trailing ``` are removed.
func StripFence(text string) string {
	text = strings.TrimSpace(text)

	if strings.HasPrefix(text, "```") {
		rest := text[3:]
		// Drop an optional language tag up to the end of the fence line
		if nl := strings.IndexByte(rest, '\n'); nl >= 0 {
			tag := strings.TrimSpace(rest[:nl])
			if tag == "" || strings.EqualFold(tag, "json") {
				rest = rest[nl+1:]
			}
		} else if strings.HasPrefix(strings.ToLower(rest), "json") {
			rest = rest[4:]
		}
		text = rest
	}

	text = strings.TrimSpace(text)
	if strings.HasSuffix(text, "```") {
		text = strings.TrimSpace(text[:len(text)-3])
	}
	return text
}
