// Package channel owns the outbound messaging conventions for the
// WhatsApp-style delivery channel: the chunked-reply wire format and an
// optional NATS publisher that emits one message per chunk.
package channel

import "strings"

// Delimiter separates reply chunks on the wire. The downstream channel
// splits on the bare token; the spaces keep it from gluing words together.
const Delimiter = " &# "

// delimiterToken is the delimiter without surrounding whitespace, used when
// scrubbing already-formatted text.
const delimiterToken = "&#"

// Split breaks a formatted reply into its chunks, dropping empty segments.
func Split(reply string) []string {
	parts := strings.Split(reply, delimiterToken)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Join assembles chunks into the single-string wire form. Join and Split are
// inverses for chunks that contain no delimiter tokens.
func Join(chunks []string) string {
	return strings.Join(chunks, Delimiter)
}

// Strip removes delimiter tokens from text and collapses the surrounding
// whitespace, yielding plain prose. Applying Strip to unformatted text is a
// no-op.
func Strip(text string) string {
	if !strings.Contains(text, delimiterToken) {
		return text
	}
	return strings.Join(strings.Fields(strings.ReplaceAll(text, delimiterToken, " ")), " ")
}
