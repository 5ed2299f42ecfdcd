package parser

import "regexp"

var channelTokenRe = regexp.MustCompile(`#([\w-]+)`)

// ParseChannel extracts an explicit #channel marker from the text. Without
// one it returns the fallback channel. The returned name is not validated
// here; an unreachable channel surfaces as a fatal error at dispatch time.
func ParseChannel(text, fallback string) string {
	if m := channelTokenRe.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	return fallback
}
