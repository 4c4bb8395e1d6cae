// Package paginate windows normalized content so callers with a bounded
// response budget can read a large document across several calls.
package paginate

import "unicode/utf8"

// Window returns at most maxLength characters of content starting at the
// character offset start. Offsets count runes, not bytes. A start at or past
// the end yields "", and a window running past the end is truncated; neither
// is an error.
func Window(content string, start, maxLength int) string {
	if start < 0 {
		start = 0
	}
	if maxLength <= 0 || content == "" {
		return ""
	}

	// ASCII fast path: byte offsets are character offsets.
	if isASCII(content) {
		if start >= len(content) {
			return ""
		}
		end := len(content)
		if maxLength < end-start {
			end = start + maxLength
		}
		return content[start:end]
	}

	begin := -1
	n := 0
	for i := range content {
		if n == start {
			begin = i
		}
		if begin >= 0 && n == start+maxLength {
			return content[begin:i]
		}
		n++
	}
	if begin < 0 {
		return ""
	}
	return content[begin:]
}

// Len is the length of content in the units Window counts.
func Len(content string) int {
	return utf8.RuneCountInString(content)
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}
