package utils

import "crypto/rand"
import "strings"

func Uid(l int) string {
	return UidAlphabet(l, []rune("abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"))
}

func UidAlphabet(l int, alphabet []rune) string {
	bytes := make([]byte, l)
	_, err := rand.Read(bytes)
	if err != nil {
		panic(err)
	}
	str := make([]rune, len(bytes))
	for i := range bytes {
		str[i] = alphabet[int(bytes[i])%len(alphabet)]
	}
	return string(str)
}

// Joins URL segments with single slashes regardless of leading or trailing
// slashes on the individual segments. The first segment keeps its scheme
// intact; empty segments are skipped.
func URLJoin(parts ...string) string {
	cleaned := make([]string, 0, len(parts))
	for i, part := range parts {
		if i == 0 {
			part = strings.TrimRight(part, "/")
		} else {
			part = strings.Trim(part, "/")
		}
		if part != "" {
			cleaned = append(cleaned, part)
		}
	}
	return strings.Join(cleaned, "/")
}
