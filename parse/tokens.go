package parse

import "strings"

// Tokenize splits input on whitespace.
func Tokenize(input string) []string {
	return strings.Fields(input)
}
