package pipeline

import "regexp"

// yamlHeaderPattern matches the front matter block emitted by the server.
var yamlHeaderPattern = regexp.MustCompile(`(?is)<yamlheader\b[^>]*>.*?</yamlheader>`)

// StripYAMLHeader removes every <yamlheader> element, case-insensitively and
// across newlines.
func StripYAMLHeader(body string) string {
	return yamlHeaderPattern.ReplaceAllString(body, "")
}
