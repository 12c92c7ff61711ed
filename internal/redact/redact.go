// Package redact strips sensitive fragments from strings before they reach
// logs or error responses. The service handles database connection strings
// and an LLM API key in configuration, and raw driver errors can echo either
// one back, so everything logged at the API boundary passes through here.
package redact

import "regexp"

// Placeholders substituted for matched fragments.
const (
	CredentialPlaceholder = "[REDACTED_CREDENTIAL]"
	KeyPlaceholder        = "[REDACTED_KEY]"
	PathPlaceholder       = "[REDACTED_PATH]"
	HostPlaceholder       = "[REDACTED_HOST]"
)

type rule struct {
	pattern     *regexp.Regexp
	placeholder string
}

// Rules apply in order; earlier rules may consume text later ones would
// otherwise match (a connection string is redacted before its host is).
var rules = []rule{
	{regexp.MustCompile(`(?i)postgres(?:ql)?://[^\s@]+@[^\s]+`), CredentialPlaceholder},
	{regexp.MustCompile(`(?i)(password|passwd|pwd)[=:\s]['"]?[^'"&\s]{3,}`), CredentialPlaceholder},
	{regexp.MustCompile(`(?i)(api[_-]?key|token|secret)['"\s:=]+[A-Za-z0-9_\-.~+/]{8,}`), KeyPlaceholder},
	{regexp.MustCompile(`(/[\w.-]+){2,}`), PathPlaceholder},
	{regexp.MustCompile(`\b(?:[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?\.)+[a-zA-Z]{2,}:\d{1,5}\b`), HostPlaceholder},
}

// String redacts sensitive fragments from the input string.
func String(input string) string {
	if input == "" {
		return input
	}
	result := input
	for _, r := range rules {
		result = r.pattern.ReplaceAllString(result, r.placeholder)
	}
	return result
}

// Error redacts the Error() output of err. Returns "" for a nil error.
func Error(err error) string {
	if err == nil {
		return ""
	}
	return String(err.Error())
}
