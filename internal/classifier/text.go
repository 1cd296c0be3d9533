package classifier

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Blob joins subject and body with a single space and lower-cases the result
// using Unicode case mapping
func Blob(subject, body string) string {
	return cases.Lower(language.Und).String(subject + " " + body)
}
