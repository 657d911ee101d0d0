package export

import "strings"

// Filename derives the download name from the person's name: whitespace runs
// become one underscore and "_CV.pdf" is appended. A blank name gives "CV.pdf".
func Filename(personName string) string {
	fields := strings.Fields(personName)
	if len(fields) == 0 {
		return "CV.pdf"
	}
	return strings.Join(fields, "_") + "_CV.pdf"
}
