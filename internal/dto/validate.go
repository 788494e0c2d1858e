package dto

import "regexp"

var monthKeyRe = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])$`)

const maxFileNameLength = 255

// ValidMonthKey reports whether s is a well-formed YYYY-MM month key.
func ValidMonthKey(s string) bool {
	return monthKeyRe.MatchString(s)
}

// ValidFileName rejects empty and overlong file names.
func ValidFileName(s string) bool {
	return s != "" && len(s) <= maxFileNameLength
}

// ValidStatementFileType accepts the supported statement formats.
func ValidStatementFileType(s string) bool {
	return s == "pdf" || s == "csv"
}
