package dto

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidMonthKey(t *testing.T) {
	valid := []string{"2025-01", "2025-12", "1999-09"}
	for _, s := range valid {
		assert.True(t, ValidMonthKey(s), "expected valid: %q", s)
	}

	invalid := []string{"", "2025-13", "2025-00", "2025-1", "25-01", "2025/01", "2025-01-01", " 2025-01"}
	for _, s := range invalid {
		assert.False(t, ValidMonthKey(s), "expected invalid: %q", s)
	}
}

func TestValidFileName(t *testing.T) {
	assert.True(t, ValidFileName("invoice.pdf"))
	assert.True(t, ValidFileName(strings.Repeat("a", 255)))
	assert.False(t, ValidFileName(""))
	assert.False(t, ValidFileName(strings.Repeat("a", 256)))
}

func TestValidStatementFileType(t *testing.T) {
	assert.True(t, ValidStatementFileType("pdf"))
	assert.True(t, ValidStatementFileType("csv"))
	assert.False(t, ValidStatementFileType("PDF"))
	assert.False(t, ValidStatementFileType("xlsx"))
	assert.False(t, ValidStatementFileType(""))
}
