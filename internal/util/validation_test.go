package util

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidMediaFile(t *testing.T) {
	tests := []struct {
		filename string
		expected bool
	}{
		{"cake.jpg", true},
		{"CAKE.JPG", true},
		{"toast.heic", true},
		{"first-dance.mov", true},
		{"speech.webm", true},
		{"notes.txt", false},
		{"malware.exe", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsValidMediaFile(tt.filename))
		})
	}
}

func TestValidateFilename(t *testing.T) {
	assert.NoError(t, ValidateFilename("cake.jpg"))
	assert.Error(t, ValidateFilename(""))
	assert.Error(t, ValidateFilename("../../etc/passwd"))
	assert.Error(t, ValidateFilename("c:\\photos\\cake.jpg"))
	assert.Error(t, ValidateFilename(strings.Repeat("a", 256)))
}

func TestValidateEmail(t *testing.T) {
	assert.NoError(t, ValidateEmail("rose@example.com"))
	assert.Error(t, ValidateEmail(""))
	assert.Error(t, ValidateEmail("not-an-email"))
	assert.Error(t, ValidateEmail("Rose <rose@example.com>"))
}
