package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUploadMealPhoto_RejectsMalformedDataURI(t *testing.T) {
	cases := []struct {
		name  string
		input string
	}{
		{"no comma", "data:image/jpeg;base64"},
		{"comma but no data prefix", "xx,yy"},
		{"empty", ""},
		{"bad base64 payload", "data:image/png;base64,%%%not-base64%%%"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			url, err := UploadMealPhoto(tc.input)
			assert.Error(t, err)
			assert.Empty(t, url)
		})
	}
}
