package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMaskEmail(t *testing.T) {
	tests := map[string]string{
		"john.doe@example.com": "joh***@example.com",
		"ann@x.com":            "ann***@x.com",
		"a@x.com":              "a***@x.com",
		"not-an-email":         "***",
		"":                     "",
	}
	for in, want := range tests {
		assert.Equal(t, want, MaskEmail(in), in)
	}
}

func TestMaskIP(t *testing.T) {
	assert.Equal(t, "192.168.*.*", MaskIP("192.168.1.100"))
	assert.Equal(t, "2001:0db8:85a3:0000:*:*:*:*", MaskIP("2001:0db8:85a3:0000:0000:8a2e:0370:7334"))
	assert.Equal(t, "***", MaskIP("localhost"))
	assert.Equal(t, "", MaskIP(""))
}
