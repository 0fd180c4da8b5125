package logger

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestKeySuffix(t *testing.T) {
	assert.Equal(t, "wxyz", KeySuffix("AIzaSy-some-key-wxyz"))
	assert.Equal(t, "abc", KeySuffix("abc"))
	assert.Equal(t, "", KeySuffix(""))
}

func TestSanitizeLimit(t *testing.T) {
	assert.Equal(t, "abc", SanitizeLimit("a\x00b\x1bc", 10))
	assert.Equal(t, "ab", SanitizeLimit("abcdef", 2))
	assert.Equal(t, "", SanitizeLimit("abc", 0))
	assert.Equal(t, "tab\there", SanitizeLimit("tab\there", 20))
}

func TestBuildRID(t *testing.T) {
	assert.Equal(t, "10:20:30", BuildRID(10, 20, 30))
}

func TestRoundMS(t *testing.T) {
	assert.Equal(t, time.Duration(0), RoundMS(-time.Second))
	assert.Equal(t, 2*time.Millisecond, RoundMS(1500*time.Microsecond+600*time.Microsecond))
}
