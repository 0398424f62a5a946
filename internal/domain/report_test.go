package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestElapsedHours_Floor(t *testing.T) {
	// 36 seconds rounds to 0.01 exactly, not down to zero.
	assert.Equal(t, 0.01, ElapsedHours(36))

	// Anything below the floor still reports 0.01.
	assert.Equal(t, 0.01, ElapsedHours(0))
	assert.Equal(t, 0.01, ElapsedHours(1))
}

func TestElapsedHours_Rounding(t *testing.T) {
	assert.Equal(t, 1.0, ElapsedHours(3600))
	assert.Equal(t, 0.5, ElapsedHours(1800))
	// 5430s = 1.5083... -> 1.51
	assert.Equal(t, 1.51, ElapsedHours(5430))
}

func TestUsageFee(t *testing.T) {
	// 1 hour at nominal value 10 with a 3% rate.
	assert.Equal(t, 0.30, UsageFee(ElapsedHours(3600)))
	assert.Equal(t, 0.60, UsageFee(2.0))
	// Floor-value report still produces a non-zero fee after rounding? 0.01*10*0.03 = 0.003 -> 0.00
	assert.Equal(t, 0.0, UsageFee(0.01))
}

func TestNonceToken(t *testing.T) {
	a := NonceToken()
	b := NonceToken()

	assert.Len(t, a, 16)
	assert.NotEqual(t, a, b)
	for _, r := range a {
		assert.Contains(t, nonceChars, string(r))
	}
}

func TestReportDescription(t *testing.T) {
	desc := ReportDescription("abc123", "https://github.com/org/repo/commit/abc123")
	assert.True(t, strings.Contains(desc, "abc123"))
	assert.True(t, strings.Contains(desc, "https://github.com/org/repo/commit/abc123"))
}

func TestClampSeconds(t *testing.T) {
	assert.Equal(t, 0, ClampSeconds(-5))
	assert.Equal(t, 0, ClampSeconds(0))
	assert.Equal(t, 42, ClampSeconds(42))
}

func TestFormatSeconds(t *testing.T) {
	assert.Equal(t, "0m 0s", FormatSeconds(0))
	assert.Equal(t, "2m 5s", FormatSeconds(125))
	assert.Equal(t, "1h 0m 1s", FormatSeconds(3601))
	assert.Equal(t, "0m 0s", FormatSeconds(-10))
}
