package utils

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGenerateLoanIDFormat(t *testing.T) {
	id := GenerateLoanID(time.Now())
	assert.Regexp(t, regexp.MustCompile(`^LN\d{8}$`), id)
}

func TestGenerateLoanIDUsesClock(t *testing.T) {
	ts := time.UnixMilli(1712345678901)
	assert.Equal(t, "LN45678901", GenerateLoanID(ts))

	// Small millisecond values are zero padded to keep the id width fixed.
	assert.Equal(t, "LN00000042", GenerateLoanID(time.UnixMilli(42)))
}
