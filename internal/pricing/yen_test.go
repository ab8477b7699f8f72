package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatYen(t *testing.T) {
	assert.Equal(t, "0", FormatYen(0))
	assert.Equal(t, "150", FormatYen(150))
	assert.Equal(t, "3,180", FormatYen(3180))
	assert.Equal(t, "12,000", FormatYen(12000))
}

func TestYen(t *testing.T) {
	assert.Equal(t, "¥2,880", Yen(2880))
}
