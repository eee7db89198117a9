package utils_test

import (
	"testing"
	"time"

	"api/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	parsed, err := utils.ParseDate("2025-03-01")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC), parsed)

	for _, value := range []string{"", "2025-3-1", "01-03-2025", "2025/03/01", "2025-13-01", "2025-02-30", "yesterday"} {
		_, err := utils.ParseDate(value)
		assert.Error(t, err, "value %q must be rejected", value)
	}
}

func TestValidateDateRange(t *testing.T) {
	start := time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)

	assert.NoError(t, utils.ValidateDateRange(start, start.AddDate(0, 0, 1)))
	assert.Error(t, utils.ValidateDateRange(start, start), "equal bounds are rejected")
	assert.Error(t, utils.ValidateDateRange(start, start.AddDate(0, 0, -1)))
}
