package importer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizePhoneUSFormats(t *testing.T) {
	for _, raw := range []string{
		"(202) 555-0123",
		"202-555-0123",
		"2025550123",
		"+1 202 555 0123",
	} {
		got, err := NormalizePhone(raw, "US")
		require.NoError(t, err, raw)
		assert.Equal(t, "+12025550123", got, raw)
	}
}

func TestNormalizePhoneRegionApplies(t *testing.T) {
	got, err := NormalizePhone("020 7946 0958", "GB")
	require.NoError(t, err)
	assert.Equal(t, "+442079460958", got)
}

func TestNormalizePhoneDefaultsToUS(t *testing.T) {
	got, err := NormalizePhone("2025550123", "")
	require.NoError(t, err)
	assert.Equal(t, "+12025550123", got)
}

func TestNormalizePhoneRejectsGarbage(t *testing.T) {
	for _, raw := range []string{"", "n/a", "123", "555-01"} {
		_, err := NormalizePhone(raw, "US")
		assert.Error(t, err, raw)
	}
}
