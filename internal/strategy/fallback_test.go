package strategy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/content-pilot/internal/types"
)

func TestFallback_CountInvariants(t *testing.T) {
	tests := []struct {
		name      string
		platforms []types.Platform
		total     int
	}{
		{"x only", []types.Platform{types.PlatformX}, 7},
		{"linkedin only", []types.Platform{types.PlatformLinkedIn}, 5},
		{"both", []types.Platform{types.PlatformX, types.PlatformLinkedIn}, 12},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			slots := Fallback(tt.platforms, testProfile())
			assert.Len(t, slots, tt.total)
			assert.NoError(t, VerifyCounts(slots, tt.platforms))
		})
	}
}

func TestFallback_FormatMix(t *testing.T) {
	slots := Fallback([]types.Platform{types.PlatformX, types.PlatformLinkedIn}, testProfile())

	longForm := map[types.Platform]int{}
	for _, s := range slots {
		require.True(t, s.Format.Valid())
		require.NotEqual(t, types.FormatThread, s.Format)
		if s.Format == types.FormatLongForm {
			longForm[s.Platform]++
		}
	}

	assert.Equal(t, 3, longForm[types.PlatformX])
	assert.Equal(t, 3, longForm[types.PlatformLinkedIn])
}

func TestFallback_CyclesProfileTopics(t *testing.T) {
	profile := testProfile() // three topics
	slots := Fallback([]types.Platform{types.PlatformX}, profile)

	assert.Equal(t, "api design", slots[0].Topic)
	assert.Equal(t, "pricing", slots[1].Topic)
	assert.Equal(t, "hiring", slots[2].Topic)
	assert.Equal(t, "api design", slots[3].Topic, "topics wrap around")
}

func TestFallback_DefaultTopicsWhenProfileHasNone(t *testing.T) {
	profile := testProfile()
	profile.Topics = nil

	slots := Fallback([]types.Platform{types.PlatformLinkedIn}, profile)
	for _, s := range slots {
		assert.NotEmpty(t, s.Topic)
	}
}

func TestFallback_Deterministic(t *testing.T) {
	a := Fallback([]types.Platform{types.PlatformX, types.PlatformLinkedIn}, testProfile())
	b := Fallback([]types.Platform{types.PlatformX, types.PlatformLinkedIn}, testProfile())
	assert.Equal(t, a, b)
}

func TestVerifyCounts_Failure(t *testing.T) {
	slots := Fallback([]types.Platform{types.PlatformX}, testProfile())
	err := VerifyCounts(slots[:6], []types.Platform{types.PlatformX})
	assert.Error(t, err)
}
