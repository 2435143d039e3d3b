package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPlatform_Valid(t *testing.T) {
	assert.True(t, PlatformX.Valid())
	assert.True(t, PlatformLinkedIn.Valid())
	assert.False(t, Platform("instagram").Valid())
	assert.False(t, Platform("").Valid())
}

func TestPostFormat_Valid(t *testing.T) {
	for _, f := range []PostFormat{FormatSingle, FormatThread, FormatLongForm, FormatVideoScript} {
		assert.True(t, f.Valid(), string(f))
	}
	assert.False(t, PostFormat("carousel").Valid())
}

func TestPlatforms_Enabled(t *testing.T) {
	tests := []struct {
		name      string
		platforms Platforms
		want      []Platform
	}{
		{"both", Platforms{X: true, LinkedIn: true}, []Platform{PlatformX, PlatformLinkedIn}},
		{"x only", Platforms{X: true}, []Platform{PlatformX}},
		{"linkedin only", Platforms{LinkedIn: true}, []Platform{PlatformLinkedIn}},
		{"none", Platforms{}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.platforms.Enabled())
		})
	}
}

func TestGenerationRun_Stale(t *testing.T) {
	now := time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)

	fresh := &GenerationRun{Status: GenerationStatusGenerating, CreatedAt: now.Add(-5 * time.Minute)}
	assert.False(t, fresh.Stale(now))

	stuck := &GenerationRun{Status: GenerationStatusGenerating, CreatedAt: now.Add(-11 * time.Minute)}
	assert.True(t, stuck.Stale(now))

	// Completed runs are never stale, no matter how old.
	done := &GenerationRun{Status: GenerationStatusCompleted, CreatedAt: now.Add(-24 * time.Hour)}
	assert.False(t, done.Stale(now))
}

func TestSubscription_Active(t *testing.T) {
	assert.True(t, (&Subscription{Status: "active"}).Active())
	assert.True(t, (&Subscription{Status: "trialing"}).Active())
	assert.False(t, (&Subscription{Status: "canceled"}).Active())
	assert.False(t, (&Subscription{Status: "past_due"}).Active())

	var missing *Subscription
	assert.False(t, missing.Active())
}
