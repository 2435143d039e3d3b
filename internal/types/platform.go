// Package types provides type definitions for the content generation and
// publishing pipeline.
//
//nolint:revive // types is a standard Go package name pattern
package types

// Platform identifies a social network a post can be published to.
type Platform string

// Supported platforms
const (
	PlatformX        Platform = "x"
	PlatformLinkedIn Platform = "linkedin"
)

// Valid reports whether p is a known platform.
func (p Platform) Valid() bool {
	return p == PlatformX || p == PlatformLinkedIn
}

// PostFormat describes the shape of a post's content.
type PostFormat string

// Allowed post formats
const (
	FormatSingle      PostFormat = "single"
	FormatThread      PostFormat = "thread"
	FormatLongForm    PostFormat = "long_form"
	FormatVideoScript PostFormat = "video_script"
)

// Valid reports whether f is a known format.
func (f PostFormat) Valid() bool {
	switch f {
	case FormatSingle, FormatThread, FormatLongForm, FormatVideoScript:
		return true
	}
	return false
}
