package domain

import (
	"fmt"
	"regexp"
	"slices"
	"strings"

	apperrors "resolvemcp/internal/platform/errors"
)

var (
	Pages        = []string{"media", "cut", "edit", "fusion", "color", "fairlight", "deliver"}
	TrackTypes   = []string{"video", "audio", "subtitle"}
	MarkerColors = []string{
		"Blue", "Cyan", "Green", "Yellow", "Red", "Pink", "Purple", "Fuchsia",
		"Rose", "Lavender", "Sky", "Mint", "Lemon", "Sand", "Cocoa", "Cream",
	}
)

var timecodePattern = regexp.MustCompile(`^\d{2}:\d{2}:\d{2}[:;]\d{2}$`)

const DefaultMarkerColor = "Blue"

func ValidatePage(name string) error {
	if !slices.Contains(Pages, name) {
		return fmt.Errorf("%w: page must be one of %s, got %q", apperrors.ErrInvalidInput, strings.Join(Pages, ", "), name)
	}
	return nil
}

// ValidateTrack checks a track selector. Track indices are 1-based.
func ValidateTrack(trackType string, index int) error {
	if !slices.Contains(TrackTypes, trackType) {
		return fmt.Errorf("%w: track_type must be one of %s, got %q", apperrors.ErrInvalidInput, strings.Join(TrackTypes, ", "), trackType)
	}
	if index < 1 {
		return fmt.Errorf("%w: track_index must be >= 1, got %d", apperrors.ErrInvalidInput, index)
	}
	return nil
}

func ValidateMarker(frame int, color string, duration int) error {
	if frame < 0 {
		return fmt.Errorf("%w: frame must be >= 0, got %d", apperrors.ErrInvalidInput, frame)
	}
	if !slices.Contains(MarkerColors, color) {
		return fmt.Errorf("%w: unknown marker color %q", apperrors.ErrInvalidInput, color)
	}
	if duration < 1 {
		return fmt.Errorf("%w: duration must be >= 1, got %d", apperrors.ErrInvalidInput, duration)
	}
	return nil
}

func ValidateTimecode(tc string) error {
	if !timecodePattern.MatchString(tc) {
		return fmt.Errorf("%w: timecode must look like HH:MM:SS:FF, got %q", apperrors.ErrInvalidInput, tc)
	}
	return nil
}

func RequireName(field, value string) (string, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "", fmt.Errorf("%w: %s is required", apperrors.ErrInvalidInput, field)
	}
	return trimmed, nil
}

// Window normalises a requested page window: a zero limit takes the default
// and limits above max are clamped.
func Window(offset, limit, defaultLimit, maxLimit int) (int, int) {
	if limit == 0 {
		limit = defaultLimit
	}
	if maxLimit > 0 && limit > maxLimit {
		limit = maxLimit
	}
	return offset, limit
}

const (
	DefaultTrackType  = "video"
	DefaultTrackIndex = 1
)

// ItemTrack fills in the track a timeline item is looked up on when the caller
// leaves it out, then validates it.
func ItemTrack(trackType string, index int) (string, int, error) {
	if trackType == "" {
		trackType = DefaultTrackType
	}
	if index == 0 {
		index = DefaultTrackIndex
	}
	if err := ValidateTrack(trackType, index); err != nil {
		return "", 0, err
	}
	return trackType, index, nil
}

// ValidateNodeIndex checks a color node selector. Node indices are 1-based.
func ValidateNodeIndex(index int) error {
	if index < 1 {
		return fmt.Errorf("%w: node_index must be >= 1, got %d", apperrors.ErrInvalidInput, index)
	}
	return nil
}

// IdentityCDL neutralises a grade without removing its nodes.
func IdentityCDL() map[string]any {
	return map[string]any{
		"Slope":      []float64{1, 1, 1},
		"Offset":     []float64{0, 0, 0},
		"Power":      []float64{1, 1, 1},
		"Saturation": 1.0,
	}
}
