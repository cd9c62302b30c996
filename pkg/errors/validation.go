package errors

import (
	"math"
	"net/url"
	"regexp"
)

// maxProjectIDLen bounds ids taken from query strings.
const maxProjectIDLen = 128

// projectIDPattern matches catalog ids and detail file names. It excludes
// separators, dots and control characters, so a valid id never escapes
// the detail directory.
var projectIDPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_-]*$`)

// ValidateProjectID checks an id before it is used to build a file path.
// An empty id is ErrCodeMissingID, anything else invalid is ErrCodeInvalidID.
func ValidateProjectID(id string) error {
	switch {
	case id == "":
		return New(ErrCodeMissingID, "No project ID specified.")
	case len(id) > maxProjectIDLen:
		return New(ErrCodeInvalidID, "project id longer than %d characters", maxProjectIDLen)
	case !projectIDPattern.MatchString(id):
		return New(ErrCodeInvalidID, "invalid project id %q", id)
	}
	return nil
}

// MaxViewportDimension bounds each viewport dimension, in CSS pixels.
const MaxViewportDimension = 10000

// ValidateViewport checks that both dimensions are finite, positive and at
// most MaxViewportDimension.
func ValidateViewport(width, height float64) error {
	for _, d := range [2]float64{width, height} {
		if math.IsNaN(d) || math.IsInf(d, 0) {
			return New(ErrCodeInvalidViewport, "viewport dimensions must be finite")
		}
	}
	if width <= 0 || height <= 0 {
		return New(ErrCodeInvalidViewport, "viewport must be positive, got %gx%g", width, height)
	}
	if width > MaxViewportDimension || height > MaxViewportDimension {
		return New(ErrCodeInvalidViewport, "viewport %gx%g exceeds %dx%d", width, height, MaxViewportDimension, MaxViewportDimension)
	}
	return nil
}

// ValidateURL accepts absolute http and https URLs with a host.
func ValidateURL(raw string) error {
	if raw == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return Wrap(ErrCodeInvalidInput, err, "invalid URL %q", raw)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return New(ErrCodeInvalidInput, "URL must use http or https, got %q", raw)
	}
	if u.Host == "" {
		return New(ErrCodeInvalidInput, "URL %q has no host", raw)
	}
	return nil
}
