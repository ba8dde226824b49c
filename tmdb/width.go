package tmdb

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// Width selects the rendition of a poster. The zero value is Original.
type Width int

// Original requests the image as uploaded
const Original Width = 0

// SupportedWidths lists the poster sizes served by image.tmdb.org
// (see /configuration, images.poster_sizes).
var SupportedWidths = []Width{92, 154, 185, 342, 500, 780}

// ParseWidth accepts "original" or one of SupportedWidths
func ParseWidth(s string) (Width, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "original" {
		return Original, nil
	}

	n, err := strconv.Atoi(s)
	if err != nil || !slices.Contains(SupportedWidths, Width(n)) {
		return 0, fmt.Errorf("%w: %q (must be one of %s)", ErrInvalidWidth, s, supportedWidthList())
	}
	return Width(n), nil
}

// Segment returns the URL path component for this width: "w500" or "original"
func (w Width) Segment() string {
	if w == Original {
		return "original"
	}
	return "w" + strconv.Itoa(int(w))
}

// String returns the value accepted by ParseWidth
func (w Width) String() string {
	if w == Original {
		return "original"
	}
	return strconv.Itoa(int(w))
}

func supportedWidthList() string {
	parts := make([]string, 0, len(SupportedWidths)+1)
	for _, w := range SupportedWidths {
		parts = append(parts, w.String())
	}
	parts = append(parts, Original.String())
	return strings.Join(parts, ", ")
}
