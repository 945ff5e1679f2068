// Package clicksource encodes and decodes the attribution strings stored on
// leads. Three historical encodings coexist in stored data (prefixed,
// bare major_minor, and whole-string legacy values), so decoding must accept
// every stored value without failing.
package clicksource

import "strings"

const (
	// prefix is prepended to every attribution string written by the funnel.
	prefix = "바로폼_"
	// materialMarker separates the creative id inside the minor segment.
	materialMarker = "소재_"
	// NoSource is the display sentinel for leads without attribution.
	NoSource = "-"
)

// channelLabels maps inbound tracking channel codes to short localized labels.
var channelLabels = map[string]string{
	"daangn":   "당근",
	"insta":    "인스타",
	"facebook": "페이스북",
	"google":   "구글",
	"youtube":  "유튜브",
	"kakao":    "카카오",
	"naver":    "네이버",
}

// legacySources maps whole strings that were historically stored without the
// major/minor underscore separator onto their category split.
var legacySources = map[string]Source{
	"당근채팅":     {Major: "당근", Minor: "당근채팅"},
	"대표전화(당근)": {Major: "당근", Minor: "대표전화(당근)"},
}

// knownMinors lists predefined minor categories per major so that filter
// menus keep offering categories with zero current leads.
var knownMinors = map[string][]string{
	"당근": {"당근채팅", "대표전화(당근)"},
}

// Source is the decoded view of an attribution string.
type Source struct {
	Major   string
	Minor   string
	Display string
}

// Encode builds the canonical attribution string for a channel code and an
// optional creative id. Unknown channel codes pass through unchanged, so the
// result is always deterministic.
func Encode(channelCode, materialID string) string {
	label, ok := channelLabels[channelCode]
	if !ok {
		label = channelCode
	}
	if materialID != "" {
		return prefix + label + "_" + materialMarker + materialID
	}
	return prefix + label
}

// Decode parses any stored attribution string, however old. nil and empty
// inputs yield the no-attribution sentinel; malformed values degrade to
// major = whole string, minor = "".
func Decode(source *string) Source {
	if source == nil || *source == "" {
		return Source{Display: NoSource}
	}

	stripped := strings.TrimPrefix(*source, prefix)
	if legacy, ok := legacySources[stripped]; ok {
		return Source{Major: legacy.Major, Minor: legacy.Minor, Display: stripped}
	}

	major, minor, found := strings.Cut(stripped, "_")
	if !found {
		return Source{Major: stripped, Display: stripped}
	}
	return Source{Major: major, Minor: minor, Display: stripped}
}

// KnownMinors returns the predefined minor categories for a major category,
// or nil when none are registered.
func KnownMinors(major string) []string {
	minors := knownMinors[major]
	if len(minors) == 0 {
		return nil
	}
	out := make([]string, len(minors))
	copy(out, minors)
	return out
}
