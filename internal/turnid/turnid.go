// Package turnid canonicalizes turn identifiers across schema versions.
//
// User turns are addressed by ordinal position among user messages:
// "u-0", "u-1", and so on. Earlier schema versions appended a content
// hash ("u-3-9f2ac1") which broke identity when a message was edited;
// Normalize strips that suffix so turn identity is keyed only on
// position.
package turnid

import (
	"regexp"
	"strconv"
)

var stablePrefix = regexp.MustCompile(`^(u-\d+)(?:-.*)?$`)

// Stable returns the canonical id for the user turn at the given
// zero-based position.
func Stable(index int) string {
	if index < 0 {
		index = 0
	}
	return "u-" + strconv.Itoa(index)
}

// Normalize reduces a legacy "u-<digits>-<anything>" id to "u-<digits>".
// Ids that do not start with a "u-<digits>" prefix are opaque to this
// system (assistant turns, foreign schemes) and are returned unchanged.
func Normalize(raw string) string {
	m := stablePrefix.FindStringSubmatch(raw)
	if m == nil {
		return raw
	}
	return m[1]
}

// Index extracts the zero-based turn position from a stable or legacy
// id. Opaque ids carry no position and report false.
func Index(id string) (int, bool) {
	m := stablePrefix.FindStringSubmatch(id)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1][len("u-"):])
	if err != nil {
		return 0, false
	}
	return n, true
}
