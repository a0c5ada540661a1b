package wire

import (
	"fmt"
	"strconv"
	"strings"
)

// Version is a semantic-version triple of unsigned bytes, ordered
// lexicographically major → minor → patch.
type Version struct {
	Major byte
	Minor byte
	Patch byte
}

// ParseVersion parses a "major.minor.patch" string. Missing trailing
// components default to 0 (so "1" parses as 1.0.0 and "1.2" as 1.2.0).
func ParseVersion(s string) (Version, error) {
	parts := strings.SplitN(s, ".", 3)

	var v Version
	fields := []*byte{&v.Major, &v.Minor, &v.Patch}

	for i, part := range parts {
		n, err := strconv.ParseUint(part, 10, 8)
		if err != nil {
			return Version{}, fmt.Errorf("parse version component %q: %w", part, err)
		}
		*fields[i] = byte(n)
	}

	return v, nil
}

// VersionFromBytes decodes a 3-byte major/minor/patch triple as read off
// the wire (HELLO or READY frames).
func VersionFromBytes(b []byte) (Version, error) {
	if len(b) != 3 {
		return Version{}, fmt.Errorf("version must be 3 bytes, got %d", len(b))
	}
	return Version{Major: b[0], Minor: b[1], Patch: b[2]}, nil
}

// Bytes returns the 3-byte major/minor/patch wire representation.
func (v Version) Bytes() [3]byte {
	return [3]byte{v.Major, v.Minor, v.Patch}
}

func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// Compare returns -1, 0, or 1 as v is less than, equal to, or greater than
// other, comparing major, then minor, then patch.
func (v Version) Compare(other Version) int {
	if v.Major != other.Major {
		return compareByte(v.Major, other.Major)
	}
	if v.Minor != other.Minor {
		return compareByte(v.Minor, other.Minor)
	}
	return compareByte(v.Patch, other.Patch)
}

// GreaterThan reports whether v is strictly newer than other.
func (v Version) GreaterThan(other Version) bool {
	return v.Compare(other) > 0
}

func compareByte(a, b byte) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
