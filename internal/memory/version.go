package memory

import (
	"fmt"
	"strconv"
	"strings"
)

// version is the (major, minor) decomposition of a semantic "M.m" version
// string (spec.md §9 "Versioning").
type version struct {
	major int
	minor int
}

func (v version) String() string { return fmt.Sprintf("%d.%d", v.major, v.minor) }

// less reports whether v sorts strictly before other.
func (v version) less(other version) bool {
	if v.major != other.major {
		return v.major < other.major
	}
	return v.minor < other.minor
}

// parseVersion parses an "M.m" string. Malformed input parses as the zero
// version rather than erroring — callers only ever parse values this package
// itself produced.
func parseVersion(s string) version {
	major, minor := 0, 0
	parts := strings.SplitN(s, ".", 2)
	if len(parts) > 0 {
		major, _ = strconv.Atoi(parts[0])
	}
	if len(parts) > 1 {
		minor, _ = strconv.Atoi(parts[1])
	}
	return version{major: major, minor: minor}
}

// nextMinor returns the next version after the highest of existing,
// implementing spec.md §4.4 step 5: a fresh label starts at 1.0; otherwise
// the minor component of the latest existing version is incremented.
//
// versionBase, if non-empty, branches off that version instead of the
// overall latest: the new version increments the minor of the highest
// existing version sharing versionBase's major, per the end-to-end scenario
// in spec.md §8 #2 ("continuing to increment under the highest branch
// minor"). branched reports whether this was a branch off an
// older-than-latest version.
func nextMinor(existing []string, versionBase string) (next version, branched bool, branchedFrom string) {
	if len(existing) == 0 {
		return version{major: 1, minor: 0}, false, ""
	}

	parsed := make([]version, len(existing))
	for i, e := range existing {
		parsed[i] = parseVersion(e)
	}

	latest := parsed[0]
	for _, v := range parsed[1:] {
		if latest.less(v) {
			latest = v
		}
	}

	if versionBase == "" {
		return version{major: latest.major, minor: latest.minor + 1}, false, ""
	}

	base := parseVersion(versionBase)
	highestInBranch := base
	for _, v := range parsed {
		if v.major == base.major && highestInBranch.less(v) {
			highestInBranch = v
		}
	}

	next = version{major: highestInBranch.major, minor: highestInBranch.minor + 1}
	isOlderThanLatest := base.less(latest)
	if isOlderThanLatest {
		return next, true, base.String()
	}
	return next, false, ""
}
