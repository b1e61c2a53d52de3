package title

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

var (
	// providerPrefixRegex matches a leading country/provider tag such as
	// "UK | " or "DE: ". Applied repeatedly for stacked prefixes.
	providerPrefixRegex = regexp.MustCompile(`^[A-Z0-9]{2,4}\s*[|:\-]\s*`)

	// Series anchors. Separators are normalized to spaces before these run.
	seAnchorRegex   = regexp.MustCompile(`(?i)\bS(\d{1,2})\s?E(\d{1,2})\b`)
	xAnchorRegex    = regexp.MustCompile(`(?i)\b(\d{1,2})x(\d{1,2})\b`)
	longAnchorRegex = regexp.MustCompile(`(?i)\bSeason\s+(\d{1,2})\b.*?\bEpisode\s+(\d{1,3})\b`)

	// yearRegex matches a 4-digit year in 1900-2099 surrounded by delimiters.
	yearRegex = regexp.MustCompile(`(?:^|[\s(\[\-])((?:19|20)\d{2})(?:[\s)\]\-]|$)`)

	punctRegex = regexp.MustCompile(`[|:\-_.\[\](){}+,;!?/\\"]+`)
)

// Parse extracts structured information from a raw playlist title.
// It never returns an empty Title: if cleanup strips everything, the
// trimmed raw title is returned unchanged.
func Parse(raw string) Info {
	info := Info{RawTitle: raw}

	working := normalizeSeparators(raw)
	working = stripProviderPrefix(working)

	var anchorSeason, anchorEpisode int
	working, anchorSeason, anchorEpisode = extractSeriesAnchor(working)
	info.Season = anchorSeason
	info.Episode = anchorEpisode

	year, yearStart := findYear(working)
	info.Year = year
	if year != "" && anchorSeason == 0 {
		// Series titles keep their year ("Doctor Who 2005"); everything
		// else is truncated at the year since what follows is tag noise.
		working = working[:yearStart]
	}

	working = stripNoise(working)
	info.Title = cleanup(working, raw)

	// Quality and language are detected from the original raw string so
	// tags discarded by truncation still count.
	info.Quality = detectQuality(raw)
	info.Language = detectLanguage(raw)
	info.Score = qualityScore(info.Quality, raw)

	return info
}

// normalizeSeparators turns dot/underscore word separators into spaces.
func normalizeSeparators(s string) string {
	s = strings.ReplaceAll(s, "_", " ")
	s = strings.ReplaceAll(s, ".", " ")
	return s
}

// stripProviderPrefix removes leading provider/country tags, greedily.
func stripProviderPrefix(s string) string {
	for {
		stripped := providerPrefixRegex.ReplaceAllString(s, "")
		if stripped == s {
			return s
		}
		s = stripped
	}
}

// extractSeriesAnchor finds the earliest season/episode anchor and truncates
// the title at its start. Returns season=0, episode=0 when no anchor fires
// or the captured numbers are malformed.
func extractSeriesAnchor(s string) (string, int, int) {
	type anchor struct {
		start, season, episode int
	}
	best := anchor{start: -1}

	for _, re := range []*regexp.Regexp{seAnchorRegex, xAnchorRegex, longAnchorRegex} {
		loc := re.FindStringSubmatchIndex(s)
		if loc == nil {
			continue
		}
		season, err1 := strconv.Atoi(s[loc[2]:loc[3]])
		episode, err2 := strconv.Atoi(s[loc[4]:loc[5]])
		if err1 != nil || err2 != nil || season == 0 {
			continue
		}
		if best.start < 0 || loc[0] < best.start {
			best = anchor{start: loc[0], season: season, episode: episode}
		}
	}

	if best.start < 0 {
		return s, 0, 0
	}
	return s[:best.start], best.season, best.episode
}

// findYear locates a delimited 4-digit year, returning it and the index of
// the surrounding match start (the truncation point).
func findYear(s string) (string, int) {
	loc := yearRegex.FindStringSubmatchIndex(s)
	if loc == nil {
		return "", -1
	}
	return s[loc[2]:loc[3]], loc[0]
}

// stripNoise removes the known tag vocabularies and leftover season/episode
// tokens from an already truncated title.
func stripNoise(s string) string {
	s = noiseRegex.ReplaceAllString(s, " ")
	s = languageCodeRegex.ReplaceAllString(s, " ")
	s = leftoverSERegex.ReplaceAllString(s, " ")
	return s
}

// cleanup collapses separator punctuation, trims, and title-cases. Falls
// back to the trimmed raw title when stripping consumed everything.
func cleanup(s, raw string) string {
	s = punctRegex.ReplaceAllString(s, " ")
	fields := strings.Fields(s)
	if len(fields) == 0 {
		if trimmed := strings.TrimSpace(raw); trimmed != "" {
			return trimmed
		}
		return raw
	}
	// A title with no lowercase letters at all is provider shouting
	// ("INCEPTION"), not acronyms, so it gets fully recased. Mixed-case
	// titles keep embedded acronyms ("BBC One") untouched.
	shouting := strings.IndexFunc(s, unicode.IsLower) < 0
	for i, f := range fields {
		if shouting {
			f = strings.ToLower(f)
		}
		fields[i] = upperFirst(f)
	}
	return strings.Join(fields, " ")
}

// upperFirst capitalizes the first rune, leaving the rest untouched.
func upperFirst(s string) string {
	runes := []rune(s)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
