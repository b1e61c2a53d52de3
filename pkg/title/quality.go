package title

import (
	"strings"
	"unicode"
)

// Base scores per quality tier. Resolution dominates; codec and audio tags
// only nudge ties.
const (
	score8K   = 8000
	score4K   = 4000
	scoreFHD  = 1080
	scoreHD   = 720
	scoreSD   = 480
	scoreAuto = 720

	bonusHEVC  = 50
	bonusDepth = 25
	bonusAudio = 25
)

var qualityTiers = []struct {
	label  string
	tokens []string
}{
	{Quality8K, []string{"8k", "4320p"}},
	{Quality4K, []string{"4k", "uhd", "2160p"}},
	{QualityFHD, []string{"1080p", "1080i", "fhd"}},
	{QualityHD, []string{"720p"}},
	{QualitySD, []string{"480p", "576p", "540p", "sd"}},
}

// detectQuality scans the raw title's tokens against the tier cascade,
// highest tier first. Defaults to the neutral HD assumption.
func detectQuality(raw string) string {
	tokens := tokenSet(raw)
	for _, tier := range qualityTiers {
		for _, tok := range tier.tokens {
			if tokens[tok] {
				return tier.label
			}
		}
	}
	return QualityAuto
}

// detectLanguage scans tokens right to left, since language tags
// conventionally trail the title. Two-letter codes only count when they
// appear uppercase in the raw title.
func detectLanguage(raw string) string {
	tokens := splitTokens(raw)
	for i := len(tokens) - 1; i >= 0; i-- {
		tok := tokens[i]
		name, ok := languageNames[strings.ToLower(tok)]
		if !ok {
			continue
		}
		if len(tok) == 2 && tok != strings.ToUpper(tok) {
			continue
		}
		return name
	}
	return ""
}

// qualityScore combines the resolution tier with small codec/audio bonuses.
// Monotonic with the quality label; used for ranking only.
func qualityScore(quality, raw string) int {
	var score int
	switch quality {
	case Quality8K:
		score = score8K
	case Quality4K:
		score = score4K
	case QualityFHD:
		score = scoreFHD
	case QualityHD:
		score = scoreHD
	case QualitySD:
		score = scoreSD
	default:
		score = scoreAuto
	}

	tokens := tokenSet(raw)
	lower := strings.ToLower(raw)

	if tokens["hevc"] || tokens["x265"] || tokens["h265"] {
		score += bonusHEVC
	}
	if strings.Contains(lower, "10bit") || strings.Contains(lower, "10-bit") || strings.Contains(lower, "10 bit") {
		score += bonusDepth
	}
	if tokens["atmos"] || tokens["truehd"] || tokens["dts"] ||
		strings.Contains(lower, "5.1") || strings.Contains(lower, "7.1") {
		score += bonusAudio
	}

	return score
}

// splitTokens breaks a raw title into alphanumeric tokens, preserving case.
func splitTokens(raw string) []string {
	return strings.FieldsFunc(raw, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

func tokenSet(raw string) map[string]bool {
	set := make(map[string]bool)
	for _, tok := range splitTokens(raw) {
		set[strings.ToLower(tok)] = true
	}
	return set
}
