package title

import (
	"regexp"
	"strings"
)

// Noise vocabularies stripped from titles after anchor truncation.
// Matched as whole words, case-insensitive. Multi-word entries assume
// separators have already been normalized to spaces.
var (
	resolutionTokens = []string{
		"8k", "4320p", "4k", "uhd", "2160p", "1440p",
		"1080p", "1080i", "fhd", "720p", "480p", "576p", "540p", "sd", "hd",
	}

	codecTokens = []string{
		"x264", "h264", "h 264", "avc", "x265", "h265", "h 265", "hevc",
		"av1", "xvid", "divx", "10bit", "10 bit", "8bit", "8 bit",
	}

	audioTokens = []string{
		"aac", "ac3", "eac3", "ddp", "dd5 1", "dd5", "dts", "truehd", "atmos",
		"flac", "mp3", "opus", "5 1", "7 1", "2 0",
	}

	sourceTokens = []string{
		"bluray", "blu ray", "bdrip", "brrip", "remux",
		"webdl", "web dl", "webrip", "web rip", "web",
		"hdtv", "dvdrip", "dvd", "hdr10", "hdr", "dolby vision", "dovi", "dv",
		"sdr", "hlg", "cam", "hdcam", "iptv", "vod",
	}

	editionTokens = []string{
		"extended", "unrated", "remastered", "theatrical", "imax",
		"directors cut", "director's cut", "proper", "repack", "internal",
		"limited", "complete", "multi", "dual audio", "dual",
		"subbed", "dubbed", "vostfr", "retail",
	}
)

// languageNames maps lowercased 2-letter codes and full names to a display
// name. Closed table; codes outside it are never treated as languages.
var languageNames = map[string]string{
	"en": "English", "fr": "French", "de": "German", "es": "Spanish",
	"it": "Italian", "pt": "Portuguese", "nl": "Dutch", "pl": "Polish",
	"tr": "Turkish", "ar": "Arabic", "ru": "Russian", "sv": "Swedish",
	"no": "Norwegian", "da": "Danish", "fi": "Finnish", "el": "Greek",
	"hi": "Hindi", "ja": "Japanese", "ko": "Korean", "zh": "Chinese",
	"english": "English", "french": "French", "german": "German",
	"spanish": "Spanish", "italian": "Italian", "portuguese": "Portuguese",
	"dutch": "Dutch", "polish": "Polish", "turkish": "Turkish",
	"arabic": "Arabic", "russian": "Russian", "swedish": "Swedish",
	"norwegian": "Norwegian", "danish": "Danish", "finnish": "Finnish",
	"greek": "Greek", "hindi": "Hindi", "japanese": "Japanese",
	"korean": "Korean", "chinese": "Chinese", "multi": "Multi",
}

// languageFullNames are stripped from titles case-insensitively. Two-letter
// codes are stripped only when they appear uppercase in the raw title, so
// words like "it" and "no" survive.
var languageFullNames = []string{
	"english", "french", "german", "spanish", "italian", "portuguese",
	"dutch", "polish", "turkish", "arabic", "russian", "swedish",
	"norwegian", "danish", "finnish", "greek", "hindi", "japanese",
	"korean", "chinese", "multi",
}

var (
	noiseRegex        = compileVocab(resolutionTokens, codecTokens, audioTokens, sourceTokens, editionTokens, languageFullNames)
	languageCodeRegex = regexp.MustCompile(`\b(EN|FR|DE|ES|IT|PT|NL|PL|TR|AR|RU|SV|NO|DA|FI|EL|HI|JA|KO|ZH)\b`)
	leftoverSERegex   = regexp.MustCompile(`(?i)\b(s\d{1,2}|e\d{1,3}|season|episode|ep)\b`)
)

// compileVocab builds a single case-insensitive whole-word alternation from
// the given vocabularies. Longer entries are listed first within each
// category so "web dl" wins over "web".
func compileVocab(vocabs ...[]string) *regexp.Regexp {
	var alts []string
	for _, vocab := range vocabs {
		for _, tok := range vocab {
			alts = append(alts, regexp.QuoteMeta(tok))
		}
	}
	return regexp.MustCompile(`(?i)\b(` + strings.Join(alts, "|") + `)\b`)
}
