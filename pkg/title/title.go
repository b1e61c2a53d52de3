// Package title parses raw IPTV playlist titles to extract a clean display
// title, quality, language, year, and season/episode numbers.
package title

// Quality labels, from the closed tier set providers tag streams with.
const (
	Quality8K   = "8K"
	Quality4K   = "4K"
	QualityFHD  = "1080p"
	QualityHD   = "720p"
	QualitySD   = "SD"
	QualityAuto = "HD" // assumed when nothing matches
)

// Info contains parsed information from a raw playlist title.
// It is a plain value; Parse always returns the same Info for the same input.
type Info struct {
	RawTitle string `json:"raw_title"`
	Title    string `json:"title"`    // cleaned, title-cased
	Quality  string `json:"quality"`  // one of the Quality* labels
	Language string `json:"language"` // full name ("English"), empty if undetected
	Year     string `json:"year"`     // 4-digit string, empty if none
	Season   int    `json:"season"`   // 0 = not a series episode
	Episode  int    `json:"episode"`  // 0 = unknown
	Score    int    `json:"score"`    // quality ranking score, never an identity
}

// IsSeries reports whether the title carried a season/episode anchor.
func (i Info) IsSeries() bool {
	return i.Season > 0
}
