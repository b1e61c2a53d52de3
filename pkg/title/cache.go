package title

import (
	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultCacheSize bounds the memoization cache. Normalization is regex
// work applied to every catalog item on every load, and playlists repeat
// titles heavily across refreshes.
const DefaultCacheSize = 4096

// Parser memoizes Parse results by exact raw title. Safe for concurrent
// use; the cache is an optimization only and hits are byte-identical to
// misses.
type Parser struct {
	cache *lru.Cache[string, Info]
}

// NewParser creates a parser with the default cache capacity.
func NewParser() *Parser {
	return NewParserSize(DefaultCacheSize)
}

// NewParserSize creates a parser with the given cache capacity.
func NewParserSize(size int) *Parser {
	cache, err := lru.New[string, Info](size)
	if err != nil {
		// lru.New only fails on a non-positive size.
		panic(err)
	}
	return &Parser{cache: cache}
}

// Parse returns the parsed info for raw, consulting the cache first.
func (p *Parser) Parse(raw string) Info {
	if info, ok := p.cache.Get(raw); ok {
		return info
	}
	info := Parse(raw)
	p.cache.Add(raw, info)
	return info
}

// Len returns the number of cached entries.
func (p *Parser) Len() int {
	return p.cache.Len()
}
