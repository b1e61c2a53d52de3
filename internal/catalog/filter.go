package catalog

// ItemFilter specifies criteria for listing items.
type ItemFilter struct {
	SourceID    *int64
	Type        *ContentType
	SeriesID    *string
	Title       *string // exact normalized title match
	TitlePrefix *string // normalized title prefix match
	Group       *string
	Season      *int
	Episode     *int
	Favorite    *bool
	Limit       int // 0 = no limit
	Offset      int
}
