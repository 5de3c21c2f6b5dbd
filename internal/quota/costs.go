package quota

// Operation kinds understood by the cost table.
const (
	KindList          = "list"
	KindInsert        = "insert"
	KindUpdate        = "update"
	KindDelete        = "delete"
	KindSearch        = "search"
	KindVideoInsert   = "video_insert"
	KindCaptionInsert = "caption_insert"
	KindCaptionUpdate = "caption_update"
	KindThumbnailSet  = "thumbnail_set"
)

// DefaultCost is charged for kinds missing from the table.
const DefaultCost = 1

var costs = map[string]int{
	KindList:          1,
	KindInsert:        50,
	KindUpdate:        50,
	KindDelete:        50,
	KindSearch:        100,
	KindVideoInsert:   1600,
	KindCaptionInsert: 400,
	KindCaptionUpdate: 450,
	KindThumbnailSet:  50,
}

// Cost returns the unit price of a single operation of the given kind.
func Cost(kind string) int {
	if c, ok := costs[kind]; ok {
		return c
	}
	return DefaultCost
}
