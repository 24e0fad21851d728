package enums

type Shape string

const (
	// ShapeThread is a post permalink response: [postListing, commentListing].
	ShapeThread Shape = "thread"

	// ShapeListing is a single listing page, e.g. /r/golang/new.json.
	ShapeListing Shape = "listing"

	// ShapeRaw is anything else. It is rendered as an indented JSON dump.
	ShapeRaw Shape = "raw"
)
