package types

// ViewportRange is the window of indexes the virtualized list renderer
// currently has mounted, over the filtered/sorted ordering.
type ViewportRange struct {
	StartIndex int `json:"startIndex"`
	EndIndex   int `json:"endIndex"`
}

// SelectOrigin distinguishes a click-originated selection (animated
// scroll) from a programmatic one (instant jump).
type SelectOrigin string

const (
	OriginClick        SelectOrigin = "click"
	OriginProgrammatic SelectOrigin = "programmatic"
)

type ScrollBehavior string

const (
	ScrollSmooth ScrollBehavior = "smooth"
	ScrollAuto   ScrollBehavior = "auto"
)

// ScrollInstruction tells the renderer where to move the viewport.
// Align is always "center"; kept in the payload so the renderer side
// stays free of that assumption.
type ScrollInstruction struct {
	Index    int            `json:"index"`
	Align    string         `json:"align"`
	Behavior ScrollBehavior `json:"behavior"`
}

type ScrollDirection string

const (
	DirectionUp   ScrollDirection = "up"
	DirectionDown ScrollDirection = "down"
	DirectionNone ScrollDirection = "none"
)
