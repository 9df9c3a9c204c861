// Package gesture turns skeletal hand motion into discrete gesture events.
package gesture

import "time"

// Hand identifies which hand produced a gesture.
type Hand string

const (
	HandLeft  Hand = "left"
	HandRight Hand = "right"
)

// Type is the gesture vocabulary.
type Type string

const (
	TypeHandOpen   Type = "hand_open"
	TypeHandClosed Type = "hand_closed"
	TypeHandLasso  Type = "hand_lasso"
	TypeSwipeLeft  Type = "swipe_left"
	TypeSwipeRight Type = "swipe_right"
	TypeSwipeUp    Type = "swipe_up"
	TypeSwipeDown  Type = "swipe_down"
	TypeClick      Type = "click"
)

// Types lists the whole vocabulary in a stable order.
var Types = []Type{
	TypeHandOpen,
	TypeHandClosed,
	TypeHandLasso,
	TypeSwipeLeft,
	TypeSwipeRight,
	TypeSwipeUp,
	TypeSwipeDown,
	TypeClick,
}

// Point is a position in sensor space.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Event is one detected gesture.
type Event struct {
	Hand        Hand
	Type        Type
	Coordinates Point
	Timestamp   time.Time
}
