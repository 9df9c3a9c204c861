package gesture

import (
	"math"
	"sync"
	"time"

	"github.com/ayusman/gesturerelay/internal/skeleton"
)

// window is an open motion-sampling interval for one hand.
type window struct {
	open   bool
	origin Point
	start  time.Time
}

func (w *window) reset() {
	*w = window{}
}

// handTracker holds everything the detector remembers about one hand.
type handTracker struct {
	// pose is the last recognized pose; zero until the first transition.
	pose   skeleton.HandState
	window window
}

// Detector converts the selected body's hand data into gesture events.
// All per-hand state lives here; it is safe for concurrent use.
type Detector struct {
	config Config
	now    func() time.Time

	mu       sync.Mutex
	left     handTracker
	right    handTracker
	lastBody uint64
	hasBody  bool
	counts   map[Type]uint64
}

// NewDetector creates a Detector with the given thresholds.
func NewDetector(config Config) *Detector {
	return &Detector{
		config: config,
		now:    time.Now,
		counts: make(map[Type]uint64),
	}
}

// SetClock replaces the time source used for tracking windows and event timestamps.
func (d *Detector) SetClock(now func() time.Time) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.now = now
}

// Config returns the detector's thresholds.
func (d *Detector) Config() Config {
	return d.config
}

// Process runs pose and motion detection for both hands of body and returns
// the gestures it produced, left hand first. A nil body produces nothing and
// leaves all state untouched.
func (d *Detector) Process(body *skeleton.Body) []Event {
	if body == nil {
		return nil
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.config.ResetOnHandoff && d.hasBody && body.TrackingID != d.lastBody {
		d.left.window.reset()
		d.right.window.reset()
	}
	d.lastBody = body.TrackingID
	d.hasBody = true

	now := d.now()

	var events []Event
	events = d.processHand(events, &d.left, HandLeft, body, skeleton.HandLeft, body.LeftHandState, now)
	events = d.processHand(events, &d.right, HandRight, body, skeleton.HandRight, body.RightHandState, now)

	for _, e := range events {
		d.counts[e.Type]++
	}

	return events
}

func (d *Detector) processHand(events []Event, tracker *handTracker, hand Hand, body *skeleton.Body, jointIndex int, state skeleton.HandState, now time.Time) []Event {
	joint, ok := body.Joint(jointIndex)
	if !ok || !joint.Usable() {
		return events
	}

	pos := Point{X: joint.X, Y: joint.Y, Z: joint.Z}

	if typ, ok := poseType(state); ok && state != tracker.pose {
		events = append(events, Event{Hand: hand, Type: typ, Coordinates: pos, Timestamp: now})
		tracker.pose = state
	}

	if typ, ok := d.detectMotion(&tracker.window, pos, now); ok {
		events = append(events, Event{Hand: hand, Type: typ, Coordinates: pos, Timestamp: now})
	}

	return events
}

// detectMotion advances a hand's tracking window with a new sample.
// Rules are checked in order: horizontal swipe, vertical swipe, push.
func (d *Detector) detectMotion(w *window, pos Point, now time.Time) (Type, bool) {
	if !w.open {
		w.open = true
		w.origin = pos
		w.start = now
		return "", false
	}

	deltaX := pos.X - w.origin.X
	deltaY := pos.Y - w.origin.Y
	deltaZ := w.origin.Z - pos.Z // positive toward the sensor
	deltaTime := now.Sub(w.start)
	inTime := deltaTime < d.config.SwipeTimeout

	var typ Type
	switch {
	case math.Abs(deltaX) > d.config.SwipeThreshold && inTime:
		typ = TypeSwipeLeft
		if deltaX > 0 {
			typ = TypeSwipeRight
		}
	case math.Abs(deltaY) > d.config.SwipeThreshold && inTime:
		typ = TypeSwipeDown
		if deltaY > 0 {
			typ = TypeSwipeUp
		}
	case deltaZ > d.config.PushThreshold && inTime && pos.Z < d.config.PushMaxDistance:
		typ = TypeClick
	default:
		if deltaTime > d.config.SwipeTimeout {
			w.reset()
		}
		return "", false
	}

	w.reset()
	return typ, true
}

func poseType(state skeleton.HandState) (Type, bool) {
	switch state {
	case skeleton.HandOpen:
		return TypeHandOpen, true
	case skeleton.HandClosed:
		return TypeHandClosed, true
	case skeleton.HandLasso:
		return TypeHandLasso, true
	default:
		return "", false
	}
}

// Counts returns how many gestures of each type have fired.
func (d *Detector) Counts() map[Type]uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()

	counts := make(map[Type]uint64, len(d.counts))
	for t, n := range d.counts {
		counts[t] = n
	}
	return counts
}

// Reset forgets all pose and window state.
func (d *Detector) Reset() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.left = handTracker{}
	d.right = handTracker{}
	d.hasBody = false
	d.lastBody = 0
}
