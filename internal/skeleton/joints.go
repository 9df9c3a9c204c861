// Package skeleton provides the body-tracking frame model consumed by the gesture relay.
package skeleton

import (
	"math"
	"time"
)

// Joint indices following the Kinect v2 body tracking convention.
const (
	SpineBase     = 0
	SpineMid      = 1
	Neck          = 2
	Head          = 3
	ShoulderLeft  = 4
	ElbowLeft     = 5
	WristLeft     = 6
	HandLeft      = 7
	ShoulderRight = 8
	ElbowRight    = 9
	WristRight    = 10
	HandRight     = 11
	HipLeft       = 12
	KneeLeft      = 13
	AnkleLeft     = 14
	FootLeft      = 15
	HipRight      = 16
	KneeRight     = 17
	AnkleRight    = 18
	FootRight     = 19
	SpineShoulder = 20
	HandTipLeft   = 21
	ThumbLeft     = 22
	HandTipRight  = 23
	ThumbRight    = 24
	NumJoints     = 25
)

// ReferenceJoint is the joint whose Z coordinate measures a body's distance to the sensor.
const ReferenceJoint = Head

// TrackingState is the sensor's confidence in a joint position.
type TrackingState int

const (
	NotTracked TrackingState = 0
	Inferred   TrackingState = 1
	Tracked    TrackingState = 2
)

// HandState is the sensor's pose classification for a hand.
type HandState int

const (
	HandUnknown    HandState = 0
	HandNotTracked HandState = 1
	HandOpen       HandState = 2
	HandClosed     HandState = 3
	HandLasso      HandState = 4
)

// Joint is one anatomical point in sensor space. Z is the distance from the sensor.
type Joint struct {
	X     float64       `json:"x"`
	Y     float64       `json:"y"`
	Z     float64       `json:"z"`
	State TrackingState `json:"state"`
}

// Usable reports whether the joint may feed gesture detection.
func (j Joint) Usable() bool {
	return j.State == Tracked && finite(j.X) && finite(j.Y) && finite(j.Z)
}

// Body is one skeleton candidate within a frame.
type Body struct {
	TrackingID     uint64
	Tracked        bool
	Joints         []Joint
	LeftHandState  HandState
	RightHandState HandState
}

// Joint returns the joint at index i, or false if the body does not carry it.
func (b *Body) Joint(i int) (Joint, bool) {
	if b == nil || i < 0 || i >= len(b.Joints) {
		return Joint{}, false
	}
	return b.Joints[i], true
}

// Distance returns the Z coordinate of the reference joint.
// The second value is false when the body has no usable distance.
func (b *Body) Distance() (float64, bool) {
	j, ok := b.Joint(ReferenceJoint)
	if !ok || !finite(j.Z) {
		return 0, false
	}
	return j.Z, true
}

// Frame is one sampling instant from the sensor.
type Frame struct {
	Timestamp time.Time
	Bodies    []Body
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
