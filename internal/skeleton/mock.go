package skeleton

// StandingBody returns a tracked body standing at the given distance from the
// sensor with every joint tracked. Hands rest slightly in front of the torso
// and report HandUnknown poses.
func StandingBody(trackingID uint64, distance float64) Body {
	body := Body{
		TrackingID:     trackingID,
		Tracked:        true,
		Joints:         make([]Joint, NumJoints),
		LeftHandState:  HandUnknown,
		RightHandState: HandUnknown,
	}

	for i := range body.Joints {
		body.Joints[i] = Joint{X: 0, Y: 0, Z: distance, State: Tracked}
	}

	body.Joints[Head] = Joint{X: 0, Y: 0.6, Z: distance, State: Tracked}
	body.Joints[SpineBase] = Joint{X: 0, Y: -0.3, Z: distance, State: Tracked}
	body.Joints[HandLeft] = Joint{X: -0.3, Y: 0, Z: distance - 0.3, State: Tracked}
	body.Joints[HandRight] = Joint{X: 0.3, Y: 0, Z: distance - 0.3, State: Tracked}

	return body
}

// SetJoint overwrites the position of one joint and marks it tracked.
func (b *Body) SetJoint(index int, x, y, z float64) {
	if index < 0 || index >= len(b.Joints) {
		return
	}
	b.Joints[index] = Joint{X: x, Y: y, Z: z, State: Tracked}
}
