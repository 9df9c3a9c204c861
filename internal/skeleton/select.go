package skeleton

// SelectClosest returns the tracked body nearest to the sensor.
// Bodies without a usable reference joint are ignored. When two bodies are
// at the same distance the first one in frame order wins.
func SelectClosest(bodies []Body) (*Body, bool) {
	var closest *Body
	var minDistance float64

	for i := range bodies {
		body := &bodies[i]
		if !body.Tracked {
			continue
		}

		distance, ok := body.Distance()
		if !ok {
			continue
		}

		if closest == nil || distance < minDistance {
			closest = body
			minDistance = distance
		}
	}

	return closest, closest != nil
}
