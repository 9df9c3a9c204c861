package skeleton

import (
	"encoding/json"
	"fmt"
	"math"
	"time"
)

// jsonFrame is the NDJSON frame format written by the sensor bridge.
type jsonFrame struct {
	Timestamp int64      `json:"timestamp,omitempty"`
	Bodies    []jsonBody `json:"bodies"`
}

type jsonBody struct {
	Tracked        bool        `json:"tracked"`
	TrackingID     uint64      `json:"trackingId,omitempty"`
	Joints         []jsonJoint `json:"joints"`
	LeftHandState  code        `json:"leftHandState"`
	RightHandState code        `json:"rightHandState"`
}

type jsonJoint struct {
	CameraX       number `json:"cameraX"`
	CameraY       number `json:"cameraY"`
	CameraZ       number `json:"cameraZ"`
	TrackingState code   `json:"trackingState"`
}

// UnmarshalJSON decodes a body, turning a badly typed body into an untracked
// one instead of failing the frame.
func (b *jsonBody) UnmarshalJSON(data []byte) error {
	type plain jsonBody
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		p = plain{}
	}
	*b = jsonBody(p)
	return nil
}

// UnmarshalJSON decodes a joint. Absent coordinates stay NaN.
func (j *jsonJoint) UnmarshalJSON(data []byte) error {
	type plain jsonJoint
	nan := number(math.NaN())
	p := plain{CameraX: nan, CameraY: nan, CameraZ: nan}
	if err := json.Unmarshal(data, &p); err != nil {
		p = plain{CameraX: nan, CameraY: nan, CameraZ: nan}
	}
	*j = jsonJoint(p)
	return nil
}

// number is a coordinate that decodes anything other than a JSON number as
// NaN, so one bad value only spoils its own joint.
type number float64

func (n *number) UnmarshalJSON(data []byte) error {
	var v float64
	if err := json.Unmarshal(data, &v); err != nil || string(data) == "null" {
		*n = number(math.NaN())
		return nil
	}
	*n = number(v)
	return nil
}

func (n number) MarshalJSON() ([]byte, error) {
	if !finite(float64(n)) {
		return []byte("null"), nil
	}
	return json.Marshal(float64(n))
}

// code is a tracking or hand state. Values that are not integers decode as 0,
// which is NotTracked for joints and HandUnknown for hands.
type code int

func (c *code) UnmarshalJSON(data []byte) error {
	var v float64
	if err := json.Unmarshal(data, &v); err != nil || v != math.Trunc(v) {
		*c = 0
		return nil
	}
	*c = code(v)
	return nil
}

// DecodeFrame parses one bridge frame. Joints with missing or non-numeric
// coordinates decode with NaN positions so that detection skips them; the
// rest of the frame is kept.
func DecodeFrame(data []byte) (Frame, error) {
	var raw jsonFrame
	if err := json.Unmarshal(data, &raw); err != nil {
		return Frame{}, fmt.Errorf("decode frame: %w", err)
	}

	frame := Frame{
		Bodies: make([]Body, len(raw.Bodies)),
	}
	if raw.Timestamp > 0 {
		frame.Timestamp = time.UnixMilli(raw.Timestamp)
	}

	for i, b := range raw.Bodies {
		frame.Bodies[i] = b.toBody()
	}

	return frame, nil
}

// EncodeFrame serializes a frame in the bridge format.
func EncodeFrame(f Frame) ([]byte, error) {
	raw := jsonFrame{
		Bodies: make([]jsonBody, len(f.Bodies)),
	}
	if !f.Timestamp.IsZero() {
		raw.Timestamp = f.Timestamp.UnixMilli()
	}

	for i, b := range f.Bodies {
		jb := jsonBody{
			Tracked:        b.Tracked,
			TrackingID:     b.TrackingID,
			Joints:         make([]jsonJoint, len(b.Joints)),
			LeftHandState:  code(b.LeftHandState),
			RightHandState: code(b.RightHandState),
		}
		for k, j := range b.Joints {
			jb.Joints[k] = jsonJoint{
				CameraX:       number(j.X),
				CameraY:       number(j.Y),
				CameraZ:       number(j.Z),
				TrackingState: code(j.State),
			}
		}
		raw.Bodies[i] = jb
	}

	return json.Marshal(raw)
}

func (b jsonBody) toBody() Body {
	body := Body{
		TrackingID:     b.TrackingID,
		Tracked:        b.Tracked,
		Joints:         make([]Joint, len(b.Joints)),
		LeftHandState:  HandState(b.LeftHandState),
		RightHandState: HandState(b.RightHandState),
	}

	for i, j := range b.Joints {
		body.Joints[i] = Joint{
			X:     float64(j.CameraX),
			Y:     float64(j.CameraY),
			Z:     float64(j.CameraZ),
			State: TrackingState(j.TrackingState),
		}
	}

	return body
}
