// Package preview renders the selected body as a diagnostic image.
package preview

import (
	"fmt"
	"image"
	"image/color"
	"sync"

	"gocv.io/x/gocv"

	"github.com/ayusman/gesturerelay/internal/skeleton"
)

const (
	Width  = 640
	Height = 480

	// pixelsPerMeter maps camera space onto the image.
	pixelsPerMeter = 160
)

var (
	background = color.RGBA{R: 24, G: 24, B: 24, A: 255}
	boneColor  = color.RGBA{R: 200, G: 200, B: 200, A: 255}
	jointColor = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	textColor  = color.RGBA{R: 240, G: 240, B: 120, A: 255}

	handColors = map[skeleton.HandState]color.RGBA{
		skeleton.HandOpen:   {R: 60, G: 200, B: 60, A: 255},
		skeleton.HandClosed: {R: 60, G: 60, B: 220, A: 255},
		skeleton.HandLasso:  {R: 220, G: 120, B: 40, A: 255},
	}
)

// bones connects joint pairs of the Kinect v2 skeleton.
var bones = [][2]int{
	{skeleton.Head, skeleton.Neck},
	{skeleton.Neck, skeleton.SpineShoulder},
	{skeleton.SpineShoulder, skeleton.SpineMid},
	{skeleton.SpineMid, skeleton.SpineBase},
	{skeleton.SpineShoulder, skeleton.ShoulderLeft},
	{skeleton.ShoulderLeft, skeleton.ElbowLeft},
	{skeleton.ElbowLeft, skeleton.WristLeft},
	{skeleton.WristLeft, skeleton.HandLeft},
	{skeleton.HandLeft, skeleton.HandTipLeft},
	{skeleton.WristLeft, skeleton.ThumbLeft},
	{skeleton.SpineShoulder, skeleton.ShoulderRight},
	{skeleton.ShoulderRight, skeleton.ElbowRight},
	{skeleton.ElbowRight, skeleton.WristRight},
	{skeleton.WristRight, skeleton.HandRight},
	{skeleton.HandRight, skeleton.HandTipRight},
	{skeleton.WristRight, skeleton.ThumbRight},
	{skeleton.SpineBase, skeleton.HipLeft},
	{skeleton.HipLeft, skeleton.KneeLeft},
	{skeleton.KneeLeft, skeleton.AnkleLeft},
	{skeleton.AnkleLeft, skeleton.FootLeft},
	{skeleton.SpineBase, skeleton.HipRight},
	{skeleton.HipRight, skeleton.KneeRight},
	{skeleton.KneeRight, skeleton.AnkleRight},
	{skeleton.AnkleRight, skeleton.FootRight},
}

// Renderer keeps the most recently selected body and draws it on demand.
type Renderer struct {
	mu      sync.RWMutex
	body    skeleton.Body
	hasBody bool
	frames  uint64
}

func NewRenderer() *Renderer {
	return &Renderer{}
}

// Update stores a copy of body. A nil body clears the preview.
func (r *Renderer) Update(body *skeleton.Body) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.frames++
	if body == nil {
		r.hasBody = false
		r.body = skeleton.Body{}
		return
	}

	r.body = *body
	r.body.Joints = append([]skeleton.Joint(nil), body.Joints...)
	r.hasBody = true
}

// Frames returns how many updates the renderer has seen.
func (r *Renderer) Frames() uint64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.frames
}

// Render draws the current body. The caller owns the returned Mat and must
// Close it.
func (r *Renderer) Render() gocv.Mat {
	r.mu.RLock()
	body, hasBody := r.body, r.hasBody
	r.mu.RUnlock()

	img := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(
		float64(background.B), float64(background.G), float64(background.R), 0,
	), Height, Width, gocv.MatTypeCV8UC3)

	if !hasBody {
		gocv.PutText(&img, "no body", image.Pt(10, 24), gocv.FontHersheySimplex, 0.6, textColor, 1)
		return img
	}

	for _, b := range bones {
		from, ok1 := body.Joint(b[0])
		to, ok2 := body.Joint(b[1])
		if !ok1 || !ok2 || !from.Usable() || !to.Usable() {
			continue
		}
		gocv.Line(&img, Project(from), Project(to), boneColor, 2)
	}

	for i, j := range body.Joints {
		if !j.Usable() {
			continue
		}
		c, radius := jointColor, 4
		switch i {
		case skeleton.HandLeft:
			c, radius = handColor(body.LeftHandState), 10
		case skeleton.HandRight:
			c, radius = handColor(body.RightHandState), 10
		}
		gocv.Circle(&img, Project(j), radius, c, -1)
	}

	label := fmt.Sprintf("tracking %d", body.TrackingID)
	if d, ok := body.Distance(); ok {
		label = fmt.Sprintf("%s  %.2fm", label, d)
	}
	gocv.PutText(&img, label, image.Pt(10, 24), gocv.FontHersheySimplex, 0.6, textColor, 1)

	return img
}

// Encode renders the current body as a JPEG.
func (r *Renderer) Encode() ([]byte, error) {
	img := r.Render()
	defer img.Close()

	buf, err := gocv.IMEncode(gocv.JPEGFileExt, img)
	if err != nil {
		return nil, fmt.Errorf("encode preview: %w", err)
	}
	defer buf.Close()

	return append([]byte(nil), buf.GetBytes()...), nil
}

// Project maps a camera-space joint onto image coordinates, with the sensor
// axis at the image center and Y pointing up.
func Project(j skeleton.Joint) image.Point {
	return image.Pt(
		Width/2+int(j.X*pixelsPerMeter),
		Height/2-int(j.Y*pixelsPerMeter),
	)
}

func handColor(state skeleton.HandState) color.RGBA {
	if c, ok := handColors[state]; ok {
		return c
	}
	return jointColor
}
