package app

import (
	"context"
	"fmt"
	"time"

	"github.com/ayusman/gesturerelay/internal/gesture"
	"github.com/ayusman/gesturerelay/internal/skeleton"
)

// handleFrame runs one frame through the relay:
//  1. tee the raw frame into the active recording
//  2. drop it when detection is disabled
//  3. select the body closest to the sensor
//  4. update the preview
//  5. detect gestures and publish each one in order
//
// Sources deliver frames from a single goroutine, so calls never overlap.
func (a *App) handleFrame(frame skeleton.Frame) {
	defer func() {
		if r := recover(); r != nil {
			a.logger.Error("frame processing panicked", "error", fmt.Sprint(r))
		}
	}()

	a.framesReceived.Add(1)

	if a.recorder != nil {
		if err := a.recorder.Record(frame); err != nil {
			a.logger.Warn("failed to record frame", "error", err)
		}
	}

	if !a.IsEnabled() {
		return
	}

	body, ok := skeleton.SelectClosest(frame.Bodies)
	if a.preview != nil {
		a.preview.Update(body)
	}
	if !ok {
		return
	}
	a.framesSelected.Add(1)

	for _, e := range a.detector.Process(body) {
		a.publish(e)
	}
}

// publishTimeout bounds how long one gesture may hold up the frame loop.
const publishTimeout = time.Second

func (a *App) publish(e gesture.Event) {
	a.logger.Debug("gesture detected",
		"hand", e.Hand,
		"type", e.Type,
		"x", e.Coordinates.X,
		"y", e.Coordinates.Y,
		"z", e.Coordinates.Z,
	)

	if a.publisher != nil {
		ctx, cancel := context.WithTimeout(a.ctx, publishTimeout)
		err := a.publisher.Publish(ctx, e)
		cancel()
		if err != nil {
			a.publishErrors.Add(1)
			a.logger.Warn("failed to publish gesture", "type", e.Type, "error", err)
		}
	}
	a.gesturesPublished.Add(1)

	a.mu.Lock()
	a.last = &e
	callbacks := append([]GestureCallback(nil), a.callbacks...)
	a.mu.Unlock()

	for _, cb := range callbacks {
		cb(e)
	}
}
