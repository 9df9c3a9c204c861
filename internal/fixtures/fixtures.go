// Package fixtures provides recorded sensor frame sequences for tests.
package fixtures

import (
	"bufio"
	"bytes"
	"embed"
	"fmt"

	"github.com/ayusman/gesturerelay/internal/skeleton"
)

//go:embed frames/*
var framesFS embed.FS

// Sequences recorded from the sensor bridge, 100ms apart.
const (
	// SwipeRight moves one body's right hand 0.3 to the right.
	SwipeRight = "swipe_right.ndjson"
	// TwoBodies pushes the closer body's right hand toward the sensor while
	// the farther body swipes, behind an untracked body slot.
	TwoBodies = "two_bodies.ndjson"
	// Poses cycles the right hand through open, open, closed, lasso, unknown.
	Poses = "poses.ndjson"
)

// LoadRaw returns the NDJSON bytes of a sequence.
func LoadRaw(name string) ([]byte, error) {
	data, err := framesFS.ReadFile("frames/" + name)
	if err != nil {
		return nil, fmt.Errorf("load sequence %s: %w", name, err)
	}
	return data, nil
}

// LoadSequence decodes every frame of a sequence.
func LoadSequence(name string) ([]skeleton.Frame, error) {
	data, err := LoadRaw(name)
	if err != nil {
		return nil, err
	}

	var frames []skeleton.Frame
	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		frame, err := skeleton.DecodeFrame(line)
		if err != nil {
			return nil, fmt.Errorf("decode %s frame %d: %w", name, len(frames), err)
		}
		frames = append(frames, frame)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read sequence %s: %w", name, err)
	}

	return frames, nil
}
