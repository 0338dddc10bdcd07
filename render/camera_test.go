// This file is part of go-mc/server project.
// Copyright (C) 2023.  Tnze
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published
// by the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

// Йоу, чат! Тестуємо камеру - без вікна, самою математикою.

package render

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestGazeDefaultForward(t *testing.T) {
	c := NewCamera(mgl32.Vec3{}, 1, 1)
	gaze := c.Gaze()
	// yaw -90 означає погляд уздовж -Z
	if math.Abs(float64(gaze.Z()+1)) > 1e-5 ||
		math.Abs(float64(gaze.X())) > 1e-5 ||
		math.Abs(float64(gaze.Y())) > 1e-5 {
		t.Fatalf("want gaze (0, 0, -1), got %v", gaze)
	}
}

func TestGazeUnitLength(t *testing.T) {
	c := NewCamera(mgl32.Vec3{}, 1, 1)
	for _, angles := range [][2]float64{{-90, 0}, {0, 45}, {137, -60}, {720, 89}} {
		c.Yaw, c.Pitch = angles[0], angles[1]
		if l := c.Gaze().Len(); math.Abs(float64(l)-1) > 1e-5 {
			t.Errorf("yaw=%v pitch=%v: gaze length %v", angles[0], angles[1], l)
		}
	}
}

func TestHandleMouseFirstEventNoJump(t *testing.T) {
	c := NewCamera(mgl32.Vec3{}, 1, 0.1)
	yaw, pitch := c.Yaw, c.Pitch

	// Перша подія тільки запам'ятовує позицію курсора
	c.HandleMouse(500, 300)
	if c.Yaw != yaw || c.Pitch != pitch {
		t.Fatal("first mouse event moved the camera")
	}

	// Друга вже крутить
	c.HandleMouse(510, 300)
	if c.Yaw == yaw {
		t.Fatal("second mouse event did not move the camera")
	}
}

func TestHandleMousePitchClamped(t *testing.T) {
	c := NewCamera(mgl32.Vec3{}, 1, 1)
	c.HandleMouse(0, 0)

	// Тягнемо мишу далеко вгору - pitch впирається в межу
	c.HandleMouse(0, -10000)
	if c.Pitch != pitchLimit {
		t.Errorf("want pitch %v, got %v", float64(pitchLimit), c.Pitch)
	}
	// І вниз
	c.HandleMouse(0, 10000)
	if c.Pitch != -pitchLimit {
		t.Errorf("want pitch %v, got %v", float64(-pitchLimit), c.Pitch)
	}
}

func TestHandleMouseInvertedY(t *testing.T) {
	c := NewCamera(mgl32.Vec3{}, 1, 0.1)
	c.HandleMouse(0, 100)

	// Курсор пішов вгору по екрану (y зменшився) - голова теж вгору
	c.HandleMouse(0, 50)
	if c.Pitch <= 0 {
		t.Errorf("moving the mouse up must raise pitch, got %v", c.Pitch)
	}
}
