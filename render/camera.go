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

// Йоу, чат! Сьогодні ми розберемо камеру - очі нашого гравця!
// Камера зберігає позицію та два кути: yaw (куди повернувся) і
// pitch (наскільки задер голову). З них рахується вектор погляду.
// Раз на кадр ми читаємо клавіатуру та мишу і оновлюємо стан.

package render

import (
	"math"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"
)

// pitchLimit - не даємо задирати голову до вертикалі
// Інакше вектор погляду стає паралельним up і view матриця ламається
const pitchLimit = 89.0

// Camera - стан камери вільного польоту
// Кути в градусах: yaw -90 = погляд уздовж -Z
type Camera struct {
	Position mgl32.Vec3 // позиція у світових координатах (блоки)

	Yaw   float64 // поворот навколо вертикалі
	Pitch float64 // нахил вгору/вниз

	Speed       float64 // блоків за секунду
	Sensitivity float64 // градусів на піксель руху миші

	// Попередня позиція курсора, для рахування дельти
	lastX, lastY float64
	seenMouse    bool
}

// NewCamera створює камеру на вказаній позиції
func NewCamera(pos mgl32.Vec3, speed, sensitivity float64) *Camera {
	return &Camera{
		Position:    pos,
		Yaw:         -90, // дивимось уздовж -Z
		Speed:       speed,
		Sensitivity: sensitivity,
	}
}

// Gaze повертає одиничний вектор погляду з yaw/pitch
// Перераховується кожен кадр
func (c *Camera) Gaze() mgl32.Vec3 {
	yaw := mgl32.DegToRad(float32(c.Yaw))
	pitch := mgl32.DegToRad(float32(c.Pitch))
	return mgl32.Vec3{
		float32(math.Cos(float64(pitch)) * math.Cos(float64(yaw))),
		float32(math.Sin(float64(pitch))),
		float32(math.Cos(float64(pitch)) * math.Sin(float64(yaw))),
	}.Normalize()
}

// View будує видову матрицю для шейдера
func (c *Camera) View() mgl32.Mat4 {
	return mgl32.LookAtV(c.Position, c.Position.Add(c.Gaze()), mgl32.Vec3{0, 1, 0})
}

// HandleMouse обробляє рух курсора (викликається з колбека GLFW)
// Перший виклик тільки запам'ятовує позицію, інакше камера
// стрибає на стартову дельту
func (c *Camera) HandleMouse(x, y float64) {
	if !c.seenMouse {
		c.lastX, c.lastY = x, y
		c.seenMouse = true
		return
	}
	dx := x - c.lastX
	dy := c.lastY - y // вісь Y екрана перевернута
	c.lastX, c.lastY = x, y

	c.Yaw += dx * c.Sensitivity
	c.Pitch += dy * c.Sensitivity

	// Обрізаємо pitch щоб не перекрутитися через голову
	if c.Pitch > pitchLimit {
		c.Pitch = pitchLimit
	}
	if c.Pitch < -pitchLimit {
		c.Pitch = -pitchLimit
	}
}

// Move обробляє клавіатуру: WASD - політ, Space/Shift - вгору/вниз
// dt - час кадру в секундах, щоб швидкість не залежала від FPS
func (c *Camera) Move(win *glfw.Window, dt float64) {
	step := float32(c.Speed * dt)

	// Рух по горизонталі йде уздовж проєкції погляду на площину XZ,
	// щоб W не піднімав камеру коли дивишся вгору
	gaze := c.Gaze()
	forward := mgl32.Vec3{gaze.X(), 0, gaze.Z()}
	if forward.Len() > 0 {
		forward = forward.Normalize()
	}
	right := forward.Cross(mgl32.Vec3{0, 1, 0})

	if win.GetKey(glfw.KeyW) == glfw.Press {
		c.Position = c.Position.Add(forward.Mul(step))
	}
	if win.GetKey(glfw.KeyS) == glfw.Press {
		c.Position = c.Position.Sub(forward.Mul(step))
	}
	if win.GetKey(glfw.KeyD) == glfw.Press {
		c.Position = c.Position.Add(right.Mul(step))
	}
	if win.GetKey(glfw.KeyA) == glfw.Press {
		c.Position = c.Position.Sub(right.Mul(step))
	}
	if win.GetKey(glfw.KeySpace) == glfw.Press {
		c.Position = c.Position.Add(mgl32.Vec3{0, step, 0})
	}
	if win.GetKey(glfw.KeyLeftShift) == glfw.Press {
		c.Position = c.Position.Sub(mgl32.Vec3{0, step, 0})
	}
}
