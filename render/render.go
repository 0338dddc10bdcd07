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

// Йоу, чат! Сьогодні ми розберемо графічний шар - все що говорить з GPU!
// Тут живе вікно GLFW, шейдери, текстурний атлас і заливка буферів.
// Решта програми про OpenGL не знає нічого: світ віддає вершини,
// а ми повертаємо хендли. Якщо шейдер не зібрався - падаємо одразу,
// бо рендерер без шейдерів це просто чорне вікно.

package render

import (
	"fmt"
	"strings"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"FlowyCraft/world"
)

// vertexStride - розмір однієї вершини в байтах: 3 float позиції + 2 float UV
const vertexStride = 5 * 4

// vertexShader - трансформує локальні вершини чанку в clip space
// origin - світова позиція кута чанку, view/proj - матриці камери
const vertexShader = `
#version 410 core
layout(location = 0) in vec3 pos;
layout(location = 1) in vec2 uv;

uniform mat4 view;
uniform mat4 proj;
uniform vec3 origin;

out vec2 fragUV;

void main() {
    fragUV = uv;
    gl_Position = proj * view * vec4(pos + origin, 1.0);
}
` + "\x00"

// fragmentShader - просто семплить тайл з атласу
const fragmentShader = `
#version 410 core
in vec2 fragUV;
out vec4 color;

uniform sampler2D atlas;

void main() {
    color = texture(atlas, fragUV);
}
` + "\x00"

// Renderer - все що потрібно для малювання: вікно, шейдерна програма,
// текстура і закешовані локації юніформів
type Renderer struct {
	log    *zap.Logger
	window *glfw.Window

	program uint32 // шейдерна програма
	atlas   uint32 // текстурний атлас блоків

	// Локації юніформів шукаємо один раз при старті
	viewLoc   int32
	projLoc   int32
	originLoc int32
}

// NewRenderer створює вікно, контекст OpenGL 4.1 core і всі ресурси.
// Будь-яка помилка тут фатальна для програми - немає сенсу заходити
// в цикл кадрів зі зламаним графічним станом
func NewRenderer(logger *zap.Logger, width, height int, title string) (*Renderer, error) {
	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("init glfw fail: %w", err)
	}

	// Просимо сучасний core профіль - на macOS без
	// forward-compatible взагалі нічого не запуститься
	glfw.WindowHint(glfw.Resizable, glfw.True)
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)

	window, err := glfw.CreateWindow(width, height, title, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("create window fail: %w", err)
	}
	window.MakeContextCurrent()

	// Ховаємо курсор - миша керує камерою
	window.SetInputMode(glfw.CursorMode, glfw.CursorDisabled)

	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("init opengl fail: %w", err)
	}
	logger.Info("OpenGL ready",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))))

	program, err := newProgram(vertexShader, fragmentShader)
	if err != nil {
		return nil, fmt.Errorf("build shader program fail: %w", err)
	}

	r := &Renderer{
		log:     logger,
		window:  window,
		program: program,
		atlas:   makeAtlas(),

		viewLoc:   gl.GetUniformLocation(program, gl.Str("view\x00")),
		projLoc:   gl.GetUniformLocation(program, gl.Str("proj\x00")),
		originLoc: gl.GetUniformLocation(program, gl.Str("origin\x00")),
	}

	// Постійний стан конвеєра: тест глибини, відсікання задніх
	// граней (мешер дає правильний обхід), колір неба
	gl.Enable(gl.DEPTH_TEST)
	gl.Enable(gl.CULL_FACE)
	gl.ClearColor(0.53, 0.72, 0.92, 1.0)

	// ESC закриває вікно
	window.SetKeyCallback(func(w *glfw.Window, key glfw.Key, _ int, action glfw.Action, _ glfw.ModifierKey) {
		if key == glfw.KeyEscape && action == glfw.Press {
			w.SetShouldClose(true)
		}
	})

	return r, nil
}

// Window повертає вікно для реєстрації колбеків і опитування клавіш
func (r *Renderer) Window() *glfw.Window {
	return r.window
}

// ShouldClose - чи попросив користувач закрити вікно
// Це єдина умова виходу з циклу кадрів
func (r *Renderer) ShouldClose() bool {
	return r.window.ShouldClose()
}

// FramebufferSize повертає актуальний розмір буфера кадру в пікселях
func (r *Renderer) FramebufferSize() (width, height int) {
	return r.window.GetFramebufferSize()
}

// BeginFrame готує кадр: в'юпорт, очистка, матриці камери
func (r *Renderer) BeginFrame(view, proj mgl32.Mat4, width, height int) {
	gl.Viewport(0, 0, int32(width), int32(height))
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

	gl.UseProgram(r.program)
	gl.UniformMatrix4fv(r.viewLoc, 1, false, &view[0])
	gl.UniformMatrix4fv(r.projLoc, 1, false, &proj[0])

	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, r.atlas)
}

// UploadMesh заливає вершини чанку на GPU: bind -> BufferData зі
// static-draw підказкою -> unbind. Реалізує world.MeshUploader
func (r *Renderer) UploadMesh(verts []world.Vertex) (array, buffer uint32) {
	gl.GenVertexArrays(1, &array)
	gl.BindVertexArray(array)

	gl.GenBuffers(1, &buffer)
	gl.BindBuffer(gl.ARRAY_BUFFER, buffer)
	gl.BufferData(gl.ARRAY_BUFFER, len(verts)*vertexStride, gl.Ptr(verts), gl.STATIC_DRAW)

	// Позиція - атрибут 0, UV - атрибут 1
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, vertexStride, 0)
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointerWithOffset(1, 2, gl.FLOAT, false, vertexStride, 3*4)

	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.BindVertexArray(0)
	return array, buffer
}

// DrawChunk малює один резидентний чанк
// Вершини локальні, тому передаємо світову позицію кута чанку юніформом
func (r *Renderer) DrawChunk(dc world.DrawChunk) {
	gl.Uniform3f(r.originLoc,
		float32(dc.Pos[0])*world.ChunkSize,
		float32(dc.Pos[1])*world.ChunkSize,
		float32(dc.Pos[2])*world.ChunkSize)
	gl.BindVertexArray(dc.Chunk.Array)
	gl.DrawArrays(gl.TRIANGLES, 0, dc.Chunk.VertexCount)
}

// EndFrame показує намальований кадр на екрані
func (r *Renderer) EndFrame() {
	r.window.SwapBuffers()
}

// Close звільняє ресурси вікна, викликається після циклу кадрів
func (r *Renderer) Close() {
	gl.DeleteProgram(r.program)
	gl.DeleteTextures(1, &r.atlas)
	r.window.Destroy()
	glfw.Terminate()
}

// newProgram збирає шейдерну програму з двох шейдерів
func newProgram(vertexSrc, fragmentSrc string) (uint32, error) {
	vert, err := compileShader(vertexSrc, gl.VERTEX_SHADER)
	if err != nil {
		return 0, fmt.Errorf("vertex shader: %w", err)
	}
	defer gl.DeleteShader(vert)

	frag, err := compileShader(fragmentSrc, gl.FRAGMENT_SHADER)
	if err != nil {
		return 0, fmt.Errorf("fragment shader: %w", err)
	}
	defer gl.DeleteShader(frag)

	program := gl.CreateProgram()
	gl.AttachShader(program, vert)
	gl.AttachShader(program, frag)
	gl.LinkProgram(program)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLength)
		infoLog := strings.Repeat("\x00", int(logLength+1))
		gl.GetProgramInfoLog(program, logLength, nil, gl.Str(infoLog))
		return 0, fmt.Errorf("link fail: %s", infoLog)
	}
	return program, nil
}

// compileShader компілює один шейдер і дістає лог помилок якщо щось не так
func compileShader(source string, shaderType uint32) (uint32, error) {
	shader := gl.CreateShader(shaderType)

	csources, free := gl.Strs(source)
	gl.ShaderSource(shader, 1, csources, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)
		infoLog := strings.Repeat("\x00", int(logLength+1))
		gl.GetShaderInfoLog(shader, logLength, nil, gl.Str(infoLog))
		return 0, fmt.Errorf("compile fail: %s", infoLog)
	}
	return shader, nil
}

// makeAtlas генерує текстурний атлас прямо в пам'яті
// 4 тайли по 16x16: трава, земля, камінь, пісок. Нам не потрібні
// файли на диску - простий процедурний шум виглядає цілком пристойно
func makeAtlas() uint32 {
	const tile = 16
	const tiles = 4
	// Базові кольори тайлів: R, G, B
	palette := [tiles][3]uint8{
		{86, 164, 74},   // трава
		{134, 96, 67},   // земля
		{128, 128, 128}, // камінь
		{219, 203, 158}, // пісок
	}

	pixels := make([]uint8, tile*tiles*tile*4)
	for t := 0; t < tiles; t++ {
		for y := 0; y < tile; y++ {
			for x := 0; x < tile; x++ {
				// Дешевий детермінований "шум" щоб тайли не були пласкими
				n := uint8((x*7 + y*13 + t*5) % 3 * 8)
				i := (y*(tile*tiles) + t*tile + x) * 4
				pixels[i+0] = palette[t][0] - n
				pixels[i+1] = palette[t][1] - n
				pixels[i+2] = palette[t][2] - n
				pixels[i+3] = 255
			}
		}
	}

	var tex uint32
	gl.GenTextures(1, &tex)
	gl.BindTexture(gl.TEXTURE_2D, tex)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA, tile*tiles, tile, 0,
		gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST_MIPMAP_LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	gl.GenerateMipmap(gl.TEXTURE_2D)
	gl.BindTexture(gl.TEXTURE_2D, 0)
	return tex
}
