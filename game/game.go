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

// Йоу, чат! Це серце гри - головний цикл кадрів!
// Кожен кадр робить одне й те саме: опитати ввід, посунути камеру,
// долити готові чанки на GPU в межах бюджету, порахувати видимі чанки,
// намалювати їх і показати кадр. Генератор чанків крутиться в окремій
// горутині і спілкується з нами через канал - рендер потік ніколи не чекає

package game

import (
	"context"
	"math"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"FlowyCraft/render"
	"FlowyCraft/world"
)

// Дефолти для полів які користувач не заповнив у конфігу
const (
	defaultWidth       = 1280
	defaultHeight      = 720
	defaultTitle       = "FlowyCraft"
	defaultFOV         = 45.0
	defaultDistance    = 4
	defaultSpeed       = 12.0
	defaultSensitivity = 0.1
	defaultDrainBudget = "1ms"
)

// Звідки стартує камера: трохи вище рельєфу, посеред нульового чанку
var spawnPos = mgl32.Vec3{8, 24, 8}

// Game тримає всі підсистеми разом
type Game struct {
	log    *zap.Logger
	config Config

	renderer *render.Renderer
	camera   *render.Camera
	world    *world.World
	gen      *world.Generator
	tracer   *tracer
}

// NewGame збирає гру: нормалізує конфіг, створює вікно і OpenGL,
// світ, генератор і трейсер. Помилки тут фатальні - без графіки
// або трейсу який попросили грі нема чого робити
func NewGame(logger *zap.Logger, c Config, session uuid.UUID) *Game {
	normalizeConfig(&c)

	renderer, err := render.NewRenderer(logger, c.WindowWidth, c.WindowHeight, c.WindowTitle)
	if err != nil {
		logger.Fatal("Create renderer fail", zap.Error(err))
	}

	camera := render.NewCamera(spawnPos, c.MoveSpeed, c.MouseSensitivity)
	renderer.Window().SetCursorPosCallback(func(_ *glfw.Window, x, y float64) {
		camera.HandleMouse(x, y)
	})

	w := world.New(logger, c.RenderDistance)
	gen := world.NewGenerator(logger, w.Stream(), c.ChunkGenLimiter.Limiter(), c.Seed)

	tr, err := newTracer(c.TraceFile, session)
	if err != nil {
		logger.Fatal("Create tracer fail", zap.Error(err))
	}

	return &Game{
		log:      logger,
		config:   c,
		renderer: renderer,
		camera:   camera,
		world:    w,
		gen:      gen,
		tracer:   tr,
	}
}

// Run крутить головний цикл поки вікно не закриють
// Генератор запускаємо у фоні і гасимо через контекст при виході
func (g *Game) Run() {
	defer g.renderer.Close()
	defer func() {
		if err := g.tracer.Close(); err != nil {
			g.log.Error("Close trace fail", zap.Error(err))
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go g.gen.Run(ctx)

	g.log.Info("Frame loop start",
		zap.Int32("renderDistance", g.config.RenderDistance),
		zap.Duration("drainBudget", g.config.DrainBudget.Duration))

	var frame uint64
	lastTime := glfw.GetTime()
	for !g.renderer.ShouldClose() {
		glfw.PollEvents()

		now := glfw.GetTime()
		dt := now - lastTime
		lastTime = now

		g.camera.Move(g.renderer.Window(), dt)

		// Розмір буфера кадру питаємо щокадру - вікно могли розтягнути
		width, height := g.renderer.FramebufferSize()
		if width == 0 || height == 0 {
			// Вікно згорнуте, малювати нема куди
			continue
		}

		proj := mgl32.Perspective(
			mgl32.DegToRad(float32(g.config.FieldOfView)),
			float32(width)/float32(height),
			0.1, g.farPlane())
		g.renderer.BeginFrame(g.camera.View(), proj, width, height)

		// Спершу доливаємо готові чанки - в межах бюджету часу,
		// щоб заливка буферів не з'їла весь кадр
		loaded := g.world.DrainLoaded(g.config.DrainBudget.Duration, g.renderer)

		// Потім питаємо світ що видно з поточної позиції
		// Відсутні чанки він сам замовить у генератора
		draw, missing := g.world.FrameChunks(height, width, g.camera.Gaze(), g.playerChunk())
		for _, dc := range draw {
			g.renderer.DrawChunk(dc)
		}

		if err := g.tracer.Record(frame, dt, loaded, g.world.ResidentCount(), missing); err != nil {
			g.log.Error("Write trace fail", zap.Error(err))
		}
		frame++

		g.renderer.EndFrame()
	}

	g.log.Info("Frame loop stop", zap.Uint64("frames", frame))
}

// playerChunk - в якому чанку зараз камера
// floor а не цілочисельне ділення, бо координати бувають від'ємні
func (g *Game) playerChunk() world.ChunkPos {
	p := g.camera.Position
	return world.ChunkPos{
		int32(math.Floor(float64(p.X()) / world.ChunkSize)),
		int32(math.Floor(float64(p.Y()) / world.ChunkSize)),
		int32(math.Floor(float64(p.Z()) / world.ChunkSize)),
	}
}

// farPlane - дальня площина проєкції
// Діагональ куба видимості плюс запас на один чанк, щоб кутові
// чанки не зрізались
func (g *Game) farPlane() float32 {
	r := float64(g.config.RenderDistance + 1)
	return float32(r * world.ChunkSize * math.Sqrt(3))
}

// normalizeConfig підставляє дефолти замість нулів
// Порожній config.toml має давати робочу гру, а не чорний екран
func normalizeConfig(c *Config) {
	if c.WindowWidth <= 0 {
		c.WindowWidth = defaultWidth
	}
	if c.WindowHeight <= 0 {
		c.WindowHeight = defaultHeight
	}
	if c.WindowTitle == "" {
		c.WindowTitle = defaultTitle
	}
	if c.FieldOfView <= 0 {
		c.FieldOfView = defaultFOV
	}
	if c.RenderDistance <= 0 {
		c.RenderDistance = defaultDistance
	}
	if c.MoveSpeed <= 0 {
		c.MoveSpeed = defaultSpeed
	}
	if c.MouseSensitivity <= 0 {
		c.MouseSensitivity = defaultSensitivity
	}
	if c.DrainBudget.Duration <= 0 {
		_ = c.DrainBudget.UnmarshalText([]byte(defaultDrainBudget))
	}
	if c.ChunkGenLimiter.N <= 0 {
		c.ChunkGenLimiter = Limiter{Every: duration{0}, N: math.MaxInt32}
	}
}
