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

// Йоу, чат! Сьогодні ми розберемо генератор чанків!
// Він крутиться у власній горутині: читає список замовлень від
// рендерера, будує рельєф, меше його і штовхає готові чанки в канал.
// Рендерер НІКОЛИ не чекає на генератор - якщо чанк ще не готовий,
// він просто лишається в замовленнях до наступного кадру.

package world

import (
	"context"
	"math"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// genIdleDelay - скільки генератор спить коли замовлень немає
// Рендерер публікує новий список раз на кадр, тож частіше
// перевіряти немає сенсу
const genIdleDelay = 5 * time.Millisecond

// Generator виробляє чанки у фоні
// produced захищати не треба - його читає і пише тільки
// горутина самого генератора
type Generator struct {
	log      *zap.Logger           // логер для відлагодження
	stream   *ChunkStream          // скринька до рендерера
	limiter  *rate.Limiter         // обмежувач темпу генерації
	terrain  terrain               // параметри рельєфу
	produced map[ChunkPos]struct{} // що вже вироблено
}

// NewGenerator створює генератор
// limiter обмежує скільки чанків за період можна виробити -
// без нього генерація з'їдає CPU і фризить усе інше
func NewGenerator(logger *zap.Logger, stream *ChunkStream, limiter *rate.Limiter, seed int64) *Generator {
	return &Generator{
		log:      logger,
		stream:   stream,
		limiter:  limiter,
		terrain:  newTerrain(seed),
		produced: make(map[ChunkPos]struct{}),
	}
}

// Run - головний цикл генератора, запускається через go gen.Run(ctx)
// Зупиняється тільки через скасування контексту
func (g *Generator) Run(ctx context.Context) {
	for {
		busy := false
		// Беремо поточний список замовлень
		// Він може бути застарілим на кадр-другий - не страшно,
		// зайві чанки рендерер просто викине при дедуплікації
		for _, pos := range g.stream.NextRequests() {
			if ctx.Err() != nil {
				return
			}
			if _, ok := g.produced[pos]; ok {
				continue // вже виробляли
			}
			// Чекаємо дозволу від обмежувача
			if err := g.limiter.Wait(ctx); err != nil {
				return
			}

			payload := g.Generate(pos)
			// Канал повний? Не позначаємо як вироблений -
			// рендерер перезамовить, і ми спробуємо ще раз
			if !g.stream.Push(payload) {
				g.log.Debug("Chunk dropped, channel full",
					zap.Int32("x", pos[0]),
					zap.Int32("y", pos[1]),
					zap.Int32("z", pos[2]))
				continue
			}
			g.produced[pos] = struct{}{}
			busy = true
		}

		if !busy {
			// Замовлень немає - спимо, але слухаємо скасування
			select {
			case <-ctx.Done():
				return
			case <-time.After(genIdleDelay):
			}
		}
	}
}

// Generate будує один чанк: воксельні дані плюс готовий меш
// Детермінований: однакові (сід, адреса) = однаковий чанк
func (g *Generator) Generate(pos ChunkPos) ChunkPayload {
	blocks := g.terrain.fill(pos)
	return ChunkPayload{
		Pos:    pos,
		Blocks: blocks,
		Mesh:   BuildMesh(blocks),
	}
}

// terrain - параметри синусоїдного рельєфу
// Сід зсуває фази хвиль, тому різні сіди дають різні світи
type terrain struct {
	phaseX, phaseZ float64
}

// Константи рельєфу, в блоках світових координат
const (
	terrainBase = 12.0 // середній рівень поверхні
	terrainAmpX = 6.0  // амплітуда хвиль по X
	terrainAmpZ = 4.0  // амплітуда хвиль по Z
	sandLine    = 9    // нижче цієї висоти замість трави пісок
	dirtDepth   = 3    // шарів землі під поверхнею
)

func newTerrain(seed int64) terrain {
	return terrain{
		phaseX: float64(seed%1024) * 0.37,
		phaseZ: float64(seed%2048) * 0.19,
	}
}

// height повертає висоту поверхні у світових координатах (wx, wz)
// Синуси замість шуму Перліна - нам важлива форма конвеєра,
// а не краса рельєфу
func (t terrain) height(wx, wz int) int {
	h := terrainBase +
		terrainAmpX*math.Sin(float64(wx)/9.0+t.phaseX) +
		terrainAmpZ*math.Cos(float64(wz)/7.0+t.phaseZ)
	return int(math.Floor(h))
}

// fill заповнює блоки чанку за адресою pos
// Чанки вище рельєфу виходять повністю порожніми (саме повітря) -
// це нормальні чанки, вони резидентними стають без меша
func (t terrain) fill(pos ChunkPos) *Blocks {
	blocks := new(Blocks)
	baseX := int(pos[0]) * ChunkSize
	baseY := int(pos[1]) * ChunkSize
	baseZ := int(pos[2]) * ChunkSize

	for x := 0; x < ChunkSize; x++ {
		for z := 0; z < ChunkSize; z++ {
			surface := t.height(baseX+x, baseZ+z)
			for y := 0; y < ChunkSize; y++ {
				wy := baseY + y
				switch {
				case wy > surface:
					// повітря, масив і так нульовий
				case wy == surface && surface < sandLine:
					blocks.Set(x, y, z, BlockSand)
				case wy == surface:
					blocks.Set(x, y, z, BlockGrass)
				case wy >= surface-dirtDepth:
					blocks.Set(x, y, z, BlockDirt)
				default:
					blocks.Set(x, y, z, BlockStone)
				}
			}
		}
	}
	return blocks
}
