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

// Йоу, чат! Сьогодні ми розберемо як влаштований світ у нашому рендерері!
// World тримає резидентну мапу - всі чанки які вже залиті на GPU.
// Кожен кадр ми: (1) доливаємо готові чанки з каналу, але не довше
// ніж дозволяє бюджет часу, і (2) питаємо відсіювач що видно,
// малюємо резидентне і замовляємо відсутнє. Давайте розберемо!

package world

import (
	"context"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"FlowyCraft/world/internal/deadline"
)

// World - стан світу з боку рендерера
// Вся структура живе на потоці рендерингу: резидентна мапа
// змінюється тільки звідси, тому локи не потрібні.
// З генератором ми спілкуємось виключно через stream
type World struct {
	log      *zap.Logger                 // логер для відлагодження
	resident map[ChunkPos]*ResidentChunk // чанки які вже на GPU
	stream   *ChunkStream                // скринька до генератора
	culler   *culler                     // відсіювач видимості
}

// New створює світ з вказаною дальністю прогрузки
func New(logger *zap.Logger, renderDistance int32) *World {
	return &World{
		log:      logger,
		resident: make(map[ChunkPos]*ResidentChunk),
		stream:   NewChunkStream(),
		culler:   newCuller(renderDistance),
	}
}

// Stream повертає скриньку для генератора чанків
func (w *World) Stream() *ChunkStream {
	return w.stream
}

// ResidentCount повертає скільки чанків вже на GPU
func (w *World) ResidentCount() int {
	return len(w.resident)
}

// DrainLoaded доливає готові чанки з каналу на GPU, але не довше budget.
// Повертає скільки чанків стало резидентними за цей виклик.
//
// Правила заливки:
//   - канал порожній -> виходимо одразу, нічого не чекаємо
//   - координата вже резидентна -> викидаємо дублікат (генератор
//     має право виробляти застаріле, дедуплікуємо ми)
//   - меш порожній (чанк з самого повітря) -> позначаємо резидентним
//     БЕЗ жодного виклику GPU, щоб його не перезамовляли
//   - інакше заливаємо вершини і запам'ятовуємо хендли
//
// Час вийшов - зупиняємось навіть якщо в каналі ще щось є:
// решта долежить до наступного кадру. Це свідомий розмін:
// стабільний час кадру важливіший за миттєву появу чанків
func (w *World) DrainLoaded(budget time.Duration, up MeshUploader) (loaded int) {
	deadline.Run(budget, func(ctx context.Context) {
		for {
			select {
			case <-ctx.Done():
				return // бюджет кадру вичерпано
			default:
			}

			p, ok := w.stream.TryPop()
			if !ok {
				return // канал порожній
			}
			if _, ok := w.resident[p.Pos]; ok {
				continue // дублікат, мовчки викидаємо
			}

			rc := &ResidentChunk{Blocks: p.Blocks, Loaded: true}
			if len(p.Mesh) > 0 {
				rc.Array, rc.Buffer = up.UploadMesh(p.Mesh)
				rc.VertexCount = int32(len(p.Mesh))
			}
			w.resident[p.Pos] = rc
			loaded++

			w.log.Debug("Chunk resident",
				zap.Int32("x", p.Pos[0]),
				zap.Int32("y", p.Pos[1]),
				zap.Int32("z", p.Pos[2]),
				zap.Int32("vertices", rc.VertexCount))
		}
	})
	return loaded
}

// DrawChunk - один резидентний чанк у порядку малювання
type DrawChunk struct {
	Pos   ChunkPos       // абсолютна адреса чанку
	Chunk *ResidentChunk // хендли GPU буферів
}

// FrameChunks - головний запит кадру: що малювати і що замовити.
// center - чанк у якому зараз стоїть гравець, gaze - куди дивиться.
// Відсіювач віддає видимі зсуви відносно гравця (від ближчого до
// дальшого), ми переводимо їх в абсолютні адреси: резидентні чанки
// йдуть у список малювання, відсутні - у свіжий список замовлень,
// який ЗАМІНЮЄ попередній (це "що треба зараз", а не беклог)
func (w *World) FrameChunks(height, width int, gaze mgl32.Vec3, center ChunkPos) (draw []DrawChunk, missing int) {
	offsets := w.culler.visibleOffsets(height, width, gaze)

	var wanted []ChunkPos
	for _, off := range offsets {
		pos := center.Add(off)
		if rc, ok := w.resident[pos]; ok {
			if rc.VertexCount > 0 {
				draw = append(draw, DrawChunk{Pos: pos, Chunk: rc})
			}
			continue
		}
		wanted = append(wanted, pos)
	}

	w.stream.SetPending(wanted)
	return draw, len(wanted)
}
