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

// Йоу, чат! Сьогодні ми розберемо з чого складається чанк!
// Чанк - це куб 16x16x16 блоків. Світ нескінченний, але порізаний
// на такі куби, і кожен має цілочисельну адресу в сітці чанків.
// Генератор виробляє чанки у фоні, а рендерер заливає їх на GPU.

package world

import (
	"FlowyCraft/world/internal/grid"
)

// ChunkSize - розмір чанку в блоках по кожній осі
// 16 - класика: достатньо дрібно щоб швидко догенеровувати світ,
// і достатньо крупно щоб не плодити мільйон draw call-ів
const ChunkSize = 16

// ChunkPos - адреса чанку в сітці чанків
// Блок з світовими координатами (wx, wy, wz) живе в чанку
// (floor(wx/16), floor(wy/16), floor(wz/16))
type ChunkPos = grid.Vec3[int32]

// Block - тип блоку, один байт на блок
type Block uint8

// Всі типи блоків які вміє генерувати наш рельєф
const (
	BlockAir   Block = iota // повітря, не рендериться
	BlockGrass              // трава - верхній шар
	BlockDirt               // земля - кілька шарів під травою
	BlockStone              // камінь - все що глибше
	BlockSand               // пісок - низини
)

// Blocks - вміст чанку, плоский масив 16*16*16 блоків
// Індексація: x + z*16 + y*256 (y - зовнішній вимір, тож шари
// одної висоти лежать поруч у пам'яті)
type Blocks [ChunkSize * ChunkSize * ChunkSize]Block

// blockIndex переводить локальні координати блоку в індекс масиву
func blockIndex(x, y, z int) int {
	return x + z*ChunkSize + y*ChunkSize*ChunkSize
}

// At повертає блок за локальними координатами (0..15 по кожній осі)
func (b *Blocks) At(x, y, z int) Block {
	return b[blockIndex(x, y, z)]
}

// Set записує блок за локальними координатами
func (b *Blocks) Set(x, y, z int, v Block) {
	b[blockIndex(x, y, z)] = v
}

// Vertex - одна вершина меша чанку, 20 байт
// Позиція локальна відносно кута чанку (0..16),
// UV - координати тайла в текстурному атласі
type Vertex struct {
	X, Y, Z float32 // позиція
	U, V    float32 // текстурні координати
}

// ChunkPayload - готовий чанк від генератора
// Після створення ніколи не змінюється: власність передається
// генератор -> канал -> резидентна мапа, і все
type ChunkPayload struct {
	Pos    ChunkPos // адреса чанку
	Blocks *Blocks  // воксельні дані (для ремешингу в майбутньому)
	Mesh   []Vertex // плоский вершинний буфер, готовий до заливки
}

// ResidentChunk - чанк який вже живе на GPU
// Створюється рівно один раз на координату і ніколи не перезаписується.
// Для повністю порожніх чанків (самe повітря) Array/Buffer лишаються
// нульовими, а VertexCount = 0 - такий чанк резидентний, але не малюється
type ResidentChunk struct {
	Blocks      *Blocks // воксельні дані (читання, не потрібне для рендеру)
	Array       uint32  // VAO
	Buffer      uint32  // VBO з вершинами
	VertexCount int32   // скільки вершин малювати
	Loaded      bool    // чанк долетів до GPU
}

// MeshUploader - контракт з графічним шаром
// Світ не знає про OpenGL: він просто віддає вершини,
// а шар рендерингу повертає хендли буферів
type MeshUploader interface {
	// UploadMesh заливає вершини на GPU зі static-draw підказкою
	// (bind -> виділити і заповнити -> unbind) і повертає хендли
	UploadMesh(verts []Vertex) (array, buffer uint32)
}
