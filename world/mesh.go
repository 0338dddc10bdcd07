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

// Йоу, чат! Сьогодні ми розберемо мешинг - як з кубиків зробити трикутники!
// GPU не знає що таке "блок", він малює трикутники. Тому для кожного
// блоку ми дивимось на 6 сусідів: якщо сусід - повітря, ця грань видима
// і їй потрібні два трикутники. Грані між двома твердими блоками
// не малюємо взагалі - їх все одно ніхто ніколи не побачить!

package world

// atlasTiles - скільки тайлів в ряд у текстурному атласі
const atlasTiles = 4

// faceDirs - зсуви до сусіда для кожної з 6 граней
// Порядок: +X, -X, +Y, -Y, +Z, -Z
var faceDirs = [6][3]int{
	{1, 0, 0}, {-1, 0, 0},
	{0, 1, 0}, {0, -1, 0},
	{0, 0, 1}, {0, 0, -1},
}

// faceCorners - чотири кути кожної грані відносно кута блоку
// Обхід проти годинникової стрілки якщо дивитись ззовні -
// це важливо, бо рендерер відсікає задні грані
var faceCorners = [6][4][3]float32{
	{{1, 0, 0}, {1, 1, 0}, {1, 1, 1}, {1, 0, 1}}, // +X
	{{0, 0, 1}, {0, 1, 1}, {0, 1, 0}, {0, 0, 0}}, // -X
	{{0, 1, 0}, {0, 1, 1}, {1, 1, 1}, {1, 1, 0}}, // +Y
	{{0, 0, 0}, {1, 0, 0}, {1, 0, 1}, {0, 0, 1}}, // -Y
	{{0, 0, 1}, {1, 0, 1}, {1, 1, 1}, {0, 1, 1}}, // +Z
	{{0, 0, 0}, {0, 1, 0}, {1, 1, 0}, {1, 0, 0}}, // -Z
}

// faceUVs - текстурні координати кутів грані (в межах одного тайла)
var faceUVs = [4][2]float32{{0, 1}, {0, 0}, {1, 0}, {1, 1}}

// quadIndices - як з 4 кутів грані зробити 2 трикутники
var quadIndices = [6]int{0, 1, 2, 0, 2, 3}

// BuildMesh будує вершинний буфер чанку
// Координати вершин локальні (0..16 відносно кута чанку),
// сусіди за межами чанку вважаються повітрям.
// Для чанку з самого повітря повертає nil - це нормально,
// такий чанк стане резидентним без жодного байта на GPU
func BuildMesh(b *Blocks) []Vertex {
	var verts []Vertex
	for y := 0; y < ChunkSize; y++ {
		for z := 0; z < ChunkSize; z++ {
			for x := 0; x < ChunkSize; x++ {
				blk := b.At(x, y, z)
				if blk == BlockAir {
					continue
				}
				for f, d := range faceDirs {
					nx, ny, nz := x+d[0], y+d[1], z+d[2]
					if inChunk(nx, ny, nz) && b.At(nx, ny, nz) != BlockAir {
						continue // грань закрита сусідом
					}
					verts = appendFace(verts, x, y, z, f, blk)
				}
			}
		}
	}
	return verts
}

// inChunk перевіряє чи координата всередині чанку
func inChunk(x, y, z int) bool {
	return x >= 0 && x < ChunkSize &&
		y >= 0 && y < ChunkSize &&
		z >= 0 && z < ChunkSize
}

// appendFace додає 6 вершин (2 трикутники) однієї грані
func appendFace(verts []Vertex, x, y, z, face int, blk Block) []Vertex {
	// Кожен тип блоку має свій тайл в атласі
	// Тайли лежать в один ряд, тому U зсувається на номер тайла
	tile := float32(blk-1) / atlasTiles
	for _, i := range quadIndices {
		c := faceCorners[face][i]
		uv := faceUVs[i]
		verts = append(verts, Vertex{
			X: float32(x) + c[0],
			Y: float32(y) + c[1],
			Z: float32(z) + c[2],
			U: tile + uv[0]/atlasTiles,
			V: uv[1],
		})
	}
	return verts
}
