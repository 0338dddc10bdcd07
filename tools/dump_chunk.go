package main

import (
	"flag"
	"fmt"

	"FlowyCraft/world"
)

// Інструмент для розробки: генерує один чанк і друкує статистику
// Зручно перевіряти рельєф і мешер без запуску вікна
func main() {
	x := flag.Int("x", 0, "chunk x")
	y := flag.Int("y", 0, "chunk y")
	z := flag.Int("z", 0, "chunk z")
	seed := flag.Int64("seed", 1337, "terrain seed")
	flag.Parse()

	pos := world.ChunkPos{int32(*x), int32(*y), int32(*z)}
	payload := world.NewGenerator(nil, world.NewChunkStream(), nil, *seed).Generate(pos)

	// Рахуємо блоки по типах
	var counts [5]int
	for by := 0; by < world.ChunkSize; by++ {
		for bz := 0; bz < world.ChunkSize; bz++ {
			for bx := 0; bx < world.ChunkSize; bx++ {
				counts[payload.Blocks.At(bx, by, bz)]++
			}
		}
	}

	fmt.Printf("chunk (%d, %d, %d) seed %d\n", *x, *y, *z, *seed)
	fmt.Printf("  air %d, grass %d, dirt %d, stone %d, sand %d\n",
		counts[world.BlockAir], counts[world.BlockGrass],
		counts[world.BlockDirt], counts[world.BlockStone], counts[world.BlockSand])
	fmt.Printf("  mesh: %d vertices (%d triangles, %d faces)\n",
		len(payload.Mesh), len(payload.Mesh)/3, len(payload.Mesh)/6)
}
