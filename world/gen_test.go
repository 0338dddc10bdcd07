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

// Йоу, чат! Тестуємо генератор рельєфу!
// Найважливіша властивість - детермінізм: той самий сід має давати
// той самий світ, інакше чанки "мигтітимуть" при перезамовленні.

package world

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

func TestGenerateDeterministic(t *testing.T) {
	a := NewGenerator(zap.NewNop(), NewChunkStream(), rate.NewLimiter(rate.Inf, 1), 42)
	b := NewGenerator(zap.NewNop(), NewChunkStream(), rate.NewLimiter(rate.Inf, 1), 42)

	for _, pos := range []ChunkPos{{0, 0, 0}, {-3, 0, 7}, {100, 1, -100}} {
		pa, pb := a.Generate(pos), b.Generate(pos)
		if *pa.Blocks != *pb.Blocks {
			t.Errorf("chunk %v differs between runs with the same seed", pos)
		}
		if len(pa.Mesh) != len(pb.Mesh) {
			t.Errorf("chunk %v mesh differs: %d vs %d vertices",
				pos, len(pa.Mesh), len(pb.Mesh))
		}
	}
}

func TestGenerateSeedMatters(t *testing.T) {
	a := NewGenerator(zap.NewNop(), NewChunkStream(), rate.NewLimiter(rate.Inf, 1), 1)
	b := NewGenerator(zap.NewNop(), NewChunkStream(), rate.NewLimiter(rate.Inf, 1), 500)

	pos := ChunkPos{0, 0, 0}
	if *a.Generate(pos).Blocks == *b.Generate(pos).Blocks {
		t.Error("different seeds produced an identical chunk")
	}
}

func TestGenerateSkyChunk(t *testing.T) {
	// Рельєф не піднімається вище base + обидві амплітуди (22 блоки),
	// тому чанк на y=2 (блоки 32..47) - гарантовано саме повітря
	g := NewGenerator(zap.NewNop(), NewChunkStream(), rate.NewLimiter(rate.Inf, 1), 42)
	p := g.Generate(ChunkPos{0, 2, 0})
	if len(p.Mesh) != 0 {
		t.Errorf("sky chunk has %d vertices, want 0", len(p.Mesh))
	}
}

func TestGenerateGroundChunk(t *testing.T) {
	// Чанк на y=0 перетинає поверхню - меш зобов'язаний бути
	g := NewGenerator(zap.NewNop(), NewChunkStream(), rate.NewLimiter(rate.Inf, 1), 42)
	p := g.Generate(ChunkPos{0, 0, 0})
	if len(p.Mesh) == 0 {
		t.Fatal("ground chunk has no mesh")
	}
	if len(p.Mesh)%6 != 0 {
		t.Errorf("mesh length %d is not a whole number of faces", len(p.Mesh))
	}
}

func TestGeneratorRunProducesOnce(t *testing.T) {
	stream := NewChunkStream()
	g := NewGenerator(zap.NewNop(), stream, rate.NewLimiter(rate.Inf, 1), 42)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go g.Run(ctx)

	pos := ChunkPos{2, 0, 2}
	stream.SetPending([]ChunkPos{pos})

	// Чекаємо перший чанк
	deadline := time.Now().Add(5 * time.Second)
	var got ChunkPayload
	for {
		if p, ok := stream.TryPop(); ok {
			got = p
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("generator produced nothing")
		}
		time.Sleep(time.Millisecond)
	}
	if got.Pos != pos {
		t.Fatalf("want chunk %v, got %v", pos, got.Pos)
	}

	// Замовлення досі висить (рендерер його ще не замінив),
	// але генератор пам'ятає що вже виробив цю адресу
	time.Sleep(50 * time.Millisecond)
	if p, ok := stream.TryPop(); ok {
		t.Fatalf("generator produced chunk %v twice", p.Pos)
	}
}
