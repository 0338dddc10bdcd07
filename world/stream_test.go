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

// Йоу, чат! Тестуємо поштову скриньку і заливку чанків!
// Ніякого GPU тут немає - замість рендерера підставляємо фейковий
// завантажувач, який просто рахує виклики.

package world

import (
	"testing"
	"time"

	"go.uber.org/zap"
)

// fakeUploader вдає з себе рендерер: рахує заливки
// і може навмисно гальмувати, щоб тест бюджету мав що вичерпувати
type fakeUploader struct {
	calls int
	delay time.Duration
}

func (f *fakeUploader) UploadMesh(verts []Vertex) (array, buffer uint32) {
	f.calls++
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	return uint32(f.calls), uint32(f.calls)
}

// solidPayload - чанк з одним блоком, щоб меш був непорожній
func solidPayload(pos ChunkPos) ChunkPayload {
	blocks := new(Blocks)
	blocks.Set(8, 8, 8, BlockStone)
	return ChunkPayload{Pos: pos, Blocks: blocks, Mesh: BuildMesh(blocks)}
}

func TestTryPopEmpty(t *testing.T) {
	s := NewChunkStream()
	if _, ok := s.TryPop(); ok {
		t.Fatal("TryPop on empty stream returned a payload")
	}
}

func TestPushFullDrops(t *testing.T) {
	s := NewChunkStream()
	p := solidPayload(ChunkPos{0, 0, 0})
	for i := 0; i < streamBuffer; i++ {
		if !s.Push(p) {
			t.Fatalf("push %d rejected before buffer is full", i)
		}
	}
	// Буфер повний - пуш не блокується, а чесно відмовляє
	if s.Push(p) {
		t.Fatal("push into a full stream must fail")
	}
}

func TestPendingReplaced(t *testing.T) {
	s := NewChunkStream()
	if got := s.NextRequests(); len(got) != 0 {
		t.Fatalf("fresh stream has requests: %v", got)
	}

	s.SetPending([]ChunkPos{{1, 0, 0}, {2, 0, 0}})
	s.SetPending([]ChunkPos{{3, 0, 0}})

	// Другий список ЗАМІНЮЄ перший, а не доливається до нього
	got := s.NextRequests()
	if len(got) != 1 || got[0] != (ChunkPos{3, 0, 0}) {
		t.Fatalf("want [{3 0 0}], got %v", got)
	}
}

func TestDrainLoadedIdempotent(t *testing.T) {
	w := New(zap.NewNop(), 4)
	up := &fakeUploader{}
	pos := ChunkPos{1, 0, 1}

	// Генератор має право надіслати той самий чанк двічі -
	// дедуплікація наш обов'язок
	w.Stream().Push(solidPayload(pos))
	w.Stream().Push(solidPayload(pos))

	loaded := w.DrainLoaded(time.Second, up)
	if loaded != 1 {
		t.Errorf("want 1 loaded, got %d", loaded)
	}
	if up.calls != 1 {
		t.Errorf("want 1 upload, got %d", up.calls)
	}
	if w.ResidentCount() != 1 {
		t.Errorf("want 1 resident chunk, got %d", w.ResidentCount())
	}
}

func TestDrainLoadedBudget(t *testing.T) {
	w := New(zap.NewNop(), 4)
	up := &fakeUploader{delay: 20 * time.Millisecond}

	for i := int32(0); i < 5; i++ {
		w.Stream().Push(solidPayload(ChunkPos{i, 0, 0}))
	}

	// За 30мс при 20мс на заливку встигне одна-дві, решта чекає
	loaded := w.DrainLoaded(30*time.Millisecond, up)
	if loaded == 0 {
		t.Fatal("nothing loaded within budget")
	}
	if loaded == 5 {
		t.Fatal("budget did not stop the drain")
	}
	// Доливається строго префікс: перший замовлений - перший резидентний
	if _, missing := w.FrameChunks(600, 800, refDirs[0], ChunkPos{0, 0, 0}); missing == 0 {
		t.Error("some chunks must still be missing")
	}
	t.Log("loaded within budget:", loaded)

	// Наступний кадр доливає решту
	loaded += w.DrainLoaded(time.Second, up)
	if loaded != 5 {
		t.Errorf("want 5 loaded total, got %d", loaded)
	}
}

func TestDrainLoadedEmptyMesh(t *testing.T) {
	w := New(zap.NewNop(), 4)
	up := &fakeUploader{}
	pos := ChunkPos{0, 3, 0}

	// Чанк з самого повітря: меш nil, на GPU нічого не їде,
	// але резидентним він стати зобов'язаний - інакше його
	// замовлятимуть щокадру до кінця часів
	w.Stream().Push(ChunkPayload{Pos: pos, Blocks: new(Blocks), Mesh: nil})

	if loaded := w.DrainLoaded(time.Second, up); loaded != 1 {
		t.Fatalf("want 1 loaded, got %d", loaded)
	}
	if up.calls != 0 {
		t.Errorf("empty mesh must not touch the uploader, got %d calls", up.calls)
	}
	if w.ResidentCount() != 1 {
		t.Errorf("want 1 resident chunk, got %d", w.ResidentCount())
	}
}

func TestFrameChunksRequestsMissing(t *testing.T) {
	w := New(zap.NewNop(), 2)
	up := &fakeUploader{}
	center := ChunkPos{10, 0, -10}

	// Поки нічого не резидентне - малювати нічого, замовляємо все видиме
	draw, missing := w.FrameChunks(600, 800, refDirs[0], center)
	if len(draw) != 0 {
		t.Fatalf("nothing is resident yet, but draw list has %d entries", len(draw))
	}
	if missing == 0 {
		t.Fatal("no chunks requested")
	}
	wanted := w.Stream().NextRequests()
	if len(wanted) != missing {
		t.Fatalf("missing %d != requested %d", missing, len(wanted))
	}
	// Перше замовлення - чанк гравця
	if wanted[0] != center {
		t.Errorf("want player chunk %v first, got %v", center, wanted[0])
	}

	// Доливаємо чанк гравця і питаємо ще раз
	w.Stream().Push(solidPayload(center))
	w.DrainLoaded(time.Second, up)

	draw, missing2 := w.FrameChunks(600, 800, refDirs[0], center)
	if len(draw) != 1 || draw[0].Pos != center {
		t.Fatalf("want player chunk in draw list, got %v", draw)
	}
	if missing2 != missing-1 {
		t.Errorf("want %d missing, got %d", missing-1, missing2)
	}
}
