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

// Йоу, чат! Сьогодні ми розберемо поштову скриньку між потоками!
// Генератор чанків працює у своїй горутині, а рендерер - у своїй,
// і їм треба обмінюватися даними не блокуючи один одного.
// Канал несе готові чанки в один бік, а атомарний слот несе
// список "що нам зараз треба" у зворотний.

package world

import (
	"sync/atomic"
)

// streamBuffer - місткість каналу готових чанків
// Якщо рендерер не встигає забирати (канал повний) - генератор
// просто викидає чанк, і рендерер перезамовить його наступним кадром
const streamBuffer = 256

// ChunkStream - двостороння поштова скринька між генератором і рендерером.
// Канал payloads безпечний для конкурентного пушу, читання з нього
// неблокуюче. Слот pending рендерер атомарно перезаписує раз на кадр,
// генератор читає у своєму темпі - може побачити застарілий список,
// але ніколи не порваний
type ChunkStream struct {
	payloads chan ChunkPayload          // готові чанки: генератор -> рендерер
	pending  atomic.Pointer[[]ChunkPos] // замовлення: рендерер -> генератор
}

// NewChunkStream створює скриньку з порожнім списком замовлень
func NewChunkStream() *ChunkStream {
	s := &ChunkStream{
		payloads: make(chan ChunkPayload, streamBuffer),
	}
	s.pending.Store(new([]ChunkPos))
	return s
}

// Push кладе готовий чанк у канал, не блокуючись
// false = канал повний, чанк викинуто (його перезамовлять)
func (s *ChunkStream) Push(p ChunkPayload) bool {
	select {
	case s.payloads <- p:
		return true
	default:
		return false
	}
}

// TryPop забирає наступний готовий чанк, не блокуючись
// false = канал порожній, приходьте наступного кадру
func (s *ChunkStream) TryPop() (ChunkPayload, bool) {
	select {
	case p := <-s.payloads:
		return p, true
	default:
		return ChunkPayload{}, false
	}
}

// SetPending публікує свіжий список потрібних чанків
// Список ЗАМІНЮЄТЬСЯ, а не доливається: він означає
// "що потрібно станом на цей кадр", а не беклог
func (s *ChunkStream) SetPending(wanted []ChunkPos) {
	s.pending.Store(&wanted)
}

// NextRequests повертає поточний список замовлень
// Викликається генератором; слайс не можна змінювати -
// рендерер вже міг опублікувати новий, а цей ще хтось читає
func (s *ChunkStream) NextRequests() []ChunkPos {
	return *s.pending.Load()
}
