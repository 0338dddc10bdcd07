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

// Йоу, чат! Тестуємо наш м'який дедлайн!

package deadline

import (
	"context"
	"testing"
	"time"
)

// TestRun_CompletesBeforeDeadline перевіряє що швидка дія
// виконується повністю і дедлайн їй не заважає
func TestRun_CompletesBeforeDeadline(t *testing.T) {
	steps := 0
	Run(time.Second, func(ctx context.Context) {
		for i := 0; i < 10; i++ {
			select {
			case <-ctx.Done():
				return
			default:
			}
			steps++
		}
	})
	if steps != 10 {
		t.Errorf("fast action was cut short: %d of 10 steps", steps)
	}
}

// TestRun_CancelsSlowAction перевіряє що повільну дію зупиняють,
// а зроблена частина роботи зберігається (відкату немає)
func TestRun_CancelsSlowAction(t *testing.T) {
	const budget = 10 * time.Millisecond

	steps := 0
	start := time.Now()
	Run(budget, func(ctx context.Context) {
		// Нескінченний цикл - без скасування він би ніколи не вийшов
		for {
			select {
			case <-ctx.Done():
				return
			default:
			}
			steps++
			time.Sleep(time.Millisecond)
		}
	})
	elapsed := time.Since(start)

	if steps == 0 {
		t.Error("partial work was lost: zero steps recorded")
	}
	// Дія кооперативна, тому виходить майже одразу після дедлайну
	// Даємо великий запас бо CI бувають повільні
	if elapsed > budget+time.Second {
		t.Errorf("action ran way past the deadline: %v", elapsed)
	}
	t.Logf("cancelled after %d steps in %v", steps, elapsed)
}

// TestRun_ReturnsControl перевіряє що Run повертається нормально
// в обох випадках - перевищення дедлайну не є помилкою
func TestRun_ReturnsControl(t *testing.T) {
	done := false
	Run(time.Millisecond, func(ctx context.Context) {
		<-ctx.Done() // чекаємо дедлайн свідомо
		done = true
	})
	if !done {
		t.Error("Run returned before action observed cancellation")
	}
}
