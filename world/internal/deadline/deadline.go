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

// Йоу, чат! Сьогодні ми розберемо як не дати одній операції завісити кадр!
// Ідея проста: запускаємо дію прямо на поточній горутині, а збоку цокає
// таймер. Коли час вийшов - дії кажуть "стоп", і вона сама завершується
// на найближчій перевірці. Ніякого вбивства потоків - тільки кооперація!

package deadline

import (
	"context"
	"time"
)

// Run виконує action на поточній горутині з м'яким дедлайном d.
// Контекст скасовується коли час вийшов - це і є наш "спостерігач збоку"
// (таймер контексту живе в рантаймі, окремо від горутини з дією).
//
// Перевищення дедлайну - НЕ помилка. Все що дія встигла зробити,
// залишається як є, відкату немає. Тому сюди можна давати тільки дії,
// які безпечно кинути на півдорозі: ідемпотентні або поетапні.
// Якщо дія завершилась раніше - скасування вже ні на що не впливає.
//
// Дія має сама перевіряти ctx між дискретними кроками:
//
//	deadline.Run(time.Millisecond, func(ctx context.Context) {
//	    for {
//	        select {
//	        case <-ctx.Done():
//	            return
//	        default:
//	        }
//	        // ... один крок роботи ...
//	    }
//	})
func Run(d time.Duration, action func(ctx context.Context)) {
	ctx, cancel := context.WithTimeout(context.Background(), d)
	defer cancel()
	action(ctx)
}
