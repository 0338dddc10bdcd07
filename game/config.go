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

// Йоу, чат! Зараз розберемо конфігурацію нашого рендерера!
// Тут зберігаються всі налаштування які можна змінити без перекомпіляції

package game

import (
	// time потрібен для роботи з часом
	"time"

	// rate використовуємо для обмеження навантаження
	"golang.org/x/time/rate"
)

// Config - головна структура з налаштуваннями рендерера
// Поля з тегом `toml` читаються з конфіг файлу
type Config struct {
	// Розмір вікна при старті, в пікселях
	// Вікно можна розтягувати - проєкція перерахується сама
	WindowWidth  int `toml:"window-width"`
	WindowHeight int `toml:"window-height"`

	// Заголовок вікна
	WindowTitle string `toml:"window-title"`

	// Кут огляду камери по вертикалі, в градусах
	// Класика - 45, для "ширшого" огляду можна 70-90
	FieldOfView float64 `toml:"field-of-view"`

	// На яку відстань (в чанках) видно світ
	// 1 чанк = 16 блоків, тобто при значенні 4 видно на 64 блоки
	RenderDistance int32 `toml:"render-distance"`

	// Швидкість польоту камери, в блоках за секунду
	MoveSpeed float64 `toml:"move-speed"`

	// Чутливість миші - скільки градусів повороту на піксель руху
	MouseSensitivity float64 `toml:"mouse-sensitivity"`

	// Скільки часу за кадр можна витратити на заливку чанків на GPU
	// Це захист від фрізів: не встигли - доллємо наступного кадру
	// Наприклад "1ms"
	DrainBudget duration `toml:"drain-budget"`

	// Сід для генерації рельєфу
	// Однаковий сід = однаковий світ
	Seed int64 `toml:"seed"`

	// Шлях до файлу фрейм-трейсу (JSONL стиснутий через zstd)
	// Порожній рядок = трейс вимкнено
	TraceFile string `toml:"trace-file"`

	// Обмежувач навантаження:
	// ChunkGenLimiter - скільки чанків генератор може виробити за період
	ChunkGenLimiter Limiter `toml:"chunk-gen-limiter"`
}

// Limiter - структура для обмеження частоти дій
// Наприклад: не більше 100 чанків кожні 5 секунд
type Limiter struct {
	// Як часто можна виконувати дію
	// Наприклад "5s" = кожні 5 секунд
	Every duration `toml:"every"`

	// Скільки разів можна виконати дію за цей період
	N int
}

// Limiter перетворює наші налаштування в готовий rate.Limiter
// rate.Limiter - це структура з бібліотеки golang.org/x/time/rate
// Вона стежить щоб не перевищувати ліміти
func (l *Limiter) Limiter() *rate.Limiter {
	return rate.NewLimiter(rate.Every(l.Every.Duration), l.N)
}

// duration - обгортка навколо time.Duration
// Потрібна щоб читати тривалість з конфіг файлу
type duration struct {
	time.Duration
}

// UnmarshalText перетворює текст з конфігу в time.Duration
// Наприклад "5s" -> 5 секунд
func (d *duration) UnmarshalText(text []byte) (err error) {
	d.Duration, err = time.ParseDuration(string(text))
	return
}
