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

// Йоу, чат! Сьогодні ми розберемо найцікавішу частину рендерера -
// як вирішити які чанки взагалі видно з камери!
// Фішка в тому, що набір видимих зсувів залежить тільки від напрямку
// погляду і розміру вікна, а НЕ від позиції камери. Тому ми округлюємо
// напрямок до найближчого з 20 опорних напрямків і кешуємо результат -
// поки камера не повернулась далеко, все береться з кешу за O(1)!

package world

import (
	"math"
	"sort"

	"github.com/go-gl/mathgl/mgl32"
)

const (
	// cullFOV - кут огляду для відсіювання, в градусах
	// Він СПЕЦІАЛЬНО набагато ширший за кут камери (45):
	// округлення напрямку дає похибку до ~37 градусів, плюс ми
	// перевіряємо тільки центр чанку. Запас гарантує що ми ніколи
	// не відсієм чанк який камера насправді бачить - краще
	// намалювати зайве, ніж мати діри у світі
	cullFOV = 130

	// eyeBackoff - на скільки чанків око відсунуте назад від початку
	// координат уздовж округленого погляду. Завдяки цьому чанк
	// у якому стоїть гравець завжди всередині фрустума
	eyeBackoff = 2

	// cullNear - ближня площина відсікання, в чанках
	cullNear = 0.1
)

// refDirs - 20 опорних напрямків, рівномірно розкиданих по сфері
// Це вершини додекаедра: (±1,±1,±1), (0,±1/φ,±φ) і всі циклічні
// перестановки, де φ - золотий перетин. Заповнюється в init()
var refDirs []mgl32.Vec3

// init будує таблицю опорних напрямків
// Викликається автоматично при старті програми
func init() {
	const phi = math.Phi // золотий перетин, ~1.618

	var raw [][3]float64
	// Вісім вершин куба (±1,±1,±1)
	for _, x := range [2]float64{-1, 1} {
		for _, y := range [2]float64{-1, 1} {
			for _, z := range [2]float64{-1, 1} {
				raw = append(raw, [3]float64{x, y, z})
			}
		}
	}
	// Дванадцять вершин (0, ±1/φ, ±φ) з циклічними перестановками
	for _, a := range [2]float64{-1 / phi, 1 / phi} {
		for _, b := range [2]float64{-phi, phi} {
			raw = append(raw,
				[3]float64{0, a, b},
				[3]float64{b, 0, a},
				[3]float64{a, b, 0})
		}
	}

	// Нормалізуємо: всі вершини лежать на сфері радіуса sqrt(3)
	for _, v := range raw {
		n := math.Sqrt(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])
		refDirs = append(refDirs, mgl32.Vec3{
			float32(v[0] / n),
			float32(v[1] / n),
			float32(v[2] / n),
		})
	}
}

// quantizeGaze округлює довільний напрямок погляду до індексу
// найближчого опорного напрямку (мінімальна Евклідова відстань)
func quantizeGaze(gaze mgl32.Vec3) int {
	best := 0
	bestDist := float32(math.MaxFloat32)
	for i, ref := range refDirs {
		d := gaze.Sub(ref).LenSqr()
		if d < bestDist {
			best = i
			bestDist = d
		}
	}
	return best
}

// cullKey - ключ кешу видимості
// Набір видимих зсувів однозначно визначається розміром вікна
// (він задає пропорції фрустума) і округленим напрямком
type cullKey struct {
	height, width int
	dir           int
}

// culler вирішує які зсуви чанків потрапляють у фрустум камери.
// Кеш заповнюється ліниво і ніколи не чиститься: ключів максимум
// 20 напрямків на кожен розмір вікна, це копійки пам'яті.
// Працює ТІЛЬКИ з потоку рендерингу - кеш не має локів
type culler struct {
	renderDistance int32
	cache          map[cullKey][]ChunkPos
}

// newCuller створює відсіювач для заданої дальності прогрузки
func newCuller(renderDistance int32) *culler {
	if renderDistance < 0 {
		renderDistance = 0
	}
	return &culler{
		renderDistance: renderDistance,
		cache:          make(map[cullKey][]ChunkPos),
	}
}

// visibleOffsets повертає зсуви чанків (відносно чанку гравця),
// які видно при погляді gaze у вікні height x width.
// Результат відсортований від ближчого до дальшого - цей порядок
// задає і порядок малювання, і пріоритет замовлення чанків
func (c *culler) visibleOffsets(height, width int, gaze mgl32.Vec3) []ChunkPos {
	key := cullKey{height: height, width: width, dir: quantizeGaze(gaze)}
	// Кеш-хіт: віддаємо як є, без перерахунку і пересортування
	if cached, ok := c.cache[key]; ok {
		return cached
	}

	// Кеш-міс: будуємо фрустум від округленого напрямку.
	// Око стоїть позаду центру нульового чанку, дивиться на нього -
	// тому нульовий чанк гарантовано всередині
	gq := refDirs[key.dir]
	center := mgl32.Vec3{0.5, 0.5, 0.5}
	eye := center.Sub(gq.Mul(eyeBackoff))
	view := mgl32.LookAtV(eye, center, mgl32.Vec3{0, 1, 0})

	// Дальня площина з запасом покриває весь куб дальності
	far := float32(eyeBackoff + math.Sqrt(3)*float64(c.renderDistance+1))
	aspect := float32(width) / float32(height)
	proj := mgl32.Perspective(mgl32.DegToRad(cullFOV), aspect, cullNear, far)
	viewProj := proj.Mul4(view)

	// Перебираємо всі зсуви в кубі дальності і лишаємо ті,
	// чий центр потрапляє в канонічний об'єм [-1,1]^3
	var visible []ChunkPos
	r := c.renderDistance
	for x := -r; x <= r; x++ {
		for y := -r; y <= r; y++ {
			for z := -r; z <= r; z++ {
				p := viewProj.Mul4x1(mgl32.Vec4{
					float32(x) + 0.5,
					float32(y) + 0.5,
					float32(z) + 0.5,
					1,
				})
				w := p.W()
				if w <= 0 {
					continue // позаду ока
				}
				if abs32(p.X()) <= w && abs32(p.Y()) <= w && abs32(p.Z()) <= w {
					visible = append(visible, ChunkPos{x, y, z})
				}
			}
		}
	}

	// Сортуємо від центру до краю - ближчі чанки малюються
	// і замовляються першими
	sort.SliceStable(visible, func(i, j int) bool {
		return visible[i].Norm() < visible[j].Norm()
	})

	c.cache[key] = visible
	return visible
}

// abs32 - модуль для float32, щоб не конвертувати туди-сюди
func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
