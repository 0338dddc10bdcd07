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

// Йоу, чат! Сьогодні ми розберемо вектори нашої чанкової сітки!
// Весь світ порізаний на чанки, і кожен чанк має цілочисельну адресу (x, y, z).
// Цей пакет дає нам генеричний Vec3 - він працює і з int32 для адрес чанків,
// і з float64 коли треба порахувати відстань.

package grid

import (
	"math"

	"golang.org/x/exp/constraints"
)

// Vec3 - тривимірний вектор
// I може бути будь-яким числовим типом (int32, float64 тощо)
type Vec3[I constraints.Signed | constraints.Float] [3]I

// Add додає інший вектор до поточного
func (v Vec3[I]) Add(other Vec3[I]) Vec3[I] {
	return Vec3[I]{v[0] + other[0], v[1] + other[1], v[2] + other[2]}
}

// Sub віднімає інший вектор від поточного
func (v Vec3[I]) Sub(other Vec3[I]) Vec3[I] {
	return Vec3[I]{v[0] - other[0], v[1] - other[1], v[2] - other[2]}
}

// Mul множить вектор на скаляр
func (v Vec3[I]) Mul(i I) Vec3[I] { return Vec3[I]{v[0] * i, v[1] * i, v[2] * i} }

// Max повертає вектор з максимальними координатами
func (v Vec3[I]) Max(other Vec3[I]) Vec3[I] {
	return Vec3[I]{max(v[0], other[0]), max(v[1], other[1]), max(v[2], other[2])}
}

// Min повертає вектор з мінімальними координатами
func (v Vec3[I]) Min(other Vec3[I]) Vec3[I] {
	return Vec3[I]{min(v[0], other[0]), min(v[1], other[1]), min(v[2], other[2])}
}

// Norm повертає довжину вектора
func (v Vec3[I]) Norm() float64 { return sqrt(v[0]*v[0] + v[1]*v[1] + v[2]*v[2]) }

// Sum повертає суму всіх координат
func (v Vec3[I]) Sum() I { return v[0] + v[1] + v[2] }

// sqrt обчислює квадратний корінь з числа
// конвертує вхідне число у float64 для обчислення
func sqrt[T constraints.Signed | constraints.Float](v T) float64 {
	return math.Sqrt(float64(v))
}
