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

// Йоу, чат! Це трейсер кадрів - пишемо по одному JSON рядку на кадр
// у файл стиснутий zstd. Потім цей файл можна розпакувати і подивитись
// де просідав fps і скільки чанків догружалось. Якщо trace-file в
// конфізі порожній - трейсер nil і всі методи тихо нічого не роблять

package game

import (
	"encoding/json"
	"os"

	"github.com/google/uuid"
	"github.com/klauspost/compress/zstd"
)

// frameRecord - один рядок трейсу, один кадр
type frameRecord struct {
	Session  uuid.UUID `json:"session"`  // айді запуску гри
	Frame    uint64    `json:"frame"`    // номер кадру
	Dt       float64   `json:"dt"`       // тривалість кадру в секундах
	Loaded   int       `json:"loaded"`   // скільки чанків залили цього кадру
	Resident int       `json:"resident"` // скільки чанків всього в пам'яті
	Pending  int       `json:"pending"`  // скільки видимих чанків ще не готові
}

// tracer пише frameRecord-и через json.Encoder поверх zstd
type tracer struct {
	file    *os.File
	zw      *zstd.Encoder
	encoder *json.Encoder
	session uuid.UUID
}

// newTracer відкриває файл трейсу. Порожній шлях - валідний випадок,
// повертаємо nil і трейсинг просто вимкнений
func newTracer(path string, session uuid.UUID) (*tracer, error) {
	if path == "" {
		return nil, nil
	}
	file, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	zw, err := zstd.NewWriter(file)
	if err != nil {
		file.Close()
		return nil, err
	}
	return &tracer{
		file:    file,
		zw:      zw,
		encoder: json.NewEncoder(zw),
		session: session,
	}, nil
}

// Record записує один кадр. Encoder сам додає \n після кожного запису
func (t *tracer) Record(frame uint64, dt float64, loaded, resident, pending int) error {
	if t == nil {
		return nil
	}
	return t.encoder.Encode(frameRecord{
		Session:  t.session,
		Frame:    frame,
		Dt:       dt,
		Loaded:   loaded,
		Resident: resident,
		Pending:  pending,
	})
}

// Close скидає буфери zstd і закриває файл
// Без Close хвіст трейсу залишиться в буфері і пропаде
func (t *tracer) Close() error {
	if t == nil {
		return nil
	}
	if err := t.zw.Close(); err != nil {
		t.file.Close()
		return err
	}
	return t.file.Close()
}
