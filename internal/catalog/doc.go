// Package catalog defines the timetabling entities (students, lecturers,
// courses, rooms, time slots and schedule entries), how each one is read from
// an uploaded row, and how each one is written to an export.
//
// Every importable entity is described by a [Definition] held in a
// [Registry]. A definition carries the export columns, the import [Schema]
// (header aliases, defaults and integer coercion) and a payload decoder for
// the JSON API.
package catalog
