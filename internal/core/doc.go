// Package core provides the business logic of the timetable data service.
//
// It holds all domain operations independent of any transport. The HTTP
// server in internal/web and the timetablectl CLI both drive a [Service].
//
// # Entities
//
// Entity definitions live in internal/catalog and are looked up through a
// [catalog.Registry]. [Service.List] searches and pages an entity;
// [Service.Create], [Service.Update] and [Service.Delete] validate payloads
// and refuse to touch read-only entities such as the schedule.
//
// # Imports
//
// An import is a session that walks through three steps:
//
//  1. Upload: the client sends a CSV or Excel file ([Service.StartImport]).
//     The file is parsed, every row is mapped through the entity schema and
//     the outcome is kept on the session.
//  2. Preview: the client shows the accepted and skipped counts and a sample
//     of records. [Service.ResetImport] goes back to upload.
//  3. Done: [Service.ConfirmImport] inserts the accepted records. Records
//     whose key already exists are dropped without error.
//
// Parsing is bounded by an [ImportLimiter]. Idle sessions expire after the
// configured TTL.
//
// # Exports
//
// [Service.Export] collects records for a scope (every record or the page
// currently shown) and returns an [ExportJob] carrying the filename and MIME
// type. Rendering is done by internal/tabular.
//
// # Error Handling
//
// Technical errors are mapped to user-friendly messages using [MapError].
// Each error category has a unique code for support reference:
//
//   - FILE001-FILE005: File errors (size, format, empty, unreadable)
//   - IMP001-IMP004: Import errors (no valid rows, session, step)
//   - ENT001-ENT005: Entity errors (unknown, not found, duplicate key)
//   - VAL001-VAL003: Validation errors (payload, export format, parameters)
//   - UPL001-UPL003: Upload errors (busy, cancelled, timeout)
package core
