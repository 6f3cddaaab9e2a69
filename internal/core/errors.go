package core

import (
	"errors"

	"github.com/JonMunkholm/timetable/internal/store"
)

var (
	ErrUnknownEntity      = errors.New("unknown entity")
	ErrReadOnlyEntity     = errors.New("entity is read-only")
	ErrRecordNotFound     = store.ErrNotFound
	ErrDuplicateKey       = store.ErrDuplicate
	ErrKeyChanged         = errors.New("record key cannot change")
	ErrInvalidPayload     = errors.New("invalid payload")
	ErrInvalidRequest     = errors.New("invalid request")
	ErrNoFile             = errors.New("no file provided")
	ErrFileTooLarge       = errors.New("file too large")
	ErrSessionNotFound    = errors.New("import session not found")
	ErrInvalidTransition  = errors.New("invalid import step transition")
	ErrImportNotSupported = errors.New("entity does not accept imports")
)
