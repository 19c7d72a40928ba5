package history

import "errors"

var (
	// ErrStorageNotAvailable indicates the storage backend is unavailable
	ErrStorageNotAvailable = errors.New("history storage is unavailable")

	// ErrRecordValidation indicates record validation failed
	ErrRecordValidation = errors.New("history record validation failed")

	// ErrDuplicateRecord indicates a record with the same ID already exists
	ErrDuplicateRecord = errors.New("history record already exists")

	// ErrRecordNotFound indicates no record matched the lookup
	ErrRecordNotFound = errors.New("history record not found")

	// ErrStorageTimeout indicates a storage operation timed out
	ErrStorageTimeout = errors.New("history storage operation timed out")
)
