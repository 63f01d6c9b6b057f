package usecase

import "errors"

var (
	// ErrSnapshotNotLoaded snapshot еще не загружен при старте
	ErrSnapshotNotLoaded = errors.New("snapshot is not loaded yet")

	// ErrAPINotFound записи с таким id нет в каталоге
	ErrAPINotFound = errors.New("API not found")

	// ErrAPIAlreadyExists в каталоге уже есть API с теми же name, method и path
	ErrAPIAlreadyExists = errors.New("API already exists")

	// ErrInvalidAPI запись каталога не прошла проверку
	ErrInvalidAPI = errors.New("invalid API")
)
