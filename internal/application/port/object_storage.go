package port

import "context"

// ObjectStorage определяет интерфейс объектного хранилища для выгрузки snapshot.
type ObjectStorage interface {
	// PutObject загружает объект и возвращает URL для чтения.
	PutObject(ctx context.Context, key, contentType string, body []byte) (string, error)
}
