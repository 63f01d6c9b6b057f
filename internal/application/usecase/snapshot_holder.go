package usecase

import (
	"sync/atomic"

	"github.com/dreschagin/ops-dashboard-simulator/internal/domain/entity"
)

// SnapshotHolder хранит опубликованный snapshot за одной атомарной ссылкой.
// Читатели получают целиком старое или целиком новое поколение и не должны его изменять.
type SnapshotHolder struct {
	current atomic.Pointer[entity.Snapshot]
}

// NewSnapshotHolder создает пустой holder
func NewSnapshotHolder() *SnapshotHolder {
	return &SnapshotHolder{}
}

// Load возвращает текущий snapshot или nil до первой загрузки
func (h *SnapshotHolder) Load() *entity.Snapshot {
	return h.current.Load()
}

// Store публикует новое поколение
func (h *SnapshotHolder) Store(snapshot *entity.Snapshot) {
	h.current.Store(snapshot)
}

// Ready сообщает, загружен ли snapshot
func (h *SnapshotHolder) Ready() bool {
	return h.current.Load() != nil
}
