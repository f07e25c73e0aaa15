package asset

import (
	"Chatter/internal/pkg/content"
	"context"
	log "log/slog"
	"sync"
)

// Deleter 对象存储的删除能力
type Deleter interface {
	DeleteObject(ctx context.Context, url string) error
}

// PurgeFailure 单个孤儿资源删除失败
type PurgeFailure struct {
	Ref string
	Err error
}

// Manager 单个编写会话的资源生命周期
// uploaded 只包含本会话上传的资源，不含之前保存时已存在的资源
type Manager struct {
	storage  Deleter
	mu       sync.Mutex
	uploaded content.AssetSet
}

// NewManager 传入会话已记录的上传，由 redis 会话集合恢复
func NewManager(storage Deleter, uploaded ...string) *Manager {
	return &Manager{
		storage:  storage,
		uploaded: content.NewAssetSet(uploaded...),
	}
}

// Reconcile 计算孤儿资源 uploaded - extract(body)
// 仍被正文引用的资源永远不会出现在结果中
func (m *Manager) Reconcile(body string) content.AssetSet {
	referenced := content.ExtractAssets(body)

	m.mu.Lock()
	defer m.mu.Unlock()
	return m.uploaded.Difference(referenced)
}

// Purge 逐个删除孤儿资源，单个失败不影响其他
// 删除成功的资源从 uploaded 中移除，失败的原样返回
func (m *Manager) Purge(ctx context.Context, orphans content.AssetSet) []PurgeFailure {
	var failures []PurgeFailure
	for _, ref := range orphans.Sorted() {
		err := m.storage.DeleteObject(ctx, ref)
		if err != nil {
			log.WarnContext(ctx, "purge orphan asset failed", "ref", ref, "err", err)
			failures = append(failures, PurgeFailure{Ref: ref, Err: err})
			continue
		}
		m.mu.Lock()
		delete(m.uploaded, ref)
		m.mu.Unlock()
	}
	return failures
}

// Uploaded 返回当前会话上传集合的快照
func (m *Manager) Uploaded() content.AssetSet {
	m.mu.Lock()
	defer m.mu.Unlock()
	return content.NewAssetSet(m.uploaded.Sorted()...)
}
