package service

import (
	"Chatter/internal/model"
	"Chatter/internal/pkg/mongo"
	"Chatter/internal/pkg/redis"
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

const storageBase = "https://cdn.example.com/chatter/"

// fakeStorage 内存对象存储
type fakeStorage struct {
	mu        sync.Mutex
	objects   map[string][]byte
	types     map[string]string
	deleted   []string
	putErr    func(key string) error
	deleteErr func(url string) error
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{objects: map[string][]byte{}, types: map[string]string{}}
}

func (f *fakeStorage) PutObject(_ context.Context, key string, data []byte, contentType string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.putErr != nil {
		if err := f.putErr(key); err != nil {
			return "", err
		}
	}
	f.objects[key] = data
	f.types[key] = contentType
	return storageBase + key, nil
}

func (f *fakeStorage) DeleteObject(_ context.Context, url string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		if err := f.deleteErr(url); err != nil {
			return err
		}
	}
	f.deleted = append(f.deleted, url)
	delete(f.objects, strings.TrimPrefix(url, storageBase))
	return nil
}

func (f *fakeStorage) deletedSorted() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := append([]string(nil), f.deleted...)
	sort.Strings(out)
	return out
}

// fakeSessions 内存版上传会话
type fakeSessions struct {
	mu        sync.Mutex
	uploads   map[string][]string
	ledger    map[string]redis.UploadMeta
	locks     map[string]string
	committed []string
	discarded []string
	recordErr error
	lockErr   error
}

func newFakeSessions() *fakeSessions {
	return &fakeSessions{
		uploads: map[string][]string{},
		ledger:  map[string]redis.UploadMeta{},
		locks:   map[string]string{},
	}
}

func sessionRef(userID uint64, sessionID string) string {
	return fmt.Sprintf("%d:%s", userID, sessionID)
}

func (f *fakeSessions) seed(userID uint64, sessionID string, urls ...string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := sessionRef(userID, sessionID)
	for _, u := range urls {
		f.uploads[key] = append(f.uploads[key], u)
		f.ledger[u] = redis.UploadMeta{SessionID: sessionID, UserID: userID, MimeType: "image/png"}
	}
}

func (f *fakeSessions) Record(_ context.Context, userID uint64, sessionID, url string, meta redis.UploadMeta) error {
	if f.recordErr != nil {
		return f.recordErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	key := sessionRef(userID, sessionID)
	f.uploads[key] = append(f.uploads[key], url)
	f.ledger[url] = meta
	return nil
}

func (f *fakeSessions) Uploaded(_ context.Context, userID uint64, sessionID string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.uploads[sessionRef(userID, sessionID)]...), nil
}

func (f *fakeSessions) Forget(_ context.Context, userID uint64, sessionID string, urls ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := sessionRef(userID, sessionID)
	drop := map[string]bool{}
	for _, u := range urls {
		drop[u] = true
		delete(f.ledger, u)
	}
	kept := f.uploads[key][:0]
	for _, u := range f.uploads[key] {
		if !drop[u] {
			kept = append(kept, u)
		}
	}
	f.uploads[key] = kept
	return nil
}

func (f *fakeSessions) Commit(_ context.Context, urls ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range urls {
		delete(f.ledger, u)
		f.committed = append(f.committed, u)
	}
	return nil
}

func (f *fakeSessions) Discard(_ context.Context, userID uint64, sessionID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := sessionRef(userID, sessionID)
	delete(f.uploads, key)
	f.discarded = append(f.discarded, key)
	return nil
}

func (f *fakeSessions) TempMedia(context.Context) (map[string]redis.UploadMeta, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[string]redis.UploadMeta, len(f.ledger))
	for k, v := range f.ledger {
		out[k] = v
	}
	return out, nil
}

func (f *fakeSessions) Pending(_ context.Context, urls ...string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []string
	for _, u := range urls {
		if _, ok := f.ledger[u]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

func (f *fakeSessions) Active(_ context.Context, userID uint64, sessionID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.uploads[sessionRef(userID, sessionID)]
	return ok, nil
}

func (f *fakeSessions) TryLock(_ context.Context, userID uint64, sessionID, token string, _ time.Duration) (bool, error) {
	if f.lockErr != nil {
		return false, f.lockErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	key := sessionRef(userID, sessionID)
	if _, held := f.locks[key]; held {
		return false, nil
	}
	f.locks[key] = token
	return true, nil
}

func (f *fakeSessions) Unlock(_ context.Context, userID uint64, sessionID, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := sessionRef(userID, sessionID)
	if f.locks[key] == token {
		delete(f.locks, key)
	}
	return nil
}

// fakePostRepo 函数字段实现，未设置的方法被调用时让测试失败
type fakePostRepo struct {
	t             *testing.T
	createFn      func(ctx context.Context, post *model.Post) (uint64, error)
	getFn         func(ctx context.Context, id uint64) (*model.Post, error)
	updateFn      func(ctx context.Context, post *model.Post) error
	updateCoverFn func(ctx context.Context, id uint64, coverURL string) error
}

func (f *fakePostRepo) CreatePost(ctx context.Context, post *model.Post) (uint64, error) {
	if f.createFn == nil {
		f.t.Fatalf("unexpected CreatePost")
	}
	return f.createFn(ctx, post)
}

func (f *fakePostRepo) GetPost(ctx context.Context, id uint64) (*model.Post, error) {
	if f.getFn == nil {
		f.t.Fatalf("unexpected GetPost")
	}
	return f.getFn(ctx, id)
}

func (f *fakePostRepo) UpdatePost(ctx context.Context, post *model.Post) error {
	if f.updateFn == nil {
		f.t.Fatalf("unexpected UpdatePost")
	}
	return f.updateFn(ctx, post)
}

func (f *fakePostRepo) UpdatePostCover(ctx context.Context, id uint64, coverURL string) error {
	if f.updateCoverFn == nil {
		f.t.Fatalf("unexpected UpdatePostCover")
	}
	return f.updateCoverFn(ctx, id, coverURL)
}

type fakeUserRepo struct {
	getFn func(ctx context.Context, id uint64) (*model.User, error)
}

func (f *fakeUserRepo) GetUserById(ctx context.Context, id uint64) (*model.User, error) {
	return f.getFn(ctx, id)
}

type fakeFollowRepo struct {
	followersFn func(ctx context.Context, userID uint64) ([]uint64, error)
}

func (f *fakeFollowRepo) GetFollowerIDs(ctx context.Context, userID uint64) ([]uint64, error) {
	return f.followersFn(ctx, userID)
}

// fakeNotificationRepo 记录每个提交的批次
type fakeNotificationRepo struct {
	mu      sync.Mutex
	batches [][]*mongo.NotificationModel
	calls   int
	errFn   func(call int, records []*mongo.NotificationModel) error
}

func (f *fakeNotificationRepo) BatchCreate(_ context.Context, records []*mongo.NotificationModel) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.errFn != nil {
		if err := f.errFn(f.calls, records); err != nil {
			return err
		}
	}
	f.batches = append(f.batches, records)
	return nil
}

func (f *fakeNotificationRepo) committed() [][]*mongo.NotificationModel {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([][]*mongo.NotificationModel(nil), f.batches...)
}

type fakeDispatcher struct {
	mu   sync.Mutex
	jobs []*model.FanoutJob
	err  error
}

func (f *fakeDispatcher) Dispatch(_ context.Context, job *model.FanoutJob) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.jobs = append(f.jobs, job)
	return nil
}
