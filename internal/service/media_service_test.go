package service

import (
	"Chatter/internal/api/dto"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUploadInlineImage(t *testing.T) {
	t.Parallel()
	storage := newFakeStorage()
	sessions := newFakeSessions()
	svc := NewMediaService(storage, sessions, 1<<20)

	out, err := svc.UploadInlineImage(context.Background(), 1, "s1", &dto.UploadFile{Name: "fig.png", Data: pngBytes(t, 3, 3)})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out.URL, storageBase+"post_images/1/"))
	assert.True(t, strings.HasSuffix(out.URL, ".png"))
	assert.Equal(t, "image/png", out.Mime)
	assert.Equal(t, "fig.png", out.Original)

	uploaded, err := sessions.Uploaded(context.Background(), 1, "s1")
	require.NoError(t, err)
	assert.Equal(t, []string{out.URL}, uploaded)
	assert.Equal(t, []string{out.URL}, ledgerKeys(t, sessions))
}

func TestUploadInlineImageRejects(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		session string
		data    []byte
		want    error
	}{
		{name: "no session", session: "", data: []byte{1}, want: ErrParamInvalid},
		{name: "empty", session: "s1", data: nil, want: ErrParamInvalid},
		{name: "too large", session: "s1", data: make([]byte, 2048), want: ErrFileTooLarge},
		{name: "not image", session: "s1", data: []byte("%PDF-1.4 fake"), want: ErrFileNotSupported},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			storage := newFakeStorage()
			svc := NewMediaService(storage, newFakeSessions(), 1024)
			_, err := svc.UploadInlineImage(context.Background(), 1, tc.session, &dto.UploadFile{Data: tc.data})
			assert.ErrorIs(t, err, tc.want)
			assert.Empty(t, storage.objects)
		})
	}
}

func TestUploadInlineImageRollsBackWhenRecordFails(t *testing.T) {
	t.Parallel()
	storage := newFakeStorage()
	sessions := newFakeSessions()
	sessions.recordErr = errors.New("redis down")
	svc := NewMediaService(storage, sessions, 1<<20)

	_, err := svc.UploadInlineImage(context.Background(), 1, "s1", &dto.UploadFile{Data: pngBytes(t, 3, 3)})
	assert.ErrorIs(t, err, ErrUpload)
	assert.Empty(t, storage.objects)
	assert.Len(t, storage.deleted, 1)
}

func TestUploadInlineImageStorageFailure(t *testing.T) {
	t.Parallel()
	storage := newFakeStorage()
	storage.putErr = func(string) error { return errors.New("no route") }
	sessions := newFakeSessions()

	_, err := NewMediaService(storage, sessions, 1<<20).UploadInlineImage(context.Background(), 1, "s1", &dto.UploadFile{Data: pngBytes(t, 3, 3)})
	assert.ErrorIs(t, err, ErrUpload)
	assert.Empty(t, ledgerKeys(t, sessions))
}

func TestDiscardSessionKeepsObjects(t *testing.T) {
	t.Parallel()
	storage := newFakeStorage()
	sessions := newFakeSessions()
	svc := NewMediaService(storage, sessions, 1<<20)

	out, err := svc.UploadInlineImage(context.Background(), 1, "s1", &dto.UploadFile{Data: pngBytes(t, 3, 3)})
	require.NoError(t, err)

	require.NoError(t, svc.DiscardSession(context.Background(), 1, "s1"))
	assert.Equal(t, []string{sessionRef(1, "s1")}, sessions.discarded)
	assert.Empty(t, storage.deleted)
	// 台账保留，由定时任务清理
	assert.Equal(t, []string{out.URL}, ledgerKeys(t, sessions))

	assert.ErrorIs(t, svc.DiscardSession(context.Background(), 1, ""), ErrParamInvalid)
}
