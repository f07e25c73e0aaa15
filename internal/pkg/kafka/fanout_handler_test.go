package kafka

import (
	"Chatter/internal/model"
	"Chatter/internal/pkg/logger"
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/IBM/sarama"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeExecutor struct {
	mu    sync.Mutex
	jobs  []*model.FanoutJob
	trace []string
	fail  int
}

func (f *fakeExecutor) FanOut(ctx context.Context, job *model.FanoutJob) (*model.FanoutReport, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if id, ok := ctx.Value(logger.TraceIDKey).(string); ok {
		f.trace = append(f.trace, id)
	}
	if f.fail > 0 {
		f.fail--
		return nil, errors.New("mongo unavailable")
	}
	f.jobs = append(f.jobs, job)
	return &model.FanoutReport{Followers: len(job.FollowerIDs), Delivered: len(job.FollowerIDs), Chunks: 1}, nil
}

type fakeMarker struct {
	marked []int64
}

func (f *fakeMarker) MarkMessage(msg *sarama.ConsumerMessage, _ string) {
	f.marked = append(f.marked, msg.Offset)
}

func jobMessage(t *testing.T, offset int64, job *model.FanoutJob) *sarama.ConsumerMessage {
	t.Helper()
	value, err := json.Marshal(job)
	require.NoError(t, err)
	return &sarama.ConsumerMessage{
		Topic:   "chatter.post.published",
		Offset:  offset,
		Value:   value,
		Headers: []*sarama.RecordHeader{{Key: []byte(traceHeader), Value: []byte("trace-1")}},
	}
}

func TestFanoutHandlerProcessesBatch(t *testing.T) {
	exec := &fakeExecutor{}
	h := NewFanoutHandler(exec)
	marker := &fakeMarker{}

	msgs := []*sarama.ConsumerMessage{
		jobMessage(t, 10, &model.FanoutJob{Seed: "a", Post: model.PostSnapshot{ID: 1}, FollowerIDs: []uint64{2}}),
		{Offset: 11, Value: []byte("{not json")},
		jobMessage(t, 12, &model.FanoutJob{Seed: "b", Post: model.PostSnapshot{ID: 3}, FollowerIDs: []uint64{4, 5}}),
	}
	processBatch(context.Background(), marker, msgs, h.logic)

	assert.Len(t, exec.jobs, 2)
	assert.Equal(t, []string{"trace-1", "trace-1"}, exec.trace)
	assert.Equal(t, []int64{12}, marker.marked)
}

func TestFanoutHandlerRetriesFailedJob(t *testing.T) {
	exec := &fakeExecutor{fail: 1}
	h := NewFanoutHandler(exec)
	marker := &fakeMarker{}

	msg := jobMessage(t, 3, &model.FanoutJob{Seed: "a", Post: model.PostSnapshot{ID: 1}, FollowerIDs: []uint64{2}})
	processBatch(context.Background(), marker, []*sarama.ConsumerMessage{msg}, h.logic)

	require.Len(t, exec.jobs, 1)
	assert.Equal(t, uint64(1), exec.jobs[0].Post.ID)
	assert.Equal(t, []int64{3}, marker.marked)
}

func TestProcessBatchStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	marker := &fakeMarker{}

	calls := 0
	processBatch(ctx, marker, []*sarama.ConsumerMessage{{Offset: 1}}, func(context.Context, *sarama.ConsumerMessage) error {
		calls++
		return errors.New("boom")
	})

	assert.Equal(t, 1, calls)
	assert.Empty(t, marker.marked)
}
