package commentary

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/amankumarsingh77/hoopcast/internal/models"
	"github.com/amankumarsingh77/hoopcast/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockAnalyzer struct {
	mock.Mock
}

func (m *mockAnalyzer) Analyze(ctx context.Context, frame models.SampledFrame, prompt string) (string, error) {
	args := m.Called(ctx, frame, prompt)
	return args.String(0), args.Error(1)
}

func (m *mockAnalyzer) Close() error {
	return m.Called().Error(0)
}

const goodAnswer = "```json\n{\"action\": \"Jump shot\", \"feedback\": \"Good arc, hold the follow through\", \"timestamp\": 99, \"commentary_type\": \"Technical\"}\n```"

func sampledFrames(n int) []models.SampledFrame {
	frames := make([]models.SampledFrame, n)
	for i := range frames {
		idx := i * 37
		frames[i] = models.SampledFrame{
			Image:      []byte{0xff, 0xd8, byte(i)},
			MimeType:   "image/jpeg",
			FrameIndex: idx,
			Timestamp:  float64(idx) / 30,
		}
	}
	return frames
}

func frameAt(idx int) interface{} {
	return mock.MatchedBy(func(f models.SampledFrame) bool { return f.FrameIndex == idx })
}

func factoryFor(a Analyzer) AnalyzerFactory {
	return func(context.Context, string) (Analyzer, error) { return a, nil }
}

var meta = models.NewVideoMetadata(30, 640, 480, 300)

func TestGenerate_NoCredential(t *testing.T) {
	p := NewProvider(func(context.Context, string) (Analyzer, error) {
		t.Fatal("analyzer must not be built without a credential")
		return nil, nil
	}, time.Second, logger.NewNopLogger())

	events := p.Generate(context.Background(), sampledFrames(8), meta, "")

	require.Len(t, events, 3)
	assert.Equal(t, []float64{2.0, 5.0, 8.0}, []float64{events[0].Timestamp, events[1].Timestamp, events[2].Timestamp})
	assert.Equal(t, NoCredentialEvents(), events)
}

func TestGenerate_FactoryFailure(t *testing.T) {
	p := NewProvider(func(context.Context, string) (Analyzer, error) {
		return nil, errors.New("dial tcp: no route to host")
	}, time.Second, logger.NewNopLogger())

	events := p.Generate(context.Background(), sampledFrames(8), meta, "key")

	assert.Equal(t, UnavailableEvents(), events)
}

func TestGenerate_AllFramesSucceed(t *testing.T) {
	a := &mockAnalyzer{}
	a.On("Analyze", mock.Anything, mock.Anything, mock.Anything).Return(goodAnswer, nil)
	a.On("Close").Return(nil)
	p := NewProvider(factoryFor(a), time.Second, logger.NewNopLogger())

	frames := sampledFrames(8)
	events := p.Generate(context.Background(), frames, meta, "key")

	require.Len(t, events, 8)
	for i, ev := range events {
		assert.Equal(t, "Jump shot", ev.Action)
		assert.Equal(t, models.CategoryTechnical, ev.Category)
		assert.Equal(t, frames[i].Timestamp, ev.Timestamp)
		assert.False(t, ev.Fallback)
	}
	a.AssertNumberOfCalls(t, "Analyze", 8)
	a.AssertCalled(t, "Close")
}

func TestGenerate_FrameTimeoutFallsBack(t *testing.T) {
	a := &mockAnalyzer{}
	a.On("Analyze", mock.Anything, frameAt(74), mock.Anything).
		Run(func(args mock.Arguments) {
			<-args.Get(0).(context.Context).Done()
		}).
		Return("", context.DeadlineExceeded)
	a.On("Analyze", mock.Anything, mock.Anything, mock.Anything).Return(goodAnswer, nil)
	a.On("Close").Return(nil)
	p := NewProvider(factoryFor(a), 20*time.Millisecond, logger.NewNopLogger())

	frames := sampledFrames(8)
	events := p.Generate(context.Background(), frames, meta, "key")

	require.Len(t, events, 8)
	assert.Equal(t, FrameFallback(2, frames[2].Timestamp), events[2])
	assert.True(t, events[2].Fallback)
	for i, ev := range events {
		if i == 2 {
			continue
		}
		assert.False(t, ev.Fallback, "event %d", i)
	}
}

func TestGenerate_MalformedAnswers(t *testing.T) {
	a := &mockAnalyzer{}
	a.On("Analyze", mock.Anything, frameAt(0), mock.Anything).Return("The player is shooting a free throw with good balance.", nil)
	a.On("Analyze", mock.Anything, frameAt(37), mock.Anything).Return(`{"action": "Layup", "feedback": }`, nil)
	a.On("Analyze", mock.Anything, frameAt(74), mock.Anything).Return("   ", nil)
	a.On("Analyze", mock.Anything, frameAt(111), mock.Anything).Return("", ErrMalformedResponse)
	a.On("Close").Return(nil)
	p := NewProvider(factoryFor(a), time.Second, logger.NewNopLogger())

	frames := sampledFrames(4)
	events := p.Generate(context.Background(), frames, meta, "key")

	require.Len(t, events, 4)
	assert.Equal(t, "Basketball analysis at 0.0s", events[0].Action)
	assert.Equal(t, "The player is shooting a free throw with good balance....", events[0].Feedback)
	assert.Equal(t, "Basketball action at 1.2s", events[1].Action)
	assert.Equal(t, `{"action": "Layup", "feedback": }`, events[1].Feedback)
	assert.Equal(t, FrameFallback(2, frames[2].Timestamp), events[2])
	assert.Equal(t, FrameFallback(3, frames[3].Timestamp), events[3])
	for _, ev := range events {
		assert.True(t, ev.Fallback)
	}
}

func TestGenerate_EveryFrameUnavailable(t *testing.T) {
	a := &mockAnalyzer{}
	a.On("Analyze", mock.Anything, mock.Anything, mock.Anything).Return("", errors.New("403 API key not valid"))
	a.On("Close").Return(nil)
	p := NewProvider(factoryFor(a), time.Second, logger.NewNopLogger())

	events := p.Generate(context.Background(), sampledFrames(8), meta, "bad-key")

	assert.Equal(t, UnavailableEvents(), events)
}

func TestGenerate_SomeFramesUnavailable(t *testing.T) {
	a := &mockAnalyzer{}
	a.On("Analyze", mock.Anything, frameAt(0), mock.Anything).Return("", errors.New("connection reset"))
	a.On("Analyze", mock.Anything, mock.Anything, mock.Anything).Return(goodAnswer, nil)
	a.On("Close").Return(nil)
	p := NewProvider(factoryFor(a), time.Second, logger.NewNopLogger())

	frames := sampledFrames(3)
	events := p.Generate(context.Background(), frames, meta, "key")

	require.Len(t, events, 3)
	assert.Equal(t, FrameFallback(0, 0), events[0])
	assert.Equal(t, "Jump shot", events[1].Action)
}

func TestGenerate_NoFramesWithCredential(t *testing.T) {
	a := &mockAnalyzer{}
	a.On("Close").Return(nil)
	p := NewProvider(factoryFor(a), time.Second, logger.NewNopLogger())

	assert.Empty(t, p.Generate(context.Background(), nil, meta, "key"))
	a.AssertNotCalled(t, "Analyze", mock.Anything, mock.Anything, mock.Anything)
}

func TestFrameFallback_Rotates(t *testing.T) {
	assert.Equal(t, "Basketball fundamentals focus", FrameFallback(0, 1).Action)
	assert.Equal(t, "Defensive positioning", FrameFallback(1, 1).Action)
	assert.Equal(t, "Ball handling technique", FrameFallback(2, 1).Action)
	assert.Equal(t, "Basketball fundamentals focus", FrameFallback(3, 1).Action)
	assert.Equal(t, models.CategoryTactical, FrameFallback(4, 1).Category)
	assert.Equal(t, 4.5, FrameFallback(5, 4.5).Timestamp)
}
