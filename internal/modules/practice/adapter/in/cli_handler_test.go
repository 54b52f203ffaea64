package in_test

import (
	"bytes"
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	practicein "stillness/internal/modules/practice/adapter/in"
	practicedto "stillness/internal/modules/practice/dto"
	practiceport "stillness/internal/modules/practice/port/in"
)

// scriptedUsecase replays a fixed event script to observers when started.
type scriptedUsecase struct {
	mu         sync.Mutex
	observer   practiceport.Observer
	configured []practicedto.ConfigureInput
	techniques []string
	resets     []string
	script     func(obs practiceport.Observer)
}

func (u *scriptedUsecase) State(_ context.Context, kind string) (practicedto.StateOutput, error) {
	return practicedto.StateOutput{Kind: kind, Mode: "idle", Minutes: 1}, nil
}

func (u *scriptedUsecase) Configure(_ context.Context, input practicedto.ConfigureInput) (practicedto.StateOutput, error) {
	u.configured = append(u.configured, input)
	return practicedto.StateOutput{Kind: input.Kind, Minutes: input.Minutes}, nil
}

func (u *scriptedUsecase) SelectTechnique(_ context.Context, technique string) (practicedto.StateOutput, error) {
	u.techniques = append(u.techniques, technique)
	return practicedto.StateOutput{Kind: "breath", Technique: technique}, nil
}

func (u *scriptedUsecase) Start(_ context.Context, input practicedto.StartInput) (practicedto.StateOutput, error) {
	u.mu.Lock()
	obs := u.observer
	u.mu.Unlock()
	if u.script != nil {
		go u.script(obs)
	}
	return practicedto.StateOutput{Kind: input.Kind, Mode: "running", Minutes: 1}, nil
}

func (u *scriptedUsecase) Pause(_ context.Context, kind string) (practicedto.StateOutput, error) {
	return practicedto.StateOutput{Kind: kind, Mode: "paused"}, nil
}

func (u *scriptedUsecase) Reset(_ context.Context, kind string) (practicedto.StateOutput, error) {
	u.mu.Lock()
	u.resets = append(u.resets, kind)
	u.mu.Unlock()
	return practicedto.StateOutput{Kind: kind, Mode: "idle"}, nil
}

func (u *scriptedUsecase) Complete(_ context.Context, kind string) (practicedto.CompletionOutput, error) {
	return practicedto.CompletionOutput{Kind: kind}, nil
}

func (u *scriptedUsecase) Subscribe(observer practiceport.Observer) func() {
	u.mu.Lock()
	u.observer = observer
	u.mu.Unlock()
	return func() {}
}

func TestRunPrintsProgressAndReturnsCompletion(t *testing.T) {
	uc := &scriptedUsecase{script: func(obs practiceport.Observer) {
		obs.OnTick(practicedto.TickOutput{Kind: "timer", RemainingSeconds: 59.9, Ratio: 0.01})
		obs.OnTick(practicedto.TickOutput{Kind: "breath", RemainingSeconds: 10, Ratio: 0.5})
		obs.OnComplete(practicedto.CompletionOutput{Kind: "timer", Minutes: 1, Recorded: true})
	}}
	var out bytes.Buffer
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	done, err := practicein.NewCLIHandler(uc).Run(ctx, practicein.RunInput{Kind: "timer", Minutes: 1}, &out)
	require.NoError(t, err)
	assert.Equal(t, 1, done.Minutes)
	assert.True(t, done.Recorded)
	assert.Equal(t, []practicedto.ConfigureInput{{Kind: "timer", Minutes: 1}}, uc.configured)
	assert.Contains(t, out.String(), "timer: 1 min")
	assert.Contains(t, out.String(), "00:00")
}

func TestRunResetsOnCancel(t *testing.T) {
	uc := &scriptedUsecase{}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := practicein.NewCLIHandler(uc).Run(ctx, practicein.RunInput{Kind: "breath", Technique: "478"}, &bytes.Buffer{})
	require.ErrorIs(t, err, practicein.ErrInterrupted)
	assert.Equal(t, []string{"478"}, uc.techniques)
	assert.Equal(t, []string{"breath"}, uc.resets)
}

func TestEventStreamDropsWhenFull(t *testing.T) {
	t.Parallel()
	stream := practicein.NewEventStream(1)
	stream.OnTick(practicedto.TickOutput{RemainingSeconds: 2})
	stream.OnTick(practicedto.TickOutput{RemainingSeconds: 1})
	assert.Equal(t, 2.0, (<-stream.Ticks()).RemainingSeconds)
	select {
	case <-stream.Ticks():
		t.Fatal("second tick should have been dropped")
	default:
	}
}
