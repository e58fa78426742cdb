package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rookgm/deliverystore/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type fakeReconciler struct {
	calls atomic.Int32
	rec   models.Reconciliation
	err   error
}

func (f *fakeReconciler) Reconcile(ctx context.Context) (models.Reconciliation, error) {
	f.calls.Add(1)
	return f.rec, f.err
}

func TestReconciler_Disabled(t *testing.T) {
	svc := &fakeReconciler{}
	rc := NewReconciler(svc, 0, nil)

	done := make(chan struct{})
	go func() {
		rc.Run(context.Background())
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("disabled reconciler did not return")
	}
	assert.Equal(t, int32(0), svc.calls.Load())
}

func TestReconciler_RunUntilDone(t *testing.T) {
	svc := &fakeReconciler{}
	rc := NewReconciler(svc, 5*time.Millisecond, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		rc.Run(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool { return svc.calls.Load() >= 2 }, time.Second, time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("reconciler did not stop")
	}
}

func TestReconciler_RunOnce(t *testing.T) {
	tests := []struct {
		name      string
		rec       models.Reconciliation
		err       error
		wantLevel zapcore.Level
		wantMsg   string
	}{
		{
			name:      "diverged",
			rec:       models.Reconciliation{MissingInStore: []uint64{2}},
			wantLevel: zap.WarnLevel,
			wantMsg:   "store and chain diverged",
		},
		{
			name:      "in_sync",
			wantLevel: zap.DebugLevel,
			wantMsg:   "store and chain in sync",
		},
		{
			name:      "error",
			err:       errors.New("rpc down"),
			wantLevel: zap.ErrorLevel,
			wantMsg:   "error reconcile orders",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			core, logs := observer.New(zap.DebugLevel)
			rc := NewReconciler(&fakeReconciler{rec: tt.rec, err: tt.err}, time.Second, zap.New(core))

			rc.runOnce(context.Background())

			require.Equal(t, 1, logs.Len())
			entry := logs.All()[0]
			assert.Equal(t, tt.wantMsg, entry.Message)
			assert.Equal(t, tt.wantLevel, entry.Level)
		})
	}
}
