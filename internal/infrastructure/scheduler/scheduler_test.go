package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DRSN-tech/catalog-sync/internal/cfg"
	"github.com/DRSN-tech/catalog-sync/internal/usecase"
	"github.com/DRSN-tech/catalog-sync/internal/usecase/mocks"
	"github.com/DRSN-tech/catalog-sync/pkg/e"
	"github.com/DRSN-tech/catalog-sync/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var fastPolicy = RetryPolicy{MaxAttempts: 3, Base: time.Millisecond, Max: 5 * time.Millisecond}

func TestRetry(t *testing.T) {
	log := logger.NewDiscardLogger()

	t.Run("transport errors are retried", func(t *testing.T) {
		calls := 0
		err := Retry(context.Background(), fastPolicy, log, func(context.Context) error {
			calls++
			if calls < 3 {
				return e.Wrap("status 502", e.ErrTransport)
			}
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, 3, calls)
	})

	t.Run("gives up after max attempts", func(t *testing.T) {
		calls := 0
		err := Retry(context.Background(), fastPolicy, log, func(context.Context) error {
			calls++
			return e.ErrTransport
		})
		assert.ErrorIs(t, err, e.ErrTransport)
		assert.Equal(t, 3, calls)
	})

	t.Run("other errors are not retried", func(t *testing.T) {
		calls := 0
		err := Retry(context.Background(), fastPolicy, log, func(context.Context) error {
			calls++
			return e.ErrSoapFault
		})
		assert.ErrorIs(t, err, e.ErrSoapFault)
		assert.Equal(t, 1, calls)
	})

	t.Run("cancelled while waiting", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		slow := RetryPolicy{MaxAttempts: 3, Base: time.Hour, Max: time.Hour}

		err := Retry(ctx, slow, log, func(context.Context) error {
			cancel()
			return e.ErrTransport
		})
		assert.ErrorIs(t, err, context.Canceled)
		assert.ErrorIs(t, err, e.ErrTransport)
	})
}

func TestNewScheduler(t *testing.T) {
	ctrl := gomock.NewController(t)
	log := logger.NewDiscardLogger()

	s, err := NewScheduler(mocks.NewMockSyncUC(ctrl), mocks.NewMockMirrorUC(ctrl), log, &cfg.SyncCfg{
		Schedule:       "@every 1h",
		MirrorSchedule: "*/15 * * * *",
		MaxAttempts:    1,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, s.Jobs())

	_, err = NewScheduler(mocks.NewMockSyncUC(ctrl), mocks.NewMockMirrorUC(ctrl), log, &cfg.SyncCfg{Schedule: "every hour"})
	assert.ErrorIs(t, err, e.ErrIncorrectEnvVariable)

	s, err = NewScheduler(mocks.NewMockSyncUC(ctrl), mocks.NewMockMirrorUC(ctrl), log, &cfg.SyncCfg{})
	require.NoError(t, err)
	assert.Equal(t, 0, s.Jobs())
}

func TestScheduler_Jobs(t *testing.T) {
	ctrl := gomock.NewController(t)
	syncUC := mocks.NewMockSyncUC(ctrl)
	mirrorUC := mocks.NewMockMirrorUC(ctrl)

	s, err := NewScheduler(syncUC, mirrorUC, logger.NewDiscardLogger(), &cfg.SyncCfg{MaxAttempts: 2, RetryBase: time.Millisecond, RetryMax: time.Millisecond})
	require.NoError(t, err)
	s.ctx = context.Background()

	gomock.InOrder(
		syncUC.EXPECT().SyncCatalog(gomock.Any()).Return(nil, e.ErrTransport),
		syncUC.EXPECT().SyncCatalog(gomock.Any()).Return(&usecase.SyncReport{}, nil),
	)
	s.runSync()

	syncUC.EXPECT().SyncCatalog(gomock.Any()).Return(nil, e.ErrSyncInProgress)
	s.runSync()

	mirrorUC.EXPECT().SyncMirror(gomock.Any()).Return(nil, e.Wrap("MirrorUseCase.SyncMirror", e.ErrHeaderMismatch))
	s.runMirror()

	mirrorUC.EXPECT().SyncMirror(gomock.Any()).Return(nil, errors.New("quota exceeded"))
	s.runMirror()
}
