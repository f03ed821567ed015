package redis

import (
	"context"
	"time"

	"github.com/DRSN-tech/catalog-sync/pkg/clients"
	"github.com/DRSN-tech/catalog-sync/pkg/e"
	"github.com/google/uuid"
	"github.com/jimlawless/whereami"
	r "github.com/redis/go-redis/v9"
)

const syncLockKey = "catalog:sync:lock"

// releaseScript снимает блокировку, только если она всё ещё принадлежит владельцу токена.
var releaseScript = r.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// SyncLockRepo — блокировка одного запуска синхронизации на все процессы.
type SyncLockRepo struct {
	client *clients.RedisClient
	ttl    time.Duration
}

func NewSyncLockRepo(client *clients.RedisClient, ttl time.Duration) *SyncLockRepo {
	return &SyncLockRepo{client: client, ttl: ttl}
}

// Acquire берёт блокировку (SET NX PX) и возвращает токен владельца.
// Если блокировка занята, возвращает e.ErrSyncInProgress.
func (l *SyncLockRepo) Acquire(ctx context.Context) (string, error) {
	token := uuid.NewString()

	ok, err := l.client.Client.SetNX(ctx, syncLockKey, token, l.ttl).Result()
	if err != nil {
		return "", e.Wrap(whereami.WhereAmI(), err)
	}
	if !ok {
		return "", e.ErrSyncInProgress
	}

	return token, nil
}

func (l *SyncLockRepo) Release(ctx context.Context, token string) error {
	if err := releaseScript.Run(ctx, l.client.Client, []string{syncLockKey}, token).Err(); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}
