package redis

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/bsm/redislock"
	goredis "github.com/redis/go-redis/v9"

	"github.com/jhoicas/inventario-stock/internal/application/stock"
	"github.com/jhoicas/inventario-stock/internal/domain"
)

var _ stock.TenantLocker = (*Locker)(nil)

// Locker lock distribuido por empresa (bsm/redislock): varias instancias del servicio
// no corren a la vez la generación o la conciliación de la misma empresa.
type Locker struct {
	client *redislock.Client
	ttl    time.Duration
}

// NewLocker construye el locker sobre un cliente go-redis. ttl acota la vida del lock
// si el proceso muere sin liberarlo; mientras el proceso lo tiene se renueva cada ttl/3.
func NewLocker(rdb goredis.UniversalClient, ttl time.Duration) *Locker {
	return &Locker{client: redislock.New(rdb), ttl: ttl}
}

func lockKey(scope, companyID string) string {
	return fmt.Sprintf("lock:%s:%s", scope, companyID)
}

// Lock intenta una sola vez; si otra instancia tiene el lock devuelve domain.ErrLockNotObtained.
// El contexto devuelto se cancela si una renovación falla (causa domain.ErrLockLost) o al liberar.
func (l *Locker) Lock(ctx context.Context, companyID, scope string) (context.Context, stock.Unlock, error) {
	key := lockKey(scope, companyID)
	lock, err := l.client.Obtain(ctx, key, l.ttl, nil)
	if errors.Is(err, redislock.ErrNotObtained) {
		return nil, nil, domain.ErrLockNotObtained
	}
	if err != nil {
		return nil, nil, fmt.Errorf("obtener lock %s: %w", key, err)
	}

	held, cancel := context.WithCancelCause(ctx)
	done := make(chan struct{})
	go keepAlive(held, lock, l.ttl, cancel, done)

	var once sync.Once
	return held, func(ctx context.Context) error {
		var err error
		once.Do(func() {
			cancel(nil)
			<-done
			if rerr := lock.Release(ctx); rerr != nil && !errors.Is(rerr, redislock.ErrLockNotHeld) {
				err = fmt.Errorf("liberar lock %s: %w", key, rerr)
			}
		})
		return err
	}, nil
}

type refresher interface {
	Refresh(ctx context.Context, ttl time.Duration, opt *redislock.Options) error
}

// keepAlive renueva el lock hasta que ctx termine. Si una renovación falla el lock ya no es
// exclusivo: cancela ctx con causa domain.ErrLockLost.
func keepAlive(ctx context.Context, lock refresher, ttl time.Duration, cancel context.CancelCauseFunc, done chan<- struct{}) {
	defer close(done)
	t := time.NewTicker(max(ttl/3, time.Millisecond))
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if err := lock.Refresh(ctx, ttl, nil); err != nil {
				if ctx.Err() == nil {
					cancel(fmt.Errorf("%w: %v", domain.ErrLockLost, err))
				}
				return
			}
		}
	}
}
