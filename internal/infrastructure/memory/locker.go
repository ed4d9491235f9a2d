package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/inventario-stock/internal/application/stock"
	"github.com/jhoicas/inventario-stock/internal/domain"
)

var _ stock.TenantLocker = (*Locker)(nil)

// Locker lock por empresa dentro del proceso. Se usa cuando no hay Redis configurado
// (una sola instancia) y en pruebas.
type Locker struct {
	mu   sync.Mutex
	held map[string]struct{}
}

// NewLocker crea un Locker sin locks tomados.
func NewLocker() *Locker {
	return &Locker{held: make(map[string]struct{})}
}

// Lock toma el lock scope+empresa sin esperar; si ya está tomado devuelve domain.ErrLockNotObtained.
// El contexto devuelto se cancela al liberar.
func (l *Locker) Lock(ctx context.Context, companyID, scope string) (context.Context, stock.Unlock, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	name := scope + ":" + companyID
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.held[name]; ok {
		return nil, nil, domain.ErrLockNotObtained
	}
	l.held[name] = struct{}{}

	held, cancel := context.WithCancel(ctx)
	var once sync.Once
	return held, func(context.Context) error {
		once.Do(func() {
			cancel()
			l.mu.Lock()
			delete(l.held, name)
			l.mu.Unlock()
		})
		return nil
	}, nil
}
