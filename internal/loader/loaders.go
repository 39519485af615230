package loader

import (
	"context"
	"net/http"
	"sync"

	"github.com/vvakame/shopgate/internal/backend"
	"github.com/vvakame/shopgate/internal/log"
	"github.com/vvakame/shopgate/internal/upstream"
	"golang.org/x/sync/errgroup"
)

// maxLookups bounds the concurrent single-user lookups of one batch when the
// auth service has no batch endpoint.
const maxLookups = 8

// Loaders is the set of loaders of one operation.
type Loaders struct {
	Users *Loader[string, *backend.UserDoc]
}

func NewLoaders(clients *backend.Clients, opts ...Option) *Loaders {
	return &Loaders{
		Users: New(func(ctx context.Context, ids []string) (map[string]*backend.UserDoc, error) {
			return loadUsers(ctx, clients.Auth, ids)
		}, opts...),
	}
}

func loadUsers(ctx context.Context, client *backend.AuthClient, ids []string) (map[string]*backend.UserDoc, error) {
	docs, err := client.UsersByIDs(ctx, ids)
	if err == nil {
		m := make(map[string]*backend.UserDoc, len(docs))
		for i := range docs {
			m[docs[i].Key()] = &docs[i]
		}
		return m, nil
	}
	if !batchUnsupported(err) {
		return nil, err
	}

	log.FromContext(ctx).V(1).Info("user batch endpoint unavailable, looking users up one by one", "count", len(ids))

	var mu sync.Mutex
	m := make(map[string]*backend.UserDoc, len(ids))
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(maxLookups)
	for _, id := range ids {
		eg.Go(func() error {
			doc, err := client.User(ctx, id)
			if uErr, ok := upstream.AsError(err); ok && uErr.StatusCode == http.StatusNotFound {
				return nil
			} else if err != nil {
				return err
			}
			mu.Lock()
			defer mu.Unlock()
			m[id] = doc
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return m, nil
}

func batchUnsupported(err error) bool {
	uErr, ok := upstream.AsError(err)
	if !ok {
		return false
	}
	switch uErr.StatusCode {
	case http.StatusNotFound, http.StatusMethodNotAllowed, http.StatusNotImplemented:
		return true
	default:
		return false
	}
}

type ctxKey struct{}

func WithLoaders(ctx context.Context, l *Loaders) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// FromContext returns the loaders of the running operation, or nil.
func FromContext(ctx context.Context) *Loaders {
	l, _ := ctx.Value(ctxKey{}).(*Loaders)
	return l
}
