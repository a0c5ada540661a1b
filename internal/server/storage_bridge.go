package server

import (
	"context"

	"github.com/H2Owater425/dqache/internal/retry"
)

// writeThrough persists value for key, guarded by the breaker and retried
// per s.retryOpts. A breaker trip (ErrOpen) surfaces as a plain error, which
// the caller folds into KindLockPoisoned — the storage dependency is down,
// not merely full.
func (s *Server) writeThrough(ctx context.Context, key string, value []byte) error {
	return s.breaker.Execute(func() error {
		return retry.Do(ctx, func(context.Context) error {
			return s.storage.Write(key, value)
		}, s.retryOpts...)
	})
}

// readThrough reads key from storage, guarded the same way as writeThrough.
func (s *Server) readThrough(ctx context.Context, key string) ([]byte, bool, error) {
	var (
		value []byte
		ok    bool
	)
	err := s.breaker.Execute(func() error {
		return retry.Do(ctx, func(context.Context) error {
			v, found, readErr := s.storage.Read(key)
			if readErr != nil {
				return readErr
			}
			value, ok = v, found
			return nil
		}, s.retryOpts...)
	})
	return value, ok, err
}

// deleteThrough deletes key from storage, guarded the same way as writeThrough.
func (s *Server) deleteThrough(ctx context.Context, key string) (bool, error) {
	var existed bool
	err := s.breaker.Execute(func() error {
		return retry.Do(ctx, func(context.Context) error {
			e, delErr := s.storage.Delete(key)
			if delErr != nil {
				return delErr
			}
			existed = e
			return nil
		}, s.retryOpts...)
	})
	return existed, err
}
