package services

import (
	"context"
	"database/sql/driver"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// CampaignLocker serializes activation, pause, resume and delay changes per campaign
type CampaignLocker interface {
	// Lock blocks until the campaign is free or ctx is done. The returned func releases it.
	Lock(ctx context.Context, campaignID string) (func(), error)
}

type lockEntry struct {
	ch   chan struct{}
	refs int
}

// LocalCampaignLocker is an in-process keyed lock. It is enough for a single replica.
type LocalCampaignLocker struct {
	mu    sync.Mutex
	locks map[string]*lockEntry
}

func NewLocalCampaignLocker() *LocalCampaignLocker {
	return &LocalCampaignLocker{locks: make(map[string]*lockEntry)}
}

func (l *LocalCampaignLocker) Lock(ctx context.Context, campaignID string) (func(), error) {
	l.mu.Lock()
	entry, ok := l.locks[campaignID]
	if !ok {
		entry = &lockEntry{ch: make(chan struct{}, 1)}
		l.locks[campaignID] = entry
	}
	entry.refs++
	l.mu.Unlock()

	select {
	case entry.ch <- struct{}{}:
	case <-ctx.Done():
		l.release(campaignID, entry)
		return nil, ctx.Err()
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			<-entry.ch
			l.release(campaignID, entry)
		})
	}, nil
}

func (l *LocalCampaignLocker) release(campaignID string, entry *lockEntry) {
	l.mu.Lock()
	defer l.mu.Unlock()
	entry.refs--
	if entry.refs == 0 {
		delete(l.locks, campaignID)
	}
}

// PostgresCampaignLocker uses a session advisory lock so replicas exclude each other.
// The lock is held on a dedicated pooled connection until released.
type PostgresCampaignLocker struct {
	db *gorm.DB
}

func NewPostgresCampaignLocker(db *gorm.DB) *PostgresCampaignLocker {
	return &PostgresCampaignLocker{db: db}
}

func (l *PostgresCampaignLocker) Lock(ctx context.Context, campaignID string) (func(), error) {
	sqlDB, err := l.db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database connection: %w", err)
	}
	conn, err := sqlDB.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to reserve lock connection: %w", err)
	}
	if _, err := conn.ExecContext(ctx, "SELECT pg_advisory_lock(hashtextextended($1, 0))", campaignID); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to acquire campaign lock: %w", err)
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			// Released even when the caller's context is already done
			if _, err := conn.ExecContext(context.Background(), "SELECT pg_advisory_unlock(hashtextextended($1, 0))", campaignID); err != nil {
				logrus.WithField("campaign_id", campaignID).Errorf("Failed to release campaign lock: %v", err)
				// Drop the session instead of returning it to the pool still holding the lock
				_ = conn.Raw(func(any) error { return driver.ErrBadConn })
			}
			conn.Close()
		})
	}, nil
}
