// Package memory is a process-local Store used by tests and local runs.
// A transaction holds the store mutex until it finishes, so transactions
// are serializable; a failed transaction restores the pre-transaction state.
package memory

import (
	"context"
	"fmt"
	"maps"
	"sync"

	"pamigay-backend/internal/domain"
	"pamigay-backend/internal/repository"
)

type state struct {
	donations     map[int32]domain.Donation
	pickups       map[int32]domain.PickupRequest
	stats         map[int32]domain.UserStats
	notifications map[int32]domain.Notification
	users         map[int32]domain.User

	nextDonationID     int32
	nextPickupID       int32
	nextNotificationID int32
}

func (s *state) clone() *state {
	c := *s
	c.donations = maps.Clone(s.donations)
	c.pickups = maps.Clone(s.pickups)
	c.stats = maps.Clone(s.stats)
	c.notifications = maps.Clone(s.notifications)
	c.users = maps.Clone(s.users)
	return &c
}

type Store struct {
	mu   *sync.Mutex
	st   **state
	inTx bool
}

var _ repository.Store = (*Store)(nil)

func NewStore() *Store {
	st := &state{
		donations:     map[int32]domain.Donation{},
		pickups:       map[int32]domain.PickupRequest{},
		stats:         map[int32]domain.UserStats{},
		notifications: map[int32]domain.Notification{},
		users:         map[int32]domain.User{},
	}
	return &Store{mu: &sync.Mutex{}, st: &st}
}

// AddUser seeds a user record.
func (s *Store) AddUser(u domain.User) {
	defer s.lock()()
	(*s.st).users[u.ID] = u
}

func (s *Store) lock() func() {
	if s.inTx {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

func (s *Store) data() *state { return *s.st }

func (s *Store) Donations() repository.DonationRepository         { return &donationRepository{s} }
func (s *Store) Pickups() repository.PickupRepository             { return &pickupRepository{s} }
func (s *Store) Stats() repository.StatsRepository                 { return &statsRepository{s} }
func (s *Store) Notifications() repository.NotificationRepository { return &notificationRepository{s} }
func (s *Store) Users() repository.UserRepository                  { return &userRepository{s} }

func (s *Store) WithTx(ctx context.Context, fn func(tx repository.Store) error) error {
	if s.inTx {
		return fn(s)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: begin transaction: %w", domain.ErrStorage, err)
	}
	snapshot := (*s.st).clone()
	if err := fn(&Store{mu: s.mu, st: s.st, inTx: true}); err != nil {
		*s.st = snapshot
		return err
	}
	return nil
}

func paginate[T any](items []T, page, pageSize int32) []T {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		return items
	}
	start := int((page - 1) * pageSize)
	if start >= len(items) {
		return nil
	}
	end := min(start+int(pageSize), len(items))
	return items[start:end]
}

func copyInt32(p *int32) *int32 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
