package memory

import (
	"context"
	"fmt"
	"slices"
	"time"

	"pamigay-backend/internal/domain"
)

type statsRepository struct {
	s *Store
}

func (r *statsRepository) Increment(ctx context.Context, userID int32, donated, collected int32) error {
	defer r.s.lock()()
	st := r.s.data()
	stats := st.stats[userID]
	stats.UserID = userID
	stats.TotalDonated += donated
	stats.TotalCollected += collected
	stats.LastUpdated = time.Now()
	st.stats[userID] = stats
	return nil
}

func (r *statsRepository) Get(ctx context.Context, userID int32) (*domain.UserStats, error) {
	defer r.s.lock()()
	stats, ok := r.s.data().stats[userID]
	if !ok {
		stats.UserID = userID
	}
	return &stats, nil
}

type notificationRepository struct {
	s *Store
}

func (r *notificationRepository) Create(ctx context.Context, n *domain.Notification) error {
	defer r.s.lock()()
	st := r.s.data()
	st.nextNotificationID++
	n.ID = st.nextNotificationID
	stored := *n
	stored.RelatedID = copyInt32(n.RelatedID)
	st.notifications[n.ID] = stored
	return nil
}

func (r *notificationRepository) List(ctx context.Context, userID int32, limit, offset int32) ([]domain.Notification, int32, error) {
	defer r.s.lock()()
	var out []domain.Notification
	for _, n := range r.s.data().notifications {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	slices.SortFunc(out, func(a, b domain.Notification) int { return int(b.ID - a.ID) })
	total := int32(len(out))
	if int(offset) >= len(out) {
		return nil, total, nil
	}
	out = out[offset:]
	if limit > 0 && int(limit) < len(out) {
		out = out[:limit]
	}
	return out, total, nil
}

func (r *notificationRepository) MarkAsRead(ctx context.Context, id, userID int32) error {
	defer r.s.lock()()
	st := r.s.data()
	n, ok := st.notifications[id]
	if !ok || n.UserID != userID {
		return fmt.Errorf("%w: notification %d", domain.ErrNotFound, id)
	}
	n.IsRead = true
	st.notifications[id] = n
	return nil
}

func (r *notificationRepository) MarkAllAsRead(ctx context.Context, userID int32) (int64, error) {
	defer r.s.lock()()
	st := r.s.data()
	var changed int64
	for id, n := range st.notifications {
		if n.UserID == userID && !n.IsRead {
			n.IsRead = true
			st.notifications[id] = n
			changed++
		}
	}
	return changed, nil
}

func (r *notificationRepository) UnreadCount(ctx context.Context, userID int32) (int32, error) {
	defer r.s.lock()()
	var count int32
	for _, n := range r.s.data().notifications {
		if n.UserID == userID && !n.IsRead {
			count++
		}
	}
	return count, nil
}

func (r *notificationRepository) DeleteOlderThan(ctx context.Context, before time.Time) (int64, error) {
	defer r.s.lock()()
	st := r.s.data()
	var removed int64
	for id, n := range st.notifications {
		if n.CreatedOn.Before(before) {
			delete(st.notifications, id)
			removed++
		}
	}
	return removed, nil
}

type userRepository struct {
	s *Store
}

func (r *userRepository) GetByID(ctx context.Context, id int32) (*domain.User, error) {
	defer r.s.lock()()
	u, ok := r.s.data().users[id]
	if !ok {
		return nil, fmt.Errorf("%w: user %d", domain.ErrNotFound, id)
	}
	return &u, nil
}
