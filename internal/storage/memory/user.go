package memory

import (
	"sort"
	"strings"
	"time"

	"github.com/averoza/stockroom/internal/user"
)

type UserRepository struct {
	store *Store
}

func NewUserRepository(store *Store) user.Repository {
	return &UserRepository{store: store}
}

func (r *UserRepository) Create(u *user.User) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if u.Email != nil {
		for _, existing := range s.users {
			if existing.Email != nil && strings.EqualFold(*existing.Email, *u.Email) {
				return user.ErrDuplicateEmail
			}
		}
	}

	s.nextUserID++
	u.ID = s.nextUserID
	now := time.Now()
	if u.CreatedAt.IsZero() {
		u.CreatedAt = now
		u.UpdatedAt = now
	}
	s.users[u.ID] = *u
	return nil
}

func (r *UserRepository) GetByID(id int64) (*user.User, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, user.ErrUserNotFound
	}
	return &u, nil
}

func (r *UserRepository) GetByEmail(email string) (*user.User, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.Email != nil && strings.EqualFold(*u.Email, email) {
			found := u
			return &found, nil
		}
	}
	return nil, user.ErrUserNotFound
}

func (r *UserRepository) List() ([]*user.User, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*user.User, 0, len(s.users))
	for _, u := range s.users {
		found := u
		out = append(out, &found)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
