package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/mentorhub/mentoring-api/internal/core/domain"
)

// ---------------------------------------------------------------------------
// Users
// ---------------------------------------------------------------------------

type stubUserRepo struct {
	mu    sync.Mutex
	seq   int
	users map[string]*domain.User
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == user.Email {
			return nil, domain.ErrDuplicateIdentity
		}
	}
	copy := cloneUser(user)
	if copy.ID == "" {
		r.seq++
		copy.ID = fmt.Sprintf("u%d", r.seq)
	}
	r.users[copy.ID] = cloneUser(copy)
	return copy, nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) List(_ context.Context) ([]*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*domain.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, cloneUser(u))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *stubUserRepo) ListByRole(ctx context.Context, role domain.Role) ([]*domain.User, error) {
	all, _ := r.List(ctx)
	out := make([]*domain.User, 0, len(all))
	for _, u := range all {
		if u.Role == role {
			out = append(out, u)
		}
	}
	return out, nil
}

func (r *stubUserRepo) Update(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.ID]; !ok {
		return domain.ErrUserNotFound
	}
	r.users[user.ID] = cloneUser(user)
	return nil
}

func (r *stubUserRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(r.users, id)
	return nil
}

func (r *stubUserRepo) seed(u domain.User) *domain.User {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[u.ID] = cloneUser(&u)
	return &u
}

// ---------------------------------------------------------------------------
// Offerings: the mutex plays the role of the single-document atomic update.
// ---------------------------------------------------------------------------

type stubOfferingRepo struct {
	mu        sync.Mutex
	seq       int
	offerings map[string]*domain.Offering
}

func newStubOfferingRepo() *stubOfferingRepo {
	return &stubOfferingRepo{offerings: make(map[string]*domain.Offering)}
}

func cloneOffering(o *domain.Offering) *domain.Offering {
	clone := *o
	return &clone
}

func (r *stubOfferingRepo) Create(_ context.Context, o *domain.Offering) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if o.ID == "" {
		r.seq++
		o.ID = fmt.Sprintf("s%d", r.seq)
	}
	r.offerings[o.ID] = cloneOffering(o)
	return nil
}

func (r *stubOfferingRepo) FindByID(_ context.Context, id string) (*domain.Offering, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.offerings[id]
	if !ok {
		return nil, domain.ErrOfferingNotFound
	}
	return cloneOffering(o), nil
}

func (r *stubOfferingRepo) List(_ context.Context) ([]*domain.Offering, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*domain.Offering, 0, len(r.offerings))
	for _, o := range r.offerings {
		out = append(out, cloneOffering(o))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *stubOfferingRepo) ListByOwner(ctx context.Context, ownerID string) ([]*domain.Offering, error) {
	all, _ := r.List(ctx)
	out := make([]*domain.Offering, 0, len(all))
	for _, o := range all {
		if o.OwnerID == ownerID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (r *stubOfferingRepo) Update(_ context.Context, o *domain.Offering) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.offerings[o.ID]; !ok {
		return domain.ErrOfferingNotFound
	}
	r.offerings[o.ID] = cloneOffering(o)
	return nil
}

func (r *stubOfferingRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.offerings[id]; !ok {
		return domain.ErrOfferingNotFound
	}
	delete(r.offerings, id)
	return nil
}

func (r *stubOfferingRepo) TryDecrementSeats(_ context.Context, id string) (int, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.offerings[id]
	if !ok || o.NumberOfPlaces <= 0 || o.Status == domain.OfferingArchived {
		return 0, false, nil
	}
	o.NumberOfPlaces--
	if o.NumberOfPlaces <= 0 {
		o.Status = domain.OfferingNotAvailable
	}
	return o.NumberOfPlaces, true, nil
}

func (r *stubOfferingRepo) RestoreSeat(_ context.Context, id string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.offerings[id]
	if !ok {
		return 0, domain.ErrOfferingNotFound
	}
	o.NumberOfPlaces++
	if o.Status == domain.OfferingNotAvailable && o.NumberOfPlaces >= 1 {
		o.Status = domain.OfferingAvailable
	}
	return o.NumberOfPlaces, nil
}

func (r *stubOfferingRepo) snapshot(id string) domain.Offering {
	r.mu.Lock()
	defer r.mu.Unlock()
	return *r.offerings[id]
}

// ---------------------------------------------------------------------------
// Reservations
// ---------------------------------------------------------------------------

type stubReservationRepo struct {
	mu           sync.Mutex
	seq          int
	reservations map[string]*domain.Reservation
	createErr    error
}

func newStubReservationRepo() *stubReservationRepo {
	return &stubReservationRepo{reservations: make(map[string]*domain.Reservation)}
}

func (r *stubReservationRepo) Create(_ context.Context, res *domain.Reservation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	r.seq++
	res.ID = fmt.Sprintf("r%d", r.seq)
	clone := *res
	r.reservations[res.ID] = &clone
	return nil
}

func (r *stubReservationRepo) FindByID(_ context.Context, id string) (*domain.Reservation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	res, ok := r.reservations[id]
	if !ok {
		return nil, domain.ErrReservationNotFound
	}
	clone := *res
	return &clone, nil
}

func (r *stubReservationRepo) filter(keep func(*domain.Reservation) bool) []*domain.Reservation {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*domain.Reservation, 0, len(r.reservations))
	for _, res := range r.reservations {
		if keep(res) {
			clone := *res
			out = append(out, &clone)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (r *stubReservationRepo) List(_ context.Context) ([]*domain.Reservation, error) {
	return r.filter(func(*domain.Reservation) bool { return true }), nil
}

func (r *stubReservationRepo) ListByUser(_ context.Context, userID string) ([]*domain.Reservation, error) {
	return r.filter(func(res *domain.Reservation) bool { return res.UserID == userID }), nil
}

func (r *stubReservationRepo) ListByOfferings(_ context.Context, ids []string) ([]*domain.Reservation, error) {
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return r.filter(func(res *domain.Reservation) bool { return set[res.OfferingID] }), nil
}

func (r *stubReservationRepo) TransitionStatus(_ context.Context, id string, from, to domain.ReservationStatus, at time.Time) (*domain.Reservation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	res, ok := r.reservations[id]
	if !ok {
		return nil, domain.ErrReservationNotFound
	}
	if res.Status != from {
		return nil, domain.ErrInvalidTransition
	}
	res.Status = to
	res.UpdatedAt = at
	clone := *res
	return &clone, nil
}

// ---------------------------------------------------------------------------
// Transactions, idempotency, activity
// ---------------------------------------------------------------------------

type stubTransactor struct {
	mu    sync.Mutex
	calls int
}

func (t *stubTransactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	t.mu.Lock()
	t.calls++
	t.mu.Unlock()
	return fn(ctx)
}

type stubIdempotency struct {
	mu         sync.Mutex
	keys       map[string]string // key -> reservation id, "" while in flight
	acquireErr error
	released   []string
}

func newStubIdempotency() *stubIdempotency {
	return &stubIdempotency{keys: make(map[string]string)}
}

func (s *stubIdempotency) Acquire(_ context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.acquireErr != nil {
		return "", false, s.acquireErr
	}
	id, ok := s.keys[key]
	if !ok {
		s.keys[key] = ""
		return "", true, nil
	}
	if id == "" {
		return "", false, domain.ErrRequestInProgress
	}
	return id, false, nil
}

func (s *stubIdempotency) Complete(_ context.Context, key, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.keys[key] = id
	return nil
}

func (s *stubIdempotency) Release(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.keys, key)
	s.released = append(s.released, key)
	return nil
}

type stubPublisher struct {
	mu     sync.Mutex
	events []domain.ActivityEvent
}

func (p *stubPublisher) Publish(ev domain.ActivityEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
}

func (p *stubPublisher) kinds() []domain.ActivityKind {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]domain.ActivityKind, 0, len(p.events))
	for _, ev := range p.events {
		out = append(out, ev.Kind)
	}
	return out
}

type stubCategoryRepo struct {
	categories map[string]*domain.Category
}

func newStubCategoryRepo(ids ...string) *stubCategoryRepo {
	r := &stubCategoryRepo{categories: make(map[string]*domain.Category)}
	for _, id := range ids {
		r.categories[id] = &domain.Category{ID: id, Title: id}
	}
	return r
}

func (r *stubCategoryRepo) Create(_ context.Context, c *domain.Category) error {
	if c.ID == "" {
		c.ID = fmt.Sprintf("c%d", len(r.categories)+1)
	}
	clone := *c
	r.categories[c.ID] = &clone
	return nil
}

func (r *stubCategoryRepo) FindByID(_ context.Context, id string) (*domain.Category, error) {
	c, ok := r.categories[id]
	if !ok {
		return nil, domain.ErrCategoryNotFound
	}
	clone := *c
	return &clone, nil
}

func (r *stubCategoryRepo) List(_ context.Context) ([]*domain.Category, error) {
	out := make([]*domain.Category, 0, len(r.categories))
	for _, c := range r.categories {
		clone := *c
		out = append(out, &clone)
	}
	return out, nil
}
