package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mentorhub/mentoring-api/internal/core/domain"
	"github.com/mentorhub/mentoring-api/internal/core/ports"
)

const (
	validCard   = "4532015112830366"
	invalidCard = "4532015112830367"
)

var fixedNow = time.Date(2026, time.March, 15, 10, 0, 0, 0, time.UTC)

type reservationFixture struct {
	users        *stubUserRepo
	offerings    *stubOfferingRepo
	reservations *stubReservationRepo
	tx           *stubTransactor
	idem         *stubIdempotency
	activity     *stubPublisher
	svc          *ReservationService

	mentor  domain.Actor
	booker  domain.Actor
	other   domain.Actor
	service string
}

func newReservationFixture(t *testing.T, places int) *reservationFixture {
	t.Helper()
	f := &reservationFixture{
		users:        newStubUserRepo(),
		offerings:    newStubOfferingRepo(),
		reservations: newStubReservationRepo(),
		tx:           &stubTransactor{},
		idem:         newStubIdempotency(),
		activity:     &stubPublisher{},
	}
	f.svc = NewReservationService(f.users, f.offerings, f.reservations, f.tx, f.idem, f.activity, zerolog.Nop())
	f.svc.now = func() time.Time { return fixedNow }

	f.users.seed(domain.User{ID: "mentor-1", FullName: "Mia Mentor", Email: "mia@example.com", Role: domain.RoleMentor})
	f.users.seed(domain.User{ID: "user-1", FullName: "Ben Booker", Email: "ben@example.com", Role: domain.RoleNormalUser})
	f.users.seed(domain.User{ID: "user-2", FullName: "Olga Other", Email: "olga@example.com", Role: domain.RoleNormalUser})
	f.mentor = domain.Actor{ID: "mentor-1", Role: domain.RoleMentor}
	f.booker = domain.Actor{ID: "user-1", Role: domain.RoleNormalUser}
	f.other = domain.Actor{ID: "user-2", Role: domain.RoleNormalUser}

	o := &domain.Offering{
		ID:             "svc-1",
		Title:          "Go code review",
		Description:    "One hour of review",
		Status:         domain.OfferingAvailable,
		Price:          50,
		Duration:       60,
		NumberOfPlaces: places,
		OwnerID:        "mentor-1",
		CategoryID:     "cat-1",
	}
	o.SyncStatus()
	require.NoError(t, f.offerings.Create(context.Background(), o))
	f.service = o.ID
	return f
}

func (f *reservationFixture) input(userID string) ports.CreateReservationInput {
	return ports.CreateReservationInput{
		UserID:          userID,
		OfferingID:      f.service,
		ReservationDate: fixedNow.Add(48 * time.Hour),
		CardHolderName:  "Ben Booker",
		CardNumber:      validCard,
		CardExpiry:      "12/28",
	}
}

func (f *reservationFixture) assertInvariant(t *testing.T) {
	t.Helper()
	o := f.offerings.snapshot(f.service)
	require.GreaterOrEqual(t, o.NumberOfPlaces, 0)
	if o.Status == domain.OfferingArchived {
		return
	}
	assert.Equal(t, o.NumberOfPlaces == 0, o.Status == domain.OfferingNotAvailable,
		"places=%d status=%s", o.NumberOfPlaces, o.Status)
}

func TestReservationService_Create_Success(t *testing.T) {
	f := newReservationFixture(t, 2)

	view, err := f.svc.Create(context.Background(), f.booker, f.input("user-1"))
	require.NoError(t, err)

	assert.NotEmpty(t, view.ID)
	assert.Equal(t, domain.ReservationPending, view.Status)
	assert.Equal(t, "xxxx-xxxx-xxxx-0366", view.CardNumber)
	assert.Equal(t, 1, view.SeatsLeft)
	require.NotNil(t, view.User)
	assert.Equal(t, "Ben Booker", view.User.FullName)
	require.NotNil(t, view.Offering)
	assert.Equal(t, "Go code review", view.Offering.Title)

	stored, err := f.reservations.FindByID(context.Background(), view.ID)
	require.NoError(t, err)
	assert.NotContains(t, stored.CardNumber, "45320151")

	o := f.offerings.snapshot(f.service)
	assert.Equal(t, 1, o.NumberOfPlaces)
	assert.Equal(t, domain.OfferingAvailable, o.Status)
	assert.Equal(t, []domain.ActivityKind{domain.ActivityCreated}, f.activity.kinds())
	assert.Equal(t, 1, f.tx.calls)
}

func TestReservationService_Create_LastSeatFlipsStatus(t *testing.T) {
	f := newReservationFixture(t, 1)

	_, err := f.svc.Create(context.Background(), f.booker, f.input("user-1"))
	require.NoError(t, err)

	o := f.offerings.snapshot(f.service)
	assert.Equal(t, 0, o.NumberOfPlaces)
	assert.Equal(t, domain.OfferingNotAvailable, o.Status)

	_, err = f.svc.Create(context.Background(), f.other, f.input("user-2"))
	assert.ErrorIs(t, err, domain.ErrNoAvailability)
}

func TestReservationService_Create_Rejections(t *testing.T) {
	cases := []struct {
		name   string
		actor  func(f *reservationFixture) domain.Actor
		mutate func(in *ports.CreateReservationInput)
		want   error
	}{
		{
			name:   "luhn failure",
			mutate: func(in *ports.CreateReservationInput) { in.CardNumber = invalidCard },
			want:   domain.ErrInvalidCard,
		},
		{
			name:   "expired card",
			mutate: func(in *ports.CreateReservationInput) { in.CardExpiry = "02/26" },
			want:   domain.ErrCardExpired,
		},
		{
			name:   "malformed expiry",
			mutate: func(in *ports.CreateReservationInput) { in.CardExpiry = "2026-12" },
			want:   domain.ErrInvalidCard,
		},
		{
			name:   "unknown service",
			mutate: func(in *ports.CreateReservationInput) { in.OfferingID = "missing" },
			want:   domain.ErrNotFound,
		},
		{
			name:   "unknown user",
			actor:  func(*reservationFixture) domain.Actor { return domain.Actor{ID: "ghost", Role: domain.RoleNormalUser} },
			mutate: func(in *ports.CreateReservationInput) { in.UserID = "ghost" },
			want:   domain.ErrNotFound,
		},
		{
			name:   "booking on behalf of someone else",
			mutate: func(in *ports.CreateReservationInput) { in.UserID = "user-2" },
			want:   domain.ErrForbidden,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newReservationFixture(t, 3)
			actor := f.booker
			if tc.actor != nil {
				actor = tc.actor(f)
			}
			in := f.input("user-1")
			tc.mutate(&in)

			_, err := f.svc.Create(context.Background(), actor, in)
			assert.ErrorIs(t, err, tc.want)
			assert.Equal(t, 3, f.offerings.snapshot(f.service).NumberOfPlaces, "seats must be untouched")
			assert.Empty(t, f.activity.kinds())
		})
	}
}

func TestReservationService_Create_ExpiryMonthIsStillValidOnFirstDay(t *testing.T) {
	f := newReservationFixture(t, 1)
	f.svc.now = func() time.Time { return time.Date(2026, time.March, 1, 23, 0, 0, 0, time.UTC) }

	in := f.input("user-1")
	in.CardExpiry = "03/26"
	_, err := f.svc.Create(context.Background(), f.booker, in)
	require.NoError(t, err)
}

func TestReservationService_Create_ArchivedServiceHasNoAvailability(t *testing.T) {
	f := newReservationFixture(t, 5)
	o := f.offerings.snapshot(f.service)
	o.Status = domain.OfferingArchived
	require.NoError(t, f.offerings.Update(context.Background(), &o))

	_, err := f.svc.Create(context.Background(), f.booker, f.input("user-1"))
	assert.ErrorIs(t, err, domain.ErrNoAvailability)
}

func TestReservationService_Create_ConcurrentLastSeat(t *testing.T) {
	f := newReservationFixture(t, 1)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	actors := []domain.Actor{f.booker, f.other}
	for i := range actors {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.svc.Create(context.Background(), actors[i], f.input(actors[i].ID))
		}(i)
	}
	wg.Wait()

	succeeded, unavailable := 0, 0
	for _, err := range errs {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, domain.ErrNoAvailability):
			unavailable++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 1, unavailable)
	f.assertInvariant(t)

	all, _ := f.reservations.List(context.Background())
	assert.Len(t, all, 1)
}

func TestReservationService_Create_ManyConcurrentNeverOverbook(t *testing.T) {
	const places, bookers = 5, 20
	f := newReservationFixture(t, places)
	for i := 0; i < bookers; i++ {
		id := "load-" + string(rune('a'+i))
		f.users.seed(domain.User{ID: id, FullName: id, Email: id + "@example.com", Role: domain.RoleNormalUser})
	}

	var wg sync.WaitGroup
	var mu sync.Mutex
	succeeded := 0
	for i := 0; i < bookers; i++ {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			_, err := f.svc.Create(context.Background(), domain.Actor{ID: id, Role: domain.RoleNormalUser}, f.input(id))
			if err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			}
		}("load-" + string(rune('a'+i)))
	}
	wg.Wait()

	assert.Equal(t, places, succeeded)
	f.assertInvariant(t)
}

func TestReservationService_Create_InsertFailureIsReported(t *testing.T) {
	f := newReservationFixture(t, 2)
	f.reservations.createErr = errors.New("write conflict")

	_, err := f.svc.Create(context.Background(), f.booker, f.input("user-1"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "insert reservation")
	assert.Empty(t, f.activity.kinds())
}

func TestReservationService_Create_Idempotency(t *testing.T) {
	f := newReservationFixture(t, 3)
	in := f.input("user-1")
	in.IdempotencyKey = "key-1"

	first, err := f.svc.Create(context.Background(), f.booker, in)
	require.NoError(t, err)
	assert.False(t, first.Replayed)

	second, err := f.svc.Create(context.Background(), f.booker, in)
	require.NoError(t, err)
	assert.True(t, second.Replayed)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 2, f.offerings.snapshot(f.service).NumberOfPlaces, "replay must not take another seat")
}

func TestReservationService_Create_IdempotencyInFlight(t *testing.T) {
	f := newReservationFixture(t, 3)
	f.idem.keys["user-1:key-1"] = ""
	in := f.input("user-1")
	in.IdempotencyKey = "key-1"

	_, err := f.svc.Create(context.Background(), f.booker, in)
	assert.ErrorIs(t, err, domain.ErrRequestInProgress)
}

func TestReservationService_Create_IdempotencyReleasedOnFailure(t *testing.T) {
	f := newReservationFixture(t, 3)
	in := f.input("user-1")
	in.IdempotencyKey = "key-1"
	in.CardNumber = invalidCard

	_, err := f.svc.Create(context.Background(), f.booker, in)
	require.ErrorIs(t, err, domain.ErrInvalidCard)
	assert.Equal(t, []string{"user-1:key-1"}, f.idem.released)

	in.CardNumber = validCard
	_, err = f.svc.Create(context.Background(), f.booker, in)
	require.NoError(t, err)
}

func TestReservationService_Create_IdempotencyStoreDown(t *testing.T) {
	f := newReservationFixture(t, 3)
	f.idem.acquireErr = errors.New("connection refused")
	in := f.input("user-1")
	in.IdempotencyKey = "key-1"

	_, err := f.svc.Create(context.Background(), f.booker, in)
	require.NoError(t, err)
}

func TestReservationService_UpdateStatus_MentorConfirms(t *testing.T) {
	f := newReservationFixture(t, 2)
	created, err := f.svc.Create(context.Background(), f.booker, f.input("user-1"))
	require.NoError(t, err)

	view, err := f.svc.UpdateStatus(context.Background(), f.mentor, created.ID, domain.ReservationConfirmed)
	require.NoError(t, err)
	assert.Equal(t, domain.ReservationConfirmed, view.Status)
	assert.Equal(t, 1, f.offerings.snapshot(f.service).NumberOfPlaces, "confirming keeps the seat taken")
	assert.Equal(t, []domain.ActivityKind{domain.ActivityCreated, domain.ActivityConfirmed}, f.activity.kinds())
}

func TestReservationService_UpdateStatus_BookerCancelRestoresSeat(t *testing.T) {
	f := newReservationFixture(t, 1)
	created, err := f.svc.Create(context.Background(), f.booker, f.input("user-1"))
	require.NoError(t, err)
	require.Equal(t, domain.OfferingNotAvailable, f.offerings.snapshot(f.service).Status)

	view, err := f.svc.UpdateStatus(context.Background(), f.booker, created.ID, domain.ReservationCanceled)
	require.NoError(t, err)
	assert.Equal(t, domain.ReservationCanceled, view.Status)
	assert.Equal(t, 1, view.SeatsLeft)

	o := f.offerings.snapshot(f.service)
	assert.Equal(t, 1, o.NumberOfPlaces)
	assert.Equal(t, domain.OfferingAvailable, o.Status)
}

func TestReservationService_UpdateStatus_RoleRules(t *testing.T) {
	f := newReservationFixture(t, 3)
	created, err := f.svc.Create(context.Background(), f.booker, f.input("user-1"))
	require.NoError(t, err)

	_, err = f.svc.UpdateStatus(context.Background(), f.mentor, created.ID, domain.ReservationCanceled)
	assert.ErrorIs(t, err, domain.ErrForbidden, "mentor may not cancel")

	_, err = f.svc.UpdateStatus(context.Background(), f.booker, created.ID, domain.ReservationConfirmed)
	assert.ErrorIs(t, err, domain.ErrForbidden, "booker may not confirm")

	_, err = f.svc.UpdateStatus(context.Background(), f.other, created.ID, domain.ReservationCanceled)
	assert.ErrorIs(t, err, domain.ErrForbidden, "stranger may not touch the reservation")

	strangerMentor := domain.Actor{ID: "mentor-2", Role: domain.RoleMentor}
	_, err = f.svc.UpdateStatus(context.Background(), strangerMentor, created.ID, domain.ReservationConfirmed)
	assert.ErrorIs(t, err, domain.ErrForbidden, "only the owning mentor may confirm")

	stored, _ := f.reservations.FindByID(context.Background(), created.ID)
	assert.Equal(t, domain.ReservationPending, stored.Status)
}

func TestReservationService_UpdateStatus_SecondTransitionFails(t *testing.T) {
	f := newReservationFixture(t, 3)
	created, err := f.svc.Create(context.Background(), f.booker, f.input("user-1"))
	require.NoError(t, err)

	_, err = f.svc.UpdateStatus(context.Background(), f.booker, created.ID, domain.ReservationCanceled)
	require.NoError(t, err)

	_, err = f.svc.UpdateStatus(context.Background(), f.booker, created.ID, domain.ReservationCanceled)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	assert.Equal(t, 3, f.offerings.snapshot(f.service).NumberOfPlaces, "seat is restored exactly once")

	_, err = f.svc.UpdateStatus(context.Background(), f.mentor, created.ID, domain.ReservationConfirmed)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestReservationService_UpdateStatus_NotFound(t *testing.T) {
	f := newReservationFixture(t, 1)

	_, err := f.svc.UpdateStatus(context.Background(), f.booker, "missing", domain.ReservationCanceled)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestReservationService_UpdateStatus_CancelAfterServiceDeleted(t *testing.T) {
	f := newReservationFixture(t, 2)
	created, err := f.svc.Create(context.Background(), f.booker, f.input("user-1"))
	require.NoError(t, err)
	require.NoError(t, f.offerings.Delete(context.Background(), f.service))

	view, err := f.svc.UpdateStatus(context.Background(), f.booker, created.ID, domain.ReservationCanceled)
	require.NoError(t, err)
	assert.Equal(t, domain.ReservationCanceled, view.Status)
	assert.Nil(t, view.Offering)
}

func TestReservationService_InventoryInvariantOverSequence(t *testing.T) {
	const places = 3
	f := newReservationFixture(t, places)
	bookers := []domain.Actor{f.booker, f.other}

	var live []string
	steps := []string{"book", "book", "book", "book", "cancel", "book", "cancel", "cancel", "cancel", "book"}
	for i, step := range steps {
		actor := bookers[i%len(bookers)]
		switch step {
		case "book":
			view, err := f.svc.Create(context.Background(), actor, f.input(actor.ID))
			if len(live) == places {
				require.ErrorIs(t, err, domain.ErrNoAvailability, "step %d", i)
			} else {
				require.NoError(t, err, "step %d", i)
				live = append(live, view.ID)
			}
		case "cancel":
			id := live[0]
			live = live[1:]
			r, _ := f.reservations.FindByID(context.Background(), id)
			_, err := f.svc.UpdateStatus(context.Background(), domain.Actor{ID: r.UserID, Role: domain.RoleNormalUser}, id, domain.ReservationCanceled)
			require.NoError(t, err, "step %d", i)
		}
		f.assertInvariant(t)
		assert.Equal(t, places-len(live), f.offerings.snapshot(f.service).NumberOfPlaces, "step %d", i)
	}
}

func TestReservationService_Get_Visibility(t *testing.T) {
	f := newReservationFixture(t, 2)
	created, err := f.svc.Create(context.Background(), f.booker, f.input("user-1"))
	require.NoError(t, err)

	for _, actor := range []domain.Actor{f.booker, f.mentor, {ID: "root", Role: domain.RoleAdmin}} {
		_, err := f.svc.Get(context.Background(), actor, created.ID)
		assert.NoError(t, err, "actor %s", actor.ID)
	}
	_, err = f.svc.Get(context.Background(), f.other, created.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestReservationService_Lists(t *testing.T) {
	f := newReservationFixture(t, 5)
	_, err := f.svc.Create(context.Background(), f.booker, f.input("user-1"))
	require.NoError(t, err)
	_, err = f.svc.Create(context.Background(), f.other, f.input("user-2"))
	require.NoError(t, err)

	all, err := f.svc.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 2)

	mine, err := f.svc.ListForUser(context.Background(), f.booker, "user-1")
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "user-1", mine[0].UserID)

	_, err = f.svc.ListForUser(context.Background(), f.booker, "user-2")
	assert.ErrorIs(t, err, domain.ErrForbidden)

	forMentor, err := f.svc.ListForMentor(context.Background(), f.mentor, "mentor-1")
	require.NoError(t, err)
	assert.Len(t, forMentor, 2)

	_, err = f.svc.ListForMentor(context.Background(), domain.Actor{ID: "mentor-2", Role: domain.RoleMentor}, "mentor-1")
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestReservationService_ViewToleratesDeletedBooker(t *testing.T) {
	f := newReservationFixture(t, 2)
	created, err := f.svc.Create(context.Background(), f.booker, f.input("user-1"))
	require.NoError(t, err)
	require.NoError(t, f.users.Delete(context.Background(), "user-1"))

	views, err := f.svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, created.ID, views[0].ID)
	assert.Nil(t, views[0].User)
	assert.NotNil(t, views[0].Offering)
}
