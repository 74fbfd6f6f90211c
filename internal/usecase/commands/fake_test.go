//go:build unit

package commands_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"fleet-rental/internal/domain/account"
	"fleet-rental/internal/domain/booking"
	"fleet-rental/internal/domain/customer"
	"fleet-rental/internal/domain/ledger"
	"fleet-rental/internal/domain/vehicle"
	"fleet-rental/internal/infra"
	"fleet-rental/internal/pkg/clock"
	"fleet-rental/internal/pkg/jwt"
	"fleet-rental/internal/usecase/commands"
	"fleet-rental/internal/usecase/queries"
	"fleet-rental/internal/usecase/shared"
	"fleet-rental/tests/common/builder"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// In-memory unit of work backing the command tests. Everything runs on
// one goroutine, so "locking" a row is a map lookup plus an optional
// injected failure to exercise the contention paths.

type fakeJob struct {
	kind    string
	topic   string
	payload map[string]any
	runAt   time.Time
}

type fakeStore struct {
	bookings  map[uuid.UUID]*booking.Booking
	vehicles  map[uuid.UUID]*vehicle.Vehicle
	types     map[uuid.UUID]*vehicle.Type
	customers map[uuid.UUID]*customer.Customer
	accounts  map[uuid.UUID]*account.Account
	hashes    map[uuid.UUID]string
	lastLogin map[uuid.UUID]time.Time
	jobs      []fakeJob

	customerLockErr error
	vehicleLockErr  error
	bookingLockErr  error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		bookings:  make(map[uuid.UUID]*booking.Booking),
		vehicles:  make(map[uuid.UUID]*vehicle.Vehicle),
		types:     make(map[uuid.UUID]*vehicle.Type),
		customers: make(map[uuid.UUID]*customer.Customer),
		accounts:  make(map[uuid.UUID]*account.Account),
		hashes:    make(map[uuid.UUID]string),
		lastLogin: make(map[uuid.UUID]time.Time),
	}
}

func (s *fakeStore) jobsByTopic(topic string) []fakeJob {
	var out []fakeJob
	for _, j := range s.jobs {
		if j.topic == topic {
			out = append(out, j)
		}
	}
	return out
}

func notFoundErr(msg string) error {
	return infra.WrapRepoErr(infra.KindNotFound, msg, errors.New("no rows in result set"))
}

func lockTimeoutErr(msg string) error {
	return infra.WrapRepoErr(infra.KindLockNotAvailable, msg, errors.New("canceling statement due to lock timeout"))
}

type fakeUoW struct {
	store *fakeStore
}

func (u *fakeUoW) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	tx := &fakeTx{store: u.store}
	var err error
	for attempt := 0; attempt < 3; attempt++ {
		err = fn(ctx, tx)
		if errors.Is(err, shared.ErrStaleEntityRefs) || infra.IsKind(err, infra.KindLockNotAvailable) {
			continue
		}
		break
	}
	return err
}

func (u *fakeUoW) CommandReads() shared.CommandReads {
	return &fakeReads{store: u.store}
}

type fakeTx struct {
	store *fakeStore
}

func (t *fakeTx) Bookings() shared.BookingRepository          { return &fakeBookingRepo{t.store} }
func (t *fakeTx) Vehicles() shared.VehicleRepository          { return &fakeVehicleRepo{t.store} }
func (t *fakeTx) VehicleTypes() shared.VehicleTypeRepository  { return &fakeTypeRepo{t.store} }
func (t *fakeTx) Customers() shared.CustomerRepository        { return &fakeCustomerRepo{t.store} }
func (t *fakeTx) Accounts() shared.AccountRepository          { return &fakeAccountRepo{t.store} }
func (t *fakeTx) Notifications() shared.NotificationRepository { return &fakeNotificationRepo{t.store} }
func (t *fakeTx) Reads() shared.CommandReads                  { return &fakeReads{t.store} }

type fakeBookingRepo struct{ store *fakeStore }

func (r *fakeBookingRepo) Create(_ context.Context, b *booking.Booking) error {
	r.store.bookings[b.ID()] = b
	return nil
}

func (r *fakeBookingRepo) Update(_ context.Context, b *booking.Booking) error {
	if _, ok := r.store.bookings[b.ID()]; !ok {
		return notFoundErr("booking not found")
	}
	r.store.bookings[b.ID()] = b
	return nil
}

func (r *fakeBookingRepo) Delete(_ context.Context, id uuid.UUID) (bool, error) {
	if _, ok := r.store.bookings[id]; !ok {
		return false, nil
	}
	delete(r.store.bookings, id)
	return true, nil
}

func (r *fakeBookingRepo) LockByID(_ context.Context, id uuid.UUID) (*booking.Booking, error) {
	if r.store.bookingLockErr != nil {
		return nil, r.store.bookingLockErr
	}
	b, ok := r.store.bookings[id]
	if !ok {
		return nil, notFoundErr("booking not found")
	}
	return b, nil
}

func (r *fakeBookingRepo) HasActiveForVehicle(_ context.Context, vehicleID uuid.UUID) (bool, error) {
	for _, b := range r.store.bookings {
		if b.VehicleID() == vehicleID && !b.Status().IsTerminal() {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeBookingRepo) HasActiveForCustomer(_ context.Context, customerID uuid.UUID) (bool, error) {
	for _, b := range r.store.bookings {
		if b.CustomerID() == customerID && !b.Status().IsTerminal() {
			return true, nil
		}
	}
	return false, nil
}

type fakeVehicleRepo struct{ store *fakeStore }

func (r *fakeVehicleRepo) Create(_ context.Context, v *vehicle.Vehicle) error {
	r.store.vehicles[v.ID()] = v
	return nil
}

func (r *fakeVehicleRepo) Update(_ context.Context, v *vehicle.Vehicle) error {
	if _, ok := r.store.vehicles[v.ID()]; !ok {
		return notFoundErr("vehicle not found")
	}
	r.store.vehicles[v.ID()] = v
	return nil
}

func (r *fakeVehicleRepo) Delete(_ context.Context, id uuid.UUID) (bool, error) {
	if _, ok := r.store.vehicles[id]; !ok {
		return false, nil
	}
	delete(r.store.vehicles, id)
	return true, nil
}

func (r *fakeVehicleRepo) LockByID(_ context.Context, id uuid.UUID) (*vehicle.Vehicle, error) {
	if r.store.vehicleLockErr != nil {
		return nil, r.store.vehicleLockErr
	}
	v, ok := r.store.vehicles[id]
	if !ok {
		return nil, notFoundErr("vehicle not found")
	}
	return v, nil
}

func (r *fakeVehicleRepo) SaveStatus(_ context.Context, v *vehicle.Vehicle) error {
	r.store.vehicles[v.ID()] = v
	return nil
}

type fakeTypeRepo struct{ store *fakeStore }

func (r *fakeTypeRepo) Create(_ context.Context, t *vehicle.Type) error {
	r.store.types[t.ID()] = t
	return nil
}

type fakeCustomerRepo struct{ store *fakeStore }

func (r *fakeCustomerRepo) Create(_ context.Context, c *customer.Customer) error {
	for _, existing := range r.store.customers {
		if existing.Email().Value() == c.Email().Value() {
			return infra.WrapRepoErr(infra.KindDuplicateKey, "duplicate email", errors.New("unique violation"))
		}
	}
	r.store.customers[c.ID()] = c
	return nil
}

func (r *fakeCustomerRepo) Update(_ context.Context, c *customer.Customer) error {
	if _, ok := r.store.customers[c.ID()]; !ok {
		return notFoundErr("customer not found")
	}
	r.store.customers[c.ID()] = c
	return nil
}

func (r *fakeCustomerRepo) Delete(_ context.Context, id uuid.UUID) (bool, error) {
	if _, ok := r.store.customers[id]; !ok {
		return false, nil
	}
	delete(r.store.customers, id)
	return true, nil
}

func (r *fakeCustomerRepo) LockByID(_ context.Context, id uuid.UUID) (*customer.Customer, error) {
	if r.store.customerLockErr != nil {
		return nil, r.store.customerLockErr
	}
	c, ok := r.store.customers[id]
	if !ok {
		return nil, notFoundErr("customer not found")
	}
	return c, nil
}

func (r *fakeCustomerRepo) SaveBalance(_ context.Context, c *customer.Customer) error {
	r.store.customers[c.ID()] = c
	return nil
}

type fakeAccountRepo struct{ store *fakeStore }

func (r *fakeAccountRepo) Create(_ context.Context, a *account.Account) error {
	for _, existing := range r.store.accounts {
		if existing.Email().Value() == a.Email().Value() {
			return infra.WrapRepoErr(infra.KindDuplicateKey, "duplicate email", errors.New("unique violation"))
		}
	}
	r.store.accounts[a.ID()] = a
	r.store.hashes[a.ID()] = a.PasswordHash()
	return nil
}

func (r *fakeAccountRepo) UpdateLastLogin(_ context.Context, accountID uuid.UUID, at time.Time) error {
	r.store.lastLogin[accountID] = at
	return nil
}

type fakeNotificationRepo struct{ store *fakeStore }

func (r *fakeNotificationRepo) CreateJob(_ context.Context, kind, topic string, payload []byte, runAt time.Time) error {
	var decoded map[string]any
	if err := json.Unmarshal(payload, &decoded); err != nil {
		return err
	}
	r.store.jobs = append(r.store.jobs, fakeJob{kind: kind, topic: topic, payload: decoded, runAt: runAt})
	return nil
}

type fakeReads struct{ store *fakeStore }

func (r *fakeReads) BookingByID(_ context.Context, id uuid.UUID) (*shared.BookingSnapshot, error) {
	b, ok := r.store.bookings[id]
	if !ok {
		return nil, notFoundErr("booking not found")
	}
	return &shared.BookingSnapshot{
		ID:            b.ID(),
		VehicleID:     b.VehicleID(),
		CustomerID:    b.CustomerID(),
		Status:        b.Status().String(),
		PaymentStatus: b.PaymentStatus().String(),
	}, nil
}

func (r *fakeReads) VehicleByID(_ context.Context, id uuid.UUID) (*shared.VehicleSnapshot, error) {
	v, ok := r.store.vehicles[id]
	if !ok {
		return nil, notFoundErr("vehicle not found")
	}
	return &shared.VehicleSnapshot{
		ID:             v.ID(),
		TypeID:         v.TypeID(),
		LicensePlate:   v.LicensePlate(),
		DailyRateCents: v.DailyRateCents(),
		DepositCents:   v.DepositCents(),
		Status:         v.Status().String(),
	}, nil
}

func (r *fakeReads) CustomerByID(_ context.Context, id uuid.UUID) (*shared.CustomerSnapshot, error) {
	c, ok := r.store.customers[id]
	if !ok {
		return nil, notFoundErr("customer not found")
	}
	return &shared.CustomerSnapshot{
		ID:           c.ID(),
		Email:        c.Email().Value(),
		FirstName:    c.FirstName(),
		LastName:     c.LastName(),
		BalanceCents: c.BalanceCents(),
		Verified:     c.Verified(),
	}, nil
}

func (r *fakeReads) AccountByEmail(_ context.Context, email string) (*shared.AccountSnapshot, string, error) {
	for _, a := range r.store.accounts {
		if a.Email().Value() == email {
			return accountSnapshot(a), r.store.hashes[a.ID()], nil
		}
	}
	return nil, "", notFoundErr("account not found")
}

func (r *fakeReads) AccountByID(_ context.Context, id uuid.UUID) (*shared.AccountSnapshot, error) {
	a, ok := r.store.accounts[id]
	if !ok {
		return nil, notFoundErr("account not found")
	}
	return accountSnapshot(a), nil
}

func (r *fakeReads) VehicleTypeExists(_ context.Context, id uuid.UUID) (bool, error) {
	_, ok := r.store.types[id]
	return ok, nil
}

func accountSnapshot(a *account.Account) *shared.AccountSnapshot {
	return &shared.AccountSnapshot{
		ID:        a.ID(),
		Email:     a.Email().Value(),
		Role:      a.Role().String(),
		IsActive:  a.IsActive(),
		LastLogin: a.LastLogin(),
	}
}

// Read-side stubs built straight from the store, so assertions on the
// returned views observe committed state.

type stubBookingQueries struct{ store *fakeStore }

func (q *stubBookingQueries) GetByID(_ context.Context, id uuid.UUID) (*queries.BookingView, error) {
	b, ok := q.store.bookings[id]
	if !ok {
		return nil, queries.ErrBookingNotFound
	}
	view := &queries.BookingView{
		ID:             b.ID(),
		VehicleID:      b.VehicleID(),
		CustomerID:     b.CustomerID(),
		StartDate:      b.StartDate(),
		EndDate:        b.EndDate(),
		DailyRateCents: b.DailyRateCents(),
		DepositCents:   b.DepositCents(),
		TotalCents:     b.TotalCents(),
		ChargedCents:   b.ChargedCents(),
		Status:         b.Status().String(),
		PaymentStatus:  b.PaymentStatus().String(),
	}
	if v, ok := q.store.vehicles[b.VehicleID()]; ok {
		view.LicensePlate = v.LicensePlate()
	}
	if c, ok := q.store.customers[b.CustomerID()]; ok {
		view.CustomerEmail = c.Email().Value()
	}
	return view, nil
}

func (q *stubBookingQueries) List(_ context.Context) ([]*queries.BookingListItem, error) {
	var out []*queries.BookingListItem
	for _, b := range q.store.bookings {
		out = append(out, &queries.BookingListItem{ID: b.ID(), Status: b.Status().String()})
	}
	return out, nil
}

func (q *stubBookingQueries) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]*queries.BookingListItem, error) {
	all, _ := q.List(ctx)
	var out []*queries.BookingListItem
	for _, item := range all {
		if q.store.bookings[item.ID].CustomerID() == customerID {
			out = append(out, item)
		}
	}
	return out, nil
}

func (q *stubBookingQueries) ListByVehicle(ctx context.Context, vehicleID uuid.UUID) ([]*queries.BookingListItem, error) {
	all, _ := q.List(ctx)
	var out []*queries.BookingListItem
	for _, item := range all {
		if q.store.bookings[item.ID].VehicleID() == vehicleID {
			out = append(out, item)
		}
	}
	return out, nil
}

type stubVehicleQueries struct{ store *fakeStore }

func (q *stubVehicleQueries) GetByID(_ context.Context, id uuid.UUID) (*queries.VehicleView, error) {
	v, ok := q.store.vehicles[id]
	if !ok {
		return nil, queries.ErrVehicleNotFound
	}
	view := &queries.VehicleView{
		ID:             v.ID(),
		TypeID:         v.TypeID(),
		LicensePlate:   v.LicensePlate(),
		Color:          v.Color(),
		DailyRateCents: v.DailyRateCents(),
		DepositCents:   v.DepositCents(),
		Status:         v.Status().String(),
	}
	if t, ok := q.store.types[v.TypeID()]; ok {
		view.Brand = t.Brand()
		view.Model = t.Model()
		view.Category = t.Category()
	}
	return view, nil
}

func (q *stubVehicleQueries) List(ctx context.Context) ([]*queries.VehicleView, error) {
	var out []*queries.VehicleView
	for id := range q.store.vehicles {
		view, _ := q.GetByID(ctx, id)
		out = append(out, view)
	}
	return out, nil
}

func (q *stubVehicleQueries) ListTypes(_ context.Context) ([]*queries.VehicleTypeView, error) {
	var out []*queries.VehicleTypeView
	for _, t := range q.store.types {
		out = append(out, &queries.VehicleTypeView{
			ID:           t.ID(),
			Brand:        t.Brand(),
			Model:        t.Model(),
			Category:     t.Category(),
			Seats:        t.Seats(),
			Transmission: t.Transmission(),
		})
	}
	return out, nil
}

type stubCustomerQueries struct{ store *fakeStore }

func (q *stubCustomerQueries) GetByID(_ context.Context, id uuid.UUID) (*queries.CustomerView, error) {
	c, ok := q.store.customers[id]
	if !ok {
		return nil, queries.ErrCustomerNotFound
	}
	return &queries.CustomerView{
		ID:           c.ID(),
		Email:        c.Email().Value(),
		FirstName:    c.FirstName(),
		LastName:     c.LastName(),
		BalanceCents: c.BalanceCents(),
		Verified:     c.Verified(),
	}, nil
}

func (q *stubCustomerQueries) List(ctx context.Context) ([]*queries.CustomerView, error) {
	var out []*queries.CustomerView
	for id := range q.store.customers {
		view, _ := q.GetByID(ctx, id)
		out = append(out, view)
	}
	return out, nil
}

// env bundles the command services over one shared fake store.
type env struct {
	store     *fakeStore
	clock     *clock.MockClock
	jwt       *jwt.Service
	bookings  commands.BookingCommands
	vehicles  commands.VehicleCommands
	customers commands.CustomerCommands
	auth      commands.AuthCommands
}

func newEnv() *env {
	store := newFakeStore()
	uow := &fakeUoW{store: store}
	clk := clock.NewMockClock(time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC))
	jwtService := jwt.NewService("unit-test-secret", 15*time.Minute, 24*time.Hour)
	return &env{
		store:     store,
		clock:     clk,
		jwt:       jwtService,
		bookings:  commands.NewBookingCommands(uow, ledger.New(), &stubBookingQueries{store}, clk),
		vehicles:  commands.NewVehicleCommands(uow, &stubVehicleQueries{store}),
		customers: commands.NewCustomerCommands(uow, &stubCustomerQueries{store}, clk),
		auth:      commands.NewAuthCommands(uow, jwtService, clk),
	}
}

func (e *env) seedVehicle(t *testing.T, vb *builder.VehicleBuilder) *vehicle.Vehicle {
	t.Helper()
	v, err := vb.BuildDomain()
	require.NoError(t, err)
	e.store.vehicles[v.ID()] = v
	return v
}

func (e *env) seedCustomer(t *testing.T, cb *builder.CustomerBuilder) *customer.Customer {
	t.Helper()
	c, err := cb.BuildDomain()
	require.NoError(t, err)
	e.store.customers[c.ID()] = c
	return c
}

func (e *env) seedBooking(t *testing.T, bb *builder.BookingBuilder) *booking.Booking {
	t.Helper()
	b, err := bb.BuildDomain()
	require.NoError(t, err)
	e.store.bookings[b.ID()] = b
	return b
}

func (e *env) seedType(t *testing.T) *vehicle.Type {
	t.Helper()
	vt := vehicle.NewType("Volkswagen", "Golf", "compact", 5, "manual")
	e.store.types[vt.ID()] = vt
	return vt
}
