//go:build e2e

package booking_test

import (
	"fmt"
	"net/http"
	"net/url"
	"testing"
	"time"

	"fleet-rental/internal/domain/account"
	resdto "fleet-rental/internal/handler/dto/response"
	"fleet-rental/tests/common/authtest"
	"fleet-rental/tests/common/builder"
	"fleet-rental/tests/common/dbtest"
	"fleet-rental/tests/common/httptest"
	"fleet-rental/tests/e2e"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

const bookingsURL = "/api/bookings"

type BookingSuite struct {
	e2e.SharedSuite
}

func TestBookingSuite(t *testing.T) {
	t.Parallel()
	suite.Run(t, new(BookingSuite))
}

type fleet struct {
	vehicleID  uuid.UUID
	customerID uuid.UUID
	token      string
}

// seedFleet inserts a staff account, one vehicle at 10000/day with a
// 20000 deposit and a customer holding 100000, then logs the staff in.
func (s *BookingSuite) seedFleet(t *testing.T) fleet {
	t.Helper()

	dbtest.CreateTestAccount(t, s.DB, "staff@example.com", account.RoleStaff.String())
	typeID := dbtest.CreateTestVehicleType(t, s.DB, "Volkswagen", "Golf")
	vehicleID := dbtest.CreateTestVehicle(t, s.DB, typeID, "B-RT 2041", 10000, 20000)
	customerID := dbtest.CreateTestCustomer(t, s.DB, "renter@example.com", 100000)
	token := authtest.LoginAccount(t, s.Router, "staff@example.com", "password123")

	return fleet{vehicleID: vehicleID, customerID: customerID, token: token}
}

func (s *BookingSuite) createBooking(t *testing.T, f fleet) resdto.BookingResponse {
	t.Helper()

	req := builder.NewBookingBuilder().
		With(func(b *builder.BookingBuilder) {
			b.VehicleID = f.vehicleID
			b.CustomerID = f.customerID
			b.StartDate = time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)
			b.EndDate = time.Date(2026, 9, 9, 0, 0, 0, 0, time.UTC)
		}).
		BuildCreateRequestDTO()

	w := httptest.PerformRequest(t, s.Router, http.MethodPost, bookingsURL, req, f.token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var res resdto.BookingResponse
	require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &res))
	return res
}

func (s *BookingSuite) getBooking(t *testing.T, id uuid.UUID, token string) resdto.BookingResponse {
	t.Helper()

	w := httptest.PerformRequest(t, s.Router, http.MethodGet, fmt.Sprintf("%s/%s", bookingsURL, id), nil, token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var res resdto.BookingResponse
	require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &res))
	return res
}

func (s *BookingSuite) TestBookingLifecycle() {
	s.Run("Create, confirm and complete settle the full cost", func() {
		t := s.T()
		f := s.seedFleet(t)

		created := s.createBooking(t, f)

		expected := resdto.BookingResponse{
			VehicleID:      f.vehicleID,
			LicensePlate:   "B-RT 2041",
			CustomerID:     f.customerID,
			CustomerEmail:  "renter@example.com",
			DailyRateCents: 10000,
			DepositCents:   20000,
			TotalCents:     30000,
			ChargedCents:   0,
			Status:         "pending",
			PaymentStatus:  "pending",
		}
		opts := []cmp.Option{
			cmpopts.IgnoreFields(resdto.BookingResponse{}, "ID", "StartDate", "EndDate", "CreatedAt", "UpdatedAt"),
		}
		if diff := cmp.Diff(expected, created, opts...); diff != "" {
			t.Errorf("booking response mismatch (-want +got):\n%s", diff)
		}
		require.Equal(t, int64(100000), dbtest.CustomerBalance(t, s.DB, f.customerID))
		require.Equal(t, 1, dbtest.CountQueuedJobs(t, s.DB, "booking_created"))

		w := httptest.PerformRequest(t, s.Router, http.MethodPut,
			fmt.Sprintf("%s/%s/confirm", bookingsURL, created.ID), nil, f.token)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var confirmed resdto.BookingResponse
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &confirmed))
		require.Equal(t, "confirmed", confirmed.Status)
		require.Equal(t, "successful", confirmed.PaymentStatus)
		require.Equal(t, int64(20000), confirmed.ChargedCents)
		require.Equal(t, int64(80000), dbtest.CustomerBalance(t, s.DB, f.customerID))
		require.Equal(t, "unavailable", dbtest.VehicleStatus(t, s.DB, f.vehicleID))

		w = httptest.PerformRequest(t, s.Router, http.MethodPut,
			fmt.Sprintf("%s/%s/complete", bookingsURL, created.ID), nil, f.token)
		require.Equal(t, http.StatusNoContent, w.Code, w.Body.String())

		final := s.getBooking(t, created.ID, f.token)
		require.Equal(t, "completed", final.Status)
		require.Equal(t, int64(50000), final.ChargedCents)
		require.Equal(t, int64(50000), dbtest.CustomerBalance(t, s.DB, f.customerID))
		require.Equal(t, "available", dbtest.VehicleStatus(t, s.DB, f.vehicleID))
		require.Equal(t, 1, dbtest.CountQueuedJobs(t, s.DB, "booking_completed"))
	})

	s.Run("Pay charges everything upfront and cancel refunds it", func() {
		t := s.T()
		f := s.seedFleet(t)
		created := s.createBooking(t, f)

		w := httptest.PerformRequest(t, s.Router, http.MethodPost,
			fmt.Sprintf("%s/%s/pay", bookingsURL, created.ID), nil, f.token)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var paid resdto.BookingResponse
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &paid))
		require.Equal(t, int64(50000), paid.ChargedCents)
		require.Equal(t, int64(50000), dbtest.CustomerBalance(t, s.DB, f.customerID))

		w = httptest.PerformRequest(t, s.Router, http.MethodPut,
			fmt.Sprintf("%s/%s/cancel", bookingsURL, created.ID), nil, f.token)
		require.Equal(t, http.StatusNoContent, w.Code, w.Body.String())

		final := s.getBooking(t, created.ID, f.token)
		require.Equal(t, "cancelled", final.Status)
		require.Equal(t, "refunded", final.PaymentStatus)
		require.Equal(t, int64(100000), dbtest.CustomerBalance(t, s.DB, f.customerID))
		require.Equal(t, "available", dbtest.VehicleStatus(t, s.DB, f.vehicleID))
	})

	s.Run("Confirm fails when the deposit exceeds the balance", func() {
		t := s.T()
		f := s.seedFleet(t)
		f.customerID = dbtest.CreateTestCustomer(t, s.DB, "broke@example.com", 1000)
		created := s.createBooking(t, f)

		w := httptest.PerformRequest(t, s.Router, http.MethodPut,
			fmt.Sprintf("%s/%s/confirm", bookingsURL, created.ID), nil, f.token)
		require.Equal(t, http.StatusUnprocessableEntity, w.Code, w.Body.String())

		final := s.getBooking(t, created.ID, f.token)
		require.Equal(t, "pending", final.Status)
		require.Equal(t, int64(1000), dbtest.CustomerBalance(t, s.DB, f.customerID))
	})

	s.Run("Failed payment is recorded even though nothing was charged", func() {
		t := s.T()
		f := s.seedFleet(t)
		f.customerID = dbtest.CreateTestCustomer(t, s.DB, "broke@example.com", 1000)
		created := s.createBooking(t, f)

		w := httptest.PerformRequest(t, s.Router, http.MethodPost,
			fmt.Sprintf("%s/%s/pay", bookingsURL, created.ID), nil, f.token)
		require.Equal(t, http.StatusUnprocessableEntity, w.Code, w.Body.String())

		final := s.getBooking(t, created.ID, f.token)
		require.Equal(t, "pending", final.Status)
		require.Equal(t, "failed", final.PaymentStatus)
		require.Equal(t, int64(0), final.ChargedCents)
		require.Equal(t, int64(1000), dbtest.CustomerBalance(t, s.DB, f.customerID))
	})

	s.Run("Reject refunds the deposit and records the reason", func() {
		t := s.T()
		f := s.seedFleet(t)
		created := s.createBooking(t, f)

		w := httptest.PerformRequest(t, s.Router, http.MethodPut,
			fmt.Sprintf("%s/%s/confirm", bookingsURL, created.ID), nil, f.token)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		w = httptest.PerformRequest(t, s.Router, http.MethodPost,
			fmt.Sprintf("%s/%s/reject?reason=%s", bookingsURL, created.ID,
				url.QueryEscape("vehicle recalled")), nil, f.token)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var rejected resdto.BookingResponse
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &rejected))
		require.Equal(t, "rejected", rejected.Status)
		require.Equal(t, "refunded", rejected.PaymentStatus)
		require.Equal(t, int64(100000), dbtest.CustomerBalance(t, s.DB, f.customerID))
		require.Equal(t, 1, dbtest.CountQueuedJobs(t, s.DB, "booking_rejected"))
	})

	s.Run("Remove releases the vehicle and deletes the booking", func() {
		t := s.T()
		f := s.seedFleet(t)
		created := s.createBooking(t, f)

		w := httptest.PerformRequest(t, s.Router, http.MethodPut,
			fmt.Sprintf("%s/%s/confirm", bookingsURL, created.ID), nil, f.token)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		w = httptest.PerformRequest(t, s.Router, http.MethodDelete,
			fmt.Sprintf("%s/%s", bookingsURL, created.ID), nil, f.token)
		require.Equal(t, http.StatusNoContent, w.Code, w.Body.String())

		require.Equal(t, int64(100000), dbtest.CustomerBalance(t, s.DB, f.customerID))
		require.Equal(t, "available", dbtest.VehicleStatus(t, s.DB, f.vehicleID))

		w = httptest.PerformRequest(t, s.Router, http.MethodGet,
			fmt.Sprintf("%s/%s", bookingsURL, created.ID), nil, f.token)
		require.Equal(t, http.StatusNotFound, w.Code)
	})

	s.Run("Requests without a token are rejected", func() {
		t := s.T()
		w := httptest.PerformRequest(t, s.Router, http.MethodGet, bookingsURL, nil, "")
		require.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
