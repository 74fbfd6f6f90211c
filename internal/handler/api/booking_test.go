//go:build unit

package api_test

import (
	"errors"
	"net/http"
	"testing"

	"fleet-rental/internal/domain/account"
	"fleet-rental/internal/handler/api"
	resdto "fleet-rental/internal/handler/dto/response"
	"fleet-rental/internal/usecase/commands"
	"fleet-rental/internal/usecase/queries"
	"fleet-rental/tests/common/builder"
	"fleet-rental/tests/common/httptest"
	"fleet-rental/tests/common/testutil"
	commandsmock "fleet-rental/tests/mock/commands"
	queriesmock "fleet-rental/tests/mock/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type BookingHandlerTestSuite struct {
	suite.Suite
	router       *gin.Engine
	mockCtrl     *gomock.Controller
	mockCommands *commandsmock.MockBookingCommands
	mockQueries  *queriesmock.MockBookingQueries
	handler      *api.BookingHandler
}

func (s *BookingHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockCommands = commandsmock.NewMockBookingCommands(s.mockCtrl)
	s.mockQueries = queriesmock.NewMockBookingQueries(s.mockCtrl)
	s.handler = api.NewBookingHandler(s.mockCommands, s.mockQueries)

	// stand-in for the JWT middleware
	authMiddleware := func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		c.Set("account_id", uuid.New())
		c.Set("account_role", account.RoleStaff)
		c.Next()
	}

	s.router.POST("/bookings", authMiddleware, s.handler.Create)
	s.router.GET("/bookings", authMiddleware, s.handler.List)
	s.router.GET("/bookings/:id", authMiddleware, s.handler.Get)
	s.router.PUT("/bookings/:id", authMiddleware, s.handler.Update)
	s.router.DELETE("/bookings/:id", authMiddleware, s.handler.Remove)
	s.router.PUT("/bookings/:id/confirm", authMiddleware, s.handler.Confirm)
	s.router.POST("/bookings/:id/pay", authMiddleware, s.handler.Pay)
	s.router.PUT("/bookings/:id/complete", authMiddleware, s.handler.Complete)
	s.router.PUT("/bookings/:id/cancel", authMiddleware, s.handler.Cancel)
	s.router.POST("/bookings/:id/reject", authMiddleware, s.handler.Reject)
}

func (s *BookingHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestBookingHandlerSuite(t *testing.T) {
	suite.Run(t, new(BookingHandlerTestSuite))
}

type testCaseBooking struct {
	name       string
	mutate     func(m map[string]any)
	expectCode int
}

// ================================================================================
// TestCreate
// ================================================================================

func (s *BookingHandlerTestSuite) TestCreate() {
	url := "/bookings"

	reqBody := builder.NewBookingBuilder().BuildCreateRequestDTO()
	returnView := builder.NewBookingBuilder().BuildReadModel()

	s.Run("success: returns 201 Created for valid request", func() {
		s.mockCommands.EXPECT().Create(gomock.Any(), gomock.Any()).
			Return(returnView, nil).Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "bearer-token")

		var resp resdto.BookingResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusCreated, &resp)
		s.Equal(returnView.ID.String(), resp.ID.String())
		s.Equal("pending", resp.Status)
	})

	s.Run("validation: missing required fields return 400", func() {
		missing := []testCaseBooking{
			{name: "missing field: vehicle_id", mutate: testutil.Field("vehicle_id", nil), expectCode: http.StatusBadRequest},
			{name: "missing field: customer_id", mutate: testutil.Field("customer_id", nil), expectCode: http.StatusBadRequest},
			{name: "missing field: start_date", mutate: testutil.Field("start_date", nil), expectCode: http.StatusBadRequest},
			{name: "missing field: end_date", mutate: testutil.Field("end_date", nil), expectCode: http.StatusBadRequest},
			{name: "malformed vehicle_id", mutate: testutil.Field("vehicle_id", "not-a-uuid"), expectCode: http.StatusBadRequest},
			{name: "bare date instead of a timestamp", mutate: testutil.Field("start_date", "2026-04-10"), expectCode: http.StatusBadRequest},
		}
		for _, c := range missing {
			s.Run(c.name, func() {
				body := testutil.DtoMap(s.T(), reqBody, c.mutate)
				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, body, "bearer-token")
				s.Equal(c.expectCode, rec.Code)
			})
		}
	})

	s.Run("error mapping from the command layer", func() {
		cases := []struct {
			name       string
			err        error
			expectCode int
		}{
			{name: "unknown vehicle", err: commands.ErrVehicleNotFound, expectCode: http.StatusNotFound},
			{name: "unknown customer", err: commands.ErrCustomerNotFound, expectCode: http.StatusNotFound},
			{name: "inverted date range", err: commands.ErrInvalidDateRange, expectCode: http.StatusBadRequest},
			{name: "vehicle already held", err: commands.ErrVehicleUnavailable, expectCode: http.StatusConflict},
			{name: "unexpected failure", err: errors.New("boom"), expectCode: http.StatusInternalServerError},
		}
		for _, c := range cases {
			s.Run(c.name, func() {
				s.mockCommands.EXPECT().Create(gomock.Any(), gomock.Any()).
					Return(nil, c.err).Times(1)
				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "bearer-token")
				s.Equal(c.expectCode, rec.Code)
			})
		}
	})

	s.Run("unauthorized: returns 401 without a token", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "")
		s.Equal(http.StatusUnauthorized, rec.Code)
	})
}

// ================================================================================
// TestGet / TestList
// ================================================================================

func (s *BookingHandlerTestSuite) TestGet() {
	returnView := builder.NewBookingBuilder().BuildReadModel()

	s.Run("success: returns the booking view", func() {
		s.mockQueries.EXPECT().GetByID(gomock.Any(), returnView.ID).
			Return(returnView, nil).Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/bookings/"+returnView.ID.String(), nil, "bearer-token")

		var resp resdto.BookingResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &resp)
		s.Equal(returnView.LicensePlate, resp.LicensePlate)
		s.Equal(returnView.TotalCents, resp.TotalCents)
	})

	s.Run("not found: returns 404", func() {
		id := uuid.New()
		s.mockQueries.EXPECT().GetByID(gomock.Any(), id).
			Return(nil, queries.ErrBookingNotFound).Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/bookings/"+id.String(), nil, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusNotFound, "not found")
	})

	s.Run("malformed id: returns 400", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/bookings/abc", nil, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid ID")
	})
}

func (s *BookingHandlerTestSuite) TestList() {
	items := []*queries.BookingListItem{
		{ID: uuid.New(), Status: "pending"},
		{ID: uuid.New(), Status: "confirmed"},
	}

	s.Run("success: lists all bookings", func() {
		s.mockQueries.EXPECT().List(gomock.Any()).Return(items, nil).Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/bookings", nil, "bearer-token")

		var resp []resdto.BookingListResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &resp)
		s.Len(resp, 2)
	})

	s.Run("success: filters by customer", func() {
		customerID := uuid.New()
		s.mockQueries.EXPECT().ListByCustomer(gomock.Any(), customerID).Return(items[:1], nil).Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/bookings?customer_id="+customerID.String(), nil, "bearer-token")

		var resp []resdto.BookingListResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &resp)
		s.Len(resp, 1)
	})

	s.Run("success: filters by vehicle", func() {
		vehicleID := uuid.New()
		s.mockQueries.EXPECT().ListByVehicle(gomock.Any(), vehicleID).Return(items[1:], nil).Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/bookings?vehicle_id="+vehicleID.String(), nil, "bearer-token")
		s.Equal(http.StatusOK, rec.Code)
	})

	s.Run("malformed filter: returns 400", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/bookings?customer_id=nope", nil, "bearer-token")
		s.Equal(http.StatusBadRequest, rec.Code)
	})
}

// ================================================================================
// Workflow transitions
// ================================================================================

func (s *BookingHandlerTestSuite) TestConfirm() {
	returnView := builder.NewBookingBuilder().AsConfirmed().BuildReadModel()
	url := "/bookings/" + returnView.ID.String() + "/confirm"

	s.Run("success: returns the confirmed view", func() {
		s.mockCommands.EXPECT().Confirm(gomock.Any(), returnView.ID).
			Return(returnView, nil).Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPut, url, nil, "bearer-token")

		var resp resdto.BookingResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &resp)
		s.Equal("confirmed", resp.Status)
		s.Equal("successful", resp.PaymentStatus)
	})

	s.Run("wrong state: returns 409", func() {
		s.mockCommands.EXPECT().Confirm(gomock.Any(), returnView.ID).
			Return(nil, commands.ErrInvalidState).Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPut, url, nil, "bearer-token")
		s.Equal(http.StatusConflict, rec.Code)
	})

	s.Run("insufficient balance: returns 422", func() {
		s.mockCommands.EXPECT().Confirm(gomock.Any(), returnView.ID).
			Return(nil, commands.ErrInsufficientFunds).Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPut, url, nil, "bearer-token")
		s.Equal(http.StatusUnprocessableEntity, rec.Code)
	})

	s.Run("contention: returns 409 with Retry-After", func() {
		s.mockCommands.EXPECT().Confirm(gomock.Any(), returnView.ID).
			Return(nil, commands.ErrBusy).Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPut, url, nil, "bearer-token")
		s.Equal(http.StatusConflict, rec.Code)
		httptest.AssertHeaders(s.T(), rec, map[string]string{"Retry-After": "1"})
	})
}

func (s *BookingHandlerTestSuite) TestPay() {
	returnView := builder.NewBookingBuilder().AsConfirmed().BuildReadModel()
	url := "/bookings/" + returnView.ID.String() + "/pay"

	s.Run("success: returns the paid view", func() {
		s.mockCommands.EXPECT().Pay(gomock.Any(), returnView.ID).
			Return(returnView, nil).Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, nil, "bearer-token")

		var resp resdto.BookingResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &resp)
		s.Equal("confirmed", resp.Status)
	})

	s.Run("insufficient balance: returns 422", func() {
		s.mockCommands.EXPECT().Pay(gomock.Any(), returnView.ID).
			Return(nil, commands.ErrInsufficientFunds).Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, nil, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusUnprocessableEntity, "Insufficient")
	})
}

func (s *BookingHandlerTestSuite) TestComplete() {
	id := uuid.New()
	url := "/bookings/" + id.String() + "/complete"

	s.Run("success: returns 204", func() {
		s.mockCommands.EXPECT().Complete(gomock.Any(), id).Return(nil).Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPut, url, nil, "bearer-token")
		s.Equal(http.StatusNoContent, rec.Code)
	})

	s.Run("not confirmed: returns 409", func() {
		s.mockCommands.EXPECT().Complete(gomock.Any(), id).Return(commands.ErrInvalidState).Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPut, url, nil, "bearer-token")
		s.Equal(http.StatusConflict, rec.Code)
	})
}

func (s *BookingHandlerTestSuite) TestCancel() {
	id := uuid.New()
	url := "/bookings/" + id.String() + "/cancel"

	s.Run("success: returns 204", func() {
		s.mockCommands.EXPECT().Cancel(gomock.Any(), id).Return(nil).Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPut, url, nil, "bearer-token")
		s.Equal(http.StatusNoContent, rec.Code)
	})

	s.Run("already closed: returns 409", func() {
		s.mockCommands.EXPECT().Cancel(gomock.Any(), id).Return(commands.ErrInvalidState).Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPut, url, nil, "bearer-token")
		s.Equal(http.StatusConflict, rec.Code)
	})
}

func (s *BookingHandlerTestSuite) TestReject() {
	returnView := builder.NewBookingBuilder().WithStatus("rejected").BuildReadModel()
	url := "/bookings/" + returnView.ID.String() + "/reject"

	s.Run("success: passes the reason query through", func() {
		s.mockCommands.EXPECT().Reject(gomock.Any(), returnView.ID, "no-show").
			Return(returnView, nil).Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url+"?reason=no-show", nil, "bearer-token")

		var resp resdto.BookingResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &resp)
		s.Equal("rejected", resp.Status)
	})

	s.Run("success: reason is optional", func() {
		s.mockCommands.EXPECT().Reject(gomock.Any(), returnView.ID, "").
			Return(returnView, nil).Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, nil, "bearer-token")
		s.Equal(http.StatusOK, rec.Code)
	})
}

// ================================================================================
// TestUpdate / TestRemove
// ================================================================================

func (s *BookingHandlerTestSuite) TestUpdate() {
	returnView := builder.NewBookingBuilder().BuildReadModel()
	url := "/bookings/" + returnView.ID.String()

	s.Run("success: returns the updated view", func() {
		newVehicleID := uuid.New()
		s.mockCommands.EXPECT().Update(gomock.Any(), returnView.ID, gomock.Any()).
			Return(returnView, nil).Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPut, url,
			map[string]any{"vehicle_id": newVehicleID.String()}, "bearer-token")
		s.Equal(http.StatusOK, rec.Code)
	})

	s.Run("contention: returns 409 with Retry-After", func() {
		s.mockCommands.EXPECT().Update(gomock.Any(), returnView.ID, gomock.Any()).
			Return(nil, commands.ErrBusy).Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPut, url,
			map[string]any{"customer_id": uuid.New().String()}, "bearer-token")
		s.Equal(http.StatusConflict, rec.Code)
		httptest.AssertHeaders(s.T(), rec, map[string]string{"Retry-After": "1"})
	})
}

func (s *BookingHandlerTestSuite) TestRemove() {
	id := uuid.New()
	url := "/bookings/" + id.String()

	s.Run("success: returns 204", func() {
		s.mockCommands.EXPECT().Remove(gomock.Any(), id).Return(true, nil).Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodDelete, url, nil, "bearer-token")
		s.Equal(http.StatusNoContent, rec.Code)
	})

	s.Run("already gone: returns 404", func() {
		s.mockCommands.EXPECT().Remove(gomock.Any(), id).Return(false, nil).Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodDelete, url, nil, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusNotFound, "not found")
	})
}
