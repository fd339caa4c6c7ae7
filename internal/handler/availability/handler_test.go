package availability

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/telehealth-api/internal/middleware"
	"github.com/jwalitptl/telehealth-api/internal/model"
	availabilitysvc "github.com/jwalitptl/telehealth-api/internal/service/availability"
)

type fakeAvailabilityRepo struct {
	rules map[uuid.UUID][]*model.AvailabilityRule
}

func newFakeAvailabilityRepo() *fakeAvailabilityRepo {
	return &fakeAvailabilityRepo{rules: make(map[uuid.UUID][]*model.AvailabilityRule)}
}

func (f *fakeAvailabilityRepo) ListForProvider(_ context.Context, providerID uuid.UUID) ([]*model.AvailabilityRule, error) {
	return f.rules[providerID], nil
}

func (f *fakeAvailabilityRepo) ReplaceAll(_ context.Context, providerID uuid.UUID, rules []*model.AvailabilityRule) (int, error) {
	for _, r := range rules {
		r.ID = uuid.New()
		r.ProviderID = providerID
	}
	f.rules[providerID] = rules
	return len(rules), nil
}

type fakeAppointmentRepo struct {
	blocking []*model.Appointment
}

func (f *fakeAppointmentRepo) Create(_ context.Context, _ *model.Appointment) error { return nil }

func (f *fakeAppointmentRepo) Get(_ context.Context, _ uuid.UUID) (*model.Appointment, error) {
	return nil, nil
}

func (f *fakeAppointmentRepo) UpdateStatus(_ context.Context, _ uuid.UUID, _ model.AppointmentStatus) error {
	return nil
}

func (f *fakeAppointmentRepo) ListForProvider(_ context.Context, _ uuid.UUID) ([]*model.Appointment, error) {
	return nil, nil
}

func (f *fakeAppointmentRepo) ListForPatient(_ context.Context, _ uuid.UUID) ([]*model.Appointment, error) {
	return nil, nil
}

func (f *fakeAppointmentRepo) ListBlocking(_ context.Context, _ uuid.UUID, _, _ time.Time) ([]*model.Appointment, error) {
	return f.blocking, nil
}

func (f *fakeAppointmentRepo) HasOverlap(_ context.Context, _ uuid.UUID, _, _ time.Time) (bool, error) {
	return false, nil
}

type envelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func setupRouter(t *testing.T, providerID uuid.UUID, availRepo *fakeAvailabilityRepo, apptRepo *fakeAppointmentRepo) *gin.Engine {
	return setupRouterIn(t, providerID, availRepo, apptRepo, time.UTC)
}

func setupRouterIn(t *testing.T, providerID uuid.UUID, availRepo *fakeAvailabilityRepo, apptRepo *fakeAppointmentRepo, loc *time.Location) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	middleware.RegisterValidators()

	svc := availabilitysvc.NewService(availRepo, apptRepo, availabilitysvc.Config{
		Location: loc,
	})
	h := NewHandler(svc)

	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(middleware.ContextUserID, providerID)
		c.Set(middleware.ContextUserRole, model.RoleProvider)
	})
	r.POST("/availability", h.ReplaceSchedule)
	r.GET("/availability/:providerId", h.GetAvailability)
	return r
}

func TestReplaceScheduleReturnsCount(t *testing.T) {
	providerID := uuid.New()
	router := setupRouter(t, providerID, newFakeAvailabilityRepo(), &fakeAppointmentRepo{})

	body := `{"schedule":[
		{"day_of_week":1,"start_time":"09:00","end_time":"17:00"},
		{"day_of_week":3,"start_time":"10:00","end_time":"14:00"}
	]}`

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/availability", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)

	var resp envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "success", resp.Status)
	assert.JSONEq(t, `{"count":2}`, string(resp.Data))
}

func TestReplaceScheduleRejectsMalformedTime(t *testing.T) {
	providerID := uuid.New()
	router := setupRouter(t, providerID, newFakeAvailabilityRepo(), &fakeAppointmentRepo{})

	body := `{"schedule":[{"day_of_week":1,"start_time":"9am","end_time":"17:00"}]}`

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/availability", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestReplaceScheduleRejectsDuplicateWeekday(t *testing.T) {
	providerID := uuid.New()
	router := setupRouter(t, providerID, newFakeAvailabilityRepo(), &fakeAppointmentRepo{})

	body := `{"schedule":[
		{"day_of_week":1,"start_time":"09:00","end_time":"12:00"},
		{"day_of_week":1,"start_time":"13:00","end_time":"17:00"}
	]}`

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/availability", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetAvailabilityResolvesSlots(t *testing.T) {
	providerID := uuid.New()
	availRepo := newFakeAvailabilityRepo()
	availRepo.rules[providerID] = []*model.AvailabilityRule{
		{ID: uuid.New(), ProviderID: providerID, DayOfWeek: 1, StartTime: "09:00", EndTime: "10:00"},
	}
	router := setupRouter(t, providerID, availRepo, &fakeAppointmentRepo{})

	// 2025-01-06 is a Monday.
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet,
		"/availability/"+providerID.String()+"?startDate=2025-01-06&endDate=2025-01-06", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	var slots []model.ResolvedSlot
	require.NoError(t, json.Unmarshal(resp.Data, &slots))
	require.Len(t, slots, 2)
	assert.Equal(t, time.Date(2025, 1, 6, 9, 0, 0, 0, time.UTC), slots[0].Slot.UTC())
	assert.Equal(t, time.Date(2025, 1, 6, 9, 30, 0, 0, time.UTC), slots[1].Slot.UTC())
}

func TestGetAvailabilityHonorsConfiguredTimezone(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	providerID := uuid.New()
	availRepo := newFakeAvailabilityRepo()
	availRepo.rules[providerID] = []*model.AvailabilityRule{
		{ID: uuid.New(), ProviderID: providerID, DayOfWeek: 1, StartTime: "09:00", EndTime: "10:00"},
	}
	router := setupRouterIn(t, providerID, availRepo, &fakeAppointmentRepo{}, loc)

	// 2025-01-06 is a Monday in every zone; a UTC parse of the date
	// would truncate to Sunday in New York and resolve nothing.
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet,
		"/availability/"+providerID.String()+"?startDate=2025-01-06&endDate=2025-01-06", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	var slots []model.ResolvedSlot
	require.NoError(t, json.Unmarshal(resp.Data, &slots))
	require.Len(t, slots, 2)
	assert.Equal(t, time.Date(2025, 1, 6, 9, 0, 0, 0, loc), slots[0].Slot.In(loc))
	assert.Equal(t, time.Date(2025, 1, 6, 9, 30, 0, 0, loc), slots[1].Slot.In(loc))
}

func TestGetAvailabilityNoScheduleIs404(t *testing.T) {
	providerID := uuid.New()
	router := setupRouter(t, providerID, newFakeAvailabilityRepo(), &fakeAppointmentRepo{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet,
		"/availability/"+uuid.New().String()+"?startDate=2025-01-06&endDate=2025-01-12", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetAvailabilityEmptyIs200(t *testing.T) {
	providerID := uuid.New()
	availRepo := newFakeAvailabilityRepo()
	availRepo.rules[providerID] = []*model.AvailabilityRule{
		{ID: uuid.New(), ProviderID: providerID, DayOfWeek: 1, StartTime: "09:00", EndTime: "10:00"},
	}
	router := setupRouter(t, providerID, availRepo, &fakeAppointmentRepo{})

	// 2025-01-07 through 2025-01-08 contains no Monday.
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet,
		"/availability/"+providerID.String()+"?startDate=2025-01-07&endDate=2025-01-08", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	var slots []model.ResolvedSlot
	require.NoError(t, json.Unmarshal(resp.Data, &slots))
	assert.Empty(t, slots)
}

func TestGetAvailabilityBadDate(t *testing.T) {
	providerID := uuid.New()
	router := setupRouter(t, providerID, newFakeAvailabilityRepo(), &fakeAppointmentRepo{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet,
		"/availability/"+providerID.String()+"?startDate=Jan-6&endDate=2025-01-12", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
