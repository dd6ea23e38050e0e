package v1_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	v1 "github.com/vibe-gaming/bmr-reminder/internal/api/http/internal/v1"
	"github.com/vibe-gaming/bmr-reminder/internal/domain"
	"github.com/vibe-gaming/bmr-reminder/internal/repository/repotest"
	"github.com/vibe-gaming/bmr-reminder/internal/service"
	"github.com/vibe-gaming/bmr-reminder/pkg/otp"
	"github.com/vibe-gaming/bmr-reminder/pkg/validator"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type queue struct {
	mu   sync.Mutex
	sent []domain.Notification
}

func (q *queue) Enqueue(_ context.Context, n domain.Notification) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.sent = append(q.sent, n)
	return nil
}

func (q *queue) last(t *testing.T) domain.Notification {
	t.Helper()
	q.mu.Lock()
	defer q.mu.Unlock()
	require.NotEmpty(t, q.sent)
	return q.sent[len(q.sent)-1]
}

type fixture struct {
	router *gin.Engine
	store  *repotest.Store
	queue  *queue
	now    time.Time
}

func setup(t *testing.T) *fixture {
	t.Helper()

	gin.SetMode(gin.TestMode)
	validator.RegisterGinValidator()

	f := &fixture{
		store: repotest.New(),
		queue: &queue{},
		now:   time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	services := service.NewServices(service.Deps{
		Logger:       zaptest.NewLogger(t),
		Repos:        f.store.Repositories(),
		OtpGenerator: otp.NewCryptoGenerator(),
		Notifier:     f.queue,
		Now:          func() time.Time { return f.now },
	})

	f.router = gin.New()
	v1.NewHandler(services).Init(f.router.Group("/api"))

	return f
}

func (f *fixture) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func imperialSignup() gin.H {
	return gin.H{
		"email":           "a@b.com",
		"freq":            "monthly",
		"sex":             "male",
		"age":             30,
		"measurement_sys": "imperial",
		"feet":            5,
		"inches":          10,
		"lbs":             180,
		"est_bmr":         1800,
		"est_tdee":        2400,
	}
}

func metricMeasurements() gin.H {
	return gin.H{
		"sex":             "male",
		"age":             31,
		"measurement_sys": "metric",
		"cm":              178,
		"kg":              80,
		"est_bmr":         1750,
		"est_tdee":        2300,
	}
}

// confirmed signs the example subscriber up through the api and follows
// the confirmation link.
func (f *fixture) confirmed(t *testing.T) int64 {
	t.Helper()

	w := f.do(t, http.MethodPost, "/api/v1/subscribe", imperialSignup())
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	n := f.queue.last(t)
	w = f.do(t, http.MethodPut, fmt.Sprintf("/api/v1/user/confirm/%d/%d", n.SubID, n.Code), nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	return n.SubID
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestSubscribeStoresImperialHeightInInches(t *testing.T) {
	f := setup(t)

	w := f.do(t, http.MethodPost, "/api/v1/subscribe", imperialSignup())
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	n := f.queue.last(t)
	assert.Equal(t, domain.NotificationSignupConfirm, n.Kind)

	m, ok := f.store.Measurements(n.SubID)
	require.True(t, ok)
	assert.Equal(t, 70.0, m.Height)
	assert.Equal(t, 180.0, m.Weight)
	assert.Equal(t, 1800, m.EstBMR)
}

func TestSubscribeStatusByOutcome(t *testing.T) {
	f := setup(t)

	assert.Equal(t, http.StatusCreated, f.do(t, http.MethodPost, "/api/v1/subscribe", imperialSignup()).Code)
	assert.Equal(t, http.StatusOK, f.do(t, http.MethodPost, "/api/v1/subscribe", imperialSignup()).Code)

	n := f.queue.last(t)
	require.Equal(t, http.StatusOK, f.do(t, http.MethodPut, fmt.Sprintf("/api/v1/user/confirm/%d/%d", n.SubID, n.Code), nil).Code)

	w := f.do(t, http.MethodPost, "/api/v1/subscribe", imperialSignup())
	assert.Equal(t, http.StatusAccepted, w.Code)
	assert.Equal(t, domain.NotificationUpdateConfirm, f.queue.last(t).Kind)
}

func TestSubscribeRejectsBadInput(t *testing.T) {
	f := setup(t)

	missingLbs := imperialSignup()
	delete(missingLbs, "lbs")
	w := f.do(t, http.MethodPost, "/api/v1/subscribe", missingLbs)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), fmt.Sprintf(`"error_code":%d`, v1.InvalidRequestCode))

	badEmail := imperialSignup()
	badEmail["email"] = "not-an-email"
	w = f.do(t, http.MethodPost, "/api/v1/subscribe", badEmail)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"field_key":"email"`)

	unknownFreq := imperialSignup()
	unknownFreq["freq"] = "hourly"
	w = f.do(t, http.MethodPost, "/api/v1/subscribe", unknownFreq)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), fmt.Sprintf(`"error_code":%d`, v1.UnknownFrequencyCode))

	assert.Empty(t, f.store.Snapshot().Subscribers)
}

func TestConfirmRejectsForeignOrMalformedCode(t *testing.T) {
	f := setup(t)

	require.Equal(t, http.StatusCreated, f.do(t, http.MethodPost, "/api/v1/subscribe", imperialSignup()).Code)
	n := f.queue.last(t)

	other := n.Code + 1
	if other > domain.MaxCode {
		other = domain.MinCode
	}
	w := f.do(t, http.MethodPut, fmt.Sprintf("/api/v1/user/confirm/%d/%d", n.SubID, other), nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = f.do(t, http.MethodPut, fmt.Sprintf("/api/v1/user/confirm/%d/%d", n.SubID+1, n.Code), nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = f.do(t, http.MethodPut, fmt.Sprintf("/api/v1/user/confirm/%d/123", n.SubID), nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	sub, ok := f.store.Subscriber(n.SubID)
	require.True(t, ok)
	assert.False(t, sub.Confirmed)
}

func TestConfirmRejectsExpiredCode(t *testing.T) {
	f := setup(t)

	require.Equal(t, http.StatusCreated, f.do(t, http.MethodPost, "/api/v1/subscribe", imperialSignup()).Code)
	n := f.queue.last(t)

	f.now = f.now.Add(domain.PurposeConfirmation.Window() + time.Second)
	w := f.do(t, http.MethodPut, fmt.Sprintf("/api/v1/user/confirm/%d/%d", n.SubID, n.Code), nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPendingUpdateReviewAndConfirm(t *testing.T) {
	f := setup(t)
	id := f.confirmed(t)

	update := imperialSignup()
	for k, v := range metricMeasurements() {
		update[k] = v
	}
	require.Equal(t, http.StatusAccepted, f.do(t, http.MethodPost, "/api/v1/subscribe", update).Code)
	n := f.queue.last(t)
	require.Equal(t, id, n.SubID)

	w := f.do(t, http.MethodGet, fmt.Sprintf("/api/v1/update/review/%d/%d", id, n.Code), nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	review := decode[map[string]any](t, w)
	assert.Equal(t, "metric", review["measurement_sys"])
	assert.Equal(t, 178.0, review["cm"])
	assert.NotContains(t, review, "feet")

	w = f.do(t, http.MethodPut, fmt.Sprintf("/api/v1/update/confirm/%d/%d", id, n.Code), nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	m, ok := f.store.Measurements(id)
	require.True(t, ok)
	assert.Equal(t, domain.SystemMetric, m.System)
	assert.Equal(t, 80.0, m.Weight)

	_, ok = f.store.PendingUpdate(id)
	assert.False(t, ok)

	w = f.do(t, http.MethodPut, fmt.Sprintf("/api/v1/update/confirm/%d/%d", id, n.Code), nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPendingUpdateReject(t *testing.T) {
	f := setup(t)
	id := f.confirmed(t)

	require.Equal(t, http.StatusAccepted, f.do(t, http.MethodPost, "/api/v1/subscribe", imperialSignup()).Code)
	n := f.queue.last(t)

	w := f.do(t, http.MethodDelete, fmt.Sprintf("/api/v1/update/reject/%d/%d", id, n.Code), nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	_, ok := f.store.PendingUpdate(id)
	assert.False(t, ok)
}

func TestUpdateMeasurementsWithUpdateCode(t *testing.T) {
	f := setup(t)
	id := f.confirmed(t)

	code := domain.Code{SubID: id, Code: 55555555, DateCreated: f.now, DateExpires: f.now.Add(time.Hour)}
	f.store.PutCode(domain.PurposeUpdate, code)

	w := f.do(t, http.MethodGet, fmt.Sprintf("/api/v1/update/%d/%d", id, code.Code), nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	current := decode[map[string]any](t, w)
	assert.Equal(t, 5.0, current["feet"])
	assert.Equal(t, 10.0, current["inches"])
	assert.Equal(t, 180.0, current["lbs"])

	w = f.do(t, http.MethodPut, fmt.Sprintf("/api/v1/update/%d/%d", id, code.Code), metricMeasurements())
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	m, ok := f.store.Measurements(id)
	require.True(t, ok)
	assert.Equal(t, 178.0, m.Height)
	assert.Equal(t, 31, m.Age)

	_, ok = f.store.Code(domain.PurposeUpdate, id)
	assert.False(t, ok)
}

func TestUnsubscribeFlow(t *testing.T) {
	f := setup(t)
	id := f.confirmed(t)

	w := f.do(t, http.MethodPost, "/api/v1/unsubscribe", gin.H{"email": "a@b.com"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	n := f.queue.last(t)
	assert.Equal(t, domain.NotificationUnsubscribeConfirm, n.Kind)

	w = f.do(t, http.MethodPost, "/api/v1/unsubscribe", gin.H{"email": "a@b.com"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), fmt.Sprintf(`"error_code":%d`, v1.UnsubscribeAlreadyRequestedCode))

	w = f.do(t, http.MethodDelete, fmt.Sprintf("/api/v1/unsubscribe/%d/%d", id, n.Code), nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	_, ok := f.store.Subscriber(id)
	assert.False(t, ok)
	_, ok = f.store.Measurements(id)
	assert.False(t, ok)
}

func TestRequestUnsubscribeUnknownEmail(t *testing.T) {
	f := setup(t)

	w := f.do(t, http.MethodPost, "/api/v1/unsubscribe", gin.H{"email": "nobody@b.com"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), fmt.Sprintf(`"error_code":%d`, v1.SubscriberNotFoundCode))
}
