package http_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/m-mizutani/gt"
	controller "github.com/postpilot-app/postpilot/pkg/controller/http"
	"github.com/postpilot-app/postpilot/pkg/domain/model"
	"github.com/postpilot-app/postpilot/pkg/domain/types"
	"github.com/postpilot-app/postpilot/pkg/repository/memory"
	"github.com/postpilot-app/postpilot/pkg/usecase"
)

type stubGenerator struct{}

func (stubGenerator) Generate(ctx context.Context, req *model.GenerationRequest) (string, error) {
	return "stub post", nil
}

type stubPublisher struct{}

func (stubPublisher) Publish(ctx context.Context, accessToken, text string) (bool, error) {
	return true, nil
}

func newTestServer(t *testing.T) (*controller.Server, *memory.Memory) {
	t.Helper()
	repo := memory.New()
	uc := usecase.New(repo,
		usecase.WithGenerator(stubGenerator{}),
		usecase.WithPublisher(stubPublisher{}),
	)
	return controller.New(uc), repo
}

func seedUser(t *testing.T, repo *memory.Memory, id string, autoPosting bool) *model.User {
	t.Helper()
	user := &model.User{
		ID:               types.UserID(id),
		Email:            id + "@example.com",
		AccessToken:      "token",
		AutoPosting:      autoPosting,
		ScheduleSettings: `{"mode":"daily","timezone":"UTC+0","settings":{"dailyTime":"09:00"}}`,
	}
	gt.NoError(t, repo.User().Put(context.Background(), user)).Required()
	return user
}

func TestHealthz(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	gt.Value(t, rec.Code).Equal(http.StatusOK)
}

func TestStatusWithoutScheduler(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/autopost/status", nil))

	gt.Value(t, rec.Code).Equal(http.StatusOK)

	var body map[string]any
	gt.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body)).Required()
	gt.Value(t, body["running"]).Equal(false)
}

func TestTrigger(t *testing.T) {
	t.Run("publishes for enabled user", func(t *testing.T) {
		srv, repo := newTestServer(t)
		seedUser(t, repo, "alice", true)

		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/autopost/trigger/alice", nil))

		gt.Value(t, rec.Code).Equal(http.StatusOK)

		var outcome model.RunOutcome
		gt.NoError(t, json.Unmarshal(rec.Body.Bytes(), &outcome)).Required()
		gt.Bool(t, outcome.Published).True()
		gt.Value(t, outcome.Trigger).Equal(types.TriggerManual)
	})

	t.Run("automation off yields conflict", func(t *testing.T) {
		srv, repo := newTestServer(t)
		seedUser(t, repo, "bob", false)

		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/autopost/trigger/bob", nil))

		gt.Value(t, rec.Code).Equal(http.StatusConflict)

		var outcome model.RunOutcome
		gt.NoError(t, json.Unmarshal(rec.Body.Bytes(), &outcome)).Required()
		gt.Value(t, outcome.SkipReason).Equal(model.SkipAutomationOff)
	})

	t.Run("force overrides automation switch", func(t *testing.T) {
		srv, repo := newTestServer(t)
		seedUser(t, repo, "bob", false)

		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/autopost/trigger/bob?force=1", nil))

		gt.Value(t, rec.Code).Equal(http.StatusOK)
	})

	t.Run("unknown user yields not found", func(t *testing.T) {
		srv, _ := newTestServer(t)

		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/autopost/trigger/nobody", nil))

		gt.Value(t, rec.Code).Equal(http.StatusNotFound)
	})
}

func TestDebug(t *testing.T) {
	srv, repo := newTestServer(t)
	seedUser(t, repo, "alice", true)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/autopost/debug/alice", nil))

	gt.Value(t, rec.Code).Equal(http.StatusOK)

	var insp usecase.UserInspection
	gt.NoError(t, json.Unmarshal(rec.Body.Bytes(), &insp)).Required()
	gt.Value(t, insp.UserID).Equal(types.UserID("alice"))
	gt.Bool(t, insp.AutoPosting).True()
	gt.Value(t, insp.ScheduleMode).Equal("daily")
}

func TestDebugUnknownUser(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/autopost/debug/nobody", nil))

	gt.Value(t, rec.Code).Equal(http.StatusNotFound)
}
