package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dkeye/Collab/internal/adapters/signal"
	"github.com/dkeye/Collab/internal/app"
	"github.com/dkeye/Collab/internal/app/notify"
	"github.com/dkeye/Collab/internal/app/orch"
	"github.com/dkeye/Collab/internal/auth"
	"github.com/dkeye/Collab/internal/config"
	"github.com/dkeye/Collab/internal/domain"
	"github.com/dkeye/Collab/internal/mocks"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var (
	secret  = []byte("router-test-secret-123")
	alice   = domain.User{ID: "u1", Name: "Alice", Active: true}
	mallory = domain.User{ID: "u9", Name: "Mallory", Active: true}
	project = domain.Project{ID: "p1", OwnerID: "u1"}
)

type fixture struct {
	router   *gin.Engine
	projects *mocks.MockProjectStore
	messages *mocks.MockMessageStore
	store    *mocks.MockNotificationStore
}

func newFixture(t *testing.T) *fixture {
	gin.SetMode(gin.TestMode)
	ctrl := gomock.NewController(t)
	users := mocks.NewMockUserDirectory(ctrl)
	users.EXPECT().GetUser(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, id domain.UserID) (domain.User, error) {
			switch id {
			case alice.ID:
				return alice, nil
			case mallory.ID:
				return mallory, nil
			}
			return domain.User{}, domain.ErrUserNotFound
		}).AnyTimes()

	f := &fixture{
		projects: mocks.NewMockProjectStore(ctrl),
		messages: mocks.NewMockMessageStore(ctrl),
		store:    mocks.NewMockNotificationStore(ctrl),
	}
	o := &orch.Orchestrator{
		Registry: app.NewRegistry(),
		Policy:   app.SimplePolicy{},
		Projects: f.projects,
		Users:    users,
		Messages: f.messages,
	}
	d := notify.NewDispatcher(f.store, users, o, notify.Options{})
	cfg := &config.Config{Mode: "test", InternalAPIKey: "internal-key"}
	f.router = SetupRouter(context.Background(), cfg, Deps{
		Auth:     auth.NewAuthenticator(secret, users),
		Orch:     o,
		Signal:   signal.NewSignalWSController(o, nil, nil, signal.Options{}),
		Notifier: d,
		Inbox:    d,
	})
	return f
}

func (f *fixture) do(t *testing.T, method, path string, user domain.UserID, body string, header map[string]string) *httptest.ResponseRecorder {
	r := httptest.NewRequest(method, path, strings.NewReader(body))
	if user != "" {
		token, err := auth.GenerateToken(secret, user, time.Hour)
		require.NoError(t, err)
		r.Header.Set("Authorization", "Bearer "+token)
	}
	for k, v := range header {
		r.Header.Set(k, v)
	}
	if body != "" {
		r.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, r)
	return w
}

func TestRouter_Auth(t *testing.T) {
	f := newFixture(t)

	t.Run("should serve health without a credential", func(t *testing.T) {
		w := f.do(t, http.MethodGet, "/api/health", "", "", nil)
		require.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("should refuse missing and bad credentials", func(t *testing.T) {
		req := require.New(t)
		req.Equal(http.StatusUnauthorized, f.do(t, http.MethodGet, "/api/notifications", "", "", nil).Code)
		req.Equal(http.StatusUnauthorized, f.do(t, http.MethodGet, "/api/ws", "", "", nil).Code)
		req.Equal(http.StatusUnauthorized, f.do(t, http.MethodGet, "/api/notifications", "", "",
			map[string]string{"Authorization": "Bearer garbage"}).Code)
		req.Equal(http.StatusUnauthorized, f.do(t, http.MethodGet, "/api/notifications", "ghost", "", nil).Code)
	})

	t.Run("should accept the token query parameter", func(t *testing.T) {
		req := require.New(t)
		token, err := auth.GenerateToken(secret, alice.ID, time.Hour)
		req.NoError(err)
		f.store.EXPECT().ListNotifications(gomock.Any(), alice.ID, false, notify.DefaultListLimit).Return(nil, nil)

		w := f.do(t, http.MethodGet, "/api/notifications?token="+token, "", "", nil)
		req.Equal(http.StatusOK, w.Code)
	})
}

func TestRouter_Projects(t *testing.T) {
	f := newFixture(t)

	t.Run("should show the roster to members only", func(t *testing.T) {
		req := require.New(t)
		f.projects.EXPECT().GetProject(gomock.Any(), project.ID).Return(project, nil).Times(2)

		w := f.do(t, http.MethodGet, "/api/projects/p1/online", alice.ID, "", nil)
		req.Equal(http.StatusOK, w.Code)
		req.JSONEq(`{"projectId":"p1","users":[]}`, w.Body.String())

		w = f.do(t, http.MethodGet, "/api/projects/p1/online", mallory.ID, "", nil)
		req.Equal(http.StatusForbidden, w.Code)
		req.JSONEq(`{"error":"Not a project member"}`, w.Body.String())
	})

	t.Run("should page history", func(t *testing.T) {
		req := require.New(t)
		f.projects.EXPECT().GetProject(gomock.Any(), project.ID).Return(project, nil)
		f.messages.EXPECT().MessagesBefore(gomock.Any(), project.ID, "c1", 10).
			Return([]domain.Message{{ID: "m1", ProjectID: "p1", SenderID: "u1", Content: "hi"}}, "c0", nil)

		w := f.do(t, http.MethodGet, "/api/projects/p1/messages?before=c1&limit=10", alice.ID, "", nil)
		req.Equal(http.StatusOK, w.Code)
		var body struct {
			Messages   []domain.MessageView `json:"messages"`
			NextCursor string               `json:"nextCursor"`
		}
		req.NoError(json.Unmarshal(w.Body.Bytes(), &body))
		req.Equal("c0", body.NextCursor)
		req.Equal("Alice", body.Messages[0].Sender.Name)
	})

	t.Run("should let only the sender delete", func(t *testing.T) {
		req := require.New(t)
		f.messages.EXPECT().GetMessage(gomock.Any(), "m1").Return(domain.Message{ID: "m1", ProjectID: "p1", SenderID: "u1"}, nil)

		w := f.do(t, http.MethodDelete, "/api/messages/m1", mallory.ID, "", nil)
		req.Equal(http.StatusForbidden, w.Code)
	})

	t.Run("should reject an empty edit", func(t *testing.T) {
		w := f.do(t, http.MethodPatch, "/api/messages/m1", alice.ID, `{}`, nil)
		require.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestRouter_InternalDispatch(t *testing.T) {
	f := newFixture(t)
	key := map[string]string{"X-Internal-Key": "internal-key"}
	body := `{"recipientId":"u1","type":"milestone_completed","title":"Milestone","message":"Design done"}`

	t.Run("should require the internal key", func(t *testing.T) {
		w := f.do(t, http.MethodPost, "/internal/notifications", "", body, map[string]string{"X-Internal-Key": "nope"})
		require.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("should reject an unknown type", func(t *testing.T) {
		w := f.do(t, http.MethodPost, "/internal/notifications", "", strings.Replace(body, "milestone_completed", "spam", 1), key)
		require.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("should persist a valid event", func(t *testing.T) {
		req := require.New(t)
		f.store.EXPECT().CreateNotification(gomock.Any(), gomock.Any()).Return(nil)

		w := f.do(t, http.MethodPost, "/internal/notifications", "", body, key)
		req.Equal(http.StatusCreated, w.Code)
		var n domain.Notification
		req.NoError(json.Unmarshal(w.Body.Bytes(), &n))
		req.Equal(domain.NotificationMilestoneCompleted, n.Type)
		req.NotEmpty(n.ID)
	})
}
