package signal

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dkeye/Collab/internal/app"
	"github.com/dkeye/Collab/internal/app/orch"
	"github.com/dkeye/Collab/internal/core"
	"github.com/dkeye/Collab/internal/domain"
	"github.com/dkeye/Collab/internal/mocks"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var (
	users = map[string]domain.User{
		"u1": {ID: "u1", Name: "Alice", Active: true},
		"u2": {ID: "u2", Name: "Bob", Active: true},
		"u9": {ID: "u9", Name: "Mallory", Active: true},
	}
	project = domain.Project{ID: "p1", Name: "Site", OwnerID: "u1", MemberIDs: []domain.UserID{"u2"}}
)

type frame struct {
	Type    string               `json:"type"`
	Message json.RawMessage      `json:"message"`
	Users   []core.PresenceEntry `json:"users"`
	UserID  domain.UserID        `json:"userId"`
}

func startGateway(t *testing.T, messageBurst int) string {
	gin.SetMode(gin.TestMode)
	ctrl := gomock.NewController(t)
	projects := mocks.NewMockProjectStore(ctrl)
	messages := mocks.NewMockMessageStore(ctrl)
	projects.EXPECT().GetProject(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, id domain.RoomID) (domain.Project, error) {
			if id != project.ID {
				return domain.Project{}, domain.ErrProjectNotFound
			}
			return project, nil
		}).AnyTimes()
	messages.EXPECT().RecentMessages(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil).AnyTimes()
	messages.EXPECT().CreateMessage(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	o := &orch.Orchestrator{
		Registry: app.NewRegistry(),
		Policy:   app.SimplePolicy{},
		Projects: projects,
		Users:    mocks.NewMockUserDirectory(ctrl),
		Messages: messages,
	}
	ctl := NewSignalWSController(o, app.NewRateLimiter(0.001, messageBurst), app.NewRateLimiter(0, 0), Options{})

	ctx, cancel := context.WithCancel(context.Background())
	r := gin.New()
	r.GET("/ws", func(c *gin.Context) {
		ctl.HandleSignal(ctx, c, users[c.Query("user")])
	})
	srv := httptest.NewServer(r)
	t.Cleanup(func() {
		cancel()
		srv.Close()
	})
	return "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
}

func dial(t *testing.T, url, uid string) *websocket.Conn {
	ws, _, err := websocket.DefaultDialer.Dial(url+"?user="+uid, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = ws.Close() })
	return ws
}

func send(t *testing.T, ws *websocket.Conn, v any) {
	require.NoError(t, ws.WriteJSON(v))
}

// next reads frames until one of the wanted type arrives.
func next(t *testing.T, ws *websocket.Conn, want string) frame {
	t.Helper()
	require.NoError(t, ws.SetReadDeadline(time.Now().Add(2*time.Second)))
	for {
		var f frame
		_, data, err := ws.ReadMessage()
		require.NoError(t, err, "waiting for %s", want)
		require.NoError(t, json.Unmarshal(data, &f))
		if f.Type == want {
			return f
		}
	}
}

// readOne reads the very next frame.
func readOne(t *testing.T, ws *websocket.Conn) frame {
	t.Helper()
	require.NoError(t, ws.SetReadDeadline(time.Now().Add(2*time.Second)))
	var f frame
	_, data, err := ws.ReadMessage()
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &f))
	return f
}

func content(t *testing.T, f frame) string {
	t.Helper()
	var m domain.MessageView
	require.NoError(t, json.Unmarshal(f.Message, &m))
	return m.Content
}

func TestGateway_ProjectChat(t *testing.T) {
	req := require.New(t)
	url := startGateway(t, 10)
	alice := dial(t, url, "u1")
	bob := dial(t, url, "u2")

	send(t, alice, map[string]string{"type": "join_project", "projectId": "p1"})
	roster := next(t, alice, core.EventOnlineUsers)
	req.Len(roster.Users, 1)
	next(t, alice, core.EventRecentMessages)

	send(t, bob, map[string]string{"type": "join_project", "projectId": "p1"})
	roster = next(t, alice, core.EventOnlineUsers)
	req.Len(roster.Users, 2)
	next(t, bob, core.EventRecentMessages)

	send(t, alice, map[string]string{"type": "send_message", "projectId": "p1", "content": "hello"})
	for _, ws := range []*websocket.Conn{alice, bob} {
		msg := next(t, ws, core.EventNewMessage)
		req.Contains(string(msg.Message), `"content":"hello"`)
		req.Contains(string(msg.Message), `"name":"Alice"`)
	}

	send(t, bob, map[string]string{"type": "typing", "projectId": "p1"})
	typing := next(t, alice, core.EventUserTyping)
	req.Equal(domain.UserID("u2"), typing.UserID)

	// Blank content is dropped without a broadcast or an error reply.
	send(t, alice, map[string]string{"type": "send_message", "projectId": "p1", "content": "   "})
	send(t, alice, map[string]string{"type": "ping"})
	req.Equal(core.EventPong, readOne(t, alice).Type)
	send(t, bob, map[string]string{"type": "ping"})
	req.Equal(core.EventPong, readOne(t, bob).Type)

	send(t, alice, map[string]string{"type": "send_message", "projectId": "p1", "content": "first"})
	send(t, alice, map[string]string{"type": "send_message", "projectId": "p1", "content": "second"})
	for _, ws := range []*websocket.Conn{alice, bob} {
		req.Equal("first", content(t, next(t, ws, core.EventNewMessage)))
		req.Equal("second", content(t, next(t, ws, core.EventNewMessage)))
	}

	req.NoError(bob.Close())
	roster = next(t, alice, core.EventOnlineUsers)
	req.Len(roster.Users, 1)
	req.Equal(domain.UserID("u1"), roster.Users[0].UserID)
}

func TestGateway_Errors(t *testing.T) {
	url := startGateway(t, 1)

	t.Run("should report malformed frames", func(t *testing.T) {
		ws := dial(t, url, "u1")
		require.NoError(t, ws.WriteMessage(websocket.TextMessage, []byte("{nope")))
		var got core.ErrorEvent
		require.NoError(t, ws.SetReadDeadline(time.Now().Add(2*time.Second)))
		require.NoError(t, ws.ReadJSON(&got))
		require.Equal(t, "Invalid payload", got.Message)
	})

	t.Run("should refuse a non-member", func(t *testing.T) {
		req := require.New(t)
		ws := dial(t, url, "u9")
		send(t, ws, map[string]string{"type": "join_project", "projectId": "p1"})

		require.NoError(t, ws.SetReadDeadline(time.Now().Add(2*time.Second)))
		var got core.ErrorEvent
		req.NoError(ws.ReadJSON(&got))
		req.Equal("Not a project member", got.Message)
	})

	t.Run("should ask for a join before sending", func(t *testing.T) {
		req := require.New(t)
		ws := dial(t, url, "u2")
		send(t, ws, map[string]string{"type": "send_message", "projectId": "p1", "content": "hi"})

		require.NoError(t, ws.SetReadDeadline(time.Now().Add(2*time.Second)))
		var got core.ErrorEvent
		req.NoError(ws.ReadJSON(&got))
		req.Equal("Join the project first", got.Message)
	})

	t.Run("should rate limit chat messages", func(t *testing.T) {
		req := require.New(t)
		ws := dial(t, url, "u1")
		send(t, ws, map[string]string{"type": "join_project", "projectId": "p1"})
		next(t, ws, core.EventRecentMessages)

		send(t, ws, map[string]string{"type": "send_message", "projectId": "p1", "content": "one"})
		next(t, ws, core.EventNewMessage)
		send(t, ws, map[string]string{"type": "send_message", "projectId": "p1", "content": "two"})

		require.NoError(t, ws.SetReadDeadline(time.Now().Add(2*time.Second)))
		var got core.ErrorEvent
		req.NoError(ws.ReadJSON(&got))
		req.Equal("Too many requests", got.Message)
	})

	t.Run("should answer ping and whoami", func(t *testing.T) {
		req := require.New(t)
		ws := dial(t, url, "u2")
		send(t, ws, map[string]string{"type": "ping"})
		next(t, ws, core.EventPong)

		send(t, ws, map[string]string{"type": "whoami"})
		require.NoError(t, ws.SetReadDeadline(time.Now().Add(2*time.Second)))
		var got core.WhoAmIEvent
		req.NoError(ws.ReadJSON(&got))
		req.Equal(domain.UserID("u2"), got.UserID)
		req.Equal("Bob", got.UserName)
		req.Empty(got.Projects)
	})
}
