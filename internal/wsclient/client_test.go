package wsclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/artdeck/artdeck-go/internal/auth"
	"github.com/artdeck/artdeck-go/internal/collab"
	"github.com/artdeck/artdeck-go/internal/document"
	"github.com/artdeck/artdeck-go/internal/engine"
	"github.com/artdeck/artdeck-go/internal/geometry"
	"github.com/artdeck/artdeck-go/internal/protocol"
	"github.com/artdeck/artdeck-go/internal/store/sqlite"
)

type testRelay struct {
	srv *httptest.Server
	hub *collab.Hub
	svc *auth.Service
}

func newTestRelay(t *testing.T) *testRelay {
	t.Helper()
	db, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	hub := collab.NewHub(db, time.Second)
	svc := auth.NewService("test-secret")
	h := collab.NewHandler(hub, svc, db, collab.HandlerConfig{AuthTimeout: time.Second})

	r := mux.NewRouter()
	r.HandleFunc("/ws", h.ServeWS)
	r.Handle("/rooms/{roomId}/events", auth.Middleware(svc)(http.HandlerFunc(h.History))).Methods("GET")

	srv := httptest.NewServer(r)
	t.Cleanup(func() {
		hub.Stop()
		srv.Close()
	})
	return &testRelay{srv: srv, hub: hub, svc: svc}
}

func (tr *testRelay) token(t *testing.T, user string) string {
	t.Helper()
	token, err := tr.svc.IssueToken(user)
	require.NoError(t, err)
	return token
}

func TestClient_SyncAndHydrate(t *testing.T) {
	tr := newTestRelay(t)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	const room = 5
	a, err := Dial(ctx, tr.srv.URL, tr.token(t, "alice"))
	require.NoError(t, err)
	defer a.Close()
	b, err := Dial(ctx, tr.srv.URL, tr.token(t, "bob"))
	require.NoError(t, err)
	defer b.Close()

	require.NoError(t, a.Join(ctx, room))
	require.NoError(t, b.Join(ctx, room))
	require.Eventually(t, func() bool { return tr.hub.Members(room) == 2 }, 5*time.Second, 10*time.Millisecond)

	engA := engine.New(engine.Options{
		RoomID: room,
		Outbound: func(env protocol.Envelope) {
			assert.NoError(t, a.Send(ctx, env))
		},
		NewID: func() string { return "s1" },
	})

	updates := make(chan []document.Shape, 8)
	engB := engine.New(engine.Options{
		RoomID:   room,
		OnChange: func(s []document.Shape) { updates <- s },
	})
	go b.Run(ctx, func(data []byte) { engB.HandleInbound(data) })

	engA.SetTool(engine.ToolRect)
	engA.PointerDown(geometry.Point{X: 10, Y: 10})
	engA.PointerMove(geometry.Point{X: 60, Y: 50})
	engA.PointerUp(geometry.Point{X: 60, Y: 50})

	want := document.Shape{ID: "s1", Geometry: document.Rectangle{X: 10, Y: 10, Width: 50, Height: 40}}
	select {
	case shapes := <-updates:
		assert.Equal(t, []document.Shape{want}, shapes)
	case <-ctx.Done():
		t.Fatal("peer never received the create")
	}

	entries, err := FetchHistory(ctx, nil, tr.srv.URL, tr.token(t, "carol"), room, 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "alice", entries[0].UserID)

	late := engine.New(engine.Options{RoomID: room})
	assert.Equal(t, 1, late.Hydrate(entries))
	shapes := late.Shapes()
	require.Len(t, shapes, 1)
	assert.Equal(t, want.Geometry, shapes[0].Geometry)
	assert.Equal(t, entries[0].ID, shapes[0].LogID)
}

func TestClient_RejectedToken(t *testing.T) {
	tr := newTestRelay(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	c, err := Dial(ctx, tr.srv.URL, "bogus")
	require.NoError(t, err)
	defer c.Close()

	err = c.Run(ctx, func([]byte) { t.Error("no frames expected") })
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rejected")
}

func TestFetchHistory_Unauthorized(t *testing.T) {
	tr := newTestRelay(t)
	_, err := FetchHistory(context.Background(), tr.srv.Client(), tr.srv.URL, "bogus", 1, 0)
	assert.Error(t, err)
}

func TestEndpoint(t *testing.T) {
	u, err := endpoint("http://localhost:8080/", "/ws")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/ws", u.String())
}
