package server

import (
	"encoding/gob"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/matryer/way"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zucenko/territory/model"
)

func newTestServer(t *testing.T) (*GameServer, *httptest.Server) {
	settings := DefaultSettings()
	settings.TickRate = 100
	return newTestServerWith(t, settings)
}

func newTestServerWith(t *testing.T, settings Settings) (*GameServer, *httptest.Server) {
	gs := NewGameServer(settings)
	go gs.Loop()

	router := way.NewRouter()
	router.HandleFunc("GET", "/play", gs.HandleHttpCall())
	router.HandleFunc("GET", "/powerups", gs.HandlePowerUps())
	router.HandleFunc("GET", "/sessions", gs.HandleSessions())
	router.HandleFunc("GET", "/sessions/:id", gs.HandleSession())
	ts := httptest.NewServer(router)
	t.Cleanup(ts.Close)
	return gs, ts
}

func dial(t *testing.T, ts *httptest.Server) *websocket.Conn {
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/play"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func sendMessage(t *testing.T, conn *websocket.Conn, cm model.ClientMessage) {
	w, err := conn.NextWriter(websocket.BinaryMessage)
	require.NoError(t, err)
	require.NoError(t, gob.NewEncoder(w).Encode(cm))
	require.NoError(t, w.Close())
}

func readMessage(t *testing.T, conn *websocket.Conn) model.ServerMessage {
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	_, r, err := conn.NextReader()
	require.NoError(t, err)
	sm := model.ServerMessage{}
	require.NoError(t, gob.NewDecoder(r).Decode(&sm))
	return sm
}

func smallSetup() *model.MatchConfig {
	cfg := model.DefaultMatchConfig()
	cfg.BoardSize = 8
	cfg.MatchSeconds = 10
	cfg.Seed = 3
	return &cfg
}

func TestPlayRoundTrip(t *testing.T) {
	gs, ts := newTestServer(t)
	conn := dial(t, ts)

	sendMessage(t, conn, model.ClientMessage{Setup: smallSetup()})
	first := readMessage(t, conn)
	require.Len(t, first.Setup, 1)
	setup := first.Setup[0]
	assert.Equal(t, 8, setup.Rows)
	assert.Equal(t, 8, setup.Cols)
	assert.Equal(t, model.Player0, setup.Human)
	assert.NotEmpty(t, setup.MatchID)

	snap := readMessage(t, conn)
	require.Len(t, snap.Snapshots, 1)
	assert.Equal(t, model.Running, snap.Snapshots[0].Phase)
	assert.Len(t, snap.Snapshots[0].Owners, 8)

	sessions := gs.Sessions()
	require.Len(t, sessions, 1)
	assert.Equal(t, GS_PLAY.Name(), sessions[0].State)
	assert.Equal(t, setup.MatchID, sessions[0].MatchID)

	sendMessage(t, conn, model.ClientMessage{Move: model.Right})
	sendMessage(t, conn, model.ClientMessage{Quit: true})
	var last model.ServerMessage
	for i := 0; i < 100; i++ {
		last = readMessage(t, conn)
		if len(last.Results) > 0 {
			break
		}
	}
	require.Len(t, last.Results, 1)
	require.Len(t, last.Snapshots, 1)
	assert.Equal(t, model.Ended, last.Snapshots[0].Phase)
	assert.Equal(t, model.NewResult(last.Results[0].Scores).Winner, last.Results[0].Winner)

	_, _, err := conn.NextReader()
	assert.True(t, websocket.IsCloseError(err, websocket.CloseNormalClosure), "got %v", err)
}

func TestPlayRejectsInvalidSetup(t *testing.T) {
	_, ts := newTestServer(t)
	conn := dial(t, ts)

	bad := smallSetup()
	bad.Colors = [2]int{2, 2}
	sendMessage(t, conn, model.ClientMessage{Setup: bad})
	sm := readMessage(t, conn)
	require.Len(t, sm.Errors, 1)
	assert.Contains(t, sm.Errors[0], "invalid match config")
	assert.Empty(t, sm.Setup)
}

func TestPlayRejectsEmptyNameAndSharedColor(t *testing.T) {
	_, ts := newTestServer(t)

	noName := smallSetup()
	noName.Names = [2]string{"", "Bot"}
	conn := dial(t, ts)
	sendMessage(t, conn, model.ClientMessage{Setup: noName})
	sm := readMessage(t, conn)
	require.Len(t, sm.Errors, 1, "empty name must not be replaced by a default")
	assert.Contains(t, sm.Errors[0], "invalid match config")
	assert.Empty(t, sm.Setup)

	sameColor := smallSetup()
	sameColor.Colors = [2]int{0, 0}
	conn = dial(t, ts)
	sendMessage(t, conn, model.ClientMessage{Setup: sameColor})
	sm = readMessage(t, conn)
	require.Len(t, sm.Errors, 1, "shared color must not be replaced by a default")
	assert.Empty(t, sm.Setup)
}

func TestConcurrentPlayersGetOwnSessions(t *testing.T) {
	gs, ts := newTestServer(t)

	first := dial(t, ts)
	second := dial(t, ts)
	sendMessage(t, first, model.ClientMessage{Setup: smallSetup()})
	sendMessage(t, second, model.ClientMessage{Setup: smallSetup()})

	a := readMessage(t, first)
	b := readMessage(t, second)
	require.Len(t, a.Setup, 1)
	require.Len(t, b.Setup, 1)
	assert.NotEqual(t, a.Setup[0].MatchID, b.Setup[0].MatchID)

	sessions := gs.Sessions()
	require.Len(t, sessions, 2)
	assert.NotEqual(t, sessions[0].ID, sessions[1].ID)
}

func TestGameRequestsNeverShareSessions(t *testing.T) {
	gs := NewGameServer(DefaultSettings())
	go gs.Loop()

	ask := func() *GameSession {
		gcas := make(chan GameContextAwaiting, 1)
		gs.GameRequests <- GameRequest{GameContextAwaiting: gcas}
		gca := <-gcas
		require.Equal(t, GAME_READY, gca.ResponseCode)
		return gca.GameSession
	}
	one, two := ask(), ask()
	assert.NotEqual(t, one.ID, two.ID)

	close(one.abandoned)
	close(two.abandoned)
	deadline := time.Now().Add(time.Second)
	for len(gs.Sessions()) > 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	assert.Empty(t, gs.Sessions(), "abandoned sessions are removed")
}

func TestPlayRefusedWhenFull(t *testing.T) {
	settings := DefaultSettings()
	settings.TickRate = 100
	settings.MaxSessions = 1
	_, ts := newTestServerWith(t, settings)

	conn := dial(t, ts)
	sendMessage(t, conn, model.ClientMessage{Setup: smallSetup()})
	readMessage(t, conn)

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/play"
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestPlayRequiresSetupFirst(t *testing.T) {
	_, ts := newTestServer(t)
	conn := dial(t, ts)

	sendMessage(t, conn, model.ClientMessage{Move: model.Down})
	sm := readMessage(t, conn)
	require.Len(t, sm.Errors, 1)
	assert.Contains(t, sm.Errors[0], "setup")
}

func TestPowerUpsEndpoint(t *testing.T) {
	_, ts := newTestServer(t)
	resp, err := http.Get(ts.URL + "/powerups")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	var infos []PowerUpInfo
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&infos))
	require.Len(t, infos, len(model.PowerUpKinds))
	assert.Equal(t, PowerUpInfo{
		Kind:        "Freeze",
		Name:        "Freeze",
		Description: "Freezes opponent for 5s",
		Color:       "#00ff00",
		Seconds:     5,
		SpawnWeight: 1,
	}, infos[0])
	assert.Equal(t, "#ffa500", infos[4].Color)
}

func TestSessionEndpoints(t *testing.T) {
	_, ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/sessions/nope")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	conn := dial(t, ts)
	sendMessage(t, conn, model.ClientMessage{Setup: smallSetup()})
	readMessage(t, conn)

	resp, err = http.Get(ts.URL + "/sessions")
	require.NoError(t, err)
	var infos []SessionInfo
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&infos))
	resp.Body.Close()
	require.Len(t, infos, 1)

	resp, err = http.Get(ts.URL + "/sessions/" + infos[0].ID)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var info SessionInfo
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&info))
	assert.Equal(t, infos[0], info)
}
