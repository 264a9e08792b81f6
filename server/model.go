package server

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/zucenko/territory/match"
	"github.com/zucenko/territory/model"
	"golang.org/x/time/rate"
)

type GameServer struct {
	Settings     Settings
	GameRequests chan GameRequest
	Upgrader     *websocket.Upgrader

	sessions     map[string]*GameSession
	sessionDone  chan string
	sessionLists chan chan []SessionInfo
	now          func() time.Time
}

type GameSessionState int

const (
	GS_NEW GameSessionState = iota
	GS_WAIT
	GS_PLAY
	GS_ERR
	GS_OVER
)

// GameSession hosts one match for one connection. Fields are owned by Loop;
// State is also read by GameServer.Loop under mu.
type GameSession struct {
	ID                    string
	State                 GameSessionState
	Match                 *match.Match
	PlayerSession         *PlayerSession
	Errors                chan error
	Events                chan PlayerEvent
	PlayerConnectRequests chan PlayerConnectRequest

	server *GameServer
	done   chan struct{}
	// abandoned is closed by the HTTP handler when no player will come.
	abandoned chan struct{}
	ticker    *time.Ticker
	mu        sync.Mutex
	matchID   string
}

type PlayerSessionState int

const (
	PS_NEW PlayerSessionState = iota + 1
	PS_PLAY
	PS_OVER
	PS_ERR
)

type PlayerSession struct {
	State       PlayerSessionState
	GameSession *GameSession
	Conn        *websocket.Conn
	GameOver    chan struct{}

	MessagesToSend chan model.ServerMessage
	writerDone     chan struct{}
	limiter        *rate.Limiter

	DebugInMessages  int
	DebugOutMessages int
	DebugDropped     int
	DebugLastMessage time.Time
}
