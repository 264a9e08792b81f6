package server

import (
	"encoding/gob"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"
	"github.com/zucenko/territory/match"
	"github.com/zucenko/territory/model"
	"golang.org/x/time/rate"
)

const outboxSize = 16

func NewGameServer(settings Settings) *GameServer {
	return &GameServer{
		Settings:     settings,
		GameRequests: make(chan GameRequest),
		Upgrader:     &websocket.Upgrader{},
		sessions:     make(map[string]*GameSession),
		sessionDone:  make(chan string),
		sessionLists: make(chan chan []SessionInfo),
		now:          time.Now,
	}
}

func (s *GameServer) HandleHttpCall() http.HandlerFunc {
	timeout := 200 * time.Millisecond
	return func(w http.ResponseWriter, r *http.Request) {
		log.Debug("HandleHttpCall - connection received")

		gcas := make(chan GameContextAwaiting, 1)
		select {
		case s.GameRequests <- GameRequest{GameContextAwaiting: gcas}:
		case <-time.After(timeout):
			log.Warn("GameRequests TIMEOUTED")
			w.WriteHeader(HTTP_TIMEOUT)
			return
		}

		var gca GameContextAwaiting
		select {
		case gca = <-gcas:
			switch gca.ResponseCode {
			case GAME_FULL:
				log.Warn("HandleHttpCall refused, server full")
				w.WriteHeader(gca.ResponseCode.ToHttp())
				return
			case GAME_READY:
			default:
				log.Errorf("gca.ResponseCode not expected:%v", gca.ResponseCode)
			}
		case <-time.After(timeout):
			log.Warn("HandleHttpCall GameContextAwaiting <- TIMEOUTED")
			w.WriteHeader(HTTP_TIMEOUT)
			go func() {
				if late := <-gcas; late.GameSession != nil {
					close(late.GameSession.abandoned)
				}
			}()
			return
		}

		con, err := s.Upgrader.Upgrade(w, r, nil)
		if err != nil {
			// Upgrade has already replied to the client.
			log.Warnf("HandleHttpCall websocket upgrade err %v", err)
			close(gca.GameSession.abandoned)
			return
		}
		defer con.Close()

		gameOver := make(chan struct{})
		select {
		case gca.GameSession.PlayerConnectRequests <- PlayerConnectRequest{Con: con, GameOver: gameOver}:
		case <-time.After(timeout):
			log.Warn("HandleHttpCall PlayerConnectRequests TIMEOUTED")
			close(gca.GameSession.abandoned)
			return
		}

		log.WithField("session", gca.GameSession.ID).Info("player connected, waiting for game over")
		<-gameOver
	}
}

// Loop owns the session table.
func (s *GameServer) Loop() {
	log.Info("GameServer.Loop starting")
	for {
		select {
		case gameReq := <-s.GameRequests:
			if len(s.sessions) >= s.Settings.MaxSessions {
				gameReq.GameContextAwaiting <- GameContextAwaiting{ResponseCode: GAME_FULL}
				continue
			}
			gs := s.newSession()
			s.sessions[gs.ID] = gs
			go gs.Loop()
			log.WithField("session", gs.ID).Info("created GameSession")
			gameReq.GameContextAwaiting <- GameContextAwaiting{
				ResponseCode: GAME_READY,
				GameSession:  gs,
			}
		case id := <-s.sessionDone:
			delete(s.sessions, id)
			log.WithField("session", id).Info("removed GameSession")
		case reply := <-s.sessionLists:
			infos := make([]SessionInfo, 0, len(s.sessions))
			for _, gs := range s.sessions {
				infos = append(infos, gs.info())
			}
			reply <- infos
		}
	}
}

// Sessions asks Loop for a listing of live sessions.
func (s *GameServer) Sessions() []SessionInfo {
	reply := make(chan []SessionInfo, 1)
	s.sessionLists <- reply
	return <-reply
}

func (s *GameServer) newSession() *GameSession {
	return &GameSession{
		ID:                    uuid.New().String(),
		State:                 GS_NEW,
		Errors:                make(chan error),
		Events:                make(chan PlayerEvent),
		PlayerConnectRequests: make(chan PlayerConnectRequest),
		server:                s,
		done:                  make(chan struct{}),
		abandoned:             make(chan struct{}),
	}
}

func (gs *GameSession) info() SessionInfo {
	gs.mu.Lock()
	defer gs.mu.Unlock()
	return SessionInfo{ID: gs.ID, State: gs.State.Name(), MatchID: gs.matchID}
}

func (gs *GameSession) setState(state GameSessionState) {
	gs.mu.Lock()
	gs.State = state
	if gs.Match != nil {
		gs.matchID = gs.Match.ID
	}
	gs.mu.Unlock()
}

func (gs *GameSession) Loop() {
	logger := log.WithField("session", gs.ID)
	logger.Info("GameSession.Loop start")
	var tick <-chan time.Time
	for {
		select {
		case pcr := <-gs.PlayerConnectRequests:
			gs.addPlayer(pcr.Con, pcr.GameOver)
			gs.setState(GS_WAIT)
		case <-gs.abandoned:
			logger.Info("abandoned before connect")
			gs.finish(GS_ERR)
			return
		case err := <-gs.Errors:
			logger.Warnf("player error: %v", err)
			if gs.Match != nil {
				gs.Match.Stop()
			}
			gs.finish(GS_ERR)
			return
		case pe := <-gs.Events:
			if started := gs.handle(pe.Message, logger); started {
				gs.ticker = time.NewTicker(time.Second / time.Duration(gs.server.Settings.TickRate))
				tick = gs.ticker.C
			}
			if gs.State == GS_ERR || gs.State == GS_OVER {
				return
			}
		case <-tick:
			if over := gs.Tick(gs.server.now()); over {
				return
			}
		}
	}
}

// handle applies one client message and reports whether a match started.
func (gs *GameSession) handle(cm model.ClientMessage, logger *log.Entry) bool {
	switch gs.State {
	case GS_WAIT:
		if cm.Quit {
			gs.finish(GS_OVER)
			return false
		}
		if cm.Setup == nil {
			gs.reject("first message must carry a setup")
			return false
		}
		cfg := gs.server.Settings.Fill(*cm.Setup)
		m, err := match.NewMatch(cfg, gs.server.now())
		if err != nil {
			logger.Warnf("setup refused: %v", err)
			gs.reject(err.Error())
			return false
		}
		gs.Match = m
		gs.setState(GS_PLAY)
		gs.PlayerSession.State = PS_PLAY
		gs.PlayerSession.send(model.ServerMessage{Setup: []model.Setup{m.Setup()}}, true)
		return true
	case GS_PLAY:
		switch {
		case cm.Quit:
			// the next tick reports the result
			gs.Match.Stop()
		case cm.Move != model.NoDirection:
			gs.Match.Submit(model.Player0, cm.Move)
		}
	}
	return false
}

func (gs *GameSession) reject(reason string) {
	gs.PlayerSession.send(model.ServerMessage{Errors: []string{reason}}, true)
	gs.finish(GS_ERR)
}

// Tick advances the match and streams the snapshot. It reports whether the
// session is over.
func (gs *GameSession) Tick(now time.Time) bool {
	snap, err := gs.safeTick(now)
	if err != nil {
		log.WithField("session", gs.ID).Errorf("match aborted: %v", err)
		gs.PlayerSession.send(model.ServerMessage{Errors: []string{"internal error"}}, true)
		gs.finish(GS_ERR)
		return true
	}
	if res, ended := gs.Match.Result(); ended {
		gs.PlayerSession.send(model.ServerMessage{Snapshots: []model.Snapshot{snap}, Results: []model.Result{res}}, true)
		gs.finish(GS_OVER)
		return true
	}
	gs.PlayerSession.send(model.ServerMessage{Snapshots: []model.Snapshot{snap}}, false)
	return false
}

func (gs *GameSession) safeTick(now time.Time) (snap model.Snapshot, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("tick panic: %v", r)
		}
	}()
	return gs.Match.Tick(now), nil
}

func (gs *GameSession) finish(state GameSessionState) {
	gs.setState(state)
	if gs.ticker != nil {
		gs.ticker.Stop()
	}
	close(gs.done)
	if ps := gs.PlayerSession; ps != nil {
		if state == GS_OVER {
			ps.State = PS_OVER
		} else {
			ps.State = PS_ERR
		}
		close(ps.MessagesToSend)
	}
	gs.server.sessionDone <- gs.ID
}

func (gs *GameSession) addPlayer(conn *websocket.Conn, gameOver chan struct{}) {
	settings := gs.server.Settings
	ps := &PlayerSession{
		State:          PS_NEW,
		GameSession:    gs,
		Conn:           conn,
		GameOver:       gameOver,
		MessagesToSend: make(chan model.ServerMessage, outboxSize),
		writerDone:     make(chan struct{}),
		limiter:        rate.NewLimiter(rate.Limit(settings.MoveRate), settings.MoveBurst),
	}
	gs.PlayerSession = ps
	go ps.LoopChannelRead()
	go ps.LoopChannelWrite()
}

// send drops non-must messages when the outbox is full.
func (ps *PlayerSession) send(mes model.ServerMessage, must bool) {
	if must {
		select {
		case ps.MessagesToSend <- mes:
		case <-ps.writerDone:
		}
		return
	}
	select {
	case ps.MessagesToSend <- mes:
	default:
		ps.DebugDropped++
	}
}

func (ps *PlayerSession) fail(err error) {
	select {
	case ps.GameSession.Errors <- err:
	case <-ps.GameSession.done:
	}
}

func (ps *PlayerSession) LoopChannelRead() {
	logger := log.WithField("session", ps.GameSession.ID)
	logger.Debug("LoopChannelRead STARTED")
	for {
		_, r, err := ps.Conn.NextReader()
		if err != nil {
			ps.fail(fmt.Errorf("read: %w", err))
			break
		}
		cm := model.ClientMessage{}
		if err := gob.NewDecoder(r).Decode(&cm); err != nil {
			ps.fail(fmt.Errorf("decode: %w", err))
			break
		}
		ps.DebugInMessages++
		ps.DebugLastMessage = time.Now()
		if cm.Setup == nil && cm.Move != model.NoDirection && !ps.limiter.Allow() {
			logger.Debug("move dropped by limiter")
			continue
		}

		select {
		case ps.GameSession.Events <- PlayerEvent{Message: cm}:
		case <-ps.GameSession.done:
			logger.Debug("LoopChannelRead ENDED")
			return
		}
	}
	logger.Debug("LoopChannelRead ENDED")
}

// LoopChannelWrite drains the outbox until it is closed, then releases the
// HTTP handler through GameOver.
func (ps *PlayerSession) LoopChannelWrite() {
	logger := log.WithField("session", ps.GameSession.ID)
	defer close(ps.GameOver)
	defer close(ps.writerDone)
	for mes := range ps.MessagesToSend {
		w, err := ps.Conn.NextWriter(websocket.BinaryMessage)
		if err != nil {
			logger.Warnf("LoopChannelWrite cant get writer %v", err)
			ps.fail(err)
			return
		}
		if err := gob.NewEncoder(w).Encode(mes); err != nil {
			logger.Warnf("LoopChannelWrite cant encode %v", err)
			ps.fail(err)
			return
		}
		if err := w.Close(); err != nil {
			logger.Warnf("LoopChannelWrite cant flush %v", err)
			ps.fail(err)
			return
		}
		ps.DebugOutMessages++
	}
	ps.Conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second))
}
