// server/server.go
package server

import (
	"encoding/json"
	"net/http"
	"net/rpc"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/twobob/blockduel/broadcast"
	"github.com/twobob/blockduel/delta"
	"github.com/twobob/blockduel/input"
	"github.com/twobob/blockduel/logger"
	"github.com/twobob/blockduel/monitor"
	"github.com/twobob/blockduel/network"
	"github.com/twobob/blockduel/persistence"
	"github.com/twobob/blockduel/room"
	blockduelrpc "github.com/twobob/blockduel/rpc"
	"github.com/twobob/blockduel/services"
	"github.com/twobob/blockduel/session"
	"github.com/twobob/blockduel/timer"
)

const (
	defaultGameMode = "versus"

	sweepInterval     = 30 * time.Second
	heartbeatInterval = 5 * time.Second
	summaryInterval   = 30 * time.Second
)

// GameServer wires the websocket boundary to the room registry and runs
// the three process timers: batch flush, idle sweep, and heartbeat
// probes.
type GameServer struct {
	addr           string
	upgrader       websocket.Upgrader
	roomManager    *room.Manager
	sessionManager *session.Manager
	scoreService   *services.ScoreService
	broadcaster    broadcast.Broadcaster
	limiter        *actionLimiter
	timers         *timer.TimerManager
	monitor        *monitor.Monitor
	rpcServer      *blockduelrpc.Server
	shutdownChan   chan struct{}
}

func NewGameServer(addr, rpcAddr, metricsAddr string, db persistence.Database) *GameServer {
	s := &GameServer{
		addr:           addr,
		roomManager:    room.NewRoomManager(),
		sessionManager: session.NewManager(),
		limiter:        newActionLimiter(),
		timers:         timer.NewTimerManager(),
		monitor:        monitor.NewMonitor("blockduel"),
		shutdownChan:   make(chan struct{}),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}

	s.scoreService = services.NewScoreService(db)
	s.broadcaster = broadcast.NewRoomBroadcaster(s.roomManager, s.sessionManager)

	rpcServer, err := blockduelrpc.NewServer(rpcAddr)
	if err != nil {
		logger.Log.Fatalf("Failed to create RPC server: %v", err)
	}
	s.rpcServer = rpcServer
	rpc.Register(blockduelrpc.NewStatsService(s.scoreService))

	if metricsAddr != "" {
		s.monitor.StartServer(metricsAddr)
	}

	s.startTimers()

	return s
}

func (s *GameServer) startTimers() {
	// Process-wide batch flush at the sync cadence.
	s.timers.AddTimer(delta.FlushInterval, delta.FlushInterval, func() {
		if flushed := s.roomManager.FlushAll(); flushed > 0 {
			for i := 0; i < flushed; i++ {
				s.monitor.IncBatchFlushes()
			}
		}
	})

	// Coarse sweep for rooms that lost their seats without a leave.
	s.timers.AddTimer(sweepInterval, sweepInterval, func() {
		s.roomManager.SweepIdle()
		s.monitor.SetActiveRooms(s.roomManager.Count())
	})

	// Periodic operational summary.
	s.timers.AddTimer(summaryInterval, summaryInterval, func() {
		logger.Log.Infof("server summary: sessions=%d rooms=%d actions=%d",
			s.sessionManager.Count(), s.roomManager.Count(), s.monitor.ActionCount())
	})
}

func (s *GameServer) Start() error {
	go s.rpcServer.Start()

	http.HandleFunc("/ws", s.handleWebSocket)
	logger.Log.Infof("Game server listening on %s", s.addr)
	return http.ListenAndServe(s.addr, nil)
}

func (s *GameServer) Shutdown() {
	close(s.shutdownChan)
	s.timers.Stop()
	s.rpcServer.Stop()
}

func (s *GameServer) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Log.Infof("Failed to upgrade connection: %v", err)
		return
	}
	s.handleConnection(conn)
}

func (s *GameServer) handleConnection(conn *websocket.Conn) {
	wsConn := network.NewWSConnection(conn)
	sess := session.NewSession(uuid.New().String(), wsConn)
	s.sessionManager.Add(sess)
	s.monitor.IncOnlinePlayers()

	logger.Log.Infof("New connection from %s, session ID: %s", wsConn.RemoteAddr(), sess.GetID())

	// Per-connection latency probe.
	probeID := s.timers.AddTimer(heartbeatInterval, heartbeatInterval, func() {
		now := time.Now()
		sess.MarkPing(now)
		data, _ := json.Marshal(network.PingRequest{ServerTime: now.UnixMilli()})
		sess.Send(network.MsgTypePing, data)
	})

	defer func() {
		logger.Log.Infof("Connection closed from %s, session ID: %s", wsConn.RemoteAddr(), sess.GetID())
		s.timers.RemoveTimer(probeID)
		s.leaveRoom(sess)
		s.sessionManager.Remove(sess.GetID())
		s.limiter.Forget(sess.GetID())
		s.monitor.DecOnlinePlayers()
		wsConn.Close()
	}()

	for {
		select {
		case <-s.shutdownChan:
			return
		default:
			packet, err := wsConn.ReadPacket()
			if err != nil {
				return
			}
			s.handlePacket(sess, packet)
		}
	}
}

func (s *GameServer) handlePacket(sess *session.Session, packet *network.Packet) {
	switch packet.MsgID {
	case network.MsgTypePing:
		// Client-initiated probe: echo it straight back.
		sess.LastActive = time.Now()
		sess.Send(network.MsgTypePong, packet.Data)
	case network.MsgTypePong:
		latency := sess.ObservePong(time.Now())
		s.monitor.ObserveProbeLatency(latency)
	case network.MsgTypeJoinRoom:
		s.handleJoinRoom(sess, packet)
	case network.MsgTypeLeaveRoom:
		s.leaveRoom(sess)
	case network.MsgTypePlayerReady:
		s.handlePlayerReady(sess)
	case network.MsgTypeGameAction:
		s.handleGameAction(sess, packet)
	case network.MsgTypeNewGame:
		s.handleNewGame(sess)
	default:
		logger.Log.Infof("Unknown message type: %d", packet.MsgID)
	}
}

func (s *GameServer) sendError(sess *session.Session, message string) {
	data, _ := json.Marshal(network.ErrorMessage{Message: message})
	sess.Send(network.MsgTypeError, data)
}

func (s *GameServer) handleJoinRoom(sess *session.Session, packet *network.Packet) {
	var req network.JoinRoomRequest
	if err := json.Unmarshal(packet.Data, &req); err != nil {
		s.sendError(sess, "malformed join payload")
		return
	}
	if sess.RoomID != "" {
		s.sendError(sess, "already in a room")
		return
	}

	roomID := req.RoomID
	if roomID == "" {
		roomID = uuid.New().String()
	}
	playerName := req.PlayerName
	if playerName == "" {
		playerName = "Player_" + sess.GetID()[:5]
	}

	r := s.roomManager.GetOrCreate(roomID, defaultGameMode, s.broadcaster, s.scoreService)
	seat, err := r.AddSeat(sess)
	if err != nil {
		data, _ := json.Marshal(network.RoomFull{Message: "room is full"})
		sess.Send(network.MsgTypeRoomFull, data)
		return
	}
	sess.PlayerName = playerName
	s.monitor.SetActiveRooms(s.roomManager.Count())

	logger.Log.Infof("Session %s joined room %s as seat %d", sess.GetID(), roomID, seat)

	joined, _ := json.Marshal(network.JoinedRoom{
		RoomID:     roomID,
		Seat:       seat,
		Roommates:  r.Roommates(),
		ServerTime: time.Now().UnixMilli(),
	})
	sess.Send(network.MsgTypeJoinedRoom, joined)

	notice, _ := json.Marshal(network.PlayerJoined{
		Seat:          seat,
		PlayerName:    playerName,
		PlayersInRoom: r.SeatCount(),
	})
	for _, other := range r.GetSessions() {
		if other.GetID() != sess.GetID() {
			other.Send(network.MsgTypePlayerJoined, notice)
		}
	}
}

func (s *GameServer) handlePlayerReady(sess *session.Session) {
	r, exists := s.roomManager.GetRoom(sess.RoomID)
	if !exists {
		return
	}
	r.SubmitReady(sess.Seat)
}

func (s *GameServer) handleGameAction(sess *session.Session, packet *network.Packet) {
	if !s.limiter.Allow(sess.GetID(), time.Now()) {
		data, _ := json.Marshal(network.RateLimited{Message: "too many actions"})
		sess.Send(network.MsgTypeRateLimited, data)
		return
	}

	var req network.GameActionRequest
	if err := json.Unmarshal(packet.Data, &req); err != nil {
		s.sendError(sess, "malformed action payload")
		return
	}
	action, ok := input.ParseAction(req.Type)
	if !ok {
		s.sendError(sess, "unknown action type")
		return
	}

	// A stale room or seat is silently ignored; losing one input is
	// tolerable and self-heals on the next action.
	r, exists := s.roomManager.GetRoom(sess.RoomID)
	if !exists {
		return
	}
	r.SubmitAction(sess.Seat, action, req.ClientTime)
	s.monitor.IncActionsProcessed()
}

func (s *GameServer) handleNewGame(sess *session.Session) {
	r, exists := s.roomManager.GetRoom(sess.RoomID)
	if !exists {
		return
	}
	r.SubmitNewGame(sess.Seat)
}

// leaveRoom vacates the session's seat, notifies the remaining player,
// and destroys the room when it empties.
func (s *GameServer) leaveRoom(sess *session.Session) {
	if sess.RoomID == "" {
		return
	}
	roomID := sess.RoomID
	r, exists := s.roomManager.GetRoom(roomID)
	if !exists {
		sess.RoomID = ""
		sess.Seat = 0
		return
	}

	seat := sess.Seat
	remaining := r.RemoveSeat(seat)
	logger.Log.Infof("Session %s left room %s (seat %d)", sess.GetID(), roomID, seat)

	if remaining == 0 {
		s.roomManager.RemoveRoom(roomID)
	} else {
		notice, _ := json.Marshal(network.PlayerLeft{Seat: seat})
		s.broadcaster.BroadcastToRoom(roomID, network.MsgTypePlayerLeft, notice)
	}
	s.monitor.SetActiveRooms(s.roomManager.Count())
}
