// room/room.go
package room

import (
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/twobob/blockduel/delta"
	"github.com/twobob/blockduel/game"
	"github.com/twobob/blockduel/input"
	"github.com/twobob/blockduel/logger"
	"github.com/twobob/blockduel/network"
	"github.com/twobob/blockduel/session"
	"github.com/twobob/blockduel/state"
)

// MaxSeats is the fixed room capacity.
const MaxSeats = 2

// TickInterval drives the room's update loop (input drain + gravity).
const TickInterval = 100 * time.Millisecond

// ErrRoomFull rejects a join against a room with both seats taken.
var ErrRoomFull = errors.New("room is full")

// Seat couples one player's connection, simulation state, and input queue.
type Seat struct {
	Number  int
	Session *session.Session
	Sim     *game.Player
	Inputs  *input.Buffer
}

// Stats are the room's cumulative counters.
type Stats struct {
	GamesPlayed      int
	ActionsProcessed int64
	AvgGameDuration  time.Duration
}

// Room is one authoritative two-seat game. All simulation state is
// mutated under mu: the connection goroutines and the update loop both
// funnel through it, so actions for one room are strictly serialized.
// Seat membership additionally sits behind seatsMu so broadcasts can walk
// the sessions without touching the simulation lock.
type Room struct {
	ID        string
	GameMode  string
	CreatedAt time.Time

	StateMachine state.StateMachine

	mu        sync.Mutex
	seatsMu   sync.RWMutex
	seats     [MaxSeats]*Seat
	started   bool
	startedAt time.Time
	winner    game.Winner
	encoder   *delta.Encoder
	batch     *delta.Batch

	stats Stats

	broadcaster Broadcaster
	recorder    Recorder

	ticker    *time.Ticker
	closeChan chan struct{}
	closeOnce sync.Once
}

// NewRoom creates a room and starts its update loop.
func NewRoom(id, gameMode string, broadcaster Broadcaster, recorder Recorder) *Room {
	r := &Room{
		ID:          id,
		GameMode:    gameMode,
		CreatedAt:   time.Now(),
		encoder:     delta.NewEncoder(id),
		batch:       delta.NewBatch(),
		broadcaster: broadcaster,
		recorder:    recorder,
		closeChan:   make(chan struct{}),
	}

	r.StateMachine = state.NewBaseStateMachine(state.NewWaitingState(r))

	r.ticker = time.NewTicker(TickInterval)
	go r.loop()

	return r
}

// --- state.RoomContext ---

func (r *Room) GetID() string {
	return r.ID
}

func (r *Room) ChangeState(newState state.State) error {
	return r.StateMachine.ChangeState(newState)
}

func (r *Room) Broadcast(msgID uint16, data []byte) error {
	return r.broadcaster.BroadcastToRoom(r.ID, msgID, data)
}

// OccupiedSeats counts taken seats. Callers hold mu.
func (r *Room) OccupiedSeats() int {
	n := 0
	for _, s := range r.seats {
		if s != nil {
			n++
		}
	}
	return n
}

// ReadySeats counts seats that have readied up. Callers hold mu.
func (r *Room) ReadySeats() int {
	n := 0
	for _, s := range r.seats {
		if s != nil && s.Sim.Ready {
			n++
		}
	}
	return n
}

// MarkReady flags the seat ready and deals its opening piece pair at the
// canonical spawn anchor. Callers hold mu.
func (r *Room) MarkReady(seat int) {
	s := r.seat(seat)
	if s == nil || s.Sim.Ready {
		return
	}
	s.Sim.Ready = true
	s.Sim.Deal()
	r.encoder.Mark(seatPartition(seat))

	data, _ := json.Marshal(network.PlayerReadyNotice{Seat: seat})
	r.Broadcast(network.MsgTypePlayerReady, data)
}

// BufferInput enqueues one timestamped action. Callers hold mu.
func (r *Room) BufferInput(seat int, e *input.Event) {
	s := r.seat(seat)
	if s == nil {
		return
	}
	s.Inputs.Push(e)
}

// DrainInputs applies every seat's non-stale buffered actions in arrival
// order, then resolves deaths from the pass as a whole. Callers hold mu.
func (r *Room) DrainInputs() {
	now := time.Now()
	for i, s := range r.seats {
		if s == nil {
			continue
		}
		seat := i + 1
		applied := s.Inputs.Drain(now, func(a input.Action) {
			r.applyAction(seat, a)
		})
		r.stats.ActionsProcessed += int64(applied)
	}
	r.resolveWinner()
	r.queueUpdate()
}

// StepGravity applies one automatic descent to each alive seat. Both
// seats step before deaths are resolved, so two seats topping out on the
// same pass is a draw. Callers hold mu.
func (r *Room) StepGravity() {
	if !r.started {
		return
	}
	for i, s := range r.seats {
		if s == nil || !s.Sim.Alive {
			continue
		}
		seat := i + 1
		if !s.Sim.GravityDrop() {
			r.placementPass(seat)
		}
		r.encoder.Mark(seatPartition(seat))
	}
	r.resolveWinner()
	r.queueUpdate()
}

// StartGame flips the started flag, stamps the game start, and emits the
// full authoritative state to both seats. Callers hold mu.
func (r *Room) StartGame() {
	r.started = true
	r.startedAt = time.Now()
	r.winner = game.WinnerNone

	full := r.encoder.EncodeFull(r.view(), time.Now())
	raw, err := json.Marshal(full)
	if err != nil {
		logger.Log.Errorf("room %s: marshal full state: %v", r.ID, err)
		return
	}
	data, _ := json.Marshal(network.GameStart{
		FullState:  raw,
		ServerTime: time.Now().UnixMilli(),
	})
	r.Broadcast(network.MsgTypeGameStart, data)
}

// ResetGame reinitializes both seats, clears winner/started, and forgets
// the emission history so the next game opens with full state. Callers
// hold mu.
func (r *Room) ResetGame() {
	r.flushLocked()
	for _, s := range r.seats {
		if s == nil {
			continue
		}
		s.Sim.Reset()
		s.Inputs.Clear()
	}
	r.started = false
	r.winner = game.WinnerNone
	r.encoder.Reset()

	data, _ := json.Marshal(network.GameReset{ServerTime: time.Now().UnixMilli()})
	r.Broadcast(network.MsgTypeGameReset, data)
}

// --- external API (taking the room lock) ---

// AddSeat seats a session, returning the assigned seat number or
// ErrRoomFull.
func (r *Room) AddSeat(sess *session.Session) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, s := range r.seats {
		if s != nil {
			continue
		}
		seat := i + 1
		st := &Seat{
			Number:  seat,
			Session: sess,
			Sim:     game.NewPlayer(time.Now().UnixNano() + int64(i)),
			Inputs:  input.NewBuffer(),
		}
		r.seatsMu.Lock()
		r.seats[i] = st
		r.seatsMu.Unlock()

		sess.RoomID = r.ID
		sess.Seat = seat
		r.encoder.Mark(seatPartition(seat))
		return seat, nil
	}
	return 0, ErrRoomFull
}

// RemoveSeat vacates a seat and returns the remaining occupancy. A game
// in progress is aborted back to the ready phase; no winner is recorded.
func (r *Room) RemoveSeat(seat int) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	s := r.seat(seat)
	if s == nil {
		return r.OccupiedSeats()
	}

	s.Session.RoomID = ""
	s.Session.Seat = 0
	r.seatsMu.Lock()
	r.seats[seat-1] = nil
	r.seatsMu.Unlock()
	r.encoder.Mark(seatPartition(seat))

	if r.started && r.winner == game.WinnerNone {
		r.started = false
		r.encoder.Mark(delta.PartStarted)
		for _, other := range r.seats {
			if other != nil {
				other.Sim.Ready = false
				other.Inputs.Clear()
			}
		}
		r.StateMachine.ChangeState(state.NewWaitingState(r))
	}
	r.queueUpdate()

	return r.OccupiedSeats()
}

// SubmitReady routes a ready-up through the current phase.
func (r *Room) SubmitReady(seat int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.StateMachine.GetCurrentState().HandleReady(seat)
}

// SubmitAction routes one validated game input through the current phase.
// Outside the playing phase this is a silent no-op.
func (r *Room) SubmitAction(seat int, action input.Action, clientTime int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.StateMachine.GetCurrentState().HandleAction(seat, &input.Event{
		Action:     action,
		ClientTime: clientTime,
		ReceivedAt: time.Now(),
	})
}

// SubmitNewGame routes a rematch request through the current phase.
func (r *Room) SubmitNewGame(seat int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.StateMachine.GetCurrentState().HandleNewGame(seat)
}

// FlushBatch sends any queued sync updates as one ordered unit. Called by
// the process-wide flush timer. Reports whether anything was sent.
func (r *Room) FlushBatch() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.flushLocked()
}

// GetSessions returns the sessions currently seated (thread-safe).
func (r *Room) GetSessions() []*session.Session {
	r.seatsMu.RLock()
	defer r.seatsMu.RUnlock()

	sessions := make([]*session.Session, 0, MaxSeats)
	for _, s := range r.seats {
		if s != nil {
			sessions = append(sessions, s.Session)
		}
	}
	return sessions
}

// Roommates describes the seated players for join notifications.
func (r *Room) Roommates() []network.RoommateInfo {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]network.RoommateInfo, 0, MaxSeats)
	for _, s := range r.seats {
		if s != nil {
			out = append(out, network.RoommateInfo{
				Seat:       s.Number,
				PlayerName: s.Session.PlayerName,
				Ready:      s.Sim.Ready,
			})
		}
	}
	return out
}

// Winner returns the terminal outcome, or WinnerNone while undecided.
func (r *Room) Winner() game.Winner {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.winner
}

// Started reports whether a game is in progress.
func (r *Room) Started() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.started
}

// Stats returns the room's cumulative counters.
func (r *Room) Stats() Stats {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stats
}

// SeatCount returns the current occupancy (thread-safe).
func (r *Room) SeatCount() int {
	r.seatsMu.RLock()
	defer r.seatsMu.RUnlock()
	n := 0
	for _, s := range r.seats {
		if s != nil {
			n++
		}
	}
	return n
}

// Close stops the update loop.
func (r *Room) Close() {
	r.closeOnce.Do(func() {
		close(r.closeChan)
	})
}

// --- internals (mu held) ---

func (r *Room) loop() {
	for {
		select {
		case <-r.ticker.C:
			r.update()
		case <-r.closeChan:
			r.ticker.Stop()
			return
		}
	}
}

func (r *Room) update() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if current := r.StateMachine.GetCurrentState(); current != nil {
		current.OnUpdate()
	}
}

func (r *Room) seat(n int) *Seat {
	if n < 1 || n > MaxSeats {
		return nil
	}
	return r.seats[n-1]
}

func seatPartition(seat int) delta.Partition {
	if seat == 1 {
		return delta.PartSeat1
	}
	return delta.PartSeat2
}

// applyAction runs one input through the physics engine. A panic inside
// the engine discards the action and restores the seat to its last
// known-good state; no partial write survives.
func (r *Room) applyAction(seat int, action input.Action) {
	s := r.seat(seat)
	if s == nil || !s.Sim.Alive || !r.started || r.winner != game.WinnerNone {
		return
	}

	backup := s.Sim.Clone()
	defer func() {
		if rec := recover(); rec != nil {
			s.Sim.Restore(backup)
			logger.Log.Errorf("room %s seat %d: action %s panicked, rolled back: %v",
				r.ID, seat, action, rec)
		}
	}()

	placed := false
	switch action {
	case input.ActionMoveLeft:
		s.Sim.MoveLeft()
	case input.ActionMoveRight:
		s.Sim.MoveRight()
	case input.ActionMoveDown:
		if !s.Sim.SoftDrop() {
			placed = true
		}
	case input.ActionRotate:
		s.Sim.Rotate()
	case input.ActionHardDrop:
		s.Sim.HardDrop()
		placed = true
	}

	if placed {
		r.placementPass(seat)
	}
	r.encoder.Mark(seatPartition(seat))
}

// placementPass stamps the resting piece, clears lines, scores, and runs
// the spawn-check. The seat dies if its top two rows are occupied after
// the lock, or if the fresh spawn is immediately blocked.
func (r *Room) placementPass(seat int) {
	sim := r.seat(seat).Sim
	sim.Lock()

	if sim.ToppedOut() {
		sim.Alive = false
		return
	}
	if !sim.SpawnNext() {
		sim.Alive = false
	}
}

// resolveWinner inspects deaths after a full drain or gravity pass. The
// winner is set exactly once per game; two deaths in the same pass are a
// draw.
func (r *Room) resolveWinner() {
	if !r.started || r.winner != game.WinnerNone {
		return
	}

	s1, s2 := r.seats[0], r.seats[1]
	if s1 == nil || s2 == nil {
		return
	}
	dead1 := !s1.Sim.Alive
	dead2 := !s2.Sim.Alive
	if !dead1 && !dead2 {
		return
	}

	switch {
	case dead1 && dead2:
		r.winner = game.WinnerDraw
	case dead1:
		r.winner = game.WinnerSeat2
	default:
		r.winner = game.WinnerSeat1
	}
	r.started = false
	r.encoder.Mark(delta.PartWinner | delta.PartStarted)

	// Push the terminal delta out ahead of the game-over event.
	r.queueUpdate()
	r.flushLocked()

	duration := time.Since(r.startedAt)
	r.stats.GamesPlayed++
	r.stats.AvgGameDuration += (duration - r.stats.AvgGameDuration) / time.Duration(r.stats.GamesPlayed)

	data, _ := json.Marshal(network.GameOver{
		Winner: string(r.winner),
		FinalScores: network.FinalScores{
			Seat1: s1.Sim.Score,
			Seat2: s2.Sim.Score,
		},
	})
	r.Broadcast(network.MsgTypeGameOver, data)

	logger.Log.Infof("room %s: game over, winner=%s, scores=%d/%d",
		r.ID, r.winner, s1.Sim.Score, s2.Sim.Score)

	if r.recorder != nil {
		r.recorder.RecordGameOver(r.ID, r.GameMode, duration, r.seatResults())
	}

	r.StateMachine.ChangeState(state.NewFinishedState(r))
}

func (r *Room) seatResults() []SeatResult {
	results := make([]SeatResult, 0, MaxSeats)
	for i, s := range r.seats {
		if s == nil {
			continue
		}
		outcome := "lose"
		switch {
		case r.winner == game.WinnerDraw:
			outcome = "draw"
		case r.winner == game.WinnerSeat1 && i == 0:
			outcome = "win"
		case r.winner == game.WinnerSeat2 && i == 1:
			outcome = "win"
		}
		results = append(results, SeatResult{
			PlayerName: s.Session.PlayerName,
			Score:      s.Sim.Score,
			Lines:      s.Sim.Lines,
			Level:      s.Sim.Level,
			Outcome:    outcome,
		})
	}
	return results
}

func (r *Room) view() delta.RoomView {
	v := delta.RoomView{
		Started: r.started,
		Winner:  r.winner,
	}
	if r.seats[0] != nil {
		v.Seat1 = r.seats[0].Sim.Snapshot()
	}
	if r.seats[1] != nil {
		v.Seat2 = r.seats[1].Sim.Snapshot()
	}
	return v
}

// queueUpdate encodes the dirty partitions, if any, into the outbound
// batch. A full batch flushes immediately; otherwise the 16ms timer
// flushes it.
func (r *Room) queueUpdate() {
	u := r.encoder.Encode(r.view(), time.Now())
	if u == nil {
		return
	}
	if r.batch.Append(u) {
		r.flushLocked()
	}
}

func (r *Room) flushLocked() bool {
	updates := r.batch.Flush()
	if updates == nil {
		return false
	}
	data, err := json.Marshal(updates)
	if err != nil {
		logger.Log.Errorf("room %s: marshal batch: %v", r.ID, err)
		return false
	}
	r.Broadcast(network.MsgTypeBatchUpdate, data)
	return true
}
