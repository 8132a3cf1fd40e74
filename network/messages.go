// network/messages.go
package network

import "encoding/json"

// Message bodies are JSON, framed by the packet codec in connection.go.

// --- Client -> Server ---

// JoinRoomRequest asks to take a seat in the named room; an empty RoomID
// lets the server generate one.
type JoinRoomRequest struct {
	RoomID     string `json:"roomId"`
	PlayerName string `json:"playerName"`
}

// GameActionRequest carries one game input and the client's clock reading.
type GameActionRequest struct {
	Type       string `json:"type"`
	ClientTime int64  `json:"clientTime"`
}

// PongReply echoes the server time from the matching ping.
type PongReply struct {
	ServerTime int64 `json:"serverTime"`
}

// --- Server -> Client ---

// RoommateInfo describes one already-seated player.
type RoommateInfo struct {
	Seat       int    `json:"seat"`
	PlayerName string `json:"playerName"`
	Ready      bool   `json:"ready"`
}

// JoinedRoom confirms a join with the assigned seat.
type JoinedRoom struct {
	RoomID     string         `json:"roomId"`
	Seat       int            `json:"seat"`
	Roommates  []RoommateInfo `json:"roommates"`
	ServerTime int64          `json:"serverTime"`
}

// PlayerJoined notifies the other seat of a new arrival.
type PlayerJoined struct {
	Seat          int    `json:"seat"`
	PlayerName    string `json:"playerName"`
	PlayersInRoom int    `json:"playersInRoom"`
}

// RoomFull rejects a join against a room with both seats taken.
type RoomFull struct {
	Message string `json:"message"`
}

// PlayerReadyNotice relays a seat's ready-up.
type PlayerReadyNotice struct {
	Seat int `json:"seat"`
}

// PlayerLeft notifies the remaining seat of a departure.
type PlayerLeft struct {
	Seat int `json:"seat"`
}

// GameOver carries the terminal outcome and final scores.
type GameOver struct {
	Winner      string      `json:"winner"`
	FinalScores FinalScores `json:"finalScores"`
}

type FinalScores struct {
	Seat1 int `json:"seat1"`
	Seat2 int `json:"seat2"`
}

// GameStart carries the full authoritative state at game start. FullState
// is a pre-marshalled sync update.
type GameStart struct {
	FullState  json.RawMessage `json:"fullState"`
	ServerTime int64           `json:"serverTime"`
}

// GameReset announces a return to the ready phase.
type GameReset struct {
	ServerTime int64 `json:"serverTime"`
}

// PingRequest is the latency probe; clients echo ServerTime back in a pong.
type PingRequest struct {
	ServerTime int64 `json:"serverTime"`
}

// ErrorMessage reports a validation failure to the sender.
type ErrorMessage struct {
	Message string `json:"message"`
}

// RateLimited tells a client its action was discarded by the rate limiter.
type RateLimited struct {
	Message string `json:"message"`
}
