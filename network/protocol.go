package network

const (
	MsgTypePing  = 1
	MsgTypePong  = 2
	MsgTypeError = 3

	MsgTypeJoinRoom     = 101
	MsgTypeLeaveRoom    = 102
	MsgTypeJoinedRoom   = 103
	MsgTypeRoomFull     = 104
	MsgTypePlayerJoined = 105
	MsgTypePlayerLeft   = 106

	MsgTypePlayerReady = 201
	MsgTypeGameAction  = 202
	MsgTypeNewGame     = 203
	MsgTypeRateLimited = 204

	MsgTypeGameStart   = 301
	MsgTypeBatchUpdate = 302
	MsgTypeGameOver    = 303
	MsgTypeGameReset   = 304
)
