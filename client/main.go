// Command client is a line-oriented probe for exercising the game server
// by hand: join a room, ready up, and send actions from stdin.
package main

import (
	"bufio"
	"encoding/binary"
	"encoding/json"
	"log"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/gorilla/websocket"
)

const (
	msgTypePing        = 1
	msgTypePong        = 2
	msgTypeJoinRoom    = 101
	msgTypePlayerReady = 201
	msgTypeGameAction  = 202
	msgTypeNewGame     = 203
)

var actionAliases = map[string]string{
	"left":   "move-left",
	"right":  "move-right",
	"down":   "move-down",
	"rotate": "rotate",
	"drop":   "hard-drop",
}

// send frames and sends one message to the server.
func send(c *websocket.Conn, msgID uint16, data []byte) error {
	packet := make([]byte, 4+len(data))
	binary.BigEndian.PutUint16(packet[0:2], msgID)
	binary.BigEndian.PutUint16(packet[2:4], uint16(len(data)))
	copy(packet[4:], data)

	return c.WriteMessage(websocket.BinaryMessage, packet)
}

func main() {
	addr := "localhost:3000"
	if len(os.Args) > 1 {
		addr = os.Args[1]
	}
	roomID := ""
	if len(os.Args) > 2 {
		roomID = os.Args[2]
	}

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)

	u := url.URL{Scheme: "ws", Host: addr, Path: "/ws"}
	log.Printf("connecting to %s", u.String())

	c, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		log.Fatal("dial:", err)
	}
	defer c.Close()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			_, data, err := c.ReadMessage()
			if err != nil {
				log.Println("read:", err)
				return
			}
			if len(data) < 4 {
				continue
			}
			msgID := binary.BigEndian.Uint16(data[0:2])
			body := data[4:]
			if msgID == msgTypePing {
				// Echo the probe so the server gets a latency sample.
				send(c, msgTypePong, body)
				continue
			}
			log.Printf("<- msg %d: %s", msgID, string(body))
		}
	}()

	join, _ := json.Marshal(map[string]string{
		"roomId":     roomID,
		"playerName": "probe",
	})
	if err := send(c, msgTypeJoinRoom, join); err != nil {
		log.Fatal("join:", err)
	}

	go func() {
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			switch {
			case line == "ready":
				send(c, msgTypePlayerReady, []byte("{}"))
			case line == "new":
				send(c, msgTypeNewGame, []byte("{}"))
			default:
				action, ok := actionAliases[line]
				if !ok {
					log.Printf("unknown command %q (try: ready, new, left, right, down, rotate, drop)", line)
					continue
				}
				body, _ := json.Marshal(map[string]interface{}{
					"type":       action,
					"clientTime": time.Now().UnixMilli(),
				})
				send(c, msgTypeGameAction, body)
			}
		}
	}()

	select {
	case <-done:
	case <-interrupt:
		log.Println("interrupt")
		c.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		select {
		case <-done:
		case <-time.After(time.Second):
		}
	}
}
