package main

import (
	"encoding/json"
	"errors"
	"math"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

const (
	writeWait         = 10 * time.Second
	pongWait          = 60 * time.Second
	pingPeriod        = (pongWait * 9) / 10
	maxMessageSize    = 4096
	sendBufSize       = 256
	maxMessagesPerSec = 120
)

// Binary controller input: [0x01, mx, my, flags, yaw_hi, yaw_lo, pitch_hi, pitch_lo]
const (
	binInputTag = 0x01
	binInputLen = 8
	flagJump    = 0x01
	flagHasView = 0x02
)

// Client represents a WebSocket connection. A client is either a display
// attached to a room or the room's phone controller.
type Client struct {
	hub          *Hub
	conn         *websocket.Conn
	send         chan []byte
	id           string
	roomID       string
	remoteAddr   string
	isController bool
	msgCount     int
	msgResetAt   time.Time
	log          zerolog.Logger
}

// NewClient creates a new Client
func NewClient(hub *Hub, conn *websocket.Conn, remoteAddr string) *Client {
	id := GenerateID(8)
	return &Client{
		hub:        hub,
		conn:       conn,
		send:       make(chan []byte, sendBufSize),
		id:         id,
		remoteAddr: remoteAddr,
		log:        hub.log.With().Str("conn", id).Str("ip", remoteAddr).Logger(),
	}
}

// ReadPump reads messages from the WebSocket connection
func (c *Client) ReadPump() {
	defer func() {
		c.hub.TrackDisconnect(c.remoteAddr)
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		msgType, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.log.Warn().Err(err).Msg("ws error")
			}
			break
		}

		now := time.Now()
		if now.After(c.msgResetAt) {
			c.msgCount = 0
			c.msgResetAt = now.Add(time.Second)
		}
		c.msgCount++
		if c.msgCount > maxMessagesPerSec {
			c.log.Warn().Msg("rate limit exceeded, disconnecting")
			break
		}

		if msgType == websocket.BinaryMessage && len(message) == binInputLen && message[0] == binInputTag {
			c.handleBinaryInput(message)
		} else {
			c.handleMessage(message)
		}
	}
}

// WritePump writes messages to the WebSocket connection
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			// 0xFF prefix marks a binary frame from SendBinary
			var err error
			if len(message) > 0 && message[0] == 0xFF {
				err = c.conn.WriteMessage(websocket.BinaryMessage, message[1:])
			} else {
				err = c.conn.WriteMessage(websocket.TextMessage, message)
			}
			if err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// SendJSON sends a JSON message to the client
func (c *Client) SendJSON(msg interface{}) {
	data, err := json.Marshal(msg)
	if err != nil {
		c.log.Error().Err(err).Msg("marshal error")
		return
	}
	c.SendRaw(data)
}

// SendRaw sends pre-marshaled bytes as a text message to the client
func (c *Client) SendRaw(data []byte) {
	defer func() { recover() }()
	select {
	case c.send <- data:
	default:
		// Client too slow, drop message
	}
}

// SendBinary sends pre-marshaled bytes as a binary WebSocket message
func (c *Client) SendBinary(data []byte) {
	defer func() { recover() }()
	msg := make([]byte, len(data)+1)
	msg[0] = 0xFF
	copy(msg[1:], data)
	select {
	case c.send <- msg:
	default:
	}
}

func (c *Client) sendError(msg string) {
	c.SendJSON(Envelope{T: MsgError, Data: ErrorMsg{Msg: msg}})
}

// handleMessage routes incoming messages (single-pass decode via InEnvelope)
func (c *Client) handleMessage(raw []byte) {
	var env InEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		c.log.Debug().Err(err).Msg("unmarshal error")
		return
	}

	switch env.T {
	case MsgList:
		c.handleList()
	case MsgCreate:
		c.handleCreate(env.D)
	case MsgJoin:
		c.handleJoin(env.D)
	case MsgCheck:
		c.handleCheck(env.D)
	case MsgPair:
		c.handlePair(env.D)
	case MsgInput:
		c.handleInput(env.D)
	case MsgAction:
		c.handleAction(env.D)
	case MsgCard:
		c.handleCard(env.D)
	case MsgRestart:
		c.handleRestart()
	case MsgLeave:
		c.detach()
	}
}

// room returns the room this client is attached to
func (c *Client) room() *Room {
	if c.roomID == "" {
		return nil
	}
	r, err := c.hub.rooms.GetRoom(c.roomID)
	if err != nil {
		return nil
	}
	return r
}

// controlledRoom returns the room only when this client is its controller
func (c *Client) controlledRoom() *Room {
	if !c.isController {
		return nil
	}
	return c.room()
}

func (c *Client) handleList() {
	c.SendJSON(Envelope{T: MsgRooms, Data: c.hub.rooms.ListRooms()})
}

func (c *Client) handleCreate(data json.RawMessage) {
	var msg CreateMsg
	if err := json.Unmarshal(data, &msg); err != nil {
		return
	}
	room, err := c.hub.rooms.CreateRoom(msg.Name, GameMode(msg.Mode), msg.Passcode)
	if err != nil {
		c.sendError(err.Error())
		return
	}
	c.SendJSON(Envelope{T: MsgCreated, Data: map[string]string{"sid": room.ID}})
}

func (c *Client) handleJoin(data json.RawMessage) {
	var msg JoinMsg
	if err := json.Unmarshal(data, &msg); err != nil {
		return
	}
	room, err := c.hub.rooms.GetRoom(msg.RoomID)
	if err != nil {
		c.sendError(err.Error())
		return
	}
	if err := c.hub.auth.CheckPasscode(room.passHash, msg.Passcode, c.remoteAddr); err != nil {
		c.sendError(err.Error())
		return
	}
	token, err := c.hub.auth.IssuePairToken(room.ID)
	if err != nil {
		c.log.Error().Err(err).Msg("issuing pair token")
		c.sendError("internal error")
		return
	}

	c.detach()
	if !room.Game.AddDisplay(c.id, c) {
		c.sendError("room has too many displays")
		return
	}
	c.roomID = room.ID
	c.hub.rooms.MarkActive(room.ID)
	c.log.Info().Str("room", room.ID).Msg("display joined")

	c.SendJSON(Envelope{T: MsgJoined, Data: JoinedMsg{
		SID:       room.ID,
		PairToken: token,
		PairURL:   c.hub.ControllerURL(room.ID, token),
	}})
	if room.Game.HasController() {
		c.SendJSON(Envelope{T: MsgCtrlOn})
	}
}

func (c *Client) handleCheck(data json.RawMessage) {
	var msg CheckMsg
	if err := json.Unmarshal(data, &msg); err != nil {
		return
	}
	room, err := c.hub.rooms.GetRoom(msg.SID)
	if err != nil {
		c.SendJSON(Envelope{T: MsgChecked, Data: CheckedMsg{SID: msg.SID, Exists: false}})
		return
	}
	c.SendJSON(Envelope{T: MsgChecked, Data: CheckedMsg{
		SID:     msg.SID,
		Exists:  true,
		Name:    room.Name,
		Private: room.Private(),
		Phase:   room.Game.Phase().String(),
	}})
}

func (c *Client) handlePair(data json.RawMessage) {
	var msg PairMsg
	if err := json.Unmarshal(data, &msg); err != nil {
		return
	}
	room, err := c.hub.rooms.GetRoom(msg.RoomID)
	if err != nil {
		c.sendError(err.Error())
		return
	}
	if err := c.hub.auth.ValidatePairToken(msg.Token, room.ID); err != nil {
		c.log.Info().Err(err).Msg("pairing rejected")
		c.sendError(ErrInvalidToken.Error())
		return
	}

	c.detach()
	c.roomID = room.ID
	c.isController = true
	room.Game.SetController(c.id, c)
	c.hub.rooms.MarkActive(room.ID)
	c.log.Info().Str("room", room.ID).Msg("controller paired")
	c.SendJSON(Envelope{T: MsgPaired, Data: map[string]string{"sid": room.ID}})
}

// decodeBinaryInput unpacks a compact controller input frame
func decodeBinaryInput(msg []byte) (HumanInput, error) {
	if len(msg) != binInputLen || msg[0] != binInputTag {
		return HumanInput{}, errors.New("malformed input frame")
	}
	in := HumanInput{
		MoveX: float64(int8(msg[1])) / 127,
		MoveY: float64(int8(msg[2])) / 127,
		Jump:  msg[3]&flagJump != 0,
	}
	if msg[3]&flagHasView != 0 {
		yaw := float64(uint16(msg[4])<<8 | uint16(msg[5]))
		pitch := float64(int16(uint16(msg[6])<<8 | uint16(msg[7])))
		in.HasView = true
		in.ViewYaw = yaw/65535*2*math.Pi - math.Pi
		in.ViewPitch = pitch / 32767 * math.Pi / 2
	}
	return in, nil
}

func (c *Client) handleBinaryInput(msg []byte) {
	room := c.controlledRoom()
	if room == nil {
		return
	}
	in, err := decodeBinaryInput(msg)
	if err != nil {
		return
	}
	room.Game.HandleInput(in)
}

func (c *Client) handleInput(data json.RawMessage) {
	room := c.controlledRoom()
	if room == nil {
		return
	}
	var in HumanInput
	if err := json.Unmarshal(data, &in); err != nil {
		return
	}
	room.Game.HandleInput(in)
}

func (c *Client) handleAction(data json.RawMessage) {
	room := c.controlledRoom()
	if room == nil {
		return
	}
	var msg ActionMsg
	if err := json.Unmarshal(data, &msg); err != nil {
		return
	}
	room.Game.HandleAction(msg)
}

func (c *Client) handleCard(data json.RawMessage) {
	room := c.controlledRoom()
	if room == nil {
		return
	}
	var msg CardMsg
	if err := json.Unmarshal(data, &msg); err != nil {
		return
	}
	room.Game.HandleCard(msg.Index)
}

func (c *Client) handleRestart() {
	room := c.room()
	if room == nil {
		return
	}
	if !room.Game.Restart() {
		c.sendError("match still running")
		return
	}
	c.hub.rooms.MarkActive(room.ID)
}

// detach leaves the current room, if any
func (c *Client) detach() {
	if c.roomID == "" {
		return
	}
	if c.isController {
		if room := c.room(); room != nil {
			room.Game.RemoveController(c.id)
		}
	} else {
		c.hub.rooms.RemoveDisplay(c.roomID, c.id)
	}
	c.roomID = ""
	c.isController = false
}
