package main

import "encoding/json"

// Client -> Server message types
const (
	MsgJoin    = "join"    // display joins a room
	MsgLeave   = "leave"
	MsgInput   = "input"   // movement intent
	MsgAction  = "action"  // action button press/release
	MsgCard    = "card"    // card choice
	MsgCreate  = "create"  // create room
	MsgList    = "list"    // list rooms
	MsgCheck   = "check"   // check if room exists
	MsgPair    = "pair"    // phone controller attach
	MsgRestart = "restart" // fresh match after match over
)

// Server -> Client message types
const (
	MsgState   = "state"
	MsgRooms   = "rooms"
	MsgJoined  = "joined"
	MsgCreated = "created"
	MsgError   = "error"
	MsgChecked = "checked"
	MsgPaired  = "paired"
	MsgEvent   = "event"
	MsgCtrlOn  = "ctrl_on"  // notify display: controller attached
	MsgCtrlOff = "ctrl_off" // notify display: controller detached
)

// Envelope wraps all outgoing messages with a type field
type Envelope struct {
	T    string      `json:"t"`
	Data interface{} `json:"d,omitempty"`
}

// InEnvelope is used for incoming messages
type InEnvelope struct {
	T string          `json:"t"`
	D json.RawMessage `json:"d,omitempty"`
}

// ActionMsg is a press or release of the action button. Release carries the
// pointer position in reference screen space.
type ActionMsg struct {
	Down bool    `json:"down"`
	SX   float64 `json:"sx,omitempty"`
	SY   float64 `json:"sy,omitempty"`
}

// CardMsg picks option 0 or 1
type CardMsg struct {
	Index int `json:"i"`
}

// JoinMsg is sent when a display wants to join a room
type JoinMsg struct {
	RoomID   string `json:"sid"`
	Passcode string `json:"pass,omitempty"`
}

// CreateMsg is sent when a display wants to create a room
type CreateMsg struct {
	Name     string `json:"name"`
	Mode     int    `json:"mode"`
	Passcode string `json:"pass,omitempty"`
}

// PairMsg is sent by a phone controller with the token from the QR code
type PairMsg struct {
	RoomID string `json:"sid"`
	Token  string `json:"token"`
}

// CheckMsg is sent by client to check if a room exists
type CheckMsg struct {
	SID string `json:"sid"`
}

// CheckedMsg is the response to a room check
type CheckedMsg struct {
	SID     string `json:"sid"`
	Exists  bool   `json:"exists"`
	Name    string `json:"name,omitempty"`
	Private bool   `json:"private,omitempty"`
	Phase   string `json:"phase,omitempty"`
}

// JoinedMsg confirms a display joined and tells it how to pair a controller
type JoinedMsg struct {
	SID       string `json:"sid"`
	PairToken string `json:"token"`
	PairURL   string `json:"url"`
}

// RoomInfo is used in the room list
type RoomInfo struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Mode     int    `json:"mode"`
	Displays int    `json:"displays"`
	Private  bool   `json:"private"`
	Phase    string `json:"phase"`
}

// ErrorMsg sends error to client
type ErrorMsg struct {
	Msg string `json:"msg"`
}

// EventKind names a notable match event
type EventKind string

const (
	EventPickup     EventKind = "pickup"
	EventThrow      EventKind = "throw"
	EventPass       EventKind = "pass"
	EventKnockout   EventKind = "knockout"
	EventRespawn    EventKind = "respawn"
	EventGoal       EventKind = "goal"
	EventRoundStart EventKind = "round"
	EventCardPhase  EventKind = "cards"
	EventCardChosen EventKind = "card"
	EventMatchOver  EventKind = "over"
)

// MatchEvent is broadcast to displays as it happens
type MatchEvent struct {
	Kind  EventKind `json:"k"`
	Unit  string    `json:"u,omitempty"`
	Team  string    `json:"team,omitempty"`
	Text  string    `json:"text,omitempty"`
	Round int       `json:"r"`
}

// UnitState is the per-unit presentation record
type UnitState struct {
	Name    string  `json:"n" msgpack:"n"`
	Team    int     `json:"tm" msgpack:"tm"`
	Control string  `json:"c" msgpack:"c"`
	Pos     Vec3    `json:"p" msgpack:"p"`
	Yaw     float64 `json:"r" msgpack:"r"`
	Health  float64 `json:"hp" msgpack:"hp"`
	Fill    float64 `json:"f" msgpack:"f"`   // health bar fill ratio
	Bar     bool    `json:"b" msgpack:"b"`   // health bar visible
	Alive   bool    `json:"a" msgpack:"a"`
	Alpha   float64 `json:"al" msgpack:"al"` // body opacity
}

// BallState is the ball presentation record
type BallState struct {
	Pos     Vec3 `json:"p" msgpack:"p"`
	Carrier int  `json:"c" msgpack:"c"` // unit index, -1 when loose
}

// PreviewState is the throw preview presentation record
type PreviewState struct {
	Visible bool   `json:"v" msgpack:"v"`
	Points  []Vec3 `json:"pts,omitempty" msgpack:"pts,omitempty"`
	Marker  Vec3   `json:"m" msgpack:"m"`
}

// CardState is the card phase presentation record
type CardState struct {
	Active    bool      `json:"on" msgpack:"on"`
	Countdown string    `json:"cd,omitempty" msgpack:"cd,omitempty"`
	Options   [2]string `json:"opts" msgpack:"opts"`
	Done      int       `json:"done" msgpack:"done"`
	Total     int       `json:"total" msgpack:"total"`
	Chosen    bool      `json:"ch" msgpack:"ch"`
}

// GameState is the full presentation broadcast to displays
type GameState struct {
	Phase       string       `json:"ph" msgpack:"ph"`
	Round       int          `json:"rd" msgpack:"rd"`
	TotalRounds int          `json:"tr" msgpack:"tr"`
	Scores      [2]int       `json:"sc" msgpack:"sc"`
	Status      string       `json:"st" msgpack:"st"`
	Clock       string       `json:"clk" msgpack:"clk"`
	HumanHealth float64      `json:"hh" msgpack:"hh"`
	HumanMax    float64      `json:"hm" msgpack:"hm"`
	Action      string       `json:"act" msgpack:"act"`
	Winner      string       `json:"win,omitempty" msgpack:"win,omitempty"`
	Units       []UnitState  `json:"u" msgpack:"u"`
	Ball        BallState    `json:"b" msgpack:"b"`
	Preview     PreviewState `json:"pv" msgpack:"pv"`
	Cards       CardState    `json:"cards" msgpack:"cards"`
	Controller  bool         `json:"ctl" msgpack:"ctl"`
	Tick        uint64       `json:"tick" msgpack:"tick"`
}
