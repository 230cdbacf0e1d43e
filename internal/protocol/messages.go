// Package protocol defines the newline-framed JSON message set spoken
// between the game server and its clients, and the codec that reads and
// writes it. One frame is one JSON object followed by a single '\n'.
//
// Message types (value of the "type" field):
//
//	Client → Server:
//	  "join"   {"type":"join","name":"Ana","color":"#ff0000","reconnect":true,"last_score":130,"last_length":12}
//	  "input"  {"type":"input","dx":1,"dy":0}
//	  "chat"   {"type":"chat","text":"hello"}
//	Server → Client:
//	  "join_ack"     {"type":"join_ack","player_id":3}
//	  "chat"         {"type":"chat","player_id":3,"player_name":"Ana","text":"hello"}
//	  "state_update" {"type":"state_update","state":{...}}
//	  "error"        {"type":"error","message":"server is full"}
package protocol

// Message type identifiers.
const (
	TypeJoin        = "join"
	TypeJoinAck     = "join_ack"
	TypeInput       = "input"
	TypeChat        = "chat"
	TypeStateUpdate = "state_update"
	TypeError       = "error"
)

// Message is the wire envelope for every frame in both directions.
// Only the fields relevant to a given type are populated.
type Message struct {
	Type string `json:"type"`

	// join
	Name       string `json:"name,omitempty"`
	Color      string `json:"color,omitempty"`
	Reconnect  bool   `json:"reconnect,omitempty"`
	LastScore  int    `json:"last_score,omitempty"`
	LastLength int    `json:"last_length,omitempty"`
	PreviousID int    `json:"previous_id,omitempty"`

	// join_ack, chat (server → client)
	PlayerID   int    `json:"player_id,omitempty"`
	PlayerName string `json:"player_name,omitempty"`

	// input: direction vector, not necessarily normalized
	DX float64 `json:"dx,omitempty"`
	DY float64 `json:"dy,omitempty"`

	// chat
	Text string `json:"text,omitempty"`

	// state_update
	State *WorldState `json:"state,omitempty"`

	// error
	ErrorText string `json:"message,omitempty"`
}

// SnakeState is the wire view of one snake. Segments are encoded as flat
// [x,y] pairs, head first, to keep state updates compact.
type SnakeState struct {
	ID       int          `json:"id"`
	Name     string       `json:"name"`
	Color    string       `json:"color"`
	Segments [][2]float64 `json:"segments"`
	Score    int          `json:"score"`
	Alive    bool         `json:"alive"`
}

// WorldState is the full world snapshot carried by a state_update frame.
// PlayerID tags which snake belongs to the recipient; every client sees
// the entire world.
type WorldState struct {
	PlayerID  int          `json:"player_id"`
	Snakes    []SnakeState `json:"snakes"`
	Foods     [][2]float64 `json:"foods"`
	WorldSize float64      `json:"world_size"`
}

// ErrorMessage builds an error frame.
func ErrorMessage(text string) *Message {
	return &Message{Type: TypeError, ErrorText: text}
}

// JoinAck builds a join acknowledgement frame.
func JoinAck(playerID int) *Message {
	return &Message{Type: TypeJoinAck, PlayerID: playerID}
}

// ChatBroadcast builds the server → client form of a chat frame.
func ChatBroadcast(playerID int, playerName, text string) *Message {
	return &Message{Type: TypeChat, PlayerID: playerID, PlayerName: playerName, Text: text}
}

// StateUpdate builds a state_update frame for one recipient.
func StateUpdate(state *WorldState) *Message {
	return &Message{Type: TypeStateUpdate, State: state}
}
