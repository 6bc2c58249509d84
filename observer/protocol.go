// Package observer streams the public state of a running simulation to
// WebSocket clients.
package observer

// Version is the observer protocol version.
const Version = "1"

// SubscribeMsg is the first message a client sends.
type SubscribeMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
}

// HelloMsg answers a valid subscription.
type HelloMsg struct {
	Type            string  `json:"type"`
	ProtocolVersion string  `json:"protocol_version"`
	RunID           string  `json:"run_id"`
	WorldWidth      float32 `json:"world_width"`
	WorldHeight     float32 `json:"world_height"`
	TickMs          float32 `json:"tick_ms"`
}

// FrameMsg is one sampled tick of the world.
type FrameMsg struct {
	Type    string       `json:"type"`
	Tick    int32        `json:"tick"`
	Food    int          `json:"food"`
	Beans   []BeanView   `json:"beans"`
	Hoards  []HoardView  `json:"hoards"`
	Cocoons []CocoonView `json:"cocoons"`
}

// BeanView is the public state of one bean.
type BeanView struct {
	ID       uint32   `json:"id"`
	X        float32  `json:"x"`
	Y        float32  `json:"y"`
	Radius   float32  `json:"r"`
	Facing   float32  `json:"facing"`
	Satiety  float32  `json:"satiety"`
	State    string   `json:"state"`
	Role     string   `json:"role"`
	Adult    bool     `json:"adult"`
	Hoard    uint32   `json:"hoard,omitempty"`
	Carrying bool     `json:"carrying,omitempty"`
	Color    [3]uint8 `json:"color"`
}

// HoardView is the public state of one hoard.
type HoardView struct {
	ID         uint32  `json:"id"`
	X          float32 `json:"x"`
	Y          float32 `json:"y"`
	Radius     float32 `json:"r"`
	Deposits   int     `json:"deposits"`
	TownCenter bool    `json:"town_center"`
}

// CocoonView is the public state of one cocoon.
type CocoonView struct {
	X        float32 `json:"x"`
	Y        float32 `json:"y"`
	Progress float32 `json:"progress"` // [0,1]
}

// NewFrame returns an empty frame for a tick.
func NewFrame(tick int32) FrameMsg {
	return FrameMsg{
		Type:    "FRAME",
		Tick:    tick,
		Beans:   []BeanView{},
		Hoards:  []HoardView{},
		Cocoons: []CocoonView{},
	}
}
