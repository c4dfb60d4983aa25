package host

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/flowtower/pkg/camera"
	"github.com/matzehuels/flowtower/pkg/diagram"
	"github.com/matzehuels/flowtower/pkg/geometry"
	"github.com/matzehuels/flowtower/pkg/render/scene"
	"github.com/matzehuels/flowtower/pkg/workflow"
)

// sendBuffer bounds the messages queued per live client. A client that falls
// further behind misses messages; the next scene message resynchronizes it.
const sendBuffer = 64

// Live message types.
const (
	MsgNodeClick           = "nodeClick"
	MsgNodePositionChanged = "nodePositionChanged"
	MsgTransform           = "transform"
	MsgScene               = "scene"
	MsgError               = "error"

	MsgPointerDown   = "pointerdown"
	MsgPointerMove   = "pointermove"
	MsgPointerUp     = "pointerup"
	MsgPointerCancel = "pointercancel"
	MsgWheel         = "wheel"
	MsgTouchStart    = "touchstart"
	MsgTouchMove     = "touchmove"
	MsgTouchEnd      = "touchend"
)

// OutMessage is pushed to live clients.
type OutMessage struct {
	Type      string            `json:"type"`
	Node      *workflow.Node    `json:"node,omitempty"`
	NodeID    string            `json:"nodeId,omitempty"`
	From      *geometry.Point   `json:"from,omitempty"`
	To        *geometry.Point   `json:"to,omitempty"`
	Transform *camera.Transform `json:"transform,omitempty"`
	SVG       string            `json:"svg,omitempty"`
	Error     string            `json:"error,omitempty"`
}

// InMessage is a gesture sent by a live client. Coordinates are screen
// pixels relative to the surface.
type InMessage struct {
	Type    string           `json:"type"`
	X       float64          `json:"x"`
	Y       float64          `json:"y"`
	Button  int              `json:"button"`
	DY      float64          `json:"dy"`
	Touches []geometry.Point `json:"touches"`
}

// session is one hosted instance. mu serializes every call into inst.
type session struct {
	mu      sync.Mutex
	inst    *diagram.Instance
	surface *scene.SVGSurface
	logger  *log.Logger

	clientsMu sync.Mutex
	clients   map[*client]struct{}
}

type client struct {
	send chan []byte
	done chan struct{}
	once sync.Once
}

func newClient() *client {
	return &client{send: make(chan []byte, sendBuffer), done: make(chan struct{})}
}

func (c *client) close() { c.once.Do(func() { close(c.done) }) }

func newSession(surface *scene.SVGSurface, logger *log.Logger) *session {
	return &session{surface: surface, logger: logger, clients: make(map[*client]struct{})}
}

func (s *session) attach(c *client) {
	s.clientsMu.Lock()
	s.clients[c] = struct{}{}
	s.clientsMu.Unlock()
}

func (s *session) detach(c *client) {
	s.clientsMu.Lock()
	delete(s.clients, c)
	s.clientsMu.Unlock()
	c.close()
}

func (s *session) closeClients() {
	s.clientsMu.Lock()
	defer s.clientsMu.Unlock()
	for c := range s.clients {
		c.close()
		delete(s.clients, c)
	}
}

func (s *session) broadcast(msg OutMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		s.logger.Error("encode live message", "type", msg.Type, "err", err)
		return
	}
	s.clientsMu.Lock()
	defer s.clientsMu.Unlock()
	for c := range s.clients {
		select {
		case c.send <- data:
		default:
			s.logger.Warn("live client send buffer full, dropping message", "type", msg.Type)
		}
	}
}

// pushScene broadcasts the current scene. Callers hold mu.
func (s *session) pushScene() {
	s.broadcast(OutMessage{Type: MsgScene, SVG: string(s.surface.Bytes())})
}

// NodeClick implements diagram.Notifier.
func (s *session) NodeClick(_ string, node workflow.Node) {
	s.broadcast(OutMessage{Type: MsgNodeClick, Node: &node, NodeID: node.ID})
}

// NodePositionChanged implements diagram.Notifier.
func (s *session) NodePositionChanged(_ string, nodeID string, from, to geometry.Point) {
	s.broadcast(OutMessage{Type: MsgNodePositionChanged, NodeID: nodeID, From: &from, To: &to})
}

// TransformChanged implements diagram.Notifier.
func (s *session) TransformChanged(_ string, t camera.Transform) {
	s.broadcast(OutMessage{Type: MsgTransform, Transform: &t})
}

// dispatch feeds one gesture into the instance and reports whether it ended
// an interaction.
func (s *session) dispatch(m InMessage) (settled bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := geometry.Point{X: m.X, Y: m.Y}
	switch m.Type {
	case MsgPointerDown:
		s.inst.PointerDown(p, m.Button)
	case MsgPointerMove:
		s.inst.PointerMove(p)
	case MsgPointerUp:
		s.inst.PointerUp(p)
		settled = true
	case MsgPointerCancel:
		s.inst.PointerCancel()
		settled = true
	case MsgWheel:
		s.inst.Wheel(m.DY, p)
		settled = true
	case MsgTouchStart:
		s.inst.TouchStart(m.Touches)
	case MsgTouchMove:
		s.inst.TouchMove(m.Touches)
	case MsgTouchEnd:
		s.inst.TouchEnd(m.Touches)
		settled = len(m.Touches) == 0
	default:
		return false, fmt.Errorf("unknown message type %q", m.Type)
	}
	if settled {
		s.pushScene()
	}
	return settled, nil
}
