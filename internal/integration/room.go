package integration

import (
	"errors"
	"sync"

	"github.com/toyz/wsgen/pkg/wsgen"
)

// ErrEmptyMessage is returned for a say without text
var ErrEmptyMessage = errors.New("empty message")

// SayPayload posts text to the room
type SayPayload struct {
	Text string `json:"text"`
}

// KickPayload removes a member from the room
type KickPayload struct {
	Target string `json:"target"`
}

// Log records what happened in a room
type Log struct {
	mu      sync.Mutex
	entries []string
}

func (l *Log) add(entry string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, entry)
}

// Entries returns a copy of the recorded entries
func (l *Log) Entries() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.entries...)
}

// Room rejects message types it has no handler for.
//
//wsgen::controller /room -Key=type -Unmatched=error
type Room struct {
	name string
	log  *Log
}

// NewRoom creates the room called name, writing to log.
//
//wsgen::constructor
func NewRoom(name string, log *Log) (*Room, error) {
	if name == "" {
		return nil, errors.New("room name is required")
	}
	return &Room{name: name, log: log}, nil
}

//wsgen::handler say
func (r *Room) Say(session *wsgen.Session, msg *SayPayload) error {
	if msg.Text == "" {
		return ErrEmptyMessage
	}
	r.log.add(r.name + ":" + msg.Text)
	return session.SendJSON(map[string]string{"room": r.name, "text": msg.Text})
}

//wsgen::handler kick
func (r *Room) Kick(payload KickPayload) error {
	r.log.add("kick:" + payload.Target)
	return nil
}
