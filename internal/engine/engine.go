package engine

import (
	"errors"
	"slices"
)

var ErrAlreadyClosed = errors.New("lobby already closed")
var ErrAlreadyMember = errors.New("already in the lobby")
var ErrLobbyFull = errors.New("lobby is full")
var ErrNotAMember = errors.New("not in the lobby")
var ErrHostCannotLeave = errors.New("host cannot leave")
var ErrNotHost = errors.New("only the host may close")
var ErrUnsupportedCommand = errors.New("unsupported command")

// Member is one entry in a lobby's player list. Slice order is join order.
type Member struct {
	ID   string
	Name string
}

type State struct {
	HostID     string
	GameType   string
	RadminVBN  string
	MaxPlayers int
	Members    []Member
	Closed     bool
}

type CommandType string

const (
	CmdJoin  CommandType = "Join"
	CmdLeave CommandType = "Leave"
	CmdClose CommandType = "Close"
)

type Command struct {
	Type        CommandType
	UserID      string
	DisplayName string
}

type EventType string

const (
	EvtMemberJoined EventType = "MemberJoined"
	EvtMemberLeft   EventType = "MemberLeft"
	EvtLobbyClosed  EventType = "LobbyClosed"
)

type Event struct {
	Type        EventType
	UserID      string
	DisplayName string
}

// Apply validates cmd against s and returns the resulting events plus
// the next state. On error the returned state is s unchanged.
func Apply(s State, cmd Command) ([]Event, State, error) {
	newState := s

	switch cmd.Type {
	case CmdJoin:
		if s.Closed {
			return nil, s, ErrAlreadyClosed
		}
		if isMember(s, cmd.UserID) {
			return nil, s, ErrAlreadyMember
		}
		if len(s.Members) >= s.MaxPlayers {
			return nil, s, ErrLobbyFull
		}

		newState.Members = append(slices.Clone(s.Members), Member{ID: cmd.UserID, Name: cmd.DisplayName})

		events := []Event{
			{Type: EvtMemberJoined, UserID: cmd.UserID, DisplayName: cmd.DisplayName},
		}
		return events, newState, nil

	case CmdLeave:
		if s.Closed {
			return nil, s, ErrAlreadyClosed
		}
		if !isMember(s, cmd.UserID) {
			return nil, s, ErrNotAMember
		}
		if cmd.UserID == s.HostID {
			return nil, s, ErrHostCannotLeave
		}

		newState.Members = slices.DeleteFunc(slices.Clone(s.Members), func(m Member) bool {
			return m.ID == cmd.UserID
		})

		events := []Event{
			{Type: EvtMemberLeft, UserID: cmd.UserID},
		}
		return events, newState, nil

	case CmdClose:
		if cmd.UserID != s.HostID {
			return nil, s, ErrNotHost
		}
		if s.Closed {
			return nil, s, ErrAlreadyClosed
		}

		newState.Closed = true

		events := []Event{
			{Type: EvtLobbyClosed, UserID: cmd.UserID},
		}
		return events, newState, nil

	default:
		return nil, s, ErrUnsupportedCommand
	}
}

// Controls reports which buttons are clickable. True means enabled.
type Controls struct {
	Join  bool
	Leave bool
	Close bool
}

// ControlsFor is the single source of truth for button enablement:
// join goes dark once the lobby is closed or full, leave/close once closed.
func ControlsFor(s State) Controls {
	return Controls{
		Join:  !s.Closed && len(s.Members) < s.MaxPlayers,
		Leave: !s.Closed,
		Close: !s.Closed,
	}
}

// SlotsLeft never goes negative even if capacity rules were bypassed.
func SlotsLeft(s State) int {
	if left := s.MaxPlayers - len(s.Members); left > 0 {
		return left
	}
	return 0
}

func isMember(s State, userID string) bool {
	return slices.ContainsFunc(s.Members, func(m Member) bool { return m.ID == userID })
}
