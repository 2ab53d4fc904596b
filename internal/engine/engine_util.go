package engine

import "strconv"

// DefaultMaxPlayers is the fallback capacity when the creator's
// player-count input isn't a number.
const DefaultMaxPlayers = 4

// NewState builds a fresh open lobby with the host already seated.
func NewState(hostID, hostName, gameType, radminVBN string, maxPlayers int) State {
	if maxPlayers < 1 {
		maxPlayers = DefaultMaxPlayers
	}
	return State{
		HostID:     hostID,
		GameType:   gameType,
		RadminVBN:  radminVBN,
		MaxPlayers: maxPlayers,
		Members:    []Member{{ID: hostID, Name: hostName}},
	}
}

// ParsePlayerCount turns the form's "additional players needed" field
// into a total capacity (+1 for the host). Unparsable input falls back
// to DefaultMaxPlayers rather than rejecting the form.
func ParsePlayerCount(raw string) int {
	needed, err := strconv.Atoi(raw)
	if err != nil || needed < 1 {
		return DefaultMaxPlayers
	}
	return needed + 1
}

func ContainsEvent(events []Event, eventType EventType) bool {
	for _, event := range events {
		if event.Type == eventType {
			return true
		}
	}
	return false
}
