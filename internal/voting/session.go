package voting

import "github.com/playperu/jurybot/internal/festival"

// Phase is where a participant stands in the voting protocol.
type Phase int

const (
	PhaseUnauthenticated Phase = iota
	PhaseAwaitingCredential
	PhaseVoting
	PhaseOwnerMenu
)

func (p Phase) String() string {
	switch p {
	case PhaseAwaitingCredential:
		return "awaiting_credential"
	case PhaseVoting:
		return "voting"
	case PhaseOwnerMenu:
		return "owner_menu"
	}
	return "unauthenticated"
}

// Session is the transient per-participant state. It is never persisted, so
// a restart sends everyone back through /start.
type Session struct {
	Phase Phase
	Jury  festival.JuryType
	Owner bool

	// Cursor indexes festival.Aspects for CursorArtist.
	Cursor       int
	CursorArtist string
}

func (s Session) LoggedIn() bool {
	return s.Phase == PhaseVoting || s.Phase == PhaseOwnerMenu
}

// Caller identifies who performs an action.
type Caller struct {
	ID   int64
	Name string
}
