// Package chat runs the bot conversation over an abstract messenger. It
// turns chat updates into voting.Service calls and renders the results as
// plain Italian text.
package chat

import "context"

// Kind classifies an incoming update.
type Kind int

const (
	KindCommand Kind = iota
	KindText
	KindPhoto
	KindCallback
)

func (k Kind) String() string {
	switch k {
	case KindCommand:
		return "command"
	case KindText:
		return "text"
	case KindPhoto:
		return "photo"
	case KindCallback:
		return "callback"
	}
	return "unknown"
}

// Update is one incoming event from a chat.
type Update struct {
	ChatID int64
	// Name is the sender's first name.
	Name string
	Kind Kind

	// Command is set for KindCommand, lowercase and without the slash.
	Command string
	Text    string
	// PhotoID is the transport file id of the largest photo size.
	PhotoID string

	CallbackID   string
	CallbackData string
	// MessageID is the message the pressed button belongs to.
	MessageID int
}

type Button struct {
	Text string
	Data string
}

// Message is an outgoing action. With EditID set the text and keyboard of
// an existing message are replaced; with DeleteID set that message is
// removed and everything else is ignored.
type Message struct {
	ChatID   int64
	Text     string
	Photo    string
	Keyboard [][]Button

	EditID   int
	DeleteID int
}

// Messenger delivers messages through a chat transport.
type Messenger interface {
	Send(ctx context.Context, msg Message) error
	// Answer acknowledges a button press.
	Answer(ctx context.Context, callbackID string) error
	// FileURL resolves a transport file id to a downloadable URL.
	FileURL(ctx context.Context, fileID string) (string, error)
}
