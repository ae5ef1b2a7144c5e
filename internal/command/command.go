// Package command defines the normalized command surface and the
// resolver that turns raw argument text into place candidates.
package command

// Name identifies a bot command. Dispatch switches over this type
// exhaustively, so adding a command is a compile-time-checked change.
type Name string

const (
	Find     Name = "find"
	List     Name = "list"
	Random   Name = "random"
	Weather  Name = "weather"
	Route    Name = "route"
	Plan     Name = "plan"
	Feedback Name = "feedback"
	Stats    Name = "stats"
	Help     Name = "help"
	Ping     Name = "ping"
)

// All lists every known command, in help-text order.
var All = []Name{Find, List, Random, Weather, Route, Plan, Feedback, Stats, Help, Ping}

// Parse maps a raw command word (without the leading slash) to a Name.
func Parse(s string) (Name, bool) {
	switch Name(s) {
	case Find, List, Random, Weather, Route, Plan, Feedback, Stats, Help, Ping:
		return Name(s), true
	case "start": // Telegram clients send /start on first contact
		return Help, true
	}
	return "", false
}

// Request is the normalized incoming command the transport hands to
// the core. CallerIsAdmin must be verified by the transport.
type Request struct {
	Command       Name
	Argument      string
	CallerID      string
	CallerIsAdmin bool
}
