package model

// ClientMessage carries intents. The first message of a connection must
// carry Setup.
type ClientMessage struct {
	Setup *MatchConfig
	Move  Direction
	Quit  bool
}
