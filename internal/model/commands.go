package model

// Command is the closed set of mutations a race session accepts. Commands are
// validated at the gateway boundary before they reach the state machine.
type Command interface {
	isCommand()
}

// JoinCommand creates or refreshes the caller's player record
type JoinCommand struct {
	UserID UserID
	ConnID ConnID // empty for roster joins without a live connection
}

// ChooseScreenCommand assigns a turn slot and marks the caller ready
type ChooseScreenCommand struct {
	UserID UserID
	Screen int
}

// StartCommand begins the race; only the creator may issue it
type StartCommand struct {
	UserID UserID
}

// ClickBoatCommand claims victory if the caller owns the boat
type ClickBoatCommand struct {
	UserID UserID
}

// LeaveCommand abandons the race; during play it forfeits to the creator
type LeaveCommand struct {
	UserID UserID
}

// DisconnectCommand clears readiness for the player on the given connection
type DisconnectCommand struct {
	ConnID ConnID
}

// TickCommand advances the boat. Internal only, injected by the scheduler.
type TickCommand struct{}

func (JoinCommand) isCommand()         {}
func (ChooseScreenCommand) isCommand() {}
func (StartCommand) isCommand()        {}
func (ClickBoatCommand) isCommand()    {}
func (LeaveCommand) isCommand()        {}
func (DisconnectCommand) isCommand()   {}
func (TickCommand) isCommand()         {}
