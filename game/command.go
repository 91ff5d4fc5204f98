package game

// Command is a discrete player action
type Command uint8

const (
	CommandNone Command = iota // Unrecognized input, no effect
	CommandMoveLeft
	CommandMoveRight
	CommandSoftDrop
	CommandRotate
	CommandHardDrop
)

var commandNames = [...]string{
	CommandNone:      "none",
	CommandMoveLeft:  "move_left",
	CommandMoveRight: "move_right",
	CommandSoftDrop:  "soft_drop",
	CommandRotate:    "rotate",
	CommandHardDrop:  "hard_drop",
}

func (c Command) String() string {
	if int(c) < len(commandNames) {
		return commandNames[c]
	}
	return "unknown"
}
