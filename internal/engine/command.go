package engine

import (
	"fmt"
	"strconv"
	"strings"
)

type CommandType string

const (
	CmdNone      CommandType = ""
	CmdMode      CommandType = "Mode"
	CmdChallenge CommandType = "Challenge"
	CmdMove      CommandType = "Move"
	CmdChat      CommandType = "Chat"
)

type Command struct {
	Type   CommandType
	Mode   Mode
	Target int
	Move   Move
	Text   string
}

const (
	usageMode      = "usage: /mode <deathmatch|lms>"
	usageChallenge = "usage: /challenge <player id> <R|P|S>"
	usageMove      = "usage: /move <R|P|S>"
)

// ParseCommand turns one inbound line into a Command. Blank lines yield
// CmdNone. Malformed slash commands fail with a *UserError wrapping
// ErrBadCommand.
func ParseCommand(line string) (Command, error) {
	line = strings.TrimRight(line, "\r\n")
	if strings.TrimSpace(line) == "" {
		return Command{}, nil
	}

	fields := strings.Fields(line)
	switch fields[0] {
	case "/mode":
		if len(fields) != 2 {
			return Command{}, badCommand(usageMode)
		}
		// The mode name is checked by the arena, after the in-match check.
		return Command{Type: CmdMode, Mode: Mode(fields[1])}, nil

	case "/challenge":
		if len(fields) != 3 {
			return Command{}, badCommand(usageChallenge)
		}
		target, err := strconv.Atoi(fields[1])
		if err != nil {
			return Command{}, badCommand(usageChallenge)
		}
		move, ok := ParseMove(fields[2])
		if !ok {
			return Command{}, badCommand(usageChallenge)
		}
		return Command{Type: CmdChallenge, Target: target, Move: move}, nil

	case "/move":
		if len(fields) != 2 {
			return Command{}, badCommand(usageMove)
		}
		move, ok := ParseMove(fields[1])
		if !ok {
			return Command{}, badCommand(usageMove)
		}
		return Command{Type: CmdMove, Move: move}, nil

	default:
		return Command{Type: CmdChat, Text: line}, nil
	}
}

func badCommand(usage string) error {
	return Reject(fmt.Errorf("%w, %s", ErrBadCommand, usage))
}
