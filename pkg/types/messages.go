package types

// Client -> Server, one command per line:
//   /mode <deathmatch|lms>
//   /challenge <player id> <R|P|S>
//   /move <R|P|S>
//   anything else: chat
//
// Server -> Client, plain text lines:
//   Welcome on connect
//   [<name>]: <text>                     chat from another player
//   Challenge: <name> challenged you ...  only to the target
//   Match Result: ...                    after every resolved round
//   Error: <reason>                      only to the issuing player
//   StatusStart
//   <name> | Games: <n> | Ratio: <f.ff> | HP: <n>
//   StatusEnd

const (
	Welcome     = "Rock-Paper-Scissors Battle Arena"
	StatusStart = "[PLAYER_STATUS]"
	StatusEnd   = "[PLAYER_STATUS_END]"
	ErrorPrefix = "Error: "
)
