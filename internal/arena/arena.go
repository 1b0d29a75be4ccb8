package arena

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/DoyleJ11/rps-arena/internal/engine"
	"github.com/DoyleJ11/rps-arena/internal/hub"
	"github.com/DoyleJ11/rps-arena/internal/registry"
	"github.com/DoyleJ11/rps-arena/pkg/types"
)

var ErrClosed = errors.New("arena closed")

type Msg interface{ isArenaMsg() }

type Join struct {
	Ctx    context.Context // a join whose caller already gave up is skipped
	Name   string
	Outbox chan string // where this player receives text
	Reply  chan int    // assigned player id, 0 when skipped
}

func (Join) isArenaMsg() {}

type Leave struct{ PlayerID int }

func (Leave) isArenaMsg() {}

type FromClient struct {
	PlayerID int
	Cmd      engine.Command
}

func (FromClient) isArenaMsg() {}

// Reject reports a command that failed to parse back to its sender.
type Reject struct {
	PlayerID int
	Err      error
}

func (Reject) isArenaMsg() {}

type ChallengeExpired struct {
	ChallengerID int
	TargetID     int
	ChallengeID  int
}

func (ChallengeExpired) isArenaMsg() {}

type GetState struct {
	Reply chan types.ArenaSnapshot
}

func (GetState) isArenaMsg() {}

type Shutdown struct{}

func (Shutdown) isArenaMsg() {}

type modeState struct {
	selected  engine.Mode
	connected map[engine.Mode]int
	started   map[engine.Mode]bool
}

// Arena owns every piece of shared game state. Only the loop goroutine
// touches it, so each message is applied as one atomic step.
type Arena struct {
	inbox   chan Msg
	rules   engine.Rules
	hub     *hub.Hub
	players *registry.Registry
	timers  *timerSet
	mode    modeState
	log     *zap.Logger

	lastPlayerID    int
	lastChallengeID int

	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
}

func New(parent context.Context, rules engine.Rules, log *zap.Logger) *Arena {
	a := newArena(parent, rules, log)
	go a.loop()
	return a
}

func newArena(parent context.Context, rules engine.Rules, log *zap.Logger) *Arena {
	ctx, cancel := context.WithCancel(parent)
	h := hub.NewHub(log.Named("hub"))

	return &Arena{
		inbox:   make(chan Msg, 256),
		rules:   rules,
		hub:     h,
		players: registry.New(h, rules, log.Named("registry")),
		timers:  newTimerSet(),
		mode: modeState{
			connected: make(map[engine.Mode]int),
			started:   make(map[engine.Mode]bool),
		},
		log:    log,
		ctx:    ctx,
		cancel: cancel,
		done:   make(chan struct{}),
	}
}

func (a *Arena) loop() {
	defer close(a.done)
	for {
		select {
		case <-a.ctx.Done():
			a.shutdown()
			return

		case m := <-a.inbox:
			if stop := a.handle(m); stop {
				return
			}
		}
	}
}

func (a *Arena) handle(m Msg) (stop bool) {
	switch msg := m.(type) {
	case Join:
		if msg.Ctx != nil && msg.Ctx.Err() != nil {
			msg.Reply <- 0
			break
		}
		a.lastPlayerID++
		id := a.lastPlayerID
		a.players.Register(id, msg.Name, msg.Outbox)
		a.hub.SendTo(id, types.Welcome+"\n")
		msg.Reply <- id

	case Leave:
		a.removePlayer(msg.PlayerID)

	case FromClient:
		a.apply(msg.PlayerID, msg.Cmd)

	case Reject:
		a.reject(msg.PlayerID, msg.Err)

	case ChallengeExpired:
		a.challengeTimeout(msg.ChallengerID, msg.TargetID, msg.ChallengeID)

	case GetState:
		msg.Reply <- a.snapshot()

	case Shutdown:
		a.shutdown()
		return true
	}
	return false
}

func (a *Arena) apply(playerID int, cmd engine.Command) {
	var err error
	switch cmd.Type {
	case engine.CmdMode:
		err = a.setMode(playerID, cmd.Mode)
	case engine.CmdChallenge:
		err = a.issueChallenge(playerID, cmd.Target, cmd.Move)
	case engine.CmdMove:
		a.submitMove(playerID, cmd.Move)
	case engine.CmdChat:
		a.chat(playerID, cmd.Text)
	}
	if err != nil {
		a.reject(playerID, err)
	}
}

func (a *Arena) chat(playerID int, text string) {
	p, err := a.players.Lookup(playerID)
	if err != nil {
		return
	}
	a.hub.Broadcast(fmt.Sprintf("[%s]: %s\n", p.Name, text), p.ID)
}

func (a *Arena) reject(playerID int, err error) {
	var ue *engine.UserError
	if !errors.As(err, &ue) {
		a.log.Error("command failed", zap.Int("player_id", playerID), zap.Error(err))
		a.hub.SendTo(playerID, types.ErrorPrefix+"internal error\n")
		return
	}
	a.log.Debug("command rejected", zap.Int("player_id", playerID), zap.Error(err))
	a.hub.SendTo(playerID, types.ErrorPrefix+ue.Error()+"\n")
}

// removePlayer handles a disconnect. A challenge the player was part of is
// called off and the partner released; the LMS end check runs since a
// departure can leave a single survivor.
func (a *Arena) removePlayer(playerID int) {
	p, err := a.players.Lookup(playerID)
	if err != nil {
		return
	}

	partnerID := p.Target
	if partnerID == 0 {
		partnerID = p.ChallengedBy
	}
	if p.ChallengeID != 0 {
		a.timers.cancel(p.ChallengeID)
		if partner, err := a.players.Lookup(partnerID); err == nil && partner.ChallengeID == p.ChallengeID {
			partner.Release()
			a.hub.SendTo(partner.ID, fmt.Sprintf("%s left, challenge cancelled.\n", p.Name))
		}
	}

	a.players.Unregister(playerID)
	if p.Mode == engine.ModeLMS {
		a.checkTournamentEnd()
	}
}

func (a *Arena) shutdown() {
	a.timers.stopAll()
	a.hub.Shutdown()
	a.cancel()
}

// post hands m to the loop. It reports false once the arena has stopped.
func (a *Arena) post(m Msg) bool {
	select {
	case a.inbox <- m:
		return true
	case <-a.ctx.Done():
		return false
	}
}

// Inbox exposes the loop's inbox for tests and transports.
func (a *Arena) Inbox() chan<- Msg { return a.inbox }

// Join registers a new player whose text will be delivered to outbox and
// returns the assigned id. When ctx ends first no player is left behind: a
// registration that still lands is undone with a Leave.
func (a *Arena) Join(ctx context.Context, name string, outbox chan string) (int, error) {
	reply := make(chan int, 1)
	if !a.post(Join{Ctx: ctx, Name: name, Outbox: outbox, Reply: reply}) {
		return 0, ErrClosed
	}
	select {
	case id := <-reply:
		if id == 0 {
			return 0, ctx.Err()
		}
		return id, nil
	case <-ctx.Done():
		go a.undoJoin(reply)
		return 0, ctx.Err()
	case <-a.ctx.Done():
		return 0, ErrClosed
	}
}

func (a *Arena) undoJoin(reply chan int) {
	select {
	case id := <-reply:
		if id != 0 {
			a.Leave(id)
		}
	case <-a.ctx.Done():
	}
}

func (a *Arena) Leave(playerID int) {
	a.post(Leave{PlayerID: playerID})
}

// Dispatch parses one inbound line from playerID and queues the result.
// Parsing runs on the caller's goroutine.
func (a *Arena) Dispatch(playerID int, line string) {
	cmd, err := engine.ParseCommand(line)
	switch {
	case err != nil:
		a.post(Reject{PlayerID: playerID, Err: err})
	case cmd.Type == engine.CmdNone:
	default:
		a.post(FromClient{PlayerID: playerID, Cmd: cmd})
	}
}

func (a *Arena) Snapshot(ctx context.Context) (types.ArenaSnapshot, error) {
	reply := make(chan types.ArenaSnapshot, 1)
	if !a.post(GetState{Reply: reply}) {
		return types.ArenaSnapshot{}, ErrClosed
	}
	select {
	case s := <-reply:
		return s, nil
	case <-ctx.Done():
		return types.ArenaSnapshot{}, ctx.Err()
	case <-a.ctx.Done():
		return types.ArenaSnapshot{}, ErrClosed
	}
}

// Close stops the loop, closes every outbox and waits for the loop to exit.
func (a *Arena) Close() {
	a.cancel()
	<-a.done
}

func (a *Arena) Done() <-chan struct{} { return a.done }
