package tcpserver

import (
	"bufio"
	"context"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/DoyleJ11/rps-arena/internal/arena"
	"github.com/DoyleJ11/rps-arena/internal/engine"
	"github.com/DoyleJ11/rps-arena/pkg/types"
)

type testClient struct {
	conn net.Conn
	r    *bufio.Reader
}

func startServer(t *testing.T) (string, context.CancelFunc, chan error) {
	t.Helper()
	log := zaptest.NewLogger(t)
	ctx, cancel := context.WithCancel(context.Background())

	rules := engine.DefaultRules()
	rules.ChallengeTimeout = 100 * time.Millisecond
	a := arena.New(ctx, rules, log)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	s := New(a, 16, log)
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, ln) }()

	t.Cleanup(func() {
		cancel()
		a.Close()
	})
	return ln.Addr().String(), cancel, done
}

func dial(t *testing.T, addr string) *testClient {
	t.Helper()
	conn, err := net.Dial("tcp", addr)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	c := &testClient{conn: conn, r: bufio.NewReader(conn)}
	c.readUntil(t, types.Welcome)
	return c
}

func (c *testClient) send(t *testing.T, line string) {
	t.Helper()
	_, err := c.conn.Write([]byte(line + "\n"))
	require.NoError(t, err)
}

// readUntil reads lines until one contains substr and returns them all.
func (c *testClient) readUntil(t *testing.T, substr string) []string {
	t.Helper()
	require.NoError(t, c.conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var lines []string
	for {
		line, err := c.r.ReadString('\n')
		require.NoError(t, err, "waiting for %q, got %q", substr, lines)
		line = strings.TrimRight(line, "\n")
		lines = append(lines, line)
		if strings.Contains(line, substr) {
			return lines
		}
	}
}

func TestServer_ChallengeOverTCP(t *testing.T) {
	addr, _, _ := startServer(t)
	alice := dial(t, addr)
	bob := dial(t, addr)
	alice.readUntil(t, "Player2 joined the chat.")

	alice.send(t, "hello")
	assert.Equal(t, []string{"[Player1]: hello"}, bob.readUntil(t, "hello"))

	alice.send(t, "/challenge 2 R")
	bob.readUntil(t, "Challenge: Player1 challenged you to a game.")
	bob.send(t, "/move P")

	got := alice.readUntil(t, types.StatusEnd)
	assert.Equal(t, []string{
		"Match Result: Player1 (R) vs Player2 (P) - Player2 wins!",
		types.StatusStart,
		"Player1 | Games: 1 | Ratio: 0.00 | HP: 5",
		"Player2 | Games: 1 | Ratio: 1.00 | HP: 5",
		types.StatusEnd,
	}, got)
}

func TestServer_ErrorsGoToSenderOnly(t *testing.T) {
	addr, _, _ := startServer(t)
	alice := dial(t, addr)
	bob := dial(t, addr)
	alice.readUntil(t, "Player2 joined the chat.")

	bob.send(t, "/challenge 2 R")
	bob.readUntil(t, types.ErrorPrefix+engine.ErrSelfChallenge.Error())

	bob.send(t, "marker")
	assert.Equal(t, []string{"[Player2]: marker"}, alice.readUntil(t, "marker"))
}

func TestServer_TimeoutForfeit(t *testing.T) {
	addr, _, _ := startServer(t)
	alice := dial(t, addr)
	bob := dial(t, addr)
	alice.readUntil(t, "Player2 joined the chat.")

	alice.send(t, "/challenge 2 S")
	lines := alice.readUntil(t, types.StatusEnd)
	assert.Contains(t, lines, "Match Result: Player1 wins by timeout (no response from Player2)")
	assert.Contains(t, lines, "Player1 | Games: 1 | Ratio: 1.00 | HP: 5")
	bob.readUntil(t, "wins by timeout")
}

func TestServer_DisconnectAnnounced(t *testing.T) {
	addr, _, _ := startServer(t)
	alice := dial(t, addr)
	bob := dial(t, addr)
	alice.readUntil(t, "Player2 joined the chat.")

	require.NoError(t, bob.conn.Close())

	alice.readUntil(t, "Player2 left the chat.")
}

func TestServer_ShutdownClosesClients(t *testing.T) {
	addr, cancel, done := startServer(t)
	alice := dial(t, addr)

	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatalf("server did not stop")
	}

	require.NoError(t, alice.conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, err := alice.r.ReadString('\n')
	assert.Error(t, err)
}
