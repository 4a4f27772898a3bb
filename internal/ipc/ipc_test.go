package ipc

import (
	"net"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func socketPath(t *testing.T) string {
	// unix socket paths are short-limited, keep it out of t.TempDir()
	dir, err := os.MkdirTemp("", "hv")
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(dir) })
	return filepath.Join(dir, "s.sock")
}

func TestRoundTrip(t *testing.T) {
	path := socketPath(t)

	srv, err := StartServer(path, func(msg ControlMessage) Reply {
		switch msg.Cmd {
		case CmdExec:
			return Reply{OK: true, Text: "ran " + msg.Arg}
		default:
			return Reply{OK: false, Text: "unknown " + msg.Cmd}
		}
	})
	require.NoError(t, err)
	defer srv.Close()

	r, err := SendCommand(path, ControlMessage{Cmd: CmdExec, Arg: "lights off"})
	require.NoError(t, err)
	assert.Equal(t, Reply{OK: true, Text: "ran lights off"}, r)

	r, err = SendCommand(path, ControlMessage{Cmd: "reboot"})
	require.NoError(t, err)
	assert.False(t, r.OK)
	assert.Equal(t, "unknown reboot", r.Text)
}

func TestStartServer_ReplacesStaleSocket(t *testing.T) {
	path := socketPath(t)
	require.NoError(t, os.WriteFile(path, nil, 0o600))

	srv, err := StartServer(path, func(ControlMessage) Reply { return Reply{OK: true} })
	require.NoError(t, err)
	defer srv.Close()

	r, err := SendCommand(path, ControlMessage{Cmd: CmdList})
	require.NoError(t, err)
	assert.True(t, r.OK)
}

func TestMalformedMessageClosesConn(t *testing.T) {
	path := socketPath(t)
	srv, err := StartServer(path, func(ControlMessage) Reply { return Reply{OK: true} })
	require.NoError(t, err)
	defer srv.Close()

	conn, err := net.Dial("unix", path)
	require.NoError(t, err)
	defer conn.Close()

	_, err = conn.Write([]byte("not json\n"))
	require.NoError(t, err)

	buf := make([]byte, 16)
	n, _ := conn.Read(buf)
	assert.Equal(t, 0, n)
}

func TestSendCommand_NoDaemon(t *testing.T) {
	_, err := SendCommand(socketPath(t), ControlMessage{Cmd: CmdList})
	assert.Error(t, err)
}

func TestClose_RemovesSocket(t *testing.T) {
	path := socketPath(t)
	srv, err := StartServer(path, func(ControlMessage) Reply { return Reply{} })
	require.NoError(t, err)

	require.NoError(t, srv.Close())
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}
