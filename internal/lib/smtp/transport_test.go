package smtp

import (
	"bufio"
	"context"
	"net"
	"strings"
	"testing"

	"github.com/magabrotheeeer/gymhub/internal/config"
	"github.com/magabrotheeeer/gymhub/internal/lib/sl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// plainServer отвечает на приветствие и EHLO, но не объявляет STARTTLS.
func plainServer(t *testing.T) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = ln.Close() })

	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		r := bufio.NewReader(conn)
		_, _ = conn.Write([]byte("220 test ESMTP\r\n"))
		for {
			line, err := r.ReadString('\n')
			if err != nil {
				return
			}
			switch cmd := strings.ToUpper(strings.TrimSpace(line)); {
			case strings.HasPrefix(cmd, "EHLO"):
				_, _ = conn.Write([]byte("250-test\r\n250 8BITMIME\r\n"))
			case strings.HasPrefix(cmd, "QUIT"):
				_, _ = conn.Write([]byte("221 bye\r\n"))
				return
			default:
				_, _ = conn.Write([]byte("250 OK\r\n"))
			}
		}
	}()
	return ln.Addr().String()
}

func TestTransport_Connect_RequiresStartTLS(t *testing.T) {
	host, port, err := net.SplitHostPort(plainServer(t))
	require.NoError(t, err)

	tr := NewTransport(config.SMTP{SMTPHost: host, SMTPPort: port, SMTPUser: "noreply@gym.test"}, sl.NewDiscard())
	client, err := tr.Connect(context.Background())
	require.Error(t, err)
	assert.Nil(t, client)
	assert.Contains(t, err.Error(), "STARTTLS")
}

func TestTransport_Connect_DialError(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	host, port, err := net.SplitHostPort(ln.Addr().String())
	require.NoError(t, err)
	require.NoError(t, ln.Close())

	tr := NewTransport(config.SMTP{SMTPHost: host, SMTPPort: port}, sl.NewDiscard())
	_, err = tr.Connect(context.Background())
	assert.ErrorContains(t, err, "failed to dial SMTP server")
}

func TestTransport_GetSMTPUser(t *testing.T) {
	tr := NewTransport(config.SMTP{SMTPUser: "noreply@gym.test"}, sl.NewDiscard())
	assert.Equal(t, "noreply@gym.test", tr.GetSMTPUser())
}
