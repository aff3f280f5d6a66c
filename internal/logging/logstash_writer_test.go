package logging

import (
	"bufio"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogstashWriterRejectsEmptyAddr(t *testing.T) {
	_, err := NewLogstashWriter("   ")
	require.Error(t, err)
}

func TestLogstashWriterAppendsNewline(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	received := make(chan string, 1)
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		line, _ := bufio.NewReader(conn).ReadString('\n')
		received <- line
	}()

	w, err := NewLogstashWriter(ln.Addr().String())
	require.NoError(t, err)
	defer w.Close()

	n, err := w.Write([]byte(`{"msg":"hello"}`))
	require.NoError(t, err)
	assert.Equal(t, len(`{"msg":"hello"}`), n)

	select {
	case line := <-received:
		assert.Equal(t, "{\"msg\":\"hello\"}\n", line)
	case <-time.After(2 * time.Second):
		t.Fatal("logstash listener did not receive the entry")
	}
}

func TestLogstashWriterDropsWhileUnreachable(t *testing.T) {
	dials := 0
	w, err := NewLogstashWriter("logstash:5000", WithRetryInterval(time.Hour))
	require.NoError(t, err)
	w.dial = func(network, addr string, timeout time.Duration) (net.Conn, error) {
		dials++
		return nil, errors.New("connection refused")
	}

	for i := 0; i < 3; i++ {
		n, err := w.Write([]byte("entry"))
		require.NoError(t, err)
		assert.Equal(t, 5, n)
	}
	assert.Equal(t, 1, dials, "writer should not redial during the cool-down window")
	assert.Equal(t, uint64(3), w.Dropped())
}

func TestLogstashWriterClosed(t *testing.T) {
	w, err := NewLogstashWriter("logstash:5000")
	require.NoError(t, err)
	require.NoError(t, w.Close())
	_, err = w.Write([]byte("late"))
	assert.Error(t, err)
}

func TestLogstashWriterOptions(t *testing.T) {
	var gotTimeout time.Duration
	w, err := NewLogstashWriter("logstash:5000", WithDialTimeout(750*time.Millisecond), WithWriteTimeout(300*time.Millisecond))
	require.NoError(t, err)
	assert.Equal(t, 300*time.Millisecond, w.timeout.write)
	w.dial = func(network, addr string, timeout time.Duration) (net.Conn, error) {
		gotTimeout = timeout
		return nil, errors.New("connection refused")
	}
	_, _ = w.Write([]byte("entry"))
	assert.Equal(t, 750*time.Millisecond, gotTimeout)
}
