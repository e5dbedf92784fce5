package printer

import (
	"bytes"
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocument_Columns(t *testing.T) {
	d := NewDocument(20)
	d.Columns("Total:", "150.00")
	lines := bytes.Split(d.Bytes()[2:], []byte{LF})
	assert.Equal(t, "Total:        150.00", string(lines[0]))
	assert.Len(t, lines[0], 20)
}

func TestDocument_ItemLineTruncatesLongNames(t *testing.T) {
	d := NewDocument(20)
	d.ItemLine(2, "Extra long jasmine rice", "110.00")
	line := string(bytes.TrimSuffix(d.Bytes()[2:], []byte{LF}))
	assert.Equal(t, "2x Extra lon~ 110.00", line)
	assert.Equal(t, 20, len([]rune(line)))
}

func TestDocument_RuneAwarePadding(t *testing.T) {
	d := NewDocument(10)
	d.Columns("Café", "5.00")
	line := string(bytes.TrimSuffix(d.Bytes()[2:], []byte{LF}))
	assert.Equal(t, "Café  5.00", line)
}

func TestDocument_Commands(t *testing.T) {
	d := NewDocument(0)
	assert.Equal(t, Width58mm, d.Width())
	d.Align(AlignCenter).Bold(true).Size(FontDouble).Cut(true)
	assert.Equal(t, []byte{ESC, '@', ESC, 'a', 1, ESC, 'E', 1, GS, '!', 0x11, GS, 'V', 1}, d.Bytes())
}

func TestNew(t *testing.T) {
	p, err := New(Config{})
	require.NoError(t, err)
	assert.NoError(t, p.Print(context.Background(), []byte("x")))
	assert.False(t, p.IsConnected(context.Background()))

	_, err = New(Config{Type: TypeUSB})
	assert.Error(t, err)
	_, err = New(Config{Type: TypeNetwork})
	assert.Error(t, err)
	_, err = New(Config{Type: "bluetooth"})
	assert.Error(t, err)
}

func TestNetworkPrinter(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	received := make(chan []byte, 1)
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		var buf bytes.Buffer
		_, _ = buf.ReadFrom(conn)
		received <- buf.Bytes()
	}()

	p, err := New(Config{Type: TypeNetwork, Address: ln.Addr().String(), Timeout: time.Second})
	require.NoError(t, err)
	require.NoError(t, p.Print(context.Background(), []byte("receipt")))

	select {
	case got := <-received:
		assert.Equal(t, "receipt", string(got))
	case <-time.After(2 * time.Second):
		t.Fatal("printer job not received")
	}
}

func TestRecorder(t *testing.T) {
	r := &Recorder{}
	require.NoError(t, r.Print(context.Background(), []byte("a")))
	assert.True(t, r.IsConnected(context.Background()))
	assert.Equal(t, [][]byte{[]byte("a")}, r.Jobs())

	r.Err = errors.New("paper out")
	assert.Error(t, r.Print(context.Background(), []byte("b")))
	assert.Len(t, r.Jobs(), 1)
}
