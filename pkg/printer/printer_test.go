package printer

import (
	"bytes"
	"context"
	"net"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestDocumentColumnsPadToWidth(t *testing.T) {
	d := NewDocument(20)
	d.Columns("Kopi", "Rp 5.000")

	out := d.Bytes()
	line := string(out[2 : len(out)-1])
	assert.Equal(t, 20, len([]rune(line)))
	assert.True(t, bytes.HasPrefix(out, []byte{ESC, '@'}))
}

func TestDocumentCommandBytes(t *testing.T) {
	d := NewDocument(0)
	assert.Equal(t, Width58mm, d.Width())

	d.SetAlign(AlignCenter).SetBold(true).SetFontSize(FontDouble).FeedLines(2).SetBold(false).PartialCut().Cut()

	want := []byte{
		ESC, '@',
		ESC, 'a', AlignCenter,
		ESC, 'E', 1,
		GS, '!', FontDouble,
		LF, LF,
		ESC, 'E', 0,
		GS, 'V', 0x01,
		GS, 'V', 0x00,
	}
	assert.Equal(t, want, d.Bytes())
}

func TestDocumentColumnsTruncatesLongLeft(t *testing.T) {
	d := NewDocument(16)
	d.Columns("Fotokopi A4 bolak balik", "Rp 500")

	out := d.Bytes()
	line := string(out[2 : len(out)-1])
	assert.Equal(t, 16, len([]rune(line)))
	assert.Contains(t, line, "Rp 500")
}

func TestNewTransportFromConfig(t *testing.T) {
	tr, err := NewTransportFromConfig("", "", "")
	require.NoError(t, err)
	assert.Equal(t, TypeNone, tr.PlatformInfo())

	_, err = NewTransportFromConfig(TypeUSB, "", "")
	require.Error(t, err)
	_, err = NewTransportFromConfig(TypeNetwork, "", "")
	require.Error(t, err)
	_, err = NewTransportFromConfig("bluetooth", "", "")
	require.Error(t, err)
}

func TestUSBTransportWritesToDeviceFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lp0")
	require.NoError(t, os.WriteFile(path, nil, 0o600))
	tr := NewUSBTransport(path)
	ctx := context.Background()

	ok, err := tr.Print(ctx, []byte("x"))
	require.NoError(t, err)
	assert.False(t, ok, "print before connect")

	ok, err = tr.Connect(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, tr.IsConnected())

	ok, err = tr.Print(ctx, []byte("hello"))
	require.NoError(t, err)
	assert.True(t, ok)
	require.NoError(t, tr.Disconnect(ctx))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))
	assert.False(t, tr.IsConnected())
}

func TestNetworkTransportNotifiesSubscribers(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	received := make(chan []byte, 1)
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		buf := make([]byte, 64)
		n, _ := conn.Read(buf)
		received <- buf[:n]
	}()
	defer ln.Close()

	tr := NewNetworkTransport(ln.Addr().String())
	var transitions []bool
	cancel := tr.(StatusNotifier).Subscribe(func(c bool) { transitions = append(transitions, c) })
	defer cancel()

	ctx := context.Background()
	ok, err := tr.Connect(ctx)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = tr.Print(ctx, []byte("struk"))
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "struk", string(<-received))

	require.NoError(t, tr.Disconnect(ctx))
	assert.Equal(t, []bool{true, false}, transitions)
}

func TestNetworkTransportConnectFailure(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())

	tr := NewNetworkTransport(addr)
	ok, err := tr.Connect(context.Background())
	require.Error(t, err)
	assert.False(t, ok)
	assert.False(t, tr.IsConnected())
}

type flakyTransport struct {
	nullTransport
	connected atomic.Bool
}

func (f *flakyTransport) IsConnected() bool { return f.connected.Load() }

func TestWatcherPollsAndStops(t *testing.T) {
	tr := &flakyTransport{}
	w := NewWatcher(tr, 5*time.Millisecond)
	events := make(chan bool, 4)
	unsubscribe := w.Subscribe(func(c bool) { events <- c })
	defer unsubscribe()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Run(ctx)
		close(done)
	}()

	tr.connected.Store(true)
	select {
	case c := <-events:
		assert.True(t, c)
	case <-time.After(time.Second):
		t.Fatal("no transition published")
	}
	assert.True(t, w.Connected())

	cancel()
	<-done
}

type pushTransport struct {
	nullTransport
	mu         sync.Mutex
	fn         func(bool)
	subscribed chan struct{}
}

func (p *pushTransport) Subscribe(fn func(bool)) func() {
	p.mu.Lock()
	p.fn = fn
	p.mu.Unlock()
	close(p.subscribed)
	return func() {
		p.mu.Lock()
		p.fn = nil
		p.mu.Unlock()
	}
}

func (p *pushTransport) push(c bool) {
	p.mu.Lock()
	fn := p.fn
	p.mu.Unlock()
	if fn != nil {
		fn(c)
	}
}

func TestWatcherUsesPushWhenAvailable(t *testing.T) {
	tr := &pushTransport{subscribed: make(chan struct{})}
	w := NewWatcher(tr, time.Hour)
	events := make(chan bool, 4)
	w.Subscribe(func(c bool) { events <- c })

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Run(ctx)
		close(done)
	}()

	<-tr.subscribed
	tr.push(true)
	tr.push(true)
	tr.push(false)
	cancel()
	<-done

	require.Len(t, events, 2)
	assert.True(t, <-events)
	assert.False(t, <-events)

	tr.mu.Lock()
	defer tr.mu.Unlock()
	assert.Nil(t, tr.fn, "watcher should unsubscribe on exit")
}
