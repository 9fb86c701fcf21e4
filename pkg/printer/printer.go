package printer

import (
	"context"
	"fmt"
	"net"
	"os"
	"sync"
	"time"
)

// Transport is a connection to a receipt printer.
type Transport interface {
	// IsConnected reports whether the transport currently holds a usable link.
	IsConnected() bool
	// Connect opens the link. A false result without error means the device declined.
	Connect(ctx context.Context) (bool, error)
	Disconnect(ctx context.Context) error
	// Print writes raw ESC/POS bytes. A false result means nothing was printed.
	Print(ctx context.Context, data []byte) (bool, error)
	// PlatformInfo describes the transport kind and target for status reporting.
	PlatformInfo() string
}

// StatusNotifier is implemented by transports that push connection changes.
type StatusNotifier interface {
	Subscribe(fn func(connected bool)) (cancel func())
}

const (
	TypeUSB     = "usb"
	TypeNetwork = "network"
	TypeNone    = "none"
)

// --- USB (device file, e.g. /dev/usb/lp0) ---

type usbTransport struct {
	path string

	mu sync.Mutex
	f  *os.File
}

// NewUSBTransport writes to a USB line printer device file.
func NewUSBTransport(devicePath string) Transport {
	return &usbTransport{path: devicePath}
}

func (p *usbTransport) IsConnected() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.f == nil {
		return false
	}
	if _, err := os.Stat(p.path); err != nil {
		_ = p.f.Close()
		p.f = nil
		return false
	}
	return true
}

func (p *usbTransport) Connect(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.f != nil {
		return true, nil
	}
	f, err := os.OpenFile(p.path, os.O_WRONLY, 0)
	if err != nil {
		return false, fmt.Errorf("printer: open USB device %s: %w", p.path, err)
	}
	p.f = f
	return true, nil
}

func (p *usbTransport) Disconnect(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.f == nil {
		return nil
	}
	err := p.f.Close()
	p.f = nil
	return err
}

func (p *usbTransport) Print(ctx context.Context, data []byte) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.f == nil {
		return false, nil
	}
	if _, err := p.f.Write(data); err != nil {
		_ = p.f.Close()
		p.f = nil
		return false, fmt.Errorf("printer: write USB device %s: %w", p.path, err)
	}
	return true, nil
}

func (p *usbTransport) PlatformInfo() string {
	return "usb:" + p.path
}

// --- Network (raw TCP, e.g. 192.168.1.100:9100) ---

type networkTransport struct {
	address      string
	dialTimeout  time.Duration
	writeTimeout time.Duration
	dial         func(ctx context.Context, network, address string) (net.Conn, error)

	mu        sync.Mutex
	conn      net.Conn
	listeners map[int]func(bool)
	nextID    int
}

// NewNetworkTransport keeps one TCP connection to address open between prints.
func NewNetworkTransport(address string) Transport {
	d := &net.Dialer{}
	return &networkTransport{
		address:      address,
		dialTimeout:  5 * time.Second,
		writeTimeout: 10 * time.Second,
		dial:         d.DialContext,
		listeners:    make(map[int]func(bool)),
	}
}

func (p *networkTransport) IsConnected() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.conn != nil
}

func (p *networkTransport) Connect(ctx context.Context) (bool, error) {
	p.mu.Lock()
	if p.conn != nil {
		p.mu.Unlock()
		return true, nil
	}
	p.mu.Unlock()

	dialCtx, cancel := context.WithTimeout(ctx, p.dialTimeout)
	defer cancel()
	conn, err := p.dial(dialCtx, "tcp", p.address)
	if err != nil {
		return false, fmt.Errorf("printer: connect %s: %w", p.address, err)
	}

	p.mu.Lock()
	if p.conn != nil {
		p.mu.Unlock()
		_ = conn.Close()
		return true, nil
	}
	p.conn = conn
	listeners := p.snapshotLocked()
	p.mu.Unlock()

	notify(listeners, true)
	return true, nil
}

func (p *networkTransport) Disconnect(ctx context.Context) error {
	p.mu.Lock()
	conn := p.conn
	p.conn = nil
	listeners := p.snapshotLocked()
	p.mu.Unlock()

	if conn == nil {
		return nil
	}
	err := conn.Close()
	notify(listeners, false)
	return err
}

func (p *networkTransport) Print(ctx context.Context, data []byte) (bool, error) {
	p.mu.Lock()
	conn := p.conn
	if conn == nil {
		p.mu.Unlock()
		return false, nil
	}
	_ = conn.SetWriteDeadline(time.Now().Add(p.writeTimeout))
	_, err := conn.Write(data)
	if err == nil {
		p.mu.Unlock()
		return true, nil
	}
	_ = conn.Close()
	p.conn = nil
	listeners := p.snapshotLocked()
	p.mu.Unlock()

	notify(listeners, false)
	return false, fmt.Errorf("printer: write %s: %w", p.address, err)
}

func (p *networkTransport) PlatformInfo() string {
	return "network:" + p.address
}

func (p *networkTransport) Subscribe(fn func(bool)) func() {
	p.mu.Lock()
	defer p.mu.Unlock()
	id := p.nextID
	p.nextID++
	p.listeners[id] = fn
	return func() {
		p.mu.Lock()
		delete(p.listeners, id)
		p.mu.Unlock()
	}
}

func (p *networkTransport) snapshotLocked() []func(bool) {
	out := make([]func(bool), 0, len(p.listeners))
	for _, fn := range p.listeners {
		out = append(out, fn)
	}
	return out
}

func notify(listeners []func(bool), connected bool) {
	for _, fn := range listeners {
		fn(connected)
	}
}

// --- Null (no hardware configured) ---

type nullTransport struct{}

// NewNullTransport never connects, so every print falls through to the browser document.
func NewNullTransport() Transport {
	return nullTransport{}
}

func (nullTransport) IsConnected() bool { return false }
func (nullTransport) Connect(context.Context) (bool, error) { return false, nil }
func (nullTransport) Disconnect(context.Context) error { return nil }
func (nullTransport) Print(context.Context, []byte) (bool, error) { return false, nil }
func (nullTransport) PlatformInfo() string { return TypeNone }

// NewTransportFromConfig creates the Transport for printerType
// ("usb", "network" or "none").
func NewTransportFromConfig(printerType, usbPath, address string) (Transport, error) {
	switch printerType {
	case TypeUSB:
		if usbPath == "" {
			return nil, fmt.Errorf("printer: USB path is required for USB printer type")
		}
		return NewUSBTransport(usbPath), nil
	case TypeNetwork:
		if address == "" {
			return nil, fmt.Errorf("printer: address is required for network printer type")
		}
		return NewNetworkTransport(address), nil
	case TypeNone, "":
		return NewNullTransport(), nil
	default:
		return nil, fmt.Errorf("printer: unknown printer type %q (use usb, network, or none)", printerType)
	}
}
