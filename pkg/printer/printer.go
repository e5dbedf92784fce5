package printer

import (
	"context"
	"fmt"
	"net"
	"os"
	"sync"
	"time"
)

// Printer sends raw ESC/POS data to a receipt printer.
type Printer interface {
	// Print sends one job. Implementations open and close their connection
	// per job, so a printer that was switched off recovers by itself.
	Print(ctx context.Context, data []byte) error
	// IsConnected reports whether the device can currently be reached.
	IsConnected(ctx context.Context) bool
}

// Type names the printer transports accepted by New.
const (
	TypeUSB     = "usb"
	TypeNetwork = "network"
	TypeNone    = "none"
)

// Config selects and addresses a printer.
type Config struct {
	Type    string
	USBPath string // e.g. /dev/usb/lp0
	Address string // host:port, e.g. 192.168.1.100:9100
	Timeout time.Duration
}

// New creates the printer described by cfg. An empty type is TypeNone.
func New(cfg Config) (Printer, error) {
	switch cfg.Type {
	case TypeUSB:
		if cfg.USBPath == "" {
			return nil, fmt.Errorf("printer: USB path is required for USB printer type")
		}
		return &usbPrinter{path: cfg.USBPath}, nil
	case TypeNetwork:
		if cfg.Address == "" {
			return nil, fmt.Errorf("printer: address is required for network printer type")
		}
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 5 * time.Second
		}
		return &networkPrinter{address: cfg.Address, timeout: timeout}, nil
	case TypeNone, "":
		return nullPrinter{}, nil
	default:
		return nil, fmt.Errorf("printer: unknown printer type %q (use usb, network, or none)", cfg.Type)
	}
}

type usbPrinter struct {
	path string
	mu   sync.Mutex
}

func (p *usbPrinter) Print(ctx context.Context, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	// one job at a time on the device file
	p.mu.Lock()
	defer p.mu.Unlock()

	f, err := os.OpenFile(p.path, os.O_WRONLY, 0)
	if err != nil {
		return fmt.Errorf("printer: failed to open USB device %s: %w", p.path, err)
	}
	defer f.Close()

	if _, err := f.Write(data); err != nil {
		return fmt.Errorf("printer: failed to write to USB device %s: %w", p.path, err)
	}
	return nil
}

func (p *usbPrinter) IsConnected(context.Context) bool {
	_, err := os.Stat(p.path)
	return err == nil
}

type networkPrinter struct {
	address string
	timeout time.Duration
}

func (p *networkPrinter) dial(ctx context.Context) (net.Conn, error) {
	d := net.Dialer{Timeout: p.timeout}
	return d.DialContext(ctx, "tcp", p.address)
}

func (p *networkPrinter) Print(ctx context.Context, data []byte) error {
	conn, err := p.dial(ctx)
	if err != nil {
		return fmt.Errorf("printer: failed to connect to %s: %w", p.address, err)
	}
	defer conn.Close()

	deadline := time.Now().Add(2 * p.timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	_ = conn.SetWriteDeadline(deadline)

	if _, err := conn.Write(data); err != nil {
		return fmt.Errorf("printer: failed to write to %s: %w", p.address, err)
	}
	return nil
}

func (p *networkPrinter) IsConnected(ctx context.Context) bool {
	conn, err := p.dial(ctx)
	if err != nil {
		return false
	}
	conn.Close()
	return true
}

// nullPrinter drops every job; used when no hardware is configured.
type nullPrinter struct{}

func (nullPrinter) Print(context.Context, []byte) error { return nil }

func (nullPrinter) IsConnected(context.Context) bool { return false }

// Recorder keeps every job in memory. Useful for previews and tests.
type Recorder struct {
	mu   sync.Mutex
	jobs [][]byte
	Err  error
}

// Print records a copy of data, or returns Err when it is set.
func (r *Recorder) Print(_ context.Context, data []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	r.jobs = append(r.jobs, append([]byte(nil), data...))
	return nil
}

// IsConnected reports true unless Err is set.
func (r *Recorder) IsConnected(context.Context) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.Err == nil
}

// Jobs returns the recorded jobs in print order.
func (r *Recorder) Jobs() [][]byte {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([][]byte(nil), r.jobs...)
}
