package ysiodo

import (
	"sync"
	"time"

	"github.com/goburrow/modbus"
	"github.com/pkg/errors"
)

// Session owns one serial link and one device address on a multidrop
// RTU bus. The lifecycle is explicit: Connect, any number of register
// exchanges, Close. A closed session rejects every exchange with
// ErrNotConnected; it never reconnects on its own.
//
// The bus carries at most one request at a time, so all four
// primitives serialize on a per-session lock.
type Session struct {
	port     string
	baudRate int
	dataBits int
	parity   string
	stopBits int
	slaveID  uint8
	timeout  time.Duration

	mu        sync.Mutex
	handler   *modbus.RTUClientHandler
	client    modbus.Client
	connected bool
}

// NewSession prepares a session for the given serial port. The
// defaults match the sensor as shipped: 9600 baud, 8 data bits, even
// parity, 1 stop bit, unit id 1, 3 second round-trip timeout.
func NewSession(port string, opts ...Option) *Session {
	s := &Session{
		port:     port,
		baudRate: 9600,
		dataBits: 8,
		parity:   "E",
		stopBits: 1,
		slaveID:  1,
		timeout:  3 * time.Second,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Connect opens the serial link. Connecting an already-connected
// session is a no-op.
func (s *Session) Connect() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.connected {
		return nil
	}

	handler := modbus.NewRTUClientHandler(s.port)
	handler.BaudRate = s.baudRate
	handler.DataBits = s.dataBits
	handler.Parity = s.parity
	handler.StopBits = s.stopBits
	handler.SlaveId = s.slaveID
	handler.Timeout = s.timeout
	if err := handler.Connect(); err != nil {
		return errors.Wrapf(err, "open %s", s.port)
	}

	s.handler = handler
	s.client = modbus.NewClient(handler)
	s.connected = true
	return nil
}

// Close releases the serial link. Idempotent.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.connected {
		return nil
	}
	err := s.handler.Close()
	s.handler = nil
	s.client = nil
	s.connected = false
	return err
}

// Connected reports whether the serial link is open.
func (s *Session) Connected() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.connected
}

func (s *Session) ReadHoldingRegisters(address, quantity uint16) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.connected {
		return nil, ErrNotConnected
	}
	return s.client.ReadHoldingRegisters(address, quantity)
}

func (s *Session) ReadInputRegisters(address, quantity uint16) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.connected {
		return nil, ErrNotConnected
	}
	return s.client.ReadInputRegisters(address, quantity)
}

func (s *Session) WriteSingleRegister(address, value uint16) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.connected {
		return nil, ErrNotConnected
	}
	return s.client.WriteSingleRegister(address, value)
}

func (s *Session) WriteMultipleRegisters(address, quantity uint16, value []byte) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.connected {
		return nil, ErrNotConnected
	}
	return s.client.WriteMultipleRegisters(address, quantity, value)
}
