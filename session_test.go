package ysiodo

import (
	"errors"
	"testing"
	"time"

	"gotest.tools/v3/assert"
)

func TestSessionDefaults(t *testing.T) {
	s := NewSession("/dev/ttyUSB0")
	assert.Equal(t, s.baudRate, 9600)
	assert.Equal(t, s.dataBits, 8)
	assert.Equal(t, s.parity, "E")
	assert.Equal(t, s.stopBits, 1)
	assert.Equal(t, s.slaveID, uint8(1))
	assert.Equal(t, s.timeout, 3*time.Second)
}

func TestSessionOptions(t *testing.T) {
	s := NewSession("/dev/ttyUSB1",
		WithBaudRate(115200),
		WithDataBits(8),
		WithParity("N"),
		WithStopBits(2),
		WithSlaveID(7),
		WithTimeout(500*time.Millisecond),
	)
	assert.Equal(t, s.baudRate, 115200)
	assert.Equal(t, s.parity, "N")
	assert.Equal(t, s.stopBits, 2)
	assert.Equal(t, s.slaveID, uint8(7))
	assert.Equal(t, s.timeout, 500*time.Millisecond)
}

// A session that was never connected rejects every primitive with a
// connectivity error and never touches the port.
func TestSessionRejectsWhenClosed(t *testing.T) {
	s := NewSession("/dev/ttyUSB0")

	_, err := s.ReadHoldingRegisters(0x1000, 17)
	assert.Assert(t, errors.Is(err, ErrNotConnected))

	_, err = s.ReadInputRegisters(0x0000, 24)
	assert.Assert(t, errors.Is(err, ErrNotConnected))

	_, err = s.WriteSingleRegister(0x0200, 1)
	assert.Assert(t, errors.Is(err, ErrNotConnected))

	_, err = s.WriteMultipleRegisters(0x0220, 2, make([]byte, 4))
	assert.Assert(t, errors.Is(err, ErrNotConnected))

	assert.Assert(t, !s.Connected())
}

func TestSessionCloseIdempotent(t *testing.T) {
	s := NewSession("/dev/ttyUSB0")
	assert.NilError(t, s.Close())
	assert.NilError(t, s.Close())
}

// The connectivity error also reaches callers of the high-level
// driver untouched.
func TestSensorRejectsWhenDisconnected(t *testing.T) {
	s := NewSensor("/dev/ttyUSB0")
	_, err := s.Data()
	assert.Assert(t, errors.Is(err, ErrNotConnected))
}
