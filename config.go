package ysiodo

import "time"

// Option configures a Session.
type Option func(*Session)

// WithBaudRate sets the serial baud rate.
func WithBaudRate(baudRate int) Option {
	return func(s *Session) {
		s.baudRate = baudRate
	}
}

// WithDataBits sets the number of data bits.
func WithDataBits(dataBits int) Option {
	return func(s *Session) {
		s.dataBits = dataBits
	}
}

// WithParity sets the serial parity: "N", "E" or "O". With "N" the
// sensor expects 2 stop bits.
func WithParity(parity string) Option {
	return func(s *Session) {
		s.parity = parity
	}
}

// WithStopBits sets the number of stop bits.
func WithStopBits(stopBits int) Option {
	return func(s *Session) {
		s.stopBits = stopBits
	}
}

// WithSlaveID sets the unit id of the sensor on the bus.
func WithSlaveID(slaveID uint8) Option {
	return func(s *Session) {
		s.slaveID = slaveID
	}
}

// WithTimeout bounds each individual register round trip.
func WithTimeout(timeout time.Duration) Option {
	return func(s *Session) {
		s.timeout = timeout
	}
}
