package ysiodo

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"gotest.tools/v3/assert"
)

func TestSensorBaudRateAndParity(t *testing.T) {
	// parity even (0x02) in the high byte, 19200 (0x01) in the low
	conn := &fakeConn{data: []byte{0x02, 0x01}}
	s := &Sensor{conn: conn}

	baud, parity, err := s.BaudRateAndParity()
	assert.NilError(t, err)
	assert.Equal(t, baud, 19200)
	assert.Equal(t, parity, "even")
	assert.Equal(t, len(conn.reads), 1)
	assert.Equal(t, conn.reads[0], regCall{addr: 0x0001, qty: 1})
}

func TestSensorSetBaudRateAndParity(t *testing.T) {
	conn := &fakeConn{}
	s := &Sensor{conn: conn}

	assert.NilError(t, s.SetBaudRateAndParity(115200, "none"))
	assert.Equal(t, len(conn.writes), 1)
	w := conn.writes[0]
	assert.Assert(t, w.single)
	assert.Equal(t, w.addr, uint16(0x0001))
	assert.Equal(t, w.value, uint16(0x0004)) // none=0x00 hi, 115200=0x04 lo
}

func TestSensorSetBaudRateAndParityRejectsUnknownLabels(t *testing.T) {
	conn := &fakeConn{}
	s := &Sensor{conn: conn}

	var verr *ValidationError
	err := s.SetBaudRateAndParity(14400, "even")
	assert.Assert(t, errors.As(err, &verr))

	err = s.SetBaudRateAndParity(9600, "mark")
	assert.Assert(t, errors.As(err, &verr))

	assert.Equal(t, len(conn.writes), 0)
}

func TestSensorCapCoefficientsRoundTrip(t *testing.T) {
	coeffs := CapCoefficients{
		K1: 1.0, K2: 0.0, K3: -0.1, K4: 0.01, K5: -0.001, K6: 0.0001, K7: -0.00001,
		KC:                 1,
		CapReplacementTime: 1610000000,
	}

	var raw []byte
	for _, k := range []float32{coeffs.K1, coeffs.K2, coeffs.K3, coeffs.K4, coeffs.K5, coeffs.K6, coeffs.K7} {
		raw = appendF32(raw, k)
	}
	raw = appendU16(raw, coeffs.KC)
	raw = appendU32(raw, coeffs.CapReplacementTime)

	conn := &fakeConn{data: raw}
	s := &Sensor{conn: conn}

	got, err := s.CapCoefficients()
	assert.NilError(t, err)
	assert.Equal(t, *got, coeffs)
	assert.Equal(t, conn.reads[0], regCall{addr: 0x0100, qty: 17})

	assert.NilError(t, s.SetCapCoefficients(coeffs))
	assert.Equal(t, len(conn.writes), 1)
	assert.Equal(t, conn.writes[0].addr, uint16(0x0100))
	assert.Equal(t, conn.writes[0].qty, uint16(17))
	assert.DeepEqual(t, conn.writes[0].data, raw)
}

func TestSensorLastCalibration(t *testing.T) {
	var raw []byte
	raw = appendU32(raw, 1610000000)
	raw = appendU16(raw, 97)

	conn := &fakeConn{data: raw}
	s := &Sensor{conn: conn}

	rec, err := s.ODOLastCalibration()
	assert.NilError(t, err)
	assert.Equal(t, rec.Time.Unix(), int64(1610000000))
	assert.Equal(t, rec.QCScore, uint16(97))
	assert.Equal(t, conn.reads[0], regCall{addr: 0x0210, qty: 3})

	conn.reads = nil
	_, err = s.ConductivityLastCalibration()
	assert.NilError(t, err)
	assert.Equal(t, conn.reads[0], regCall{addr: 0x0310, qty: 3})
}

func TestSensorCalibrationWrites(t *testing.T) {
	at := time.Unix(1610000000, 0)
	cases := []struct {
		run  func(s *Sensor) error
		addr uint16
		qty  uint16
	}{
		{func(s *Sensor) error { return s.CalibrateODOZero(at) }, 0x0220, 2},
		{func(s *Sensor) error { return s.CalibrateODOPercentSaturation(at, 760.0) }, 0x0230, 4},
		{func(s *Sensor) error { return s.CalibrateODOMgL(at, 8.68, 0.5) }, 0x0240, 6},
		{func(s *Sensor) error { return s.CalibrateConductivity(at, 1413.0) }, 0x0320, 4},
		{func(s *Sensor) error { return s.CalibrateSalinity(at, 35.0) }, 0x0330, 4},
		{func(s *Sensor) error { return s.CalibrateSpecificConductance(at, 1500.0) }, 0x0340, 4},
		{func(s *Sensor) error { return s.CalibrateNLFConductivity(at, 1.5) }, 0x0350, 4},
	}

	for _, tc := range cases {
		conn := &fakeConn{}
		assert.NilError(t, tc.run(&Sensor{conn: conn}))
		assert.Equal(t, len(conn.writes), 1)
		assert.Equal(t, conn.writes[0].addr, tc.addr)
		assert.Equal(t, conn.writes[0].qty, tc.qty)

		// every calibration record starts with the timestamp
		ts := conn.writes[0].data[:4]
		assert.DeepEqual(t, ts, appendU32(nil, 1610000000))
	}
}

func TestSensorFactoryResets(t *testing.T) {
	conn := &fakeConn{}
	s := &Sensor{conn: conn}

	assert.NilError(t, s.ODOFactoryReset())
	assert.NilError(t, s.ConductivityFactoryReset())

	assert.Equal(t, len(conn.writes), 2)
	assert.DeepEqual(t, conn.writes[0], writeCall{addr: 0x0200, qty: 1, single: true, value: 0x0001}, cmp.AllowUnexported(writeCall{}))
	assert.DeepEqual(t, conn.writes[1], writeCall{addr: 0x0300, qty: 1, single: true, value: 0x0001}, cmp.AllowUnexported(writeCall{}))
}

func TestSensorUserCoefficients(t *testing.T) {
	conn := &fakeConn{data: appendF32(nil, 0.65)}
	s := &Sensor{conn: conn}

	v, err := s.UserTDSCoefficient()
	assert.NilError(t, err)
	assert.Equal(t, v, float32(0.65))
	assert.Equal(t, conn.reads[0], regCall{addr: 0x0500, qty: 2})

	assert.NilError(t, s.SetUserTemperatureReference(25.0))
	assert.Equal(t, conn.writes[0].addr, uint16(0x0502))
	assert.DeepEqual(t, conn.writes[0].data, appendF32(nil, 25.0))

	assert.NilError(t, s.SetUserTemperatureCoefficient(0.0191))
	assert.Equal(t, conn.writes[1].addr, uint16(0x0504))
}

func TestSensorCapSerial(t *testing.T) {
	conn := &fakeConn{data: []byte("21A00042\x00\x00")}
	s := &Sensor{conn: conn}

	serial, err := s.CapSerial()
	assert.NilError(t, err)
	assert.Equal(t, serial, "21A00042")
	assert.Equal(t, conn.reads[0], regCall{addr: 0x0120, qty: 5})
}

func TestSensorErrorsKeepTheirType(t *testing.T) {
	conn := &fakeConn{err: errors.New("modbus: exception '11' (gateway target device failed to respond)")}
	s := &Sensor{conn: conn}

	_, err := s.Data()
	var terr *TransportError
	assert.Assert(t, errors.As(err, &terr))
}
