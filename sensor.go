package ysiodo

import (
	"encoding/binary"
	"strconv"
	"time"

	"github.com/pkg/errors"
)

// Sensor is a driver for the YSI ODO RTU dissolved-oxygen/conductivity
// probe. It binds one Session to the device register map and exposes
// each register block as a typed operation. Every read is a fresh bus
// round trip; nothing is cached, because the probe's state can change
// between calls.
type Sensor struct {
	conn    Conn
	session *Session
}

// NewSensor prepares a sensor on the given serial port. Call Connect
// before any other operation and Disconnect when done.
func NewSensor(port string, opts ...Option) *Sensor {
	s := NewSession(port, opts...)
	return &Sensor{conn: s, session: s}
}

// Connect opens the serial link to the sensor.
func (s *Sensor) Connect() error { return s.session.Connect() }

// Disconnect releases the serial link. Idempotent.
func (s *Sensor) Disconnect() error { return s.session.Close() }

// DeviceInfo identifies the probe hardware and firmware.
type DeviceInfo struct {
	ProductID        uint16
	ModelID          uint16
	SubmodelID       uint16
	FirmwareMajor    uint16
	FirmwareMinor    uint16
	FirmwareSubminor uint16
	HardwareMajor    uint16
	HardwareMinor    uint16

	ManufacturingSerial string
	PCBSerial           string
}

// DeviceInfo reads the identification block.
func (s *Sensor) DeviceInfo() (*DeviceInfo, error) {
	vals, err := readLayout(s.conn, deviceInfoLayout)
	if err != nil {
		return nil, errors.Wrap(err, "device info")
	}
	return &DeviceInfo{
		ProductID:           vals["product_id"].Uint16(),
		ModelID:             vals["model_id"].Uint16(),
		SubmodelID:          vals["submodel_id"].Uint16(),
		FirmwareMajor:       vals["firmware_major_revision"].Uint16(),
		FirmwareMinor:       vals["firmware_minor_revision"].Uint16(),
		FirmwareSubminor:    vals["firmware_subminor_revision"].Uint16(),
		HardwareMajor:       vals["hardware_major_revision"].Uint16(),
		HardwareMinor:       vals["hardware_minor_revision"].Uint16(),
		ManufacturingSerial: vals["manufacturing_serial_number"].Text(),
		PCBSerial:           vals["printed_circuit_board_serial_number"].Text(),
	}, nil
}

// Measurements is one live snapshot of every reading the probe
// produces, taken in a single bus transaction.
type Measurements struct {
	ODOSaturation           float32 // % air saturation
	ODOConcentration        float32 // mg/L
	ODOBarometerCompensated float32 // mg/L, local-barometer compensated
	Temperature             float32 // degC
	RefTemperature          float32 // degC
	TimeSinceBoot           uint32  // seconds
	Conductivity            float32 // uS/cm
	SpecificConductivity    float32 // uS/cm
	Salinity                float32 // ppt
	ConductivityNLF         float32 // uS/cm, non-linear function
	TotalDissolvedSolids    float32 // mg/L
}

// Data reads the live measurement snapshot from the input registers.
func (s *Sensor) Data() (*Measurements, error) {
	vals, err := readLayout(s.conn, liveDataLayout)
	if err != nil {
		return nil, errors.Wrap(err, "live data")
	}
	return &Measurements{
		ODOSaturation:           vals["odo_saturation"].Float32(),
		ODOConcentration:        vals["odo_concentration"].Float32(),
		ODOBarometerCompensated: vals["odo_barometer_compensated"].Float32(),
		Temperature:             vals["temperature"].Float32(),
		RefTemperature:          vals["ref_temperature"].Float32(),
		TimeSinceBoot:           vals["time_since_boot"].Uint32(),
		Conductivity:            vals["conductivity"].Float32(),
		SpecificConductivity:    vals["specific_conductivity"].Float32(),
		Salinity:                vals["salinity"].Float32(),
		ConductivityNLF:         vals["conductivity_nlf"].Float32(),
		TotalDissolvedSolids:    vals["total_dissolved_solids"].Float32(),
	}, nil
}

// CapSerial reads the serial number of the mounted sensing cap.
func (s *Sensor) CapSerial() (string, error) {
	vals, err := readLayout(s.conn, capSerialLayout)
	if err != nil {
		return "", errors.Wrap(err, "cap serial")
	}
	return vals["cap_serial"].Text(), nil
}

// CapCoefficients are the calibration coefficients of the oxygen
// sensing cap. KC is an opaque cap code; CapReplacementTime is a unix
// timestamp.
type CapCoefficients struct {
	K1, K2, K3, K4, K5, K6, K7 float32
	KC                         uint16
	CapReplacementTime         uint32
}

// CapCoefficients reads the oxygen cap coefficient block.
func (s *Sensor) CapCoefficients() (*CapCoefficients, error) {
	vals, err := readLayout(s.conn, capCoefficientsLayout)
	if err != nil {
		return nil, errors.Wrap(err, "cap coefficients")
	}
	return &CapCoefficients{
		K1:                 vals["k1"].Float32(),
		K2:                 vals["k2"].Float32(),
		K3:                 vals["k3"].Float32(),
		K4:                 vals["k4"].Float32(),
		K5:                 vals["k5"].Float32(),
		K6:                 vals["k6"].Float32(),
		K7:                 vals["k7"].Float32(),
		KC:                 vals["kc"].Uint16(),
		CapReplacementTime: vals["cap_replacement_time"].Uint32(),
	}, nil
}

// SetCapCoefficients writes a full coefficient block in one
// transaction. Written when a new sensing cap is installed.
func (s *Sensor) SetCapCoefficients(c CapCoefficients) error {
	vals := Values{
		"k1":                   F32Value(c.K1),
		"k2":                   F32Value(c.K2),
		"k3":                   F32Value(c.K3),
		"k4":                   F32Value(c.K4),
		"k5":                   F32Value(c.K5),
		"k6":                   F32Value(c.K6),
		"k7":                   F32Value(c.K7),
		"kc":                   U16Value(c.KC),
		"cap_replacement_time": U32Value(c.CapReplacementTime),
	}
	return errors.Wrap(writeLayout(s.conn, capCoefficientsLayout, vals), "set cap coefficients")
}

// CalibrationRecord is the time and quality score of the most recent
// calibration of a measurement family.
type CalibrationRecord struct {
	Time    time.Time
	QCScore uint16
}

// ODOLastCalibration reads the last oxygen calibration record.
func (s *Sensor) ODOLastCalibration() (*CalibrationRecord, error) {
	return s.lastCalibration(odoLastCalLayout)
}

// ConductivityLastCalibration reads the last conductivity calibration
// record.
func (s *Sensor) ConductivityLastCalibration() (*CalibrationRecord, error) {
	return s.lastCalibration(condLastCalLayout)
}

func (s *Sensor) lastCalibration(layout LayoutSpec) (*CalibrationRecord, error) {
	vals, err := readLayout(s.conn, layout)
	if err != nil {
		return nil, errors.Wrap(err, layout.Name)
	}
	return &CalibrationRecord{
		Time:    time.Unix(int64(vals["last_calibration_time"].Uint32()), 0),
		QCScore: vals["qc_score"].Uint16(),
	}, nil
}

// ODOFactoryReset reverts the oxygen channel to factory calibration.
// Success means the device accepted the command; completion is
// observable through ODOLastCalibration.
func (s *Sensor) ODOFactoryReset() error {
	return writeCommand(s.conn, "odo factory reset", regODOFactoryReset, factoryResetArm)
}

// ConductivityFactoryReset reverts the conductivity channel to factory
// calibration.
func (s *Sensor) ConductivityFactoryReset() error {
	return writeCommand(s.conn, "conductivity factory reset", regCondFactoryReset, factoryResetArm)
}

// CalibrateODOZero performs a zero-point oxygen calibration stamped
// with the given time.
func (s *Sensor) CalibrateODOZero(at time.Time) error {
	vals := Values{"calibration_time": U32Value(uint32(at.Unix()))}
	return errors.Wrap(writeLayout(s.conn, odoZeroCalLayout, vals), "odo zero calibration")
}

// CalibrateODOPercentSaturation performs a percent-saturation oxygen
// calibration. Pressure is the local barometric pressure in mmHg.
func (s *Sensor) CalibrateODOPercentSaturation(at time.Time, pressure float32) error {
	vals := Values{
		"calibration_time":    U32Value(uint32(at.Unix())),
		"barometric_pressure": F32Value(pressure),
	}
	return errors.Wrap(writeLayout(s.conn, odoSaturationCalLayout, vals), "odo percent saturation calibration")
}

// CalibrateODOMgL performs an mg/L oxygen calibration against a
// reference value and the salinity of the calibration solution (ppt).
func (s *Sensor) CalibrateODOMgL(at time.Time, value, salinity float32) error {
	vals := Values{
		"calibration_time":     U32Value(uint32(at.Unix())),
		"calibration_value":    F32Value(value),
		"calibration_salinity": F32Value(salinity),
	}
	return errors.Wrap(writeLayout(s.conn, odoMgLCalLayout, vals), "odo mg/L calibration")
}

// CalibrateConductivity calibrates raw conductivity against a uS/cm
// reference.
func (s *Sensor) CalibrateConductivity(at time.Time, value float32) error {
	return s.calibrate(condUSCmCalLayout, at, value)
}

// CalibrateSalinity calibrates against a salinity reference in ppt.
func (s *Sensor) CalibrateSalinity(at time.Time, value float32) error {
	return s.calibrate(condSalinityCalLayout, at, value)
}

// CalibrateSpecificConductance calibrates against a specific
// conductance reference in uS/cm.
func (s *Sensor) CalibrateSpecificConductance(at time.Time, value float32) error {
	return s.calibrate(condSpecificCalLayout, at, value)
}

// CalibrateNLFConductivity calibrates against a non-linear-function
// conductivity reference in uS/cm.
func (s *Sensor) CalibrateNLFConductivity(at time.Time, value float32) error {
	return s.calibrate(condNLFCalLayout, at, value)
}

func (s *Sensor) calibrate(layout LayoutSpec, at time.Time, value float32) error {
	vals := Values{
		"calibration_time":  U32Value(uint32(at.Unix())),
		"calibration_value": F32Value(value),
	}
	return errors.Wrap(writeLayout(s.conn, layout, vals), layout.Name)
}

// UserTDSCoefficient reads the user TDS correction coefficient.
func (s *Sensor) UserTDSCoefficient() (float32, error) {
	return s.coefficient(userTDSCoefficientLayout, "tds_coefficient")
}

// SetUserTDSCoefficient writes the user TDS correction coefficient.
func (s *Sensor) SetUserTDSCoefficient(v float32) error {
	return s.setCoefficient(userTDSCoefficientLayout, "tds_coefficient", v)
}

// UserTemperatureReference reads the temperature reference used for
// specific conductance.
func (s *Sensor) UserTemperatureReference() (float32, error) {
	return s.coefficient(userTempReferenceLayout, "temperature_reference")
}

// SetUserTemperatureReference writes the temperature reference used
// for specific conductance.
func (s *Sensor) SetUserTemperatureReference(v float32) error {
	return s.setCoefficient(userTempReferenceLayout, "temperature_reference", v)
}

// UserTemperatureCoefficient reads the temperature coefficient used
// for specific conductance.
func (s *Sensor) UserTemperatureCoefficient() (float32, error) {
	return s.coefficient(userTempCoefficientLayout, "temperature_coefficient")
}

// SetUserTemperatureCoefficient writes the temperature coefficient
// used for specific conductance.
func (s *Sensor) SetUserTemperatureCoefficient(v float32) error {
	return s.setCoefficient(userTempCoefficientLayout, "temperature_coefficient", v)
}

func (s *Sensor) coefficient(layout LayoutSpec, field string) (float32, error) {
	vals, err := readLayout(s.conn, layout)
	if err != nil {
		return 0, errors.Wrap(err, layout.Name)
	}
	return vals[field].Float32(), nil
}

func (s *Sensor) setCoefficient(layout LayoutSpec, field string, v float32) error {
	return errors.Wrap(writeLayout(s.conn, layout, Values{field: F32Value(v)}), layout.Name)
}

// BaudRateAndParity reads the bus configuration word: parity in the
// high byte, baud rate code in the low byte.
func (s *Sensor) BaudRateAndParity() (baudRate int, parity string, err error) {
	vals, err := readLayout(s.conn, serialConfigLayout)
	if err != nil {
		return 0, "", errors.Wrap(err, "serial config")
	}
	parity, baudLabel := vals["serial_config"].Packed()
	baudRate, err = strconv.Atoi(baudLabel)
	if err != nil {
		return 0, "", errors.Wrap(err, "serial config")
	}
	return baudRate, parity, nil
}

// SetBaudRateAndParity reconfigures the bus side of the sensor with a
// single-register write. Unknown rates or parities are rejected before
// anything touches the bus. The change takes effect on the device
// immediately, so the caller must reconnect with the new settings.
func (s *Sensor) SetBaudRateAndParity(baudRate int, parity string) error {
	v := PackedValue(parity, strconv.Itoa(baudRate))
	data, err := encodeField(serialConfigLayout.Fields[0], v)
	if err != nil {
		return err
	}
	return writeCommand(s.conn, "set serial config", regSerialConfig, binary.BigEndian.Uint16(data))
}
