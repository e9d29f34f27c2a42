package ysiodo

import "fmt"

// Register map of the YSI ODO RTU sensor. Addresses and widths are
// fixed by the device firmware; the layouts below are the complete
// set of register ranges the driver exchanges.
const (
	regSerialConfig        = 0x0001
	regLiveData            = 0x0000 // input registers
	regCapCoefficients     = 0x0100
	regCapSerial           = 0x0120
	regODOFactoryReset     = 0x0200
	regODOLastCal          = 0x0210
	regODOZeroCal          = 0x0220
	regODOSaturationCal    = 0x0230
	regODOMgLCal           = 0x0240
	regCondFactoryReset    = 0x0300
	regCondLastCal         = 0x0310
	regCondUSCmCal         = 0x0320
	regCondSalinityCal     = 0x0330
	regCondSpecificCal     = 0x0340
	regCondNLFCal          = 0x0350
	regUserTDSCoefficient  = 0x0500
	regUserTempReference   = 0x0502
	regUserTempCoefficient = 0x0504
	regDeviceInfo          = 0x1000
)

// factoryResetArm is the value written to a factory-reset register to
// fire the command.
const factoryResetArm = 0x0001

var (
	baudRates = newEnumTable("baud rate", map[string]uint16{
		"9600":   0x00,
		"19200":  0x01,
		"38400":  0x02,
		"57600":  0x03,
		"115200": 0x04,
	})

	parities = newEnumTable("parity", map[string]uint16{
		"none": 0x00,
		"odd":  0x01,
		"even": 0x02,
	})
)

var (
	serialConfigLayout = mustLayout("serial_config", RegisterHolding, regSerialConfig, []FieldSpec{
		{Name: "serial_config", Addr: 0x0001, Type: FieldPacked, Hi: parities, Lo: baudRates},
	})

	deviceInfoLayout = mustLayout("device_info", RegisterHolding, regDeviceInfo, []FieldSpec{
		{Name: "product_id", Addr: 0x1000, Type: FieldU16},
		{Name: "model_id", Addr: 0x1001, Type: FieldU16},
		{Name: "submodel_id", Addr: 0x1002, Type: FieldU16},
		{Name: "firmware_major_revision", Addr: 0x1003, Type: FieldU16},
		{Name: "firmware_minor_revision", Addr: 0x1004, Type: FieldU16},
		{Name: "firmware_subminor_revision", Addr: 0x1005, Type: FieldU16},
		{Name: "hardware_major_revision", Addr: 0x1006, Type: FieldU16},
		{Name: "hardware_minor_revision", Addr: 0x1007, Type: FieldU16},
		{Name: "manufacturing_serial_number", Addr: 0x1008, Quantity: 5, Type: FieldString},
		{Name: "printed_circuit_board_serial_number", Addr: 0x100D, Quantity: 4, Type: FieldString},
	})

	// Words 6-7 of the snapshot are unused by the firmware but still
	// part of the block, so they carry an explicit pad field.
	liveDataLayout = mustLayout("live_data", RegisterInput, regLiveData, []FieldSpec{
		{Name: "odo_saturation", Addr: 0x0000, Type: FieldF32},
		{Name: "odo_concentration", Addr: 0x0002, Type: FieldF32},
		{Name: "odo_barometer_compensated", Addr: 0x0004, Type: FieldF32},
		{Name: "reserved", Addr: 0x0006, Type: FieldU32},
		{Name: "temperature", Addr: 0x0008, Type: FieldF32},
		{Name: "ref_temperature", Addr: 0x000A, Type: FieldF32},
		{Name: "time_since_boot", Addr: 0x000C, Type: FieldU32},
		{Name: "conductivity", Addr: 0x000E, Type: FieldF32},
		{Name: "specific_conductivity", Addr: 0x0010, Type: FieldF32},
		{Name: "salinity", Addr: 0x0012, Type: FieldF32},
		{Name: "conductivity_nlf", Addr: 0x0014, Type: FieldF32},
		{Name: "total_dissolved_solids", Addr: 0x0016, Type: FieldF32},
	})

	capCoefficientsLayout = mustLayout("cap_coefficients", RegisterHolding, regCapCoefficients, []FieldSpec{
		{Name: "k1", Addr: 0x0100, Type: FieldF32},
		{Name: "k2", Addr: 0x0102, Type: FieldF32},
		{Name: "k3", Addr: 0x0104, Type: FieldF32},
		{Name: "k4", Addr: 0x0106, Type: FieldF32},
		{Name: "k5", Addr: 0x0108, Type: FieldF32},
		{Name: "k6", Addr: 0x010A, Type: FieldF32},
		{Name: "k7", Addr: 0x010C, Type: FieldF32},
		{Name: "kc", Addr: 0x010E, Type: FieldU16},
		{Name: "cap_replacement_time", Addr: 0x010F, Type: FieldU32},
	})

	capSerialLayout = mustLayout("cap_serial", RegisterHolding, regCapSerial, []FieldSpec{
		{Name: "cap_serial", Addr: 0x0120, Quantity: 5, Type: FieldString},
	})

	odoLastCalLayout = mustLayout("odo_last_calibration", RegisterHolding, regODOLastCal, []FieldSpec{
		{Name: "last_calibration_time", Addr: 0x0210, Type: FieldU32},
		{Name: "qc_score", Addr: 0x0212, Type: FieldU16},
	})

	odoZeroCalLayout = mustLayout("odo_zero_calibration", RegisterHolding, regODOZeroCal, []FieldSpec{
		{Name: "calibration_time", Addr: 0x0220, Type: FieldU32},
	})

	odoSaturationCalLayout = mustLayout("odo_saturation_calibration", RegisterHolding, regODOSaturationCal, []FieldSpec{
		{Name: "calibration_time", Addr: 0x0230, Type: FieldU32},
		{Name: "barometric_pressure", Addr: 0x0232, Type: FieldF32},
	})

	odoMgLCalLayout = mustLayout("odo_mgl_calibration", RegisterHolding, regODOMgLCal, []FieldSpec{
		{Name: "calibration_time", Addr: 0x0240, Type: FieldU32},
		{Name: "calibration_value", Addr: 0x0242, Type: FieldF32},
		{Name: "calibration_salinity", Addr: 0x0244, Type: FieldF32},
	})

	condLastCalLayout = mustLayout("conductivity_last_calibration", RegisterHolding, regCondLastCal, []FieldSpec{
		{Name: "last_calibration_time", Addr: 0x0310, Type: FieldU32},
		{Name: "qc_score", Addr: 0x0312, Type: FieldU16},
	})

	condUSCmCalLayout     = calibrationLayout("us_cm_calibration", regCondUSCmCal)
	condSalinityCalLayout = calibrationLayout("salinity_ppt_calibration", regCondSalinityCal)
	condSpecificCalLayout = calibrationLayout("specific_conductance_calibration", regCondSpecificCal)
	condNLFCalLayout      = calibrationLayout("nlf_conductivity_calibration", regCondNLFCal)

	userTDSCoefficientLayout  = coefficientLayout("user_tds_coefficient", "tds_coefficient", regUserTDSCoefficient)
	userTempReferenceLayout   = coefficientLayout("user_temperature_reference", "temperature_reference", regUserTempReference)
	userTempCoefficientLayout = coefficientLayout("user_temperature_coefficient", "temperature_coefficient", regUserTempCoefficient)
)

// calibrationLayout is the shared shape of the four conductivity
// calibration writes: a timestamp followed by the reference value.
func calibrationLayout(name string, addr uint16) LayoutSpec {
	return mustLayout(name, RegisterHolding, addr, []FieldSpec{
		{Name: "calibration_time", Addr: addr, Type: FieldU32},
		{Name: "calibration_value", Addr: addr + 2, Type: FieldF32},
	})
}

// coefficientLayout is a standalone user-correction coefficient.
func coefficientLayout(name, field string, addr uint16) LayoutSpec {
	return mustLayout(name, RegisterHolding, addr, []FieldSpec{
		{Name: field, Addr: addr, Type: FieldF32},
	})
}

var layouts = map[string]LayoutSpec{
	serialConfigLayout.Name:        serialConfigLayout,
	deviceInfoLayout.Name:          deviceInfoLayout,
	liveDataLayout.Name:            liveDataLayout,
	capCoefficientsLayout.Name:     capCoefficientsLayout,
	capSerialLayout.Name:           capSerialLayout,
	odoLastCalLayout.Name:          odoLastCalLayout,
	odoZeroCalLayout.Name:          odoZeroCalLayout,
	odoSaturationCalLayout.Name:    odoSaturationCalLayout,
	odoMgLCalLayout.Name:           odoMgLCalLayout,
	condLastCalLayout.Name:         condLastCalLayout,
	condUSCmCalLayout.Name:         condUSCmCalLayout,
	condSalinityCalLayout.Name:     condSalinityCalLayout,
	condSpecificCalLayout.Name:     condSpecificCalLayout,
	condNLFCalLayout.Name:          condNLFCalLayout,
	userTDSCoefficientLayout.Name:  userTDSCoefficientLayout,
	userTempReferenceLayout.Name:   userTempReferenceLayout,
	userTempCoefficientLayout.Name: userTempCoefficientLayout,
}

// LayoutByName resolves a layout by its registered name.
func LayoutByName(name string) (LayoutSpec, error) {
	l, ok := layouts[name]
	if !ok {
		return LayoutSpec{}, fmt.Errorf("%w: %q", ErrUnknownField, name)
	}
	return l, nil
}
