package ysiodo

import (
	"errors"
	"testing"

	"gotest.tools/v3/assert"
)

// The register geometry is fixed by the device firmware. Any drift
// here breaks every probe in the field.
func TestRegisterMapGeometry(t *testing.T) {
	cases := []struct {
		name     string
		addr     uint16
		quantity uint16
		kind     RegisterKind
	}{
		{"serial_config", 0x0001, 1, RegisterHolding},
		{"device_info", 0x1000, 17, RegisterHolding},
		{"live_data", 0x0000, 24, RegisterInput},
		{"cap_coefficients", 0x0100, 17, RegisterHolding},
		{"cap_serial", 0x0120, 5, RegisterHolding},
		{"odo_last_calibration", 0x0210, 3, RegisterHolding},
		{"odo_zero_calibration", 0x0220, 2, RegisterHolding},
		{"odo_saturation_calibration", 0x0230, 4, RegisterHolding},
		{"odo_mgl_calibration", 0x0240, 6, RegisterHolding},
		{"conductivity_last_calibration", 0x0310, 3, RegisterHolding},
		{"us_cm_calibration", 0x0320, 4, RegisterHolding},
		{"salinity_ppt_calibration", 0x0330, 4, RegisterHolding},
		{"specific_conductance_calibration", 0x0340, 4, RegisterHolding},
		{"nlf_conductivity_calibration", 0x0350, 4, RegisterHolding},
		{"user_tds_coefficient", 0x0500, 2, RegisterHolding},
		{"user_temperature_reference", 0x0502, 2, RegisterHolding},
		{"user_temperature_coefficient", 0x0504, 2, RegisterHolding},
	}

	assert.Equal(t, len(layouts), len(cases))
	for _, tc := range cases {
		l, err := LayoutByName(tc.name)
		assert.NilError(t, err)
		assert.Equal(t, l.Addr, tc.addr)
		assert.Equal(t, l.Quantity, tc.quantity)
		assert.Equal(t, l.Kind, tc.kind)
	}
}

// Fields must tile every layout: widths sum to the block size and
// addresses are contiguous from the block start.
func TestLayoutsTileWithoutGaps(t *testing.T) {
	for name, l := range layouts {
		next := l.Addr
		for _, f := range l.Fields {
			assert.Equal(t, f.Addr, next, "layout %s field %s", name, f.Name)
			next += f.Quantity
		}
		assert.Equal(t, next-l.Addr, l.Quantity, "layout %s", name)
	}
}

func TestLayoutByNameUnknown(t *testing.T) {
	_, err := LayoutByName("bogus")
	assert.Assert(t, errors.Is(err, ErrUnknownField))
}

func TestFactoryResetAddresses(t *testing.T) {
	assert.Equal(t, uint16(regODOFactoryReset), uint16(0x0200))
	assert.Equal(t, uint16(regCondFactoryReset), uint16(0x0300))
	assert.Equal(t, uint16(factoryResetArm), uint16(0x0001))
}
