// odoctl is a small operator tool for the YSI ODO RTU probe: read the
// live snapshot, inspect the device and cap, and fire factory resets.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"go.uber.org/zap"

	"github.com/atelier-du-maker/ysiodo"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("create logger: %v", err)
	}
	defer logger.Sync()

	configPath := flag.String("config", "odoctl.yaml", "path to the config file")
	flag.Usage = usage
	flag.Parse()

	cmd := flag.Arg(0)
	if cmd == "" {
		usage()
		os.Exit(2)
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		logger.Fatal("load config", zap.Error(err))
	}

	sensor := ysiodo.NewSensor(cfg.Port,
		ysiodo.WithBaudRate(cfg.BaudRate),
		ysiodo.WithParity(cfg.Parity),
		ysiodo.WithStopBits(cfg.StopBits),
		ysiodo.WithSlaveID(cfg.UnitID),
		ysiodo.WithTimeout(cfg.Timeout),
	)

	if err := sensor.Connect(); err != nil {
		logger.Fatal("connect", zap.String("port", cfg.Port), zap.Error(err))
	}
	defer func() {
		if err := sensor.Disconnect(); err != nil {
			logger.Warn("disconnect", zap.Error(err))
		}
	}()
	logger.Info("connected",
		zap.String("port", cfg.Port),
		zap.Int("baud_rate", cfg.BaudRate),
		zap.Uint8("unit_id", cfg.UnitID))

	if err := run(sensor, cmd); err != nil {
		logger.Fatal("command failed", zap.String("command", cmd), zap.Error(err))
	}
}

func run(sensor *ysiodo.Sensor, cmd string) error {
	switch cmd {
	case "data":
		m, err := sensor.Data()
		if err != nil {
			return err
		}
		fmt.Printf("ODO saturation:        %.2f %%\n", m.ODOSaturation)
		fmt.Printf("ODO concentration:     %.2f mg/L\n", m.ODOConcentration)
		fmt.Printf("ODO (baro comp):       %.2f mg/L\n", m.ODOBarometerCompensated)
		fmt.Printf("Temperature:           %.2f degC\n", m.Temperature)
		fmt.Printf("Ref temperature:       %.2f degC\n", m.RefTemperature)
		fmt.Printf("Time since boot:       %d s\n", m.TimeSinceBoot)
		fmt.Printf("Conductivity:          %.1f uS/cm\n", m.Conductivity)
		fmt.Printf("Specific conductivity: %.1f uS/cm\n", m.SpecificConductivity)
		fmt.Printf("Salinity:              %.2f ppt\n", m.Salinity)
		fmt.Printf("nLF conductivity:      %.1f uS/cm\n", m.ConductivityNLF)
		fmt.Printf("TDS:                   %.1f mg/L\n", m.TotalDissolvedSolids)

	case "info":
		info, err := sensor.DeviceInfo()
		if err != nil {
			return err
		}
		fmt.Printf("Product:   %d  model %d.%d\n", info.ProductID, info.ModelID, info.SubmodelID)
		fmt.Printf("Firmware:  %d.%d.%d\n", info.FirmwareMajor, info.FirmwareMinor, info.FirmwareSubminor)
		fmt.Printf("Hardware:  %d.%d\n", info.HardwareMajor, info.HardwareMinor)
		fmt.Printf("Serial:    %s (PCB %s)\n", info.ManufacturingSerial, info.PCBSerial)

		baud, parity, err := sensor.BaudRateAndParity()
		if err != nil {
			return err
		}
		fmt.Printf("Bus:       %d baud, %s parity\n", baud, parity)

	case "cap":
		serial, err := sensor.CapSerial()
		if err != nil {
			return err
		}
		coeffs, err := sensor.CapCoefficients()
		if err != nil {
			return err
		}
		fmt.Printf("Cap serial: %s\n", serial)
		fmt.Printf("K1..K7:     %g %g %g %g %g %g %g\n",
			coeffs.K1, coeffs.K2, coeffs.K3, coeffs.K4, coeffs.K5, coeffs.K6, coeffs.K7)
		fmt.Printf("KC:         %d\n", coeffs.KC)
		fmt.Printf("Replace by: %d\n", coeffs.CapReplacementTime)

	case "calibration":
		odo, err := sensor.ODOLastCalibration()
		if err != nil {
			return err
		}
		cond, err := sensor.ConductivityLastCalibration()
		if err != nil {
			return err
		}
		fmt.Printf("ODO:          %s (QC %d)\n", odo.Time, odo.QCScore)
		fmt.Printf("Conductivity: %s (QC %d)\n", cond.Time, cond.QCScore)

	case "reset-odo":
		if err := sensor.ODOFactoryReset(); err != nil {
			return err
		}
		rec, err := sensor.ODOLastCalibration()
		if err != nil {
			return err
		}
		fmt.Printf("ODO channel reset accepted; last calibration now %s (QC %d)\n", rec.Time, rec.QCScore)

	case "reset-conductivity":
		if err := sensor.ConductivityFactoryReset(); err != nil {
			return err
		}
		rec, err := sensor.ConductivityLastCalibration()
		if err != nil {
			return err
		}
		fmt.Printf("Conductivity channel reset accepted; last calibration now %s (QC %d)\n", rec.Time, rec.QCScore)

	default:
		usage()
		return fmt.Errorf("unknown command %q", cmd)
	}
	return nil
}

func usage() {
	fmt.Fprintf(os.Stderr, `usage: odoctl [-config odoctl.yaml] <command>

commands:
  data                live measurement snapshot
  info                device identification and bus settings
  cap                 sensing-cap serial and coefficients
  calibration         last calibration time and QC score per channel
  reset-odo           factory-reset the dissolved-oxygen channel
  reset-conductivity  factory-reset the conductivity channel
`)
}
