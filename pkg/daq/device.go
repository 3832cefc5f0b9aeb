/*
 Licensed under the Apache License, Version 2.0 (the "License");
 you may not use this file except in compliance with the License.
 You may obtain a copy of the License at

     https://www.apache.org/licenses/LICENSE-2.0

 Unless required by applicable law or agreed to in writing, software
 distributed under the License is distributed on an "AS IS" BASIS,
 WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 See the License for the specific language governing permissions and
 limitations under the License.
*/

package daq

import (
	"encoding/binary"
	"math"
	"time"

	"github.com/ingen10/go-daq/pkg/log"
	"github.com/ingen10/go-daq/pkg/serial"
)

// InputMode selects what a data channel measures.
type InputMode int

const (
	AnalogInput InputMode = iota
	AnalogOutput
	DigitalInput
	DigitalOutput
	CounterInput
	CaptureInput
)

// LED colors
const (
	LedOff = iota
	LedGreen
	LedRed
	LedOrange
)

// Device is a session with one attached device. It owns the transport
// exclusively; no second codec or device may share it.
type Device struct {
	transport serial.Transport
	codec     *Codec

	HW     HardwareVersion
	FwVer  int
	Serial uint32
	Cal    *Calibration

	// analog input configuration from the last AdcConfig call,
	// drives the calibration slot selection
	gain   int
	pinput int
	ninput int
}

func NewDevice(t serial.Transport) *Device {
	return &Device{
		transport: t,
		codec:     NewCodec(t),
	}
}

// Connect identifies the device and fetches its calibration table.
// The table is held for the whole session.
func (d *Device) Connect() error {
	hwVer, fwVer, serialNum, err := d.Ident()
	if err != nil {
		return err
	}
	if hwVer == 1 {
		d.HW = HwM
	} else {
		d.HW = HwS
	}
	d.FwVer = fwVer
	d.Serial = serialNum
	log.Info("Connected: hardware [%s] firmware %d serial %d", d.HW, d.FwVer, d.Serial)
	return d.LoadCalibration()
}

// SetHardware overrides the detected hardware version. The calibration
// table must be reloaded afterwards, its size depends on the family.
func (d *Device) SetHardware(hw HardwareVersion) {
	d.HW = hw
}

// SetCalibration replaces the session calibration table, e.g. with one
// loaded from the local cache instead of the device.
func (d *Device) SetCalibration(cal *Calibration) {
	d.Cal = cal
}

// Decoder returns a stream decoder over the device transport.
func (d *Device) Decoder() *Decoder {
	return NewDecoder(d.transport)
}

// Flush discards buffered inbound bytes.
func (d *Device) Flush() error {
	return d.transport.FlushInput()
}

// Ident reads hardware version, firmware version and serial number.
func (d *Device) Ident() (hwVer, fwVer int, serialNum uint32, err error) {
	values, err := d.codec.SendCommand(Ident.ID, nil, Ident.Resp)
	if err != nil {
		return 0, 0, 0, err
	}
	return int(values[0]), int(values[1]), uint32(values[2]), nil
}

// SetID assigns the device identifier stored in its EEPROM.
func (d *Device) SetID(id uint32) error {
	args := make([]byte, 4)
	binary.BigEndian.PutUint32(args, id)
	_, err := d.codec.SendCommand(Ident.ID, args, Ident.Resp)
	return err
}

// ReadADC reads a raw ADC code with the current analog configuration.
func (d *Device) ReadADC() (int16, error) {
	values, err := d.codec.SendCommand(AdcRead.ID, nil, AdcRead.Resp)
	if err != nil {
		return 0, err
	}
	return int16(values[0]), nil
}

// ReadAnalog reads the ADC and converts the code to volts using the
// calibration slot selected by the current analog configuration.
func (d *Device) ReadAnalog() (float64, error) {
	raw, err := d.ReadADC()
	if err != nil {
		return 0, err
	}
	return d.Cal.RawToVolts(raw, d.Cal.AnalogIndex(d.gain, d.pinput, d.ninput)), nil
}

// AdcConfig configures the analog input multiplexer and amplifier.
func (d *Device) AdcConfig(pinput, ninput, gain, nsamples int) error {
	d.gain = gain
	d.pinput = pinput
	d.ninput = ninput
	args := []byte{byte(pinput), byte(ninput), byte(gain), byte(nsamples)}
	_, err := d.codec.SendCommand(AdcConf.ID, args, AdcConf.Resp)
	return err
}

// Volts converts raw samples with the current analog configuration.
func (d *Device) Volts(samples []int16) []float64 {
	index := d.Cal.AnalogIndex(d.gain, d.pinput, d.ninput)
	volts := make([]float64, len(samples))
	for i, raw := range samples {
		volts[i] = d.Cal.RawToVolts(raw, index)
	}
	return volts
}

// EnableCRC turns device-side checksum validation on or off.
func (d *Device) EnableCRC(on bool) error {
	_, err := d.codec.SendCommand(CrcEnable.ID, []byte{boolByte(on)}, CrcEnable.Resp)
	return err
}

// SetLED sets the bicolor LED: off, green, red or orange.
func (d *Device) SetLED(color int) error {
	if color < LedOff || color > LedOrange {
		return ErrInvalidParameter{Name: "color number", Value: color}
	}
	_, err := d.codec.SendCommand(LedSet.ID, []byte{byte(color)}, LedSet.Resp)
	return err
}

// SetAnalog sets the DAC output voltage in volts, within the hardware
// limits (+-4.096 V for [M], 0..4.096 V for [S]).
func (d *Device) SetAnalog(volts float64) (int16, error) {
	millivolts := int(math.Round(volts * 1000))
	raw, err := d.Cal.DacFromMillivolts(millivolts)
	if err != nil {
		return 0, err
	}
	return d.setDacRaw(raw)
}

// SetDAC sets the DAC register directly, bypassing calibration.
func (d *Device) SetDAC(raw int) (int16, error) {
	if !(0 < raw && raw < 16384) {
		return 0, ErrInvalidParameter{Name: "DAC value", Value: raw}
	}
	return d.setDacRaw(int16(raw))
}

func (d *Device) setDacRaw(raw int16) (int16, error) {
	args := make([]byte, 2)
	binary.BigEndian.PutUint16(args, uint16(raw))
	values, err := d.codec.SendCommand(DacSet.ID, args, DacSet.Resp)
	if err != nil {
		return 0, err
	}
	return int16(values[0]), nil
}

// SetPortDir configures the direction of all PIO lines at once,
// one bit per line (0 input, 1 output).
func (d *Device) SetPortDir(output byte) error {
	_, err := d.codec.SendCommand(PortDir.ID, []byte{output}, PortDir.Resp)
	return err
}

// SetPort writes all PIO outputs at once, one bit per line.
func (d *Device) SetPort(value byte) (byte, error) {
	values, err := d.codec.SendCommand(PortSet.ID, []byte{value}, PortSet.Resp)
	if err != nil {
		return 0, err
	}
	return byte(values[0]), nil
}

// SetPIODir configures the direction of a single PIO line.
func (d *Device) SetPIODir(number int, output bool) error {
	if !(1 <= number && number <= 6) {
		return ErrInvalidParameter{Name: "PIO number", Value: number}
	}
	_, err := d.codec.SendCommand(PioDir.ID, []byte{byte(number), boolByte(output)}, PioDir.Resp)
	return err
}

// SetPIO writes a single PIO output.
func (d *Device) SetPIO(number int, value bool) error {
	if !(1 <= number && number <= 6) {
		return ErrInvalidParameter{Name: "PIO number", Value: number}
	}
	_, err := d.codec.SendCommand(PioSet.ID, []byte{byte(number), boolByte(value)}, PioSet.Resp)
	return err
}

// InitCounter configures which edge increments the counter
// (1 low-to-high, 0 high-to-low).
func (d *Device) InitCounter(edge int) error {
	_, err := d.codec.SendCommand(CounterInit.ID, []byte{byte(edge)}, CounterInit.Resp)
	return err
}

// GetCounter reads the edge counter, optionally resetting it.
func (d *Device) GetCounter(reset bool) (int, error) {
	values, err := d.codec.SendCommand(CounterGet.ID, []byte{boolByte(reset)}, CounterGet.Resp)
	if err != nil {
		return 0, err
	}
	return int(values[0]), nil
}

// InitCapture starts period capture around the given period in
// microseconds.
func (d *Device) InitCapture(period int) error {
	args := make([]byte, 2)
	binary.BigEndian.PutUint16(args, uint16(period))
	_, err := d.codec.SendCommand(CaptureInit.ID, args, CaptureInit.Resp)
	return err
}

// StopCapture stops period capture.
func (d *Device) StopCapture() error {
	_, err := d.codec.SendCommand(CaptureStop.ID, nil, CaptureStop.Resp)
	return err
}

// GetCapture reads the current period length in the selected mode
// (0 low cycle, 1 high cycle, 2 full period).
func (d *Device) GetCapture(mode int) (int, int, error) {
	values, err := d.codec.SendCommand(CaptureGet.ID, []byte{byte(mode)}, CaptureGet.Resp)
	if err != nil {
		return 0, 0, err
	}
	return int(values[0]), int(values[1]), nil
}

// InitEncoder starts the encoder with the given resolution in ticks
// per turn.
func (d *Device) InitEncoder(resolution int) error {
	_, err := d.codec.SendCommand(EncoderInit.ID, []byte{byte(resolution)}, EncoderInit.Resp)
	return err
}

// StopEncoder stops the encoder.
func (d *Device) StopEncoder() error {
	_, err := d.codec.SendCommand(EncoderStop.ID, nil, EncoderStop.Resp)
	return err
}

// GetEncoder reads the current relative encoder position.
func (d *Device) GetEncoder() (int, error) {
	values, err := d.codec.SendCommand(EncoderGet.ID, nil, EncoderGet.Resp)
	if err != nil {
		return 0, err
	}
	return int(values[0]), nil
}

// InitPWM starts PWM output with the given duty [0:1023] and period in
// microseconds.
func (d *Device) InitPWM(duty, period int) error {
	args := make([]byte, 4)
	binary.BigEndian.PutUint16(args[0:2], uint16(duty))
	binary.BigEndian.PutUint16(args[2:4], uint16(period))
	_, err := d.codec.SendCommand(PwmInit.ID, args, PwmInit.Resp)
	return err
}

// StopPWM stops PWM output.
func (d *Device) StopPWM() error {
	_, err := d.codec.SendCommand(PwmStop.ID, nil, PwmStop.Resp)
	return err
}

// getCalibration reads one calibration slot.
func (d *Device) getCalibration(slot int) (gain uint16, offset int16, err error) {
	values, err := d.codec.SendCommand(CalibGet.ID, []byte{byte(slot)}, CalibGet.Resp)
	if err != nil {
		return 0, 0, err
	}
	return uint16(values[1]), int16(values[2]), nil
}

// setCalibration writes one calibration slot.
func (d *Device) setCalibration(slot int, gain uint16, offset int16) error {
	args := make([]byte, 5)
	args[0] = byte(slot)
	binary.BigEndian.PutUint16(args[1:3], gain)
	binary.BigEndian.PutUint16(args[3:5], uint16(offset))
	_, err := d.codec.SendCommand(CalibSet.ID, args, CalibSet.Resp)
	return err
}

// LoadCalibration fetches the whole calibration table from the device.
// Slot 0 doubles as the DAC calibration pair.
func (d *Device) LoadCalibration() error {
	cal := NewCalibration(d.HW)
	for slot := 0; slot < d.HW.CalSlots(); slot++ {
		gain, offset, err := d.getCalibration(slot)
		if err != nil {
			return err
		}
		cal.Gains[slot] = gain
		cal.Offsets[slot] = offset
	}
	cal.DacGain = cal.Gains[0]
	cal.DacOffset = cal.Offsets[0]
	d.Cal = cal
	return nil
}

// SetCal writes a bank of calibration slots during recalibration.
func (d *Device) SetCal(bank CalBank, gains []uint16, offsets []int16) error {
	var first, last int
	switch bank {
	case BankM:
		first, last = 1, 5
	case BankSE:
		first, last = 1, 8
	case BankDE:
		first, last = 9, 16
	default:
		return ErrInvalidParameter{Name: "calibration bank", Value: bank}
	}
	for slot := first; slot <= last; slot++ {
		if err := d.setCalibration(slot, gains[slot-first], offsets[slot-first]); err != nil {
			return err
		}
	}
	return nil
}

// SetDacCal writes the DAC calibration pair (slot 0).
func (d *Device) SetDacCal(gain uint16, offset int16) error {
	return d.setCalibration(0, gain, offset)
}

// ConfChannel configures a data channel experiment.
func (d *Device) ConfChannel(number int, mode InputMode, pinput, ninput, gain, nsamples int) error {
	if !(1 <= number && number <= 4) {
		return ErrInvalidParameter{Name: "channel number", Value: number}
	}
	args := []byte{byte(number), byte(mode), byte(pinput), byte(ninput), byte(gain), byte(nsamples)}
	_, err := d.codec.SendCommand(ChannelConf.ID, args, ChannelConf.Resp)
	return err
}

// SetupChannel configures the number of points of an experiment.
// npoints of 0 means continuous acquisition.
func (d *Device) SetupChannel(number, npoints int, continuous bool) error {
	if !(1 <= number && number <= 4) {
		return ErrInvalidParameter{Name: "channel number", Value: number}
	}
	args := make([]byte, 4)
	args[0] = byte(number)
	binary.BigEndian.PutUint16(args[1:3], uint16(npoints))
	args[3] = boolByte(continuous)
	_, err := d.codec.SendCommand(ChannelSetup.ID, args, ChannelSetup.Resp)
	return err
}

// DestroyChannel deletes a data channel structure.
func (d *Device) DestroyChannel(number int) error {
	if !(1 <= number && number <= 4) {
		return ErrInvalidParameter{Name: "channel number", Value: number}
	}
	_, err := d.codec.SendCommand(ChannelDestroy.ID, []byte{byte(number)}, ChannelDestroy.Resp)
	return err
}

// CreateStream creates a periodic stream experiment on a data channel
// with the given period.
func (d *Device) CreateStream(number, period int) error {
	if !(1 <= number && number <= 4) {
		return ErrInvalidParameter{Name: "channel number", Value: number}
	}
	if !(1 <= period && period <= 65535) {
		return ErrInvalidParameter{Name: "period", Value: period}
	}
	args := make([]byte, 3)
	args[0] = byte(number)
	binary.BigEndian.PutUint16(args[1:3], uint16(period))
	_, err := d.codec.SendCommand(StreamCreate.ID, args, StreamCreate.Resp)
	return err
}

// CreateExternal creates an externally triggered experiment.
func (d *Device) CreateExternal(number, edge int) error {
	if !(1 <= number && number <= 4) {
		return ErrInvalidParameter{Name: "channel number", Value: number}
	}
	_, err := d.codec.SendCommand(ExternalCreate.ID, []byte{byte(number), byte(edge)}, ExternalCreate.Resp)
	return err
}

// CreateBurst creates a burst experiment with the given period in
// microseconds.
func (d *Device) CreateBurst(period int) error {
	args := make([]byte, 2)
	binary.BigEndian.PutUint16(args, uint16(period))
	_, err := d.codec.SendCommand(BurstCreate.ID, args, BurstCreate.Resp)
	return err
}

// LoadSignal preloads the DAC output waveform.
func (d *Device) LoadSignal(data []int16, offset int16) error {
	args := make([]byte, 2+2*len(data))
	binary.BigEndian.PutUint16(args[0:2], uint16(offset))
	for i, v := range data {
		binary.BigEndian.PutUint16(args[2+2*i:], uint16(v))
	}
	_, err := d.codec.SendCommand(SignalLoad.ID, args, SignalLoad.Resp)
	return err
}

// StartStreaming starts an automated measurement. From this point the
// device talks the streaming channel and responses to further commands
// arrive interleaved with frames.
func (d *Device) StartStreaming() error {
	_, err := d.codec.SendCommand(Start.ID, nil, Start.Resp)
	return err
}

// StopStreaming sends the stop command and drains the stream: pending
// frames are decoded (checksum-invalid ones skipped) and the stop
// response is consumed, leaving the line clean.
func (d *Device) StopStreaming(dec *Decoder) ([]*Frame, error) {
	if err := d.codec.WriteCommand(Stop.ID, []byte{}); err != nil {
		return nil, err
	}
	time.Sleep(time.Second)
	frames, err := dec.Drain()
	if err != nil {
		return frames, err
	}
	return frames, d.transport.FlushInput()
}

// SpiConfig sets the bit-banged SPI clock polarity and phase.
func (d *Device) SpiConfig(cpol, cpha int) error {
	if cpol < 0 || cpol > 1 || cpha < 0 || cpha > 1 {
		return ErrInvalidParameter{Name: "SPI mode", Value: [2]int{cpol, cpha}}
	}
	_, err := d.codec.SendCommand(SpiConfig.ID, []byte{byte(cpol), byte(cpha)}, SpiConfig.Resp)
	return err
}

// SpiSetup assigns the PIO lines used for bit-banged SPI.
func (d *Device) SpiSetup(bbsck, bbmosi, bbmiso int) error {
	for _, pin := range []int{bbsck, bbmosi, bbmiso} {
		if !(1 <= pin && pin <= 6) {
			return ErrInvalidParameter{Name: "SPI pin", Value: pin}
		}
	}
	_, err := d.codec.SendCommand(SpiSetup.ID, []byte{byte(bbsck), byte(bbmosi), byte(bbmiso)}, SpiSetup.Resp)
	return err
}

// SpiTransfer shifts one byte out and reads one byte back.
func (d *Device) SpiTransfer(value byte) (byte, error) {
	values, err := d.codec.SendCommand(SpiTransfer.ID, []byte{value}, SpiTransfer.Resp)
	if err != nil {
		return 0, err
	}
	return byte(values[0]), nil
}

// SpiTransferWord shifts one 16-bit word out and reads one back.
func (d *Device) SpiTransferWord(value uint16) (uint16, error) {
	args := make([]byte, 2)
	binary.BigEndian.PutUint16(args, value)
	values, err := d.codec.SendCommand(SpiTransfer16.ID, args, SpiTransfer16.Resp)
	if err != nil {
		return 0, err
	}
	return uint16(values[0]), nil
}

func boolByte(b bool) byte {
	if b {
		return 1
	}
	return 0
}
