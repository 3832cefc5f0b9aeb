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
	"math"
)

// HardwareVersion identifies the device family. The two families have
// different voltage ranges, calibration table sizes and conversion
// formulas, so the transform branches on this type and nowhere else.
type HardwareVersion int

const (
	HwUnknown HardwareVersion = iota
	// HwM is openDAQ [M]: bipolar +-4.096 V output, 6 calibration slots
	HwM
	// HwS is openDAQ [S]: unipolar 0..4.096 V output, 17 calibration slots
	HwS
)

func (v HardwareVersion) String() string {
	switch v {
	case HwM:
		return "m"
	case HwS:
		return "s"
	default:
		return "unknown"
	}
}

func ParseHardwareVersion(s string) (HardwareVersion, error) {
	switch s {
	case "m", "M":
		return HwM, nil
	case "s", "S":
		return HwS, nil
	default:
		return HwUnknown, ErrInvalidParameter{Name: "hardware version", Value: s}
	}
}

// CalSlots returns the size of the calibration table for this family.
func (v HardwareVersion) CalSlots() int {
	if v == HwM {
		return 6
	}
	return 17
}

// CalBank selects which span of calibration slots a recalibration
// writes: the [M] amplifier slots, the [S] single-ended inputs or the
// [S] differential inputs.
type CalBank int

const (
	BankM CalBank = iota
	BankSE
	BankDE
)

// Calibration holds the per-gain-slot slope/offset pairs fetched from
// the device at session start, plus the DAC pair from slot 0. It is
// never mutated during a session except by explicit recalibration.
type Calibration struct {
	HW        HardwareVersion
	Gains     []uint16
	Offsets   []int16
	DacGain   uint16
	DacOffset int16
}

func NewCalibration(hw HardwareVersion) *Calibration {
	return &Calibration{
		HW:      hw,
		Gains:   make([]uint16, hw.CalSlots()),
		Offsets: make([]int16, hw.CalSlots()),
	}
}

// AnalogIndex returns the calibration slot for a configured analog
// input. The [M] amplifier path indexes by gain setting; the [S] path
// indexes by positive input number, remapped onto the differential
// slots when a negative input is selected.
func (c *Calibration) AnalogIndex(gain, pinput, ninput int) int {
	if c.HW == HwM {
		return gain + 1
	}
	if ninput != 0 {
		switch pinput {
		case 1, 2:
			return 9
		case 3, 4:
			return 10
		case 5, 6:
			return 11
		case 7, 8:
			return 12
		}
	}
	return pinput
}

// RawToVolts converts a raw ADC code to volts using the slope/offset
// pair at the given slot. The scale constants differ per family and
// are calibration-critical; they must not be folded together.
func (c *Calibration) RawToVolts(raw int16, index int) float64 {
	var v float64
	if c.HW == HwM {
		v = float64(int(raw)*int(c.Gains[index])) / -100000.0
	} else {
		v = float64(int(raw)*int(c.Gains[index])) / 10000.0
	}
	return (v + float64(c.Offsets[index])) / 1000.0
}

// DacFromMillivolts converts a millivolt setting to the DAC register
// value, range-checked against the family's output span. [S] hardware
// additionally clamps the register value to its unsigned DAC range.
func (c *Calibration) DacFromMillivolts(millivolts int) (int16, error) {
	if c.HW == HwM && !(-4096 <= millivolts && millivolts < 4096) {
		return 0, ErrInvalidParameter{Name: "output potential", Value: millivolts}
	}
	if c.HW == HwS && !(0 <= millivolts && millivolts < 4096) {
		return 0, ErrInvalidParameter{Name: "output potential", Value: millivolts}
	}
	data := (float64(millivolts)*float64(c.DacGain)/1000.0 + float64(c.DacOffset) + 4096) * 2
	if c.HW == HwS {
		if data < 0 {
			data = 0
		}
		if data > 32767 {
			data = 32767
		}
	}
	return int16(math.Round(data)), nil
}

// DacToMillivolts is the inverse of DacFromMillivolts, recovering the
// millivolt setting from a register value. Round trips agree within
// one LSB of the register.
func (c *Calibration) DacToMillivolts(raw int16) float64 {
	return (float64(raw)/2 - 4096 - float64(c.DacOffset)) * 1000.0 / float64(c.DacGain)
}
