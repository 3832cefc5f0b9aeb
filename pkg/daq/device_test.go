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
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ingen10/go-daq/pkg/serial"
)

func TestDeviceConnect(t *testing.T) {
	pipe := serial.NewPipe()
	device := NewDevice(pipe)

	// ident: hardware 1 ([M]), firmware 13, serial 256
	feedResponse(pipe, Ident.ID, []byte{1, 13, 0x00, 0x00, 0x01, 0x00})
	// calibration table, slot 0 doubles as the DAC pair
	for slot := 0; slot < HwM.CalSlots(); slot++ {
		args := make([]byte, 5)
		args[0] = byte(slot)
		binary.BigEndian.PutUint16(args[1:3], uint16(1000+slot))
		binary.BigEndian.PutUint16(args[3:5], uint16(int16(slot-3)))
		feedResponse(pipe, CalibGet.ID, args)
	}

	require.NoError(t, device.Connect())
	require.Equal(t, HwM, device.HW)
	require.Equal(t, 13, device.FwVer)
	require.Equal(t, uint32(256), device.Serial)
	require.Equal(t, uint16(1005), device.Cal.Gains[5])
	require.Equal(t, int16(2), device.Cal.Offsets[5])
	require.Equal(t, uint16(1000), device.Cal.DacGain)
	require.Equal(t, int16(-3), device.Cal.DacOffset)
}

func TestReadAnalog(t *testing.T) {
	pipe := serial.NewPipe()
	device := NewDevice(pipe)
	device.SetHardware(HwM)
	cal := NewCalibration(HwM)
	cal.Gains[3] = 200
	cal.Offsets[3] = 5
	device.SetCalibration(cal)

	// adc-conf selects gain 2, so slot 3 applies
	feedResponse(pipe, AdcConf.ID, []byte{0x00, 0x00, 1, 0, 2, 20})
	require.NoError(t, device.AdcConfig(1, 0, 2, 20))

	feedResponse(pipe, AdcRead.ID, []byte{0xfc, 0x18}) // -1000
	volts, err := device.ReadAnalog()
	require.NoError(t, err)
	require.InDelta(t, 0.007, volts, 1e-9)
}

func TestSetAnalog(t *testing.T) {
	pipe := serial.NewPipe()
	device := NewDevice(pipe)
	device.SetHardware(HwM)
	cal := NewCalibration(HwM)
	cal.DacGain = 1000
	device.SetCalibration(cal)

	feedResponse(pipe, DacSet.ID, []byte{0x27, 0xd0}) // 10192 echo
	raw, err := device.SetAnalog(1.0)
	require.NoError(t, err)
	require.Equal(t, int16(10192), raw)
	require.Equal(t, []byte{0x01, 0x11, 0x18, 0x02, 0x27, 0xd0}, pipe.Sent())
}

func TestParameterValidation(t *testing.T) {
	pipe := serial.NewPipe()
	device := NewDevice(pipe)
	device.SetHardware(HwM)
	device.SetCalibration(NewCalibration(HwM))

	testCases := []struct {
		name string
		call func() error
	}{
		{"led color", func() error { return device.SetLED(4) }},
		{"dac raw low", func() error { _, err := device.SetDAC(0); return err }},
		{"dac raw high", func() error { _, err := device.SetDAC(16384); return err }},
		{"pio number low", func() error { return device.SetPIO(0, true) }},
		{"pio number high", func() error { return device.SetPIO(7, true) }},
		{"pio dir number", func() error { return device.SetPIODir(7, true) }},
		{"channel number", func() error { return device.CreateStream(5, 100) }},
		{"stream period", func() error { return device.CreateStream(1, 0) }},
		{"channel conf number", func() error { return device.ConfChannel(0, AnalogInput, 1, 0, 0, 1) }},
		{"spi mode", func() error { return device.SpiConfig(2, 0) }},
		{"spi pin", func() error { return device.SpiSetup(1, 2, 7) }},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.call()
			require.IsType(t, ErrInvalidParameter{}, err)
			// rejected before anything hits the wire
			require.Empty(t, pipe.Sent())
		})
	}
}

func TestAcquireUntilDeviceStops(t *testing.T) {
	pipe := serial.NewPipe()
	device := NewDevice(pipe)
	device.SetHardware(HwM)
	device.SetCalibration(NewCalibration(HwM))

	feedResponse(pipe, StreamCreate.ID, []byte{1, 0x00, 0x64})
	feedResponse(pipe, ChannelConf.ID, []byte{1, 0, 1, 0, 1, 10})
	feedResponse(pipe, ChannelSetup.ID, []byte{1, 0x00, 0x02, 1})
	feedResponse(pipe, Start.ID, nil)
	feedFrame(t, pipe, 1, []byte{0xff, 0xff})
	feedStopNotification(pipe, 1)

	frames, dropped, err := device.Acquire(AcquisitionConfig{
		Channel:  1,
		Period:   100,
		PInput:   1,
		Gain:     1,
		NSamples: 10,
		NPoints:  2,
	})
	require.NoError(t, err)
	require.Equal(t, 0, dropped)
	require.Equal(t, []*Frame{{Channel: 0, Samples: []int16{-1}}}, frames)
}
