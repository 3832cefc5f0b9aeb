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
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseHardwareVersion(t *testing.T) {
	for _, s := range []string{"m", "M"} {
		hw, err := ParseHardwareVersion(s)
		require.NoError(t, err)
		require.Equal(t, HwM, hw)
	}
	for _, s := range []string{"s", "S"} {
		hw, err := ParseHardwareVersion(s)
		require.NoError(t, err)
		require.Equal(t, HwS, hw)
	}
	_, err := ParseHardwareVersion("x")
	require.Error(t, err)
}

func TestCalSlots(t *testing.T) {
	require.Equal(t, 6, HwM.CalSlots())
	require.Equal(t, 17, HwS.CalSlots())
}

func TestAnalogIndex(t *testing.T) {
	testCases := []struct {
		hw     HardwareVersion
		gain   int
		pinput int
		ninput int
		want   int
	}{
		// the amplifier path indexes by gain setting
		{HwM, 0, 5, 0, 1},
		{HwM, 4, 1, 0, 5},
		// single-ended inputs index by positive input
		{HwS, 2, 1, 0, 1},
		{HwS, 2, 8, 0, 8},
		// differential pairs share a slot
		{HwS, 0, 1, 2, 9},
		{HwS, 0, 2, 1, 9},
		{HwS, 0, 3, 4, 10},
		{HwS, 0, 6, 5, 11},
		{HwS, 0, 7, 8, 12},
		{HwS, 0, 8, 7, 12},
	}
	for _, tc := range testCases {
		t.Run(fmt.Sprintf("%s g%d p%d n%d", tc.hw, tc.gain, tc.pinput, tc.ninput), func(t *testing.T) {
			cal := NewCalibration(tc.hw)
			require.Equal(t, tc.want, cal.AnalogIndex(tc.gain, tc.pinput, tc.ninput))
		})
	}
}

func TestRawToVolts(t *testing.T) {
	t.Run("m inverts and scales by 1e5", func(t *testing.T) {
		cal := NewCalibration(HwM)
		cal.Gains[2] = 200
		cal.Offsets[2] = 5
		require.InDelta(t, 0.007, cal.RawToVolts(-1000, 2), 1e-9)
	})
	t.Run("s scales by 1e4", func(t *testing.T) {
		cal := NewCalibration(HwS)
		cal.Gains[3] = 500
		cal.Offsets[3] = -10
		require.InDelta(t, 0.04, cal.RawToVolts(1000, 3), 1e-9)
	})
}

func TestDacFromMillivolts(t *testing.T) {
	cal := NewCalibration(HwM)
	cal.DacGain = 1000

	testCases := []struct {
		millivolts int
		want       int16
	}{
		{0, 8192},
		{1000, 10192},
		{-1000, 6192},
		{-4096, 0},
		{4095, 16382},
	}
	for _, tc := range testCases {
		t.Run(fmt.Sprintf("%dmv", tc.millivolts), func(t *testing.T) {
			raw, err := cal.DacFromMillivolts(tc.millivolts)
			require.NoError(t, err)
			require.Equal(t, tc.want, raw)
		})
	}
}

func TestDacFromMillivoltsRange(t *testing.T) {
	m := NewCalibration(HwM)
	m.DacGain = 1000
	for _, mv := range []int{4096, -4097, 10000} {
		_, err := m.DacFromMillivolts(mv)
		require.Error(t, err, "millivolts %d", mv)
	}

	s := NewCalibration(HwS)
	s.DacGain = 1000
	for _, mv := range []int{-1, 4096} {
		_, err := s.DacFromMillivolts(mv)
		require.Error(t, err, "millivolts %d", mv)
	}
}

func TestDacFromMillivoltsClampsUnipolar(t *testing.T) {
	cal := NewCalibration(HwS)
	cal.DacGain = 4000

	raw, err := cal.DacFromMillivolts(4000)
	require.NoError(t, err)
	require.Equal(t, int16(32767), raw)
}

func TestDacRoundTrip(t *testing.T) {
	cal := NewCalibration(HwM)
	cal.DacGain = 1100
	cal.DacOffset = -5

	for _, mv := range []int{-4000, -1234, -1, 0, 1, 777, 4095} {
		raw, err := cal.DacFromMillivolts(mv)
		require.NoError(t, err)
		require.InDelta(t, float64(mv), cal.DacToMillivolts(raw), 0.5, "millivolts %d", mv)
	}
}
