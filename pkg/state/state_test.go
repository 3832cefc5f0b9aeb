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

package state

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ingen10/go-daq/pkg/daq"
)

func openTestState(t *testing.T) *State {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "state.db"))
	require.NoError(t, err)
	t.Cleanup(s.Close)
	return s
}

func TestCalibrationCache(t *testing.T) {
	s := openTestState(t)

	cal := daq.NewCalibration(daq.HwM)
	for slot := range cal.Gains {
		cal.Gains[slot] = uint16(1000 + slot)
		cal.Offsets[slot] = int16(slot - 3)
	}
	cal.DacGain = cal.Gains[0]
	cal.DacOffset = cal.Offsets[0]
	require.NoError(t, s.PutCalibration(256, cal))

	cached, err := s.GetCalibration(256)
	require.NoError(t, err)
	require.Equal(t, cal, cached)
}

func TestCalibrationCachePerSerial(t *testing.T) {
	s := openTestState(t)

	m := daq.NewCalibration(daq.HwM)
	m.Gains[1] = 42
	sCal := daq.NewCalibration(daq.HwS)
	sCal.Gains[16] = 99
	require.NoError(t, s.PutCalibration(1, m))
	require.NoError(t, s.PutCalibration(2, sCal))

	cached, err := s.GetCalibration(2)
	require.NoError(t, err)
	require.Equal(t, daq.HwS, cached.HW)
	require.Equal(t, uint16(99), cached.Gains[16])
}

func TestGetCalibrationUnknownSerial(t *testing.T) {
	s := openTestState(t)
	_, err := s.GetCalibration(12345)
	require.Error(t, err)
}

func TestPutCalibrationOverwrites(t *testing.T) {
	s := openTestState(t)

	cal := daq.NewCalibration(daq.HwM)
	cal.Gains[2] = 10
	require.NoError(t, s.PutCalibration(7, cal))
	cal.Gains[2] = 20
	require.NoError(t, s.PutCalibration(7, cal))

	cached, err := s.GetCalibration(7)
	require.NoError(t, err)
	require.Equal(t, uint16(20), cached.Gains[2])
}
