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
	"encoding/binary"
	"errors"
	"fmt"

	"go.etcd.io/bbolt"

	"github.com/ingen10/go-daq/pkg/daq"
	"github.com/ingen10/go-daq/pkg/log"
)

const (
	BucketNamePrefix = "cal_"
	hwKey            = "hw"
)

// State is the local cache of per-device calibration tables, keyed by
// device serial number. Calibration is fetched from the hardware once
// per session; the cache makes it inspectable and exportable offline.
type State struct {
	DB *bbolt.DB
}

func Open(path string) (*State, error) {
	db, err := bbolt.Open(path, 0600, nil)
	if err != nil {
		return nil, err
	}
	return &State{DB: db}, nil
}

func (s *State) Close() {
	s.DB.Close()
}

func bucketName(serial uint32) string {
	return fmt.Sprintf("%s%08x", BucketNamePrefix, serial)
}

func uint16ToByte(v uint16) []byte {
	b := make([]byte, 2)
	binary.BigEndian.PutUint16(b, v)
	return b
}

// PutCalibration stores the calibration table of a device.
func (s *State) PutCalibration(serial uint32, cal *daq.Calibration) error {
	log.Debug("Caching calibration: serial %08x hw [%s]", serial, cal.HW)
	return s.DB.Update(func(tx *bbolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists([]byte(bucketName(serial)))
		if err != nil {
			return err
		}
		if err := b.Put([]byte(hwKey), []byte(cal.HW.String())); err != nil {
			return err
		}
		for slot := range cal.Gains {
			value := make([]byte, 4)
			binary.BigEndian.PutUint16(value[0:2], cal.Gains[slot])
			binary.BigEndian.PutUint16(value[2:4], uint16(cal.Offsets[slot]))
			if err := b.Put(uint16ToByte(uint16(slot)), value); err != nil {
				return err
			}
		}
		return nil
	})
}

// GetCalibration loads the cached calibration table of a device.
func (s *State) GetCalibration(serial uint32) (*daq.Calibration, error) {
	log.Debug("Loading cached calibration: serial %08x", serial)
	var cal *daq.Calibration
	if err := s.DB.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(bucketName(serial)))
		if b == nil {
			return errors.New(fmt.Sprintf("Bucket not found: %s", bucketName(serial)))
		}
		hwBytes := b.Get([]byte(hwKey))
		if hwBytes == nil {
			return errors.New(fmt.Sprintf("Key not found: %s", hwKey))
		}
		hw, err := daq.ParseHardwareVersion(string(hwBytes))
		if err != nil {
			return err
		}
		cal = daq.NewCalibration(hw)
		for slot := 0; slot < hw.CalSlots(); slot++ {
			value := b.Get(uint16ToByte(uint16(slot)))
			if value == nil {
				return errors.New(fmt.Sprintf("Key not found: %d", slot))
			}
			cal.Gains[slot] = binary.BigEndian.Uint16(value[0:2])
			cal.Offsets[slot] = int16(binary.BigEndian.Uint16(value[2:4]))
		}
		cal.DacGain = cal.Gains[0]
		cal.DacOffset = cal.Offsets[0]
		return nil
	}); err != nil {
		return nil, err
	}
	return cal, nil
}
