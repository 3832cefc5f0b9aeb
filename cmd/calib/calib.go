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

package calib

import (
	"io/ioutil"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v2"

	daqcmd "github.com/ingen10/go-daq/pkg/cmd"
	"github.com/ingen10/go-daq/pkg/config"
	"github.com/ingen10/go-daq/pkg/daq"
	"github.com/ingen10/go-daq/pkg/state"
)

const (
	PortOptionName   = "port"
	SerialOptionName = "serial"
	FileOptionName   = "file"
)

// CalFile is the on-disk calibration table format used by export and
// import.
type CalFile struct {
	Hardware string   `yaml:"hardware"`
	Gains    []uint16 `yaml:"gains"`
	Offsets  []int16  `yaml:"offsets"`
}

// NewCommand creates the calib command with its subcommands
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "calib",
		Short: "Inspect and transfer calibration tables",
	}
	cmd.AddCommand(newShowCommand())
	cmd.AddCommand(newExportCommand())
	cmd.AddCommand(newImportCommand())
	return cmd
}

func cachedCalibration(cfg *config.Config, serial uint32) (*daq.Calibration, error) {
	st, err := state.Open(cfg.DBPath)
	if err != nil {
		return nil, err
	}
	defer st.Close()
	return st.GetCalibration(serial)
}

func newShowCommand() *cobra.Command {
	var serial uint32
	cfg := config.NewDefaultConfig()
	cfg.Load()
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the cached calibration table of a device",
		RunE: func(cmd *cobra.Command, args []string) error {
			cal, err := cachedCalibration(cfg, serial)
			if err != nil {
				return err
			}
			cmd.Printf("hardware: [%s]\n", cal.HW)
			for slot := range cal.Gains {
				cmd.Printf("cal[%2d]: gain=%5d offset=%6d\n",
					slot, cal.Gains[slot], cal.Offsets[slot])
			}
			return nil
		},
	}
	cmd.Flags().Uint32Var(&serial, SerialOptionName, 0, "Serial number of the device")
	cmd.MarkFlagRequired(SerialOptionName)
	return cmd
}

func newExportCommand() *cobra.Command {
	var serial uint32
	var file string
	cfg := config.NewDefaultConfig()
	cfg.Load()
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the cached calibration table of a device to a file",
		RunE: func(cmd *cobra.Command, args []string) error {
			cal, err := cachedCalibration(cfg, serial)
			if err != nil {
				return err
			}
			data, err := yaml.Marshal(&CalFile{
				Hardware: cal.HW.String(),
				Gains:    cal.Gains,
				Offsets:  cal.Offsets,
			})
			if err != nil {
				return err
			}
			return ioutil.WriteFile(file, data, 0644)
		},
	}
	cmd.Flags().Uint32Var(&serial, SerialOptionName, 0, "Serial number of the device")
	cmd.Flags().StringVar(&file, FileOptionName, "", "Destination file")
	cmd.MarkFlagRequired(SerialOptionName)
	cmd.MarkFlagRequired(FileOptionName)
	return cmd
}

func newImportCommand() *cobra.Command {
	var port, file string
	cfg := config.NewDefaultConfig()
	cfg.Load()
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Write a calibration table from a file to the attached device",
		RunE: func(cmd *cobra.Command, args []string) error {
			if port != "" {
				cfg.SerialConfig.Port = port
			}
			data, err := ioutil.ReadFile(file)
			if err != nil {
				return err
			}
			calFile := &CalFile{}
			if err := yaml.Unmarshal(data, calFile); err != nil {
				return err
			}
			hw, err := daq.ParseHardwareVersion(calFile.Hardware)
			if err != nil {
				return err
			}
			if len(calFile.Gains) != hw.CalSlots() || len(calFile.Offsets) != hw.CalSlots() {
				return daq.ErrInvalidParameter{Name: "calibration table size", Value: len(calFile.Gains)}
			}

			device, closer, err := daqcmd.OpenDevice(cfg)
			if err != nil {
				return err
			}
			defer closer()
			if device.HW != hw {
				return daq.ErrInvalidParameter{Name: "hardware version", Value: calFile.Hardware}
			}

			if err := device.SetDacCal(calFile.Gains[0], calFile.Offsets[0]); err != nil {
				return err
			}
			if hw == daq.HwM {
				if err := device.SetCal(daq.BankM, calFile.Gains[1:6], calFile.Offsets[1:6]); err != nil {
					return err
				}
			} else {
				if err := device.SetCal(daq.BankSE, calFile.Gains[1:9], calFile.Offsets[1:9]); err != nil {
					return err
				}
				if err := device.SetCal(daq.BankDE, calFile.Gains[9:17], calFile.Offsets[9:17]); err != nil {
					return err
				}
			}

			// refresh the session table and the local cache
			if err := device.LoadCalibration(); err != nil {
				return err
			}
			st, err := state.Open(cfg.DBPath)
			if err != nil {
				return err
			}
			defer st.Close()
			return st.PutCalibration(device.Serial, device.Cal)
		},
	}
	cmd.Flags().StringVar(&port, PortOptionName, "", "Serial port of the device. E.g. /dev/ttyUSB0")
	cmd.Flags().StringVar(&file, FileOptionName, "", "Source file")
	cmd.MarkFlagRequired(FileOptionName)
	return cmd
}
