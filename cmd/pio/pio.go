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

package pio

import (
	"strconv"

	"github.com/spf13/cobra"

	daqcmd "github.com/ingen10/go-daq/pkg/cmd"
	"github.com/ingen10/go-daq/pkg/config"
)

const (
	PortOptionName = "port"
)

// NewCommand creates the pio command with its subcommands
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pio",
		Short: "Control the PIO lines",
	}
	cmd.AddCommand(newSetCommand())
	cmd.AddCommand(newDirCommand())
	return cmd
}

func newSetCommand() *cobra.Command {
	var port string
	cfg := config.NewDefaultConfig()
	cfg.Load()
	cmd := &cobra.Command{
		Use:   "set <number> {0|1}",
		Short: "Write a PIO output",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if port != "" {
				cfg.SerialConfig.Port = port
			}
			number, err := strconv.Atoi(args[0])
			if err != nil {
				return err
			}
			value, err := strconv.Atoi(args[1])
			if err != nil {
				return err
			}
			device, closer, err := daqcmd.OpenDevice(cfg)
			if err != nil {
				return err
			}
			defer closer()
			return device.SetPIO(number, value == 1)
		},
	}
	cmd.Flags().StringVar(&port, PortOptionName, "", "Serial port of the device. E.g. /dev/ttyUSB0")
	return cmd
}

func newDirCommand() *cobra.Command {
	var port string
	cfg := config.NewDefaultConfig()
	cfg.Load()
	cmd := &cobra.Command{
		Use:   "dir <number> {in|out}",
		Short: "Configure a PIO direction",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if port != "" {
				cfg.SerialConfig.Port = port
			}
			number, err := strconv.Atoi(args[0])
			if err != nil {
				return err
			}
			device, closer, err := daqcmd.OpenDevice(cfg)
			if err != nil {
				return err
			}
			defer closer()
			return device.SetPIODir(number, args[1] == "out")
		},
	}
	cmd.Flags().StringVar(&port, PortOptionName, "", "Serial port of the device. E.g. /dev/ttyUSB0")
	return cmd
}
