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

package info

import (
	"github.com/spf13/cobra"

	daqcmd "github.com/ingen10/go-daq/pkg/cmd"
	"github.com/ingen10/go-daq/pkg/config"
	"github.com/ingen10/go-daq/pkg/daq"
	"github.com/ingen10/go-daq/pkg/layers"
)

const (
	PortOptionName     = "port"
	CommandsOptionName = "commands"
)

// NewCommand creates the info command which prints the device identity
// and its calibration table. With --commands it prints the command
// catalogue instead, without touching a device.
func NewCommand() *cobra.Command {
	var port string
	var commands bool
	cfg := config.NewDefaultConfig()
	cfg.Load()
	cmd := &cobra.Command{
		Use:   "info",
		Short: "Show device identity and calibration",
		RunE: func(cmd *cobra.Command, args []string) error {
			if commands {
				for _, d := range daq.Catalogue {
					cmd.Printf("%-18s id=%-3d resp=%d bytes\n",
						d.Name, d.ID, layers.LayoutSize(d.Resp))
				}
				return nil
			}
			if port != "" {
				cfg.SerialConfig.Port = port
			}
			device, closer, err := daqcmd.OpenDevice(cfg)
			if err != nil {
				return err
			}
			defer closer()
			cmd.Printf("hardware: [%s]\n", device.HW)
			cmd.Printf("firmware: %d\n", device.FwVer)
			cmd.Printf("serial:   %d\n", device.Serial)
			for slot := range device.Cal.Gains {
				cmd.Printf("cal[%2d]: gain=%5d offset=%6d\n",
					slot, device.Cal.Gains[slot], device.Cal.Offsets[slot])
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&port, PortOptionName, "", "Serial port of the device. E.g. /dev/ttyUSB0")
	cmd.Flags().BoolVar(&commands, CommandsOptionName, false, "List the command catalogue instead of querying a device")
	return cmd
}
