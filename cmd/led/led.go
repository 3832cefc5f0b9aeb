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

package led

import (
	"github.com/spf13/cobra"

	daqcmd "github.com/ingen10/go-daq/pkg/cmd"
	"github.com/ingen10/go-daq/pkg/config"
	"github.com/ingen10/go-daq/pkg/daq"
)

const (
	PortOptionName = "port"
)

var colors = map[string]int{
	"off":    daq.LedOff,
	"green":  daq.LedGreen,
	"red":    daq.LedRed,
	"orange": daq.LedOrange,
}

// NewCommand creates the led command which sets the device LED color
func NewCommand() *cobra.Command {
	var port string
	cfg := config.NewDefaultConfig()
	cfg.Load()
	cmd := &cobra.Command{
		Use:       "led {off|green|red|orange}",
		Short:     "Set the LED color",
		Args:      cobra.ExactValidArgs(1),
		ValidArgs: []string{"off", "green", "red", "orange"},
		RunE: func(cmd *cobra.Command, args []string) error {
			if port != "" {
				cfg.SerialConfig.Port = port
			}
			device, closer, err := daqcmd.OpenDevice(cfg)
			if err != nil {
				return err
			}
			defer closer()
			return device.SetLED(colors[args[0]])
		},
	}
	cmd.Flags().StringVar(&port, PortOptionName, "", "Serial port of the device. E.g. /dev/ttyUSB0")
	return cmd
}
