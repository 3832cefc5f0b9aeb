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

package serve

import (
	"github.com/spf13/cobra"

	daqcmd "github.com/ingen10/go-daq/pkg/cmd"
	"github.com/ingen10/go-daq/pkg/config"
	"github.com/ingen10/go-daq/pkg/srv"
)

const (
	PortOptionName    = "port"
	ApiPortOptionName = "api-port"
	HostOptionName    = "host"
)

// NewCommand creates the serve command which exposes a connected
// device over the HTTP API
func NewCommand() *cobra.Command {
	var port, host string
	var apiPort int
	cfg := config.NewDefaultConfig()
	cfg.Load()
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API for a connected device",
		RunE: func(cmd *cobra.Command, args []string) error {
			if port != "" {
				cfg.SerialConfig.Port = port
			}
			if host != "" {
				cfg.Host = host
			}
			if apiPort != 0 {
				cfg.ApiConfig.Port = apiPort
			}
			device, closer, err := daqcmd.OpenDevice(cfg)
			if err != nil {
				return err
			}
			defer closer()
			return srv.NewApiServer(cfg, device).Run()
		},
	}
	cmd.Flags().StringVar(&port, PortOptionName, "", "Serial port of the device. E.g. /dev/ttyUSB0")
	cmd.Flags().StringVar(&host, HostOptionName, "", "Address the API server binds to")
	cmd.Flags().IntVar(&apiPort, ApiPortOptionName, 0, "TCP port the API server listens on")
	return cmd
}
