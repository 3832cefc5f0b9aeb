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

package command

import (
	"errors"
	"fmt"

	"github.com/imroc/req"

	"github.com/ingen10/go-daq/pkg/config"
	"github.com/ingen10/go-daq/pkg/srv"
)

// ApiClient talks to a go-daq API server, letting the CLI drive a
// device attached to another host.
type ApiClient struct {
	*config.Config
	ApiPrefix string
}

func NewApiClient(cfg *config.Config) *ApiClient {
	return &ApiClient{
		Config:    cfg,
		ApiPrefix: fmt.Sprintf("http://%s:%d/api", cfg.Host, cfg.ApiConfig.Port),
	}
}

// Info fetches the identity of the remote device.
func (c *ApiClient) Info() (*srv.Info, error) {
	r, err := req.Get(fmt.Sprintf("%s/info", c.ApiPrefix))
	if err != nil {
		return nil, err
	}
	if r.Response().StatusCode != 200 {
		return nil, errors.New(r.Response().Status)
	}
	info := &srv.Info{}
	if err = r.ToJSON(info); err != nil {
		return nil, err
	}
	return info, nil
}

// AdcRead reads the calibrated analog input in volts.
func (c *ApiClient) AdcRead() (float64, error) {
	r, err := req.Get(fmt.Sprintf("%s/adc", c.ApiPrefix))
	if err != nil {
		return 0, err
	}
	if r.Response().StatusCode != 200 {
		return 0, errors.New(r.Response().Status)
	}
	var result map[string]float64
	if err = r.ToJSON(&result); err != nil {
		return 0, err
	}
	return result["volts"], nil
}

// AdcConfig configures the remote analog input.
func (c *ApiClient) AdcConfig(pinput, ninput, gain, nsamples int) error {
	body := &srv.AdcConfigRequest{PInput: pinput, NInput: ninput, Gain: gain, NSamples: nsamples}
	r, err := req.Post(fmt.Sprintf("%s/adc/config", c.ApiPrefix), req.BodyJSON(body))
	if err != nil {
		return err
	}
	if r.Response().StatusCode != 200 {
		return errors.New(r.Response().Status)
	}
	return nil
}

// DacSet sets the remote analog output in volts.
func (c *ApiClient) DacSet(volts float64) error {
	r, err := req.Post(fmt.Sprintf("%s/dac", c.ApiPrefix), req.BodyJSON(&srv.DacRequest{Volts: volts}))
	if err != nil {
		return err
	}
	if r.Response().StatusCode != 200 {
		return errors.New(r.Response().Status)
	}
	return nil
}

// LedSet sets the remote LED color.
func (c *ApiClient) LedSet(color int) error {
	r, err := req.Post(fmt.Sprintf("%s/led/%d", c.ApiPrefix, color))
	if err != nil {
		return err
	}
	if r.Response().StatusCode != 200 {
		return errors.New(r.Response().Status)
	}
	return nil
}

// Acquire runs a stream experiment on the remote device.
func (c *ApiClient) Acquire(body *srv.AcquireRequest) (*srv.AcquireResponse, error) {
	r, err := req.Post(fmt.Sprintf("%s/stream/acquire", c.ApiPrefix), req.BodyJSON(body))
	if err != nil {
		return nil, err
	}
	if r.Response().StatusCode != 200 {
		return nil, errors.New(r.Response().Status)
	}
	result := &srv.AcquireResponse{}
	if err = r.ToJSON(result); err != nil {
		return nil, err
	}
	return result, nil
}
