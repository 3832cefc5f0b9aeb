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

package srv

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"sync"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/ingen10/go-daq/pkg/config"
	"github.com/ingen10/go-daq/pkg/daq"
	"github.com/ingen10/go-daq/pkg/log"
)

// ApiServer exposes a connected device over HTTP. The wire protocol
// allows one outstanding command, so every handler takes the device
// mutex for the duration of its exchange.
type ApiServer struct {
	Config *config.Config
	Device *daq.Device
	Router *mux.Router

	mu sync.Mutex
}

func NewApiServer(cfg *config.Config, device *daq.Device) *ApiServer {
	s := &ApiServer{
		Config: cfg,
		Device: device,
	}
	s.configureRouter()
	return s
}

// Run starts the API server. It blocks until the listener fails.
func (s *ApiServer) Run() error {
	addr := fmt.Sprintf("%s:%d", s.Config.Host, s.Config.ApiConfig.Port)
	log.Info("Starting API server: %s", addr)
	httpServer := &http.Server{
		Handler: handlers.LoggingHandler(os.Stderr, s.Router),
		Addr:    addr,
	}
	return httpServer.ListenAndServe()
}

func (s *ApiServer) configureRouter() {
	s.Router = mux.NewRouter()
	subRouter := s.Router.PathPrefix("/api").Subrouter()
	subRouter.HandleFunc("/info", s.handleInfo()).Methods("GET")
	subRouter.HandleFunc("/adc", s.handleAdcRead()).Methods("GET")
	subRouter.HandleFunc("/adc/raw", s.handleAdcRaw()).Methods("GET")
	subRouter.HandleFunc("/adc/config", s.handleAdcConfig()).Methods("POST")
	subRouter.HandleFunc("/dac", s.handleDacSet()).Methods("POST")
	subRouter.HandleFunc("/led/{color:[0-3]}", s.handleLedSet()).Methods("POST")
	subRouter.HandleFunc("/pio/{number:[1-6]}/{value:[01]}", s.handlePioSet()).Methods("POST")
	subRouter.HandleFunc("/pio/{number:[1-6]}/dir/{output:[01]}", s.handlePioDir()).Methods("POST")
	subRouter.HandleFunc("/stream/acquire", s.handleAcquire()).Methods("POST")
}

// Info is the device identity in API responses.
type Info struct {
	Hardware string `json:"hardware"`
	Firmware int    `json:"firmware"`
	Serial   uint32 `json:"serial"`
}

// AdcConfigRequest selects the analog input configuration.
type AdcConfigRequest struct {
	PInput   int `json:"pinput"`
	NInput   int `json:"ninput"`
	Gain     int `json:"gain"`
	NSamples int `json:"nsamples"`
}

// DacRequest sets the analog output.
type DacRequest struct {
	Volts float64 `json:"volts"`
}

// AcquireRequest runs a stream experiment.
type AcquireRequest struct {
	Channel  int `json:"channel"`
	Period   int `json:"period"`
	PInput   int `json:"pinput"`
	NInput   int `json:"ninput"`
	Gain     int `json:"gain"`
	NSamples int `json:"nsamples"`
	NPoints  int `json:"npoints"`
}

// AcquireResponse carries the acquired samples flattened in arrival
// order with their 0-based channel ids.
type AcquireResponse struct {
	Channels []int     `json:"channels"`
	Samples  []int16   `json:"samples"`
	Volts    []float64 `json:"volts"`
	Dropped  int       `json:"dropped"`
}

func (s *ApiServer) handleInfo() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		defer s.mu.Unlock()
		writeJSON(w, &Info{
			Hardware: s.Device.HW.String(),
			Firmware: s.Device.FwVer,
			Serial:   s.Device.Serial,
		})
	}
}

func (s *ApiServer) handleAdcRead() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		defer s.mu.Unlock()
		volts, err := s.Device.ReadAnalog()
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadGateway)
			return
		}
		writeJSON(w, map[string]float64{"volts": volts})
	}
}

func (s *ApiServer) handleAdcRaw() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		defer s.mu.Unlock()
		raw, err := s.Device.ReadADC()
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadGateway)
			return
		}
		writeJSON(w, map[string]int16{"raw": raw})
	}
}

func (s *ApiServer) handleAdcConfig() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req := &AdcConfigRequest{}
		if err := json.NewDecoder(r.Body).Decode(req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		s.mu.Lock()
		defer s.mu.Unlock()
		if err := s.Device.AdcConfig(req.PInput, req.NInput, req.Gain, req.NSamples); err != nil {
			http.Error(w, err.Error(), http.StatusBadGateway)
			return
		}
	}
}

func (s *ApiServer) handleDacSet() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req := &DacRequest{}
		if err := json.NewDecoder(r.Body).Decode(req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		s.mu.Lock()
		defer s.mu.Unlock()
		if _, err := s.Device.SetAnalog(req.Volts); err != nil {
			http.Error(w, err.Error(), http.StatusBadGateway)
			return
		}
	}
}

func (s *ApiServer) handleLedSet() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vars := mux.Vars(r)
		color, err := strconv.Atoi(vars["color"])
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		s.mu.Lock()
		defer s.mu.Unlock()
		if err := s.Device.SetLED(color); err != nil {
			http.Error(w, err.Error(), http.StatusBadGateway)
			return
		}
	}
}

func (s *ApiServer) handlePioSet() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vars := mux.Vars(r)
		number, _ := strconv.Atoi(vars["number"])
		value, _ := strconv.Atoi(vars["value"])
		s.mu.Lock()
		defer s.mu.Unlock()
		if err := s.Device.SetPIO(number, value == 1); err != nil {
			http.Error(w, err.Error(), http.StatusBadGateway)
			return
		}
	}
}

func (s *ApiServer) handlePioDir() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vars := mux.Vars(r)
		number, _ := strconv.Atoi(vars["number"])
		output, _ := strconv.Atoi(vars["output"])
		s.mu.Lock()
		defer s.mu.Unlock()
		if err := s.Device.SetPIODir(number, output == 1); err != nil {
			http.Error(w, err.Error(), http.StatusBadGateway)
			return
		}
	}
}

func (s *ApiServer) handleAcquire() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req := &AcquireRequest{}
		if err := json.NewDecoder(r.Body).Decode(req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		s.mu.Lock()
		defer s.mu.Unlock()
		frames, dropped, err := s.Device.Acquire(daq.AcquisitionConfig{
			Channel:  req.Channel,
			Period:   req.Period,
			PInput:   req.PInput,
			NInput:   req.NInput,
			Gain:     req.Gain,
			NSamples: req.NSamples,
			NPoints:  req.NPoints,
		})
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadGateway)
			return
		}
		resp := &AcquireResponse{Dropped: dropped}
		for _, frame := range frames {
			for _, sample := range frame.Samples {
				resp.Channels = append(resp.Channels, frame.Channel)
				resp.Samples = append(resp.Samples, sample)
			}
			resp.Volts = append(resp.Volts, s.Device.Volts(frame.Samples)...)
		}
		writeJSON(w, resp)
	}
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("Error while encoding API response: %s", err)
	}
}
