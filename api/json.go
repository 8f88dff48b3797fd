package api

import "github.com/StratoNode/strato/compute"

import "encoding/json"
import "fmt"

type JSONConfig struct {
	URL   string `json:"url"`
	Token string `json:"token"`
}

func ServiceFromConfig(cfg *JSONConfig) (*compute.Service, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("missing compute endpoint url")
	}
	return MakeClient(cfg.URL, cfg.Token).MakeService(), nil
}

func ServiceFromJSON(jsonData []byte) (*compute.Service, error) {
	var cfg JSONConfig
	err := json.Unmarshal(jsonData, &cfg)
	if err != nil {
		return nil, err
	}
	return ServiceFromConfig(&cfg)
}
