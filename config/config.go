/*
File    : go-flow/config/config.go
Author  : Akash Maji
Contact : akashmaji(@iisc.ac.in)
*/

// Package config loads the optional YAML defaults file for the LLM
// endpoint. Values given on the command line always win; the file only
// fills in what the flags left empty.
package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds the LLM endpoint defaults.
//
// Example file:
//
//	api_key: sk-...
//	base_url: https://api.deepseek.com
//	model: deepseek-chat
type Config struct {
	APIKey  string `yaml:"api_key"`
	BaseURL string `yaml:"base_url"`
	Model   string `yaml:"model"`
}

// Load reads and parses the YAML config file at path.
//
// Parameters:
//   - path: Filesystem path of the YAML file
//
// Returns:
//   - *Config: The parsed defaults
//   - error: When the file cannot be read or parsed
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
