package config

import (
	"errors"
	"fmt"

	"dario.cat/mergo"
)

// layer orders configuration sources; higher layers override lower ones.
type layer int

const (
	layerDefaults layer = iota
	layerJSON
	layerEnv
	layerFlags
)

var layerOrder = []layer{layerDefaults, layerJSON, layerEnv, layerFlags}

type configBuilder struct {
	configs map[layer]*StructuredConfig
	err     error
}

func newConfigBuilder() *configBuilder {
	return &configBuilder{
		configs: make(map[layer]*StructuredConfig, len(layerOrder)),
	}
}

func (b *configBuilder) build() (*StructuredConfig, error) {
	if b.err != nil {
		return nil, fmt.Errorf("error occured during building config: %w", b.err)
	}

	config := new(StructuredConfig)
	for _, l := range layerOrder {
		cfg, ok := b.configs[l]
		if !ok {
			continue
		}
		if err := mergo.Merge(config, cfg, mergo.WithOverride); err != nil {
			return nil, fmt.Errorf("error merging configs: %w", err)
		}
	}

	return config, config.validate()
}

func (b *configBuilder) withDefaults() *configBuilder {
	b.configs[layerDefaults] = defaultConfig()
	return b
}

func (b *configBuilder) withEnv() *configBuilder {
	envCfg, err := parseEnv()
	if err != nil {
		b.err = errors.Join(b.err, err)
		return b
	}

	b.configs[layerEnv] = envCfg
	return b
}

func (b *configBuilder) withFlags(args []string) *configBuilder {
	flagsCfg, err := parseFlags(args)
	if err != nil {
		b.err = errors.Join(b.err, err)
		return b
	}

	b.configs[layerFlags] = flagsCfg
	return b
}

// withJSON loads the JSON file named by the highest-priority layer that sets
// JSONFilePath. It must run after withEnv and withFlags.
func (b *configBuilder) withJSON() *configBuilder {
	var jsonPath string
	for _, l := range layerOrder {
		if cfg, ok := b.configs[l]; ok && cfg.JSONFilePath != "" {
			jsonPath = cfg.JSONFilePath
		}
	}

	if jsonPath == "" {
		return b
	}

	jsonCfg, err := parseJSON(jsonPath)
	if err != nil {
		b.err = errors.Join(b.err, err)
		return b
	}
	b.configs[layerJSON] = jsonCfg

	return b
}
