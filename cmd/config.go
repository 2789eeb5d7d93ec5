// Copyright © 2025 The movan authors

package cmd

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/movelang/movan/ast"
)

// projectConfig is the shape of movan.yaml at a project root.
type projectConfig struct {
	Addresses map[string]string `yaml:"addresses"`
}

// loadAddresses reads the named-address table from movan.yaml under root.
// A missing file yields an empty table; a malformed one is an error.
func loadAddresses(root string) (map[string]ast.Address, error) {
	raw, err := os.ReadFile(filepath.Join(root, "movan.yaml"))
	if os.IsNotExist(err) {
		return map[string]ast.Address{}, nil
	}
	if err != nil {
		return nil, err
	}
	var cfg projectConfig
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, errors.Wrap(err, "parse movan.yaml")
	}
	out := make(map[string]ast.Address, len(cfg.Addresses))
	for name, hex := range cfg.Addresses {
		addr, ok := ast.AddressFromHex(hex)
		if !ok {
			return nil, errors.Errorf("bad address %q for %s in movan.yaml", hex, name)
		}
		out[name] = addr
	}
	return out, nil
}
