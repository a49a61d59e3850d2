// Package config defines the typed configuration of the edittree tools.
//
// Configuration is assembled from three layers, lowest priority first:
// built-in defaults, a TOML or YAML file, and EDITTREE_* environment
// variables. The merged result is validated before use.
//
//	cfg, err := config.Load("edittree.toml")
//	if err != nil {
//	    return err
//	}
//	logger := slog.New(cfg.Log.Handler(os.Stderr))
package config
