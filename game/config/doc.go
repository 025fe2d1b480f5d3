// Package config manages the named mission configurations in a directory.
//
// Each configuration is a JSON (.json) or YAML (.yaml, .yml) file describing a
// plateau and the rovers to deploy on it:
//
//	{
//	  "name": "classic",
//	  "description": "Two rovers on a 5x5 plateau",
//	  "plateau": {"x": 5, "y": 5},
//	  "rovers": [
//	    {"x": 1, "y": 2, "heading": "N", "instructions": "LMLMLMLMM"},
//	    {"x": 3, "y": 3, "heading": "E", "instructions": "MMRMMRMRRM"}
//	  ]
//	}
//
// The config ID is the file name without its extension. Configs are validated
// on load and cached until RefreshCache. The default config is classic when
// present, otherwise the first valid config, otherwise a built-in two rover
// mission.
//
// Usage:
//
//	manager, err := config.NewManager("configs")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	missionConfig, err := manager.LoadConfig("classic")
//	configs, err := manager.ListConfigs()
package config
