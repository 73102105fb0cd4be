package parser

import (
	"encoding/json"
	"regexp"

	"chonkit/internal/apperr"
)

// jsonConfig is the tagged-variant wire shape persisted in the
// parse_configs table.
type jsonConfig struct {
	Mode    string   `json:"mode"`
	Start   *int     `json:"start,omitempty"`
	End     *int     `json:"end,omitempty"`
	Range   *[2]int  `json:"range,omitempty"`
	Filters []string `json:"filters,omitempty"`
}

// DecodeConfig parses a stored or ad-hoc parse config, compiling its filter
// regexes and rejecting unknown mode tags.
func DecodeConfig(raw []byte) (Config, error) {
	if len(raw) == 0 {
		return Config{}, nil
	}
	var j jsonConfig
	if err := json.Unmarshal(raw, &j); err != nil {
		return Config{}, apperr.Wrap(apperr.ConfigError, "decode parse config", err)
	}

	var cfg Config
	switch j.Mode {
	case "":
		// no range restriction
	case "start":
		if j.Start == nil {
			return Config{}, apperr.New(apperr.ConfigError, "start mode requires start")
		}
		cfg.RangeStart = *j.Start
	case "end":
		if j.End == nil {
			return Config{}, apperr.New(apperr.ConfigError, "end mode requires end")
		}
		cfg.RangeEnd = *j.End
	case "range":
		switch {
		case j.Range != nil:
			cfg.RangeStart, cfg.RangeEnd = j.Range[0], j.Range[1]
		case j.Start != nil && j.End != nil:
			cfg.RangeStart, cfg.RangeEnd = *j.Start, *j.End
		default:
			return Config{}, apperr.New(apperr.ConfigError, "range mode requires start and end")
		}
		if cfg.RangeEnd <= cfg.RangeStart {
			return Config{}, apperr.New(apperr.ConfigError, "range end must be greater than start")
		}
	default:
		return Config{}, apperr.New(apperr.ConfigError, "unknown parse config mode: "+j.Mode)
	}

	for _, pattern := range j.Filters {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return Config{}, apperr.Wrap(apperr.ConfigError, "compile filter regex", err)
		}
		cfg.Filters = append(cfg.Filters, re)
	}
	return cfg, nil
}
