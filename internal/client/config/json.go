package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/verilens/verilens/internal/flagx"
	"github.com/verilens/verilens/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. It relies on
// timex.Duration so JSON can specify the timeout either as a string like
// "15s" or as integer nanoseconds.
type JsonConfig struct {
	ServerEndpointAddr string         `json:"server_endpoint_addr"`
	RequestTimeout     timex.Duration `json:"request_timeout"`
	CacheDir           string         `json:"cache_dir"`
}

// parseJson overlays cfg with values loaded from the JSON file named by the
// -c/-config flag. Absent flag means no JSON is loaded; read or unmarshal
// errors panic, matching the fail-fast startup policy.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.ServerEndpointAddr != "" {
		cfg.ServerEndpointAddr = jc.ServerEndpointAddr
	}
	if jc.RequestTimeout.Duration > 0 {
		cfg.RequestTimeout = time.Duration(jc.RequestTimeout.Duration)
	}
	if jc.CacheDir != "" {
		cfg.CacheDir = jc.CacheDir
	}
}
