/*-
 * Copyright 2025 Carver Automation Corporation.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package config pkg/config/config.go
package config

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/spf13/viper"
)

var (
	errInvalidConfig = errors.New("invalid configuration")
	errReadConfig    = errors.New("failed to read config")
	errDecodeConfig  = errors.New("failed to decode config")
)

// EnvPrefix prefixes environment overrides, e.g. MESHBOT_ROUTER_QUEUE_SIZE.
const EnvPrefix = "MESHBOT"

func setDefaults(v *viper.Viper) {
	v.SetDefault("meshtastic.address", "")
	v.SetDefault("meshtastic.heartbeat_interval", "5m")
	v.SetDefault("meshtastic.reconnect_initial", "5s")
	v.SetDefault("meshtastic.reconnect_max", "5m")
	v.SetDefault("meshtastic.reconnect_multiplier", 1.5)
	v.SetDefault("meshtastic.max_reconnect_attempts", 0)
	v.SetDefault("meshtastic.max_buffered", 1000)
	v.SetDefault("meshtastic.replay_rate", 2.0)

	v.SetDefault("admin_nodes", []string{})

	v.SetDefault("router.daily_reset_at", "00:00")
	v.SetDefault("router.queue_size", 256)
	v.SetDefault("router.handler_timeout", "30s")
	v.SetDefault("router.mirror_queue_size", 256)
	v.SetDefault("router.online_threshold", "2h")

	v.SetDefault("data.dir", "data")
	v.SetDefault("data.node_store", NodeStoreMemory)
	v.SetDefault("data.database", "meshbot.db")
	v.SetDefault("data.nodes_snapshot", "nodes.json")
	v.SetDefault("data.telemetry_snapshot", "telemetry.json")
	v.SetDefault("data.snapshot_interval", "5m")
	v.SetDefault("data.retention", "720h")
	v.SetDefault("data.templates_file", "")

	v.SetDefault("storage.enabled", false)
	v.SetDefault("storage.base_url", "")
	v.SetDefault("storage.token", "")
	v.SetDefault("storage.failed_packets_dir", "failed_packets")
	v.SetDefault("storage.timeout", "10s")
	v.SetDefault("storage.requests_per_second", 10.0)

	v.SetDefault("api.enabled", false)
	v.SetDefault("api.listen_addr", ":8090")

	v.SetDefault("health.enabled", false)
	v.SetDefault("health.listen_addr", ":50051")
}

// Load reads the JSON or YAML file at path, applies MESHBOT_* environment
// overrides and validates the result. An empty path searches for
// meshbot.{json,yaml} in the working directory, ./config and /etc/meshbot;
// finding none leaves the defaults in place.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Variables predating the MESHBOT_ prefix.
	_ = v.BindEnv("meshtastic.address", EnvPrefix+"_MESHTASTIC_ADDRESS", "MESHTASTIC_IP")
	_ = v.BindEnv("admin_nodes", EnvPrefix+"_ADMIN_NODES", "ADMIN_NODES")

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("meshbot")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/etc/meshbot/")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("%w: %w", errReadConfig, err)
		}

		log.Printf("No config file found, using defaults and environment")
	} else {
		log.Printf("Using config file: %s", v.ConfigFileUsed())
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("%w: %w", errDecodeConfig, err)
	}

	if err := ValidateConfig(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// ValidateConfig validates a configuration if it implements Validator.
func ValidateConfig(cfg interface{}) error {
	if v, ok := cfg.(Validator); ok {
		return v.Validate()
	}

	return nil
}
