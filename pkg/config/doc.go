// Package config loads the sgviz TOML configuration file.
//
// Settings are layered: built-in defaults, then the file, then command-line
// flags applied by the caller. The file lives at $SGVIZ_CONFIG when set,
// otherwise at $XDG_CONFIG_HOME/sgviz/config.toml (~/.config/sgviz by
// default):
//
//	[force]
//	repulsion = -150.0
//	link_distance = 50.0
//	reheat_alpha = 0.3
//	ticks = 300
//
//	[bundle]
//	beta = 0.85
//	radius_margin = 100.0
//
//	[render]
//	formats = ["svg", "json"]
//
//	[cache]
//	backend = "redis"
//	redis_addr = "localhost:6379"
//	ttl = "24h"
//
//	[server]
//	addr = ":8080"
//
// Keys missing from the file keep their defaults. [Config.Validate] rejects
// out-of-range values with an INVALID_CONFIG error.
package config
