// Package config loads the server configuration.
//
// Sources are layered with koanf: built-in defaults, then an optional YAML
// file (config.yaml, or the path in SKILLSPACE_CONFIG), then SKILLSPACE_*
// environment variables. A .env file in the working directory is loaded into
// the environment first.
//
//	SKILLSPACE_DATABASE_PATH=/data/skillspace.db
//	SKILLSPACE_RESOLVER_VERIFY=false
//	SKILLSPACE_RECOMMEND_EXCLUDE=frioux_dotfiles,auto-program_vendor
package config
