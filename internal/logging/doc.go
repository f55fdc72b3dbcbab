// Package logging wraps a global zerolog logger.
//
// Logs always go to stderr by default because the MCP transport owns stdout.
//
//	logging.Init(logging.Config{Level: "debug", Format: "console"})
//	log := logging.Component("snapshot")
//	log.Info().Int("projects", n).Msg("snapshot loaded")
package logging
