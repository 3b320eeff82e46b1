// Package logger provides structured logging on top of zerolog.
//
// Loggers are scoped per component and carry session, participant and channel
// fields so a single relay can be followed across the gateway and the router.
//
// # Configuration
//
//	logging:
//	  level: "info"
//	  format: "json"
//
// # Usage
//
//	log := logger.WithComponent("gateway")
//	log.Info("participant joined", logger.ChannelFields(ch.ID(), sid, pid))
package logger
