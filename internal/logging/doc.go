// Package logging provides a simple leveled logging interface for the
// media preview server, backed by a zap console logger.
//
// It supports the following log levels:
//   - DEBUG: Verbose debugging information
//   - INFO: General operational messages
//   - WARN: Warning conditions
//   - ERROR: Error conditions
//   - FATAL: Fatal errors that terminate the application
//
// The initial level comes from the DEBUG or LOG_LEVEL environment variables
// and can be changed at runtime with SetLevel.
package logging
