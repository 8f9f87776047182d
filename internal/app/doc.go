// Package app wires the application together: configuration, structured
// logging, the procurement cache manager, the service layer and the chi
// router, plus graceful server lifecycle handling.
package app
