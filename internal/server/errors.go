package server

import "errors"

// Sentinel errors for supervisor operations.
var (
	ErrInstallationFailed   = errors.New("server installation failed")
	ErrServerBinaryNotFound = errors.New("server binary not found")
	ErrSpawnFailed          = errors.New("failed to spawn server process")
	ErrNoActiveServer       = errors.New("no active server")
)
