// Package service contains the application services orchestrating sync and
// analysis runs.
package service

import "errors"

// ErrClientClosed indicates the client has been closed.
var ErrClientClosed = errors.New("finetune: client is closed")
