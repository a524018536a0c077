// Package commands pkg/commands/errors.go
package commands

import "errors"

var (
	errDuplicateCommand = errors.New("command already registered")
	errInvalidToken     = errors.New("command token must start with '!'")
	errTemplateRead     = errors.New("failed to read command templates")
	errTemplateDecode   = errors.New("failed to decode command templates")
	errTemplateParse    = errors.New("failed to parse command template")
	errTemplateRender   = errors.New("failed to render command template")
	errSenderUnknown    = errors.New("sender not in node directory")
)
