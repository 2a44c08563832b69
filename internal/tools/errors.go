package tools

import "errors"

var (
	errToolNameEmpty  = errors.New("tool name cannot be empty")
	errToolHandlerNil = errors.New("tool handler cannot be nil")
	errDuplicateTool  = errors.New("tool already registered")
)
