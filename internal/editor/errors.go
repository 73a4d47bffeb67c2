package editor

import "errors"

var (
	ErrNoEngine            = errors.New("editor engine is not initialized")
	ErrEngineExists        = errors.New("editor engine already initialized")
	ErrEngineDestroyed     = errors.New("editor engine destroyed")
	ErrImageRequestPending = errors.New("image request already pending")
	ErrNoImageRequest      = errors.New("no pending image request")
	ErrStaleImageRequest   = errors.New("image request is no longer pending")
	ErrTargetGone          = errors.New("target block no longer exists")
	ErrNotImageBlock       = errors.New("block is not an image block")
	ErrBlockNotFound       = errors.New("block not found")
	ErrUnknownTool         = errors.New("block type is not registered")
	ErrIndexOutOfRange     = errors.New("block index out of range")
	ErrReadOnly            = errors.New("editor is read-only")
	ErrImageImmutable      = errors.New("image data changes only through image selection")
	ErrImageEmpty          = errors.New("image block has no image")
	ErrUnknownSetting      = errors.New("unknown block setting")

	ErrModalOpen   = errors.New("image modal already open")
	ErrModalClosed = errors.New("image modal is not open")
	ErrModalBusy   = errors.New("image modal is busy")
	ErrUnknownTab  = errors.New("unknown tab")
)
