// Package errprocess builds the errors a usecase hands back to its
// caller. The returned message is what a client ends up seeing, either
// as a REST error body or as a websocket error event, so it is logged
// at the point of creation.
package errprocess

import (
	"errors"

	"chatterbox_service/pkg/logger"
)

// Set log errMsg and return it as an error
func Set(errMsg string) error {
	logger.Log.Error(errMsg)
	return errors.New(errMsg)
}
