package internal

import (
	"github.com/atotto/clipboard"
	"github.com/google/uuid"
)

// GenerateUUID creates a new UUID.
func GenerateUUID() string {
	return uuid.New().String()
}

// CopyToClipboard puts text on the system clipboard. Headless hosts have no
// clipboard; callers log the error and carry on.
func CopyToClipboard(text string) error {
	if clipboard.Unsupported {
		return errClipboardUnsupported
	}
	return clipboard.WriteAll(text)
}
