package dictionary

import (
	"errors"
	"fmt"
)

// ErrNoTermBanks is returned when an archive holds no term bank files.
var ErrNoTermBanks = errors.New("no term bank files found in archive")

// ImportTransactionError reports an import whose transaction was rolled
// back. Nothing from the archive is kept in the store.
type ImportTransactionError struct {
	Archive string
	Err     error
}

func (e *ImportTransactionError) Error() string {
	return fmt.Sprintf("import %s rolled back: %v", e.Archive, e.Err)
}

func (e *ImportTransactionError) Unwrap() error {
	return e.Err
}
