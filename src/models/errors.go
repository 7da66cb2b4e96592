package models

import "errors"

// ErrFieldMissing means a recognized document did not yield every required
// field (trade type, date, quantity, price). The document is skipped as a
// whole; partial records never reach the merger.
var ErrFieldMissing = errors.New("required field missing")
