package inbox

import "errors"

var ErrInvalidItem = errors.New("invalid inbox item")
