package script

import (
	"errors"

	"github.com/ezrec/retrovm/translate"
)

var f = translate.From

var (
	// Script errors
	ErrAddressRange = errors.New(f("address out of memory range"))
)
