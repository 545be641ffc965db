package rangeutil

import (
	"fmt"

	"github.com/openms-go/mscore/internal/errs"
)

func errInvalidExtendFactor(factor float64) error {
	return errs.New(errs.InvalidValue, fmt.Sprintf("extend factor must be >= 0, got %v", factor))
}
