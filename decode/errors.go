package decode

import (
	"fmt"

	"github.com/fxb-gnss/rtcm3decode/errs"
)

var (
	errStationMismatch = fmt.Errorf("%w", errs.ErrStationMismatch)
	errStationFiltered = fmt.Errorf("%w: frame station id does not match -STA= filter", errs.ErrStationMismatch)
	errMsmCellCount    = fmt.Errorf("%w: msm nsat*nsig exceeds 64", errs.ErrFramingShort)
)
