package domain

import "fmt"

// Depth is a soil sensor depth in centimetres. Zero selects all depths.
type Depth int

// Depths are the sensor depths with hydraulic parameters, shallow first.
var Depths = []Depth{5, 25, 60}

// ParseDepth accepts 0 (all depths) or one of Depths.
func ParseDepth(cm int) (Depth, error) {
	if cm == 0 {
		return 0, nil
	}
	for _, d := range Depths {
		if int(d) == cm {
			return d, nil
		}
	}
	return 0, fmt.Errorf("%w: %d cm (want 5, 25 or 60)", ErrInvalidDepth, cm)
}

// Suffix is the two-digit column suffix used for the depth, e.g. "05".
func (d Depth) Suffix() string {
	return fmt.Sprintf("%02d", int(d))
}
