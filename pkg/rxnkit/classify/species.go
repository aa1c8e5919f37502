package classify

import (
	"strconv"
	"strings"
)

// Species is what the default predicates can recover from a species identifier.
type Species struct {
	ID          string
	Formula     string
	Charge      int
	ChargeKnown bool
}

// ParseSpecies decodes the two identifier conventions found in the inputs:
//
//	HiPRGen:     <hash>-<formula>-<charge>-<spin>   (charge "m1" means -1)
//	Kinetiscope: <formula>_<charge>[_#n]            (e.g. "C4H8_0_#2", "C4H8_-1")
//
// Anything else is returned with ChargeKnown false.
func ParseSpecies(id string) Species {
	sp := Species{ID: id, Formula: id}

	if parts := strings.Split(id, "-"); len(parts) >= 4 {
		if q, ok := parseCharge(parts[len(parts)-2]); ok {
			sp.Formula = parts[len(parts)-3]
			sp.Charge = q
			sp.ChargeKnown = true
			return sp
		}
	}

	if parts := strings.Split(id, "_"); len(parts) >= 2 {
		if q, ok := parseCharge(parts[1]); ok {
			sp.Formula = parts[0]
			sp.Charge = q
			sp.ChargeKnown = true
		}
	}
	return sp
}

func parseCharge(s string) (int, bool) {
	if strings.HasPrefix(s, "m") {
		n, err := strconv.Atoi(s[1:])
		if err != nil {
			return 0, false
		}
		return -n, true
	}
	n, err := strconv.Atoi(strings.TrimPrefix(s, "+"))
	if err != nil {
		return 0, false
	}
	return n, true
}
