package finance

import "time"

// exchangeLocation returns the exchange timezone, falling back to the fixed GMT offset if tzdata is missing.
func exchangeLocation(name string, gmtOffset int) *time.Location {
	if name != "" {
		if loc, err := time.LoadLocation(name); err == nil {
			return loc
		}
	}
	return time.FixedZone("EXCH", gmtOffset)
}

// tradingDay maps a Yahoo bar timestamp to its trading date in the exchange timezone.
func tradingDay(ts int64, loc *time.Location) time.Time {
	y, m, d := time.Unix(ts, 0).In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
