package portfolio

import "time"

const kolkataTimeZoneName = "Asia/Kolkata"

var kolkataLocation = loadKolkataLocation()

func loadKolkataLocation() *time.Location {
	location, err := time.LoadLocation(kolkataTimeZoneName)
	if err != nil {
		return time.FixedZone(kolkataTimeZoneName, 5*60*60+30*60)
	}
	return location
}

// NowIST returns the current time in Asia/Kolkata, where both NSE quotes and
// AMFI NAV publications are dated.
func NowIST() time.Time {
	return time.Now().In(kolkataLocation)
}

// TodayISOInIST returns the current date as YYYY-MM-DD in Asia/Kolkata.
func TodayISOInIST() string {
	return NowIST().Format("2006-01-02")
}

// NowRFC3339InIST returns the current RFC3339 timestamp in Asia/Kolkata.
func NowRFC3339InIST() string {
	return NowIST().Format(time.RFC3339)
}
