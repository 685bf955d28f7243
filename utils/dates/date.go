package dates

import "time"

const (
	ClockFormat = "15:04"
)

// ClockTimeAfter renders the wall clock time minutes after from.
func ClockTimeAfter(from time.Time, minutes int) string {
	return DateToString(from.Add(time.Duration(minutes)*time.Minute), ClockFormat)
}

func DateToString(from time.Time, dateFormat string) string {
	return from.Format(dateFormat)
}
