package service

import "time"

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// addMonths moves t by n months, clamping the day to the target month's
// last day instead of overflowing into the next month.
func addMonths(t time.Time, n int) time.Time {
	y, m, d := t.Date()
	first := time.Date(y, m+time.Month(n), 1, 0, 0, 0, 0, t.Location())
	if last := first.AddDate(0, 1, -1).Day(); d > last {
		d = last
	}
	return time.Date(first.Year(), first.Month(), d, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

// calendarMonths returns January..December of now's year.
func calendarMonths(now time.Time) []Bucket {
	buckets := make([]Bucket, 0, 12)
	for m := time.January; m <= time.December; m++ {
		start := time.Date(now.Year(), m, 1, 0, 0, 0, 0, now.Location())
		buckets = append(buckets, Bucket{
			Label: start.Format("2006-01"),
			Start: start,
			End:   start.AddDate(0, 1, 0).Add(-time.Nanosecond),
		})
	}
	return buckets
}

// trailingMonths returns n one-month windows, oldest first, the last one
// ending at the end of today.
func trailingMonths(now time.Time, n int) []Bucket {
	tomorrow := startOfDay(now).AddDate(0, 0, 1)
	buckets := make([]Bucket, 0, n)
	for i := n; i > 0; i-- {
		start := addMonths(tomorrow, -i)
		end := addMonths(tomorrow, -i+1).Add(-time.Nanosecond)
		buckets = append(buckets, Bucket{Label: end.Format("2006-01"), Start: start, End: end})
	}
	return buckets
}

// trailingWeeks returns n seven-day windows, oldest first, the last one
// ending at the end of today.
func trailingWeeks(now time.Time, n int) []Bucket {
	tomorrow := startOfDay(now).AddDate(0, 0, 1)
	buckets := make([]Bucket, 0, n)
	for i := n; i > 0; i-- {
		start := tomorrow.AddDate(0, 0, -7*i)
		end := tomorrow.AddDate(0, 0, -7*(i-1)).Add(-time.Nanosecond)
		buckets = append(buckets, Bucket{Label: start.Format("2006-01-02"), Start: start, End: end})
	}
	return buckets
}
