package visibility

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/otcheredev/axis-clinic-core/internal/models"
)

const (
	minutesPerHour = 60
	noon           = 12 * minutesPerHour

	// unparseableRank sorts times without any numeric prefix last
	unparseableRank = math.MaxInt32
)

// MinuteOfDay converts a display time such as "9:00 AM", "12:30 PM" or
// "14:05" into minutes after midnight.
//
// A PM marker adds twelve hours except on the 12 o'clock hour, and 12 AM is
// midnight. A string that doesn't parse cleanly reports ok=false and falls
// back to its leading number taken as an hour, or sorts last if it has none.
func MinuteOfDay(display string) (minutes int, ok bool) {
	s := strings.ToUpper(strings.TrimSpace(display))

	marker := ""
	switch {
	case strings.HasSuffix(s, "AM"):
		marker = "AM"
	case strings.HasSuffix(s, "PM"):
		marker = "PM"
	}
	clock := strings.TrimSpace(strings.TrimSuffix(s, marker))

	hourPart, minutePart, hasMinutes := strings.Cut(clock, ":")
	hour, herr := strconv.Atoi(hourPart)
	minute := 0
	var merr error
	if hasMinutes {
		minute, merr = strconv.Atoi(minutePart)
		if len(minutePart) != 2 {
			merr = strconv.ErrSyntax
		}
	}

	valid := herr == nil && merr == nil && minute >= 0 && minute < minutesPerHour && hour >= 0
	if valid && marker != "" {
		valid = hour >= 1 && hour <= 12
	}
	if valid && marker == "" {
		valid = hour <= 23
	}
	if !valid {
		return numericPrefixRank(s), false
	}

	switch marker {
	case "PM":
		if hour != 12 {
			hour += 12
		}
	case "AM":
		if hour == 12 {
			hour = 0
		}
	}
	return hour*minutesPerHour + minute, true
}

func numericPrefixRank(s string) int {
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 {
		return unparseableRank
	}
	hour, err := strconv.Atoi(s[:end])
	if err != nil || hour > 9999 {
		return unparseableRank
	}
	return hour * minutesPerHour
}

// SortByTime returns a copy of appointments ordered by time of day.
// Equal times keep their input order.
func SortByTime(appointments []models.Appointment) []models.Appointment {
	out := make([]models.Appointment, len(appointments))
	copy(out, appointments)

	keys := make(map[string]int, len(out))
	rank := func(a models.Appointment) int {
		if k, ok := keys[a.Time]; ok {
			return k
		}
		k, _ := MinuteOfDay(a.Time)
		keys[a.Time] = k
		return k
	}

	sort.SliceStable(out, func(i, j int) bool {
		return rank(out[i]) < rank(out[j])
	})
	return out
}
