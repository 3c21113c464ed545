package moderation

import "fmt"

// FormatDuration renders d as H:MM:SS, prefixed with a day count when d spans
// a day or more. Whole days drop the clock part: "3 days".
func FormatDuration(d ResolvedDuration) string {
	days := d.Seconds / 86400
	rem := d.Seconds % 86400
	clock := fmt.Sprintf("%d:%02d:%02d", rem/3600, (rem%3600)/60, rem%60)
	if days == 0 {
		return clock
	}
	unit := "days"
	if days == 1 {
		unit = "day"
	}
	if rem == 0 {
		return fmt.Sprintf("%d %s", days, unit)
	}
	return fmt.Sprintf("%d %s, %s", days, unit, clock)
}

func Mention(userID string) string {
	return "<@" + userID + ">"
}
