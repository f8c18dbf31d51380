package types

import (
	"strconv"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
)

// ParseUTCOffset parses a fixed-offset timezone string as stored in user
// schedule settings, e.g. "UTC", "UTC+2", "UTC-5" or "UTC+05:30". The value is
// a declared fixed offset, not an IANA zone; no DST rules apply.
func ParseUTCOffset(raw string) (time.Duration, error) {
	s := strings.TrimSpace(raw)
	if s == "" || strings.EqualFold(s, "UTC") {
		return 0, nil
	}

	if strings.HasPrefix(strings.ToUpper(s), "UTC") {
		s = s[3:]
	}
	if s == "" {
		return 0, nil
	}

	sign := time.Duration(1)
	switch s[0] {
	case '+':
		s = s[1:]
	case '-':
		sign = -1
		s = s[1:]
	default:
		return 0, goerr.New("timezone offset must start with + or -", goerr.V("timezone", raw))
	}

	hourPart := s
	minutePart := ""
	if idx := strings.IndexByte(s, ':'); idx >= 0 {
		hourPart = s[:idx]
		minutePart = s[idx+1:]
	}

	hours, err := strconv.Atoi(hourPart)
	if err != nil {
		return 0, goerr.Wrap(err, "invalid timezone offset hours", goerr.V("timezone", raw))
	}
	if hours < 0 || hours > 14 {
		return 0, goerr.New("timezone offset hours out of range", goerr.V("timezone", raw))
	}

	var minutes int
	if minutePart != "" {
		minutes, err = strconv.Atoi(minutePart)
		if err != nil {
			return 0, goerr.Wrap(err, "invalid timezone offset minutes", goerr.V("timezone", raw))
		}
		if minutes < 0 || minutes > 59 {
			return 0, goerr.New("timezone offset minutes out of range", goerr.V("timezone", raw))
		}
	}

	return sign * (time.Duration(hours)*time.Hour + time.Duration(minutes)*time.Minute), nil
}
