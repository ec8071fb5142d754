package main

import "time"

// stepDurationResolution trims sub-millisecond noise from reported timings.
const stepDurationResolution = time.Millisecond

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}

func passFail(passed bool) string {
	if passed {
		return "pass"
	}
	return "FAIL"
}

func okMissing(available bool) string {
	if available {
		return "ok"
	}
	return "missing"
}
