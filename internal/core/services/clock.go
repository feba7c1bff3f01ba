package services

import "time"

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now().UTC() }

// SystemClock is the wall clock used outside tests.
var SystemClock = systemClock{}
