package main

import (
	"fmt"
	"runtime"

	"github.com/rs/zerolog"
)

// Run starts f on its own goroutine. A panic in f is logged with its stack and
// reported through done as an error.
func Run(log zerolog.Logger, done func(error), f func() error) {
	go func() {
		defer Recover(log, done)
		done(f())
	}()
}

func Recover(log zerolog.Logger, done func(error)) {
	if r := recover(); r != nil {
		done(HandlePanic(log, r))
	}
}

func HandlePanic(log zerolog.Logger, panic any) error {
	buf := make([]byte, 100000)
	n := runtime.Stack(buf, false)
	buf = buf[:n]

	log.Error().Str("stack", string(buf)).Msgf("panic: %v", panic)

	return fmt.Errorf("panic: %v", panic)
}
