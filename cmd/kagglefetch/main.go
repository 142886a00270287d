package main

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/vvka-141/kagglefetch/internal/cli"
	"github.com/vvka-141/kagglefetch/pkg/kagglefetch"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "panic: %v\n%s\n", r, debug.Stack())
			os.Exit(kagglefetch.ExitPanic)
		}
	}()

	if os.Getenv("KAGGLEFETCH_TEST_PANIC") == "1" {
		panic("intentional test panic")
	}

	if err := cli.Execute(); err != nil {
		os.Exit(kagglefetch.ExitCodeForError(err))
	}
}
