package main

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/vvka-141/aipx/internal/cli"
	"github.com/vvka-141/aipx/pkg/aipx"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "panic: %v\n%s\n", r, debug.Stack())
			os.Exit(aipx.ExitPanic)
		}
	}()

	if os.Getenv("AIPX_TEST_PANIC") == "1" {
		panic("intentional test panic")
	}

	if err := cli.Execute(); err != nil {
		os.Exit(aipx.ExitCodeForError(err))
	}
}
