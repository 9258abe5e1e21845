// FILE: example/closeopen/main.go
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/lixenwraith/daylog"
)

// Closes and reopens a file logger a few times while logging, then prints the files it produced.
// Records logged while closed only reach the console.
func main() {
	dir, err := os.MkdirTemp("", "daylog-closeopen-")
	if err != nil {
		panic(err)
	}
	defer os.RemoveAll(dir)

	logger, err := daylog.NewBuilder().
		Directory(dir).
		EnableFile(true).
		FileNameFormat("2006-01-02T15-04-05.000").
		Build()
	if err != nil {
		panic(err)
	}

	for round := 0; round < 3; round++ {
		logger.Info("working", "round", round)

		if err := logger.Close(); err != nil {
			fmt.Printf("close error: %v\n", err)
		}
		logger.Info("between files", "round", round)

		// Open is rejected while another transition is running, so retry on state errors
		for {
			err := logger.Open()
			if err == nil {
				break
			}
			if !daylog.IsKind(err, daylog.KindState) {
				panic(err)
			}
			time.Sleep(10 * time.Millisecond)
		}
	}

	logger.Info("done")
	if err := logger.Close(); err != nil {
		fmt.Printf("close error: %v\n", err)
	}

	files, _ := filepath.Glob(filepath.Join(dir, "*.log"))
	for _, f := range files {
		data, _ := os.ReadFile(f)
		fmt.Printf("== %s\n%s", filepath.Base(f), data)
	}
}
