package testdb

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"sync"
	"syscall"
	"testing"
)

const (
	// EnvNoCleanup keeps containers running after the tests that started them finish.
	EnvNoCleanup = "TESTDB_NOCLEANUP"
	// EnvBlock keeps the test binary alive until it is interrupted.
	EnvBlock = "TESTDB_BLOCK"
)

var leftovers struct {
	mu  sync.Mutex
	ids []string
}

// keep records a container that was not terminated.
func keep(id string) {
	leftovers.mu.Lock()
	defer leftovers.mu.Unlock()
	leftovers.ids = append(leftovers.ids, id)
}

func keptContainers() []string {
	leftovers.mu.Lock()
	defer leftovers.mu.Unlock()
	return append([]string(nil), leftovers.ids...)
}

// WrapTestMain runs the tests of a package that starts containers through this package. Containers
// left running because TESTDB_NOCLEANUP is set are listed on stderr. With TESTDB_BLOCK set the
// process waits for SIGINT or SIGTERM before exiting, so they can be inspected.
func WrapTestMain(m *testing.M) {
	code := m.Run()
	if ids := keptContainers(); len(ids) > 0 {
		fmt.Fprintf(os.Stderr, "testdb: %s is set, containers left running: %s\n",
			EnvNoCleanup, strings.Join(ids, ", "))
	}
	if envIsTrue(EnvBlock) {
		waitForSignal(code)
	}
	os.Exit(code)
}

func waitForSignal(code int) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	fmt.Fprintf(os.Stderr, "testdb: tests exited with code %d, press CTRL+C to quit\n", code)
	<-ctx.Done()
}

func envIsTrue(key string) bool {
	b, err := strconv.ParseBool(os.Getenv(key))
	return err == nil && b
}
