//go:build unix

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestServeSIGTERM(t *testing.T) {
	// Keep SIGTERM from killing the test binary if it arrives before serve
	// starts watching for it.
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGTERM)
	defer signal.Stop(sig)

	addr := freeAddr(t)
	done := startServe(context.Background(), addr)
	awaitHealthy(t, addr, done)

	// Repeat the signal in case the first one lands before serve subscribes.
	tick := time.NewTicker(100 * time.Millisecond)
	defer tick.Stop()
	timeout := time.After(10 * time.Second)
	for {
		if err := syscall.Kill(os.Getpid(), syscall.SIGTERM); err != nil {
			t.Fatal(err)
		}
		select {
		case err := <-done:
			assert.NoError(t, err)
			return
		case <-timeout:
			t.Fatal("serve did not return after SIGTERM")
		case <-tick.C:
		}
	}
}
