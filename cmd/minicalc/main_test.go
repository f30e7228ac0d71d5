package main

import (
	"testing"
	"time"
)

func TestShutdownOnSignal_StopReturns(t *testing.T) {
	application := newBatchApp(t, "")
	stop := shutdownOnSignal(application)

	returned := make(chan struct{})
	go func() {
		stop()
		close(returned)
	}()

	select {
	case <-returned:
	case <-time.After(2 * time.Second):
		t.Fatal("signal goroutine did not exit after stop")
	}
	if application.IsRunning() {
		t.Error("application should not be running")
	}
}
