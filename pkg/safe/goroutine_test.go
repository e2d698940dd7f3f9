package safe

import (
	"sync"
	"testing"
)

func TestDo_RecoversFromPanic(t *testing.T) {
	Do(func() { panic("boom") })
}

func TestGo_RunsFunction(t *testing.T) {
	var wg sync.WaitGroup
	wg.Add(1)
	ran := false
	Go(func() {
		ran = true
		wg.Done()
	})
	wg.Wait()
	if !ran {
		t.Fatal("function did not run")
	}
}
