package cache

import (
	"errors"
	"testing"
	"time"
)

func TestResultWait(t *testing.T) {
	r := newResult()
	go func() {
		time.Sleep(10 * time.Millisecond)
		r.resolve(nil)
	}()

	if err := r.Wait(); err != nil {
		t.Fatalf("Wait returned %v", err)
	}
	// Wait after resolution returns immediately with the same outcome.
	if err := r.Wait(); err != nil {
		t.Fatalf("Second Wait returned %v", err)
	}
}

func TestResultCarriesError(t *testing.T) {
	cause := errors.New("boom")
	r := resolvedResult(cause)

	select {
	case <-r.Done():
	default:
		t.Fatal("Done channel should be closed for a resolved result")
	}
	if err := r.Wait(); !errors.Is(err, cause) {
		t.Fatalf("Wait returned %v", err)
	}
}

func TestLookupWait(t *testing.T) {
	l := newLookup[string]()
	go func() {
		l.resolve("v", true, nil)
	}()

	value, found, err := l.Wait()
	if err != nil || !found || value != "v" {
		t.Fatalf("Wait returned (%q, %v, %v)", value, found, err)
	}
}

func TestLookupAbsent(t *testing.T) {
	l := newLookup[int]()
	l.resolve(0, false, nil)

	value, found, err := l.Wait()
	if err != nil || found || value != 0 {
		t.Fatalf("Wait returned (%d, %v, %v)", value, found, err)
	}
}
