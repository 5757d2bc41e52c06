package core

import (
	"io"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStdinGate(t *testing.T) {
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()
	defer w.Close()

	gate := newStdinGate(r)
	type result struct {
		data string
		err  error
	}
	results := make(chan result, 1)
	read := func() {
		buf := make([]byte, 16)
		n, err := gate.Read(buf)
		results <- result{string(buf[:n]), err}
	}

	// Shut gate: input stays in the pipe.
	go read()
	_, err = w.Write([]byte("ls\n"))
	assert.Nil(t, err)
	select {
	case res := <-results:
		t.Fatalf("read through a shut gate: %q", res.data)
	case <-time.After(3 * gatePollMillis * time.Millisecond):
	}

	// Opening the gate releases the pending read.
	gate.SetOpen(true)
	select {
	case res := <-results:
		assert.Nil(t, res.err)
		assert.Equal(t, "ls\n", res.data)
	case <-time.After(5 * time.Second):
		t.Fatal("read didn't complete once the gate opened")
	}

	// Closing ends pending reads.
	gate.SetOpen(false)
	go read()
	gate.Close()
	select {
	case res := <-results:
		assert.Equal(t, io.EOF, res.err)
	case <-time.After(5 * time.Second):
		t.Fatal("read didn't end once the gate closed")
	}
}

func TestIsTerminal(t *testing.T) {
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()
	defer w.Close()

	assert.False(t, IsTerminal(r))
	assert.False(t, IsTerminal(nil))
}
