package lilduino

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestStorageCommands(t *testing.T) {
	r := newRig(t, nil)
	root := r.store.Root()

	r.mustExec("mkdir logs; mkdir logs; store logs/today.txt {hello}")
	data, err := os.ReadFile(filepath.Join(root, "logs", "today.txt"))
	if err != nil || string(data) != "hello" {
		t.Fatalf("stored file = %q, %v", data, err)
	}

	// a non-empty directory is left alone without failing
	r.mustRun("rmdir", "logs")
	if _, err := os.Stat(filepath.Join(root, "logs")); err != nil {
		t.Errorf("logs should still exist: %v", err)
	}

	r.mustRun("rm", "logs/today.txt")
	r.mustRun("rm", "logs/today.txt")
	r.mustRun("rmdir", "logs")
	if _, err := os.Stat(filepath.Join(root, "logs")); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("logs should be gone: %v", err)
	}

	r.expectKind(KindIOFailure, "rmdir", "never-made")
	r.expectKind(KindIOFailure, "store", "../escape.txt", "x")
	r.expectKind(KindArity, "mkdir")
}

func TestInput(t *testing.T) {
	r := newRig(t, nil)
	r.board.Serial.FeedString("Ada\r\n")

	v := r.mustRun("input", "Name?", "")
	if AsString(v) != "Ada" {
		t.Errorf("input = %q, want Ada", v)
	}
	if !strings.HasPrefix(r.output(), "Name? ") {
		t.Errorf("prompt not written: %q", r.output())
	}
}

func TestInputEndOfInput(t *testing.T) {
	r := newRig(t, nil)
	r.board.Serial.FeedString("last")
	r.board.Serial.CloseInput()

	if v := r.mustRun("input"); AsString(v) != "last" {
		t.Errorf("input = %q, want the unterminated line", v)
	}
	ce := r.expectKind(KindIOFailure, "input")
	if ce.Message != "End of input" {
		t.Errorf("message = %q", ce.Message)
	}
}

func TestInputInterrupt(t *testing.T) {
	r := newRig(t, nil)
	r.board.Serial.FeedString("~")

	ce := r.expectKind(KindInterrupted, "input")
	if ce.Message != "Keyboard interrupt" {
		t.Errorf("message = %q", ce.Message)
	}
}

func TestInputOutOfMemory(t *testing.T) {
	r := newRig(t, func(c *Config) {
		c.InputChunk = 4
		c.InputLimit = 8
	})
	r.board.Serial.FeedString("this line is far too long\n")

	r.expectKind(KindOutOfMemory, "input")
}

func TestCheckInterruptIgnoresInput(t *testing.T) {
	r := newRig(t, nil)
	r.board.Serial.FeedString("abc\n")

	cb := StorageCallbacks(nil, r.board.Serial)
	if cb.ReadFile != nil || cb.StoreFile != nil {
		t.Error("file callbacks should be unbound without a store")
	}
	if cb.CheckInterrupt() {
		t.Error("a waiting line is not an interrupt")
	}
	if r.board.Serial.Available() != 4 {
		t.Error("CheckInterrupt must not consume ordinary input")
	}
}
