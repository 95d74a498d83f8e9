package lilduino

import (
	"bytes"
	"reflect"
	"strings"
	"testing"
)

func newBufferedLogger(enabled bool) (*Logger, *bytes.Buffer, *bytes.Buffer) {
	var out, errOut bytes.Buffer
	l := NewLogger(enabled)
	l.SetOutput(&out, &errOut)
	return l, &out, &errOut
}

func TestLoggerDebugNeedsEnabledCategory(t *testing.T) {
	l, out, _ := newBufferedLogger(false)
	l.EnableCategory(CatRadio)
	l.DebugCat(CatRadio, "hidden while disabled")
	if out.Len() != 0 {
		t.Errorf("disabled logger wrote %q", out.String())
	}

	l.SetEnabled(true)
	l.DebugCat(CatRadio, "joining %s", "home")
	l.DebugCat(CatStorage, "not enabled")
	if got := out.String(); got != "[DEBUG:radio] joining home\n" {
		t.Errorf("output = %q", got)
	}

	out.Reset()
	l.DisableCategory(CatRadio)
	l.DebugCat(CatRadio, "gone")
	l.DebugCat(CatNone, "uncategorized")
	if got := out.String(); got != "[DEBUG] uncategorized\n" {
		t.Errorf("output = %q", got)
	}
}

func TestLoggerWarningsAlwaysShow(t *testing.T) {
	l, out, errOut := newBufferedLogger(false)

	l.WarnCat(CatStorage, "rmdir %s: not empty", "logs")
	l.ErrorCat(CatNone, "boom")
	l.NoticeCat(CatRadio, "joined")
	pos := &SourcePosition{Line: 3, Column: 5, Offset: 42, Filename: "boot.lil"}
	l.CommandWarning(CatCommand, "gpio", "bad pin", pos)
	l.CommandFailure(CatCommand, "gpio", "hidden while disabled", pos)

	if out.Len() != 0 {
		t.Errorf("warnings leaked to the debug stream: %q", out.String())
	}
	want := "[lilduino:storage WARN] rmdir logs: not empty\n" +
		"[lilduino ERROR] boom\n" +
		"[lilduino:radio NOTICE] joined\n" +
		"[lilduino:command WARN] GPIO: bad pin\n  at boot.lil:3:5 (pos 42)\n"
	if got := errOut.String(); got != want {
		t.Errorf("output =\n%q\nwant\n%q", got, want)
	}
}

func TestCommandFailureIsDebugOutput(t *testing.T) {
	l, out, errOut := newBufferedLogger(true)
	l.EnableCategory(CatShell)

	pos := &SourcePosition{Line: 1, Column: 7, Offset: 6, Filename: "boot.lil"}
	l.CommandFailure(CatShell, "ir send", "ir.txpin is not defined", pos)
	l.CommandFailure(CatShell, "", "Keyboard interrupt", nil)

	want := "[DEBUG:shell] IR SEND: ir.txpin is not defined\n  at boot.lil:1:7 (pos 6)\n" +
		"[DEBUG:shell] Keyboard interrupt\n"
	if got := out.String(); got != want {
		t.Errorf("output =\n%q\nwant\n%q", got, want)
	}
	if errOut.Len() != 0 {
		t.Errorf("a command failure is not a warning: %q", errOut.String())
	}
}

func TestEnableCategoryNames(t *testing.T) {
	l := NewLogger(true)

	unknown := l.EnableCategoryNames([]string{"Radio", " io ", "lasers"})
	if !reflect.DeepEqual(unknown, []string{"lasers"}) {
		t.Errorf("unknown = %v", unknown)
	}
	if !l.IsCategoryEnabled(CatRadio) || !l.IsCategoryEnabled(CatIO) {
		t.Error("radio and io should be enabled")
	}
	if l.IsCategoryEnabled(CatShell) {
		t.Error("shell should not be enabled")
	}

	l.EnableCategoryNames([]string{"all"})
	for _, cat := range allCategories {
		if !l.IsCategoryEnabled(cat) {
			t.Errorf("%s should be enabled by all", cat)
		}
	}
}

func TestBridgeLogsArityRejections(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Debug = true
	cfg.LogCategories = []string{"argument"}
	b, err := New(cfg, nil, Callbacks{Write: func(string) {}})
	if err != nil {
		t.Fatal(err)
	}
	var out bytes.Buffer
	b.Logger().SetOutput(&out, &out)
	b.RegisterCommand("pair", WithArity(Exactly(2), func(ctx *Context) Result { return BoolStatus(true) }))

	_, _ = b.Dispatch("pair", Strings("one"), nil)
	if !strings.Contains(out.String(), "[DEBUG:argument] expected 2 args to pair, got 1") {
		t.Errorf("output = %q", out.String())
	}
}
