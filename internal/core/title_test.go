package core_test

import (
	"testing"

	"support-console/internal/core"
)

func TestTitleRegister_LastWriterWins(t *testing.T) {
	var tr core.TitleRegister
	if tr.Title() != "" {
		t.Fatalf("initial title = %q", tr.Title())
	}
	tr.SetTitle("Inbox")
	tr.SetTitle("Orders")
	if got := tr.Title(); got != "Orders" {
		t.Errorf("Title = %q, want Orders", got)
	}
}
