package views

import (
	"strings"
	"testing"
)

func TestRenderTimerPanelStatusMode(t *testing.T) {
	out := RenderTimerPanel(TimerPanelData{
		Title:       "tea",
		ShortID:     "abcd1234",
		State:       "Running",
		Time:        "4:59",
		ShowElapsed: true,
		Elapsed:     "0:01",
		Sound:       "Bell",
		Flags:       []string{"loop timer"},
	})
	for _, want := range []string{"timer: tea [abcd1234]", "state: [RUN]", "4:59", "elapsed: 0:01", "sound: Bell", "options: loop timer"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in:\n%s", want, out)
		}
	}
	if strings.Contains(out, "close anyway") {
		t.Fatalf("did not expect close prompt:\n%s", out)
	}
}

func TestRenderTimerPanelInputModeShowsError(t *testing.T) {
	out := RenderTimerPanel(TimerPanelData{
		ShortID:   "abcd1234",
		InputMode: true,
		InputView: "> 5 parsecs",
		ErrorText: "invalid timer input",
		Sound:     "None",
	})
	if !strings.Contains(out, "(untitled)") || !strings.Contains(out, "> 5 parsecs") {
		t.Fatalf("unexpected input panel:\n%s", out)
	}
	if !strings.Contains(out, "invalid timer input") {
		t.Fatalf("expected validation error:\n%s", out)
	}
}

func TestRenderMenuMarksTogglesAndCursor(t *testing.T) {
	out := RenderMenu(MenuData{
		Items: []MenuItemData{
			{Label: "New timer"},
			{Label: "Loop timer", Toggle: true, Checked: true, Selected: true},
			{Label: "Sound", Submenu: true},
		},
		SoundOpen: true,
		Sounds:    []MenuItemData{{Label: "None", Toggle: true}, {Label: "Bell", Toggle: true, Checked: true}},
	})
	for _, want := range []string{"[x] Loop timer", "Sound >", "sound:", "[ ] None", "[x] Bell"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in:\n%s", want, out)
		}
	}
}

func TestRenderTabsHiddenForSingleWindow(t *testing.T) {
	if got := RenderTabs([]TabData{{Label: "tea", Active: true}}); got != "" {
		t.Fatalf("expected no tab bar, got %q", got)
	}
	out := RenderTabs([]TabData{{Label: "tea", State: "Running", Active: true}, {Label: "eggs", State: "Expired"}})
	if !strings.Contains(out, "1:tea [RUN]") || !strings.Contains(out, "2:eggs [DONE]") {
		t.Fatalf("unexpected tabs: %q", out)
	}
}

func TestRenderDetached(t *testing.T) {
	if RenderDetached(nil) != "" {
		t.Fatal("expected empty render for no detached timers")
	}
	out := RenderDetached([]DetachedTimerData{{ShortID: "abcd1234", State: "Paused", Time: "1:00"}})
	if !strings.Contains(out, "abcd1234 [PAUSE] 1:00 (untitled)") {
		t.Fatalf("unexpected detached list:\n%s", out)
	}
}

func TestRenderAppSinglePane(t *testing.T) {
	out := RenderApp(AppData{Header: "countdown", LeftPane: "timer", StatusLine: "ready", Footer: "q quit"})
	for _, want := range []string{"countdown", "timer", "ready", "q quit"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in:\n%s", want, out)
		}
	}
}

func TestRenderFullScreenWithoutSize(t *testing.T) {
	out := RenderFullScreen(FullScreenData{Title: "tea", Time: "4:59", State: "Running"})
	if !strings.Contains(out, "4:59") || !strings.Contains(out, "tea") {
		t.Fatalf("unexpected full screen render:\n%s", out)
	}
}

func TestRenderMarkdown(t *testing.T) {
	if out := RenderMarkdown("  "); out != "" {
		t.Fatalf("expected empty output for blank markdown, got %q", out)
	}
	out := RenderMarkdown("# countdown\n\nversion **dev**")
	if !strings.Contains(out, "countdown") || !strings.Contains(out, "dev") {
		t.Fatalf("expected rendered heading and body, got %q", out)
	}
}
