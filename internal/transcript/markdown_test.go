package transcript

import (
	"strings"
	"testing"
)

func TestBuildMarkdown_EmptyTurns(t *testing.T) {
	if got := BuildMarkdown("Title", nil, false); got != "" {
		t.Errorf("expected empty string, got %q", got)
	}
	if got := BuildMarkdown("Title", []Turn{}, true); got != "" {
		t.Errorf("expected empty string, got %q", got)
	}
}

func TestBuildMarkdown_TitleFallback(t *testing.T) {
	turns := []Turn{{User: "hello"}}
	got := BuildMarkdown("", turns, false)
	if !strings.HasPrefix(got, "# Untitled\n") {
		t.Errorf("missing fallback title:\n%s", got)
	}
	got = BuildMarkdown("   ", turns, false)
	if !strings.HasPrefix(got, "# Untitled\n") {
		t.Errorf("blank title should fall back:\n%s", got)
	}
}

func TestBuildMarkdown_DropLastAssistant(t *testing.T) {
	turns := []Turn{
		{User: "u1", Assistant: "a1"},
		{User: "u2", Assistant: "a2"},
	}
	got := BuildMarkdown("My Chat", turns, true)

	for _, want := range []string{"u1", "a1", "u2"} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
	if strings.Contains(got, "a2") {
		t.Errorf("output should not contain the final assistant text:\n%s", got)
	}
}

func TestBuildMarkdown_KeepLastAssistant(t *testing.T) {
	turns := []Turn{
		{User: "u1", Assistant: "a1"},
		{User: "u2", Assistant: "a2"},
	}
	got := BuildMarkdown("My Chat", turns, false)
	if !strings.Contains(got, "a2") {
		t.Errorf("output should contain the final assistant text:\n%s", got)
	}
}

func TestBuildMarkdown_BlankAssistantOmitted(t *testing.T) {
	turns := []Turn{
		{User: "question", Assistant: "   \n\t"},
	}
	got := BuildMarkdown("T", turns, false)
	if strings.Contains(got, "## Assistant") {
		t.Errorf("blank assistant text should not produce a section:\n%s", got)
	}
	if !strings.Contains(got, "## User") {
		t.Errorf("user section missing:\n%s", got)
	}
}

func TestTruncateAtTurn_ByID(t *testing.T) {
	turns := []Turn{
		{TurnID: "u-0", User: "q0", Assistant: "a0"},
		{TurnID: "u-1", User: "q1", Assistant: "a1"},
		{TurnID: "u-2", User: "q2", Assistant: "a2"},
	}
	got := TruncateAtTurn(turns, "u-1")
	if len(got) != 2 || got[len(got)-1].TurnID != "u-1" {
		t.Fatalf("got %+v, want prefix ending at u-1", got)
	}
}

func TestTruncateAtTurn_LegacyIDMatches(t *testing.T) {
	turns := []Turn{
		{TurnID: "u-0", User: "q0"},
		{TurnID: "u-1-9f2ac1", User: "q1"},
		{TurnID: "u-2", User: "q2"},
	}
	got := TruncateAtTurn(turns, "u-1")
	if len(got) != 2 {
		t.Fatalf("got %d turns, want 2 (legacy id should match after normalization)", len(got))
	}
}

func TestTruncateAtTurn_FallsBackToPosition(t *testing.T) {
	turns := []Turn{
		{User: "q0"},
		{User: "q1"},
		{User: "q2"},
	}
	got := TruncateAtTurn(turns, "u-1")
	if len(got) != 2 || got[1].User != "q1" {
		t.Fatalf("got %+v, want positional prefix of 2", got)
	}
}

func TestTruncateAtTurn_UnknownTurnKeepsAll(t *testing.T) {
	turns := []Turn{{TurnID: "u-0", User: "q0"}}
	if got := TruncateAtTurn(turns, "u-9"); len(got) != 1 {
		t.Errorf("got %d turns, want all when the fork point is beyond the file", len(got))
	}
}

func TestBuildMarkdown_TruncatedSeedEndsAtForkTurn(t *testing.T) {
	turns := []Turn{
		{TurnID: "u-0", User: "q0", Assistant: "a0"},
		{TurnID: "u-1", User: "fork question", Assistant: "fork answer"},
		{TurnID: "u-2", User: "post-fork question", Assistant: "post-fork answer"},
	}
	got := BuildMarkdown("Chat", TruncateAtTurn(turns, "u-1"), true)

	if strings.Contains(got, "post-fork") {
		t.Errorf("seed leaked turns past the fork point:\n%s", got)
	}
	if !strings.Contains(got, "fork question") {
		t.Errorf("seed missing the fork turn's question:\n%s", got)
	}
	// Drop-last applies to the fork turn, not the file's final turn.
	if strings.Contains(got, "fork answer") {
		t.Errorf("fork turn's answer should be dropped:\n%s", got)
	}
	if !strings.Contains(got, "a0") {
		t.Errorf("earlier answers should be kept:\n%s", got)
	}
}

func TestBuildMarkdown_SectionOrder(t *testing.T) {
	turns := []Turn{
		{User: "first question", Assistant: "first answer"},
		{User: "second question", Assistant: "second answer"},
	}
	got := BuildMarkdown("Chat", turns, false)

	order := []string{"# Chat", "## User", "first question", "## Assistant", "first answer", "## User", "second question", "## Assistant", "second answer"}
	pos := 0
	for _, s := range order {
		i := strings.Index(got[pos:], s)
		if i < 0 {
			t.Fatalf("expected %q after position %d:\n%s", s, pos, got)
		}
		pos += i + len(s)
	}
}
