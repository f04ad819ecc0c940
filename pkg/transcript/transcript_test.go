package transcript

import (
	"EllaBooking/internal/entity"
	"fmt"
	"testing"
)

func msg(role entity.Role, text string) entity.Message {
	return entity.Message{ID: text, Role: role, Text: text}
}

func TestAppendKeepsOrder(t *testing.T) {
	tr := New(msg(entity.RoleAssistant, "hello"))
	tr.Append(msg(entity.RoleUser, "book"))
	tr.Append(msg(entity.RoleAssistant, "account?"))

	got := tr.Messages()
	want := []string{"hello", "book", "account?"}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i].Text != want[i] {
			t.Fatalf("message %d = %q, want %q", i, got[i].Text, want[i])
		}
	}

	last, ok := tr.Last()
	if !ok || last.Text != "account?" {
		t.Fatalf("Last() = %+v, %v", last, ok)
	}
}

func TestSnapshotIsIsolated(t *testing.T) {
	quick := []entity.QuickReply{{Label: "Yes", Value: "yes"}}
	tr := New()
	tr.Append(entity.Message{ID: "1", Text: "pets?", QuickReplies: quick})

	quick[0].Label = "changed"
	snap := tr.Messages()
	snap[0].Text = "changed"

	again := tr.Messages()
	if again[0].Text != "pets?" || again[0].QuickReplies[0].Label != "Yes" {
		t.Fatalf("stored message was mutated: %+v", again[0])
	}
}

func TestSubscribeReplaysThenStreams(t *testing.T) {
	tr := New(msg(entity.RoleAssistant, "hello"))

	history, ch, cancel := tr.Subscribe(4)
	defer cancel()

	if len(history) != 1 || history[0].Text != "hello" {
		t.Fatalf("history = %+v", history)
	}

	tr.Append(msg(entity.RoleUser, "book"))
	tr.Append(msg(entity.RoleAssistant, "account?"))

	for _, want := range []string{"book", "account?"} {
		got := <-ch
		if got.Text != want {
			t.Fatalf("streamed %q, want %q", got.Text, want)
		}
	}
}

func TestCancelClosesChannel(t *testing.T) {
	tr := New()
	_, ch, cancel := tr.Subscribe(1)

	cancel()
	cancel()

	if _, ok := <-ch; ok {
		t.Fatal("channel still open after cancel")
	}
	tr.Append(msg(entity.RoleUser, "after"))
	if tr.Len() != 1 {
		t.Fatalf("len = %d", tr.Len())
	}
}

func TestSlowSubscriberIsDropped(t *testing.T) {
	tr := New()
	_, slow, cancelSlow := tr.Subscribe(1)
	defer cancelSlow()
	_, fast, cancelFast := tr.Subscribe(8)
	defer cancelFast()

	for i := 0; i < 3; i++ {
		tr.Append(msg(entity.RoleUser, fmt.Sprint(i)))
	}

	count := 0
	for range slow {
		count++
	}
	if count != 1 {
		t.Fatalf("slow subscriber received %d messages before disconnect, want 1", count)
	}

	for i := 0; i < 3; i++ {
		if got := <-fast; got.Text != fmt.Sprint(i) {
			t.Fatalf("fast subscriber got %q at %d", got.Text, i)
		}
	}
}

func TestCloseDisconnectsSubscribers(t *testing.T) {
	tr := New()
	_, ch, cancel := tr.Subscribe(1)

	tr.Close()
	cancel()

	if _, ok := <-ch; ok {
		t.Fatal("expected closed channel")
	}
}
