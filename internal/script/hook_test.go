package script

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"
)

func TestHookSetsFlags(t *testing.T) {
	h, err := Compile(`flags["met_elder"] = true`)
	if err != nil {
		t.Fatalf("Compile() failed: %v", err)
	}

	in := map[string]bool{"old": true}
	res, err := h.Run(context.Background(), Env{NPC: "elder", Visits: 1, Flags: in})
	if err != nil {
		t.Fatalf("Run() failed: %v", err)
	}

	want := map[string]bool{"old": true, "met_elder": true}
	if !reflect.DeepEqual(res.Flags, want) {
		t.Errorf("Flags = %v, want %v", res.Flags, want)
	}
	if len(in) != 1 {
		t.Errorf("input flags were modified: %v", in)
	}
}

func TestHookClearsFlag(t *testing.T) {
	h, err := Compile(`flags["door_open"] = false`)
	if err != nil {
		t.Fatalf("Compile() failed: %v", err)
	}

	res, err := h.Run(context.Background(), Env{Flags: map[string]bool{"door_open": true}})
	if err != nil {
		t.Fatalf("Run() failed: %v", err)
	}
	if res.Flags["door_open"] {
		t.Error("door_open should be cleared")
	}
}

func TestHookSay(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []string
	}{
		{"unset", `x := 1`, nil},
		{"string", `say = "Come back soon."`, []string{"Come back soon."}},
		{"array", `say = ["One.", "Two."]`, []string{"One.", "Two."}},
		{"uses visits", `if visits > 2 { say = "Again, " + npc + "?" }`, []string{"Again, fisher?"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, err := Compile(tt.src)
			if err != nil {
				t.Fatalf("Compile() failed: %v", err)
			}
			res, err := h.Run(context.Background(), Env{NPC: "fisher", Visits: 3})
			if err != nil {
				t.Fatalf("Run() failed: %v", err)
			}
			if !reflect.DeepEqual(res.Say, tt.want) {
				t.Errorf("Say = %#v, want %#v", res.Say, tt.want)
			}
		})
	}
}

func TestHookImportsText(t *testing.T) {
	h, err := Compile(`text := import("text"); say = text.to_upper(npc)`)
	if err != nil {
		t.Fatalf("Compile() failed: %v", err)
	}
	res, err := h.Run(context.Background(), Env{NPC: "elder"})
	if err != nil {
		t.Fatalf("Run() failed: %v", err)
	}
	if len(res.Say) != 1 || res.Say[0] != "ELDER" {
		t.Errorf("Say = %v", res.Say)
	}
}

func TestHookCompileError(t *testing.T) {
	if _, err := Compile(`flags[`); err == nil {
		t.Error("expected compile error")
	}
}

func TestHookTimeout(t *testing.T) {
	h, err := Compile(`for {}`)
	if err != nil {
		t.Fatalf("Compile() failed: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err = h.Run(ctx, Env{})
	if err == nil {
		t.Fatal("expected timeout error")
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("err = %v, want deadline exceeded", err)
	}
}

func TestHookRunsAreIndependent(t *testing.T) {
	h, err := Compile(`flags[npc] = true`)
	if err != nil {
		t.Fatalf("Compile() failed: %v", err)
	}

	a, _ := h.Run(context.Background(), Env{NPC: "a"})
	b, _ := h.Run(context.Background(), Env{NPC: "b"})
	if a.Flags["b"] || b.Flags["a"] {
		t.Errorf("runs leaked state: a=%v b=%v", a.Flags, b.Flags)
	}
}
