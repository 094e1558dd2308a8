// Package script runs NPC end-of-conversation hooks written in tengo.
//
// A hook sees these globals:
//
//	npc     string        ID of the NPC that was talked to
//	visits  int           finished conversations with this NPC, including this one
//	flags   map           story flags; assignments persist after the hook
//	say     string|array  set to chain a follow-up dialogue
package script

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
)

// Timeout bounds a single hook run.
const Timeout = 100 * time.Millisecond

// Modules are the tengo standard modules hooks may import.
var Modules = []string{"text", "math", "enum", "rand"}

// Env is the input of a hook run.
type Env struct {
	NPC    string
	Visits int
	Flags  map[string]bool
}

// Result is what a hook run leaves behind.
type Result struct {
	Flags map[string]bool
	Say   []string
}

// Hook is a compiled script. It is safe to Run concurrently.
type Hook struct {
	compiled *tengo.Compiled
}

// Compile compiles hook source.
func Compile(src string) (*Hook, error) {
	s := tengo.NewScript([]byte(src))
	_ = s.Add("npc", "")
	_ = s.Add("visits", 0)
	_ = s.Add("flags", map[string]any{})
	_ = s.Add("say", tengo.UndefinedValue)
	s.SetImports(stdlib.GetModuleMap(Modules...))

	compiled, err := s.Compile()
	if err != nil {
		return nil, fmt.Errorf("script: compile: %w", err)
	}
	return &Hook{compiled: compiled}, nil
}

// Run executes the hook against env. The flags in env are not modified.
func (h *Hook) Run(ctx context.Context, env Env) (Result, error) {
	c := h.compiled.Clone()

	flags := &tengo.Map{Value: make(map[string]tengo.Object, len(env.Flags))}
	for k, v := range env.Flags {
		if v {
			flags.Value[k] = tengo.TrueValue
		}
	}

	if err := c.Set("npc", env.NPC); err != nil {
		return Result{}, fmt.Errorf("script: %w", err)
	}
	if err := c.Set("visits", env.Visits); err != nil {
		return Result{}, fmt.Errorf("script: %w", err)
	}
	if err := c.Set("flags", flags); err != nil {
		return Result{}, fmt.Errorf("script: %w", err)
	}

	if err := c.RunContext(ctx); err != nil {
		return Result{}, fmt.Errorf("script: run: %w", err)
	}

	res := Result{Flags: make(map[string]bool)}
	if m, ok := c.Get("flags").Value().(map[string]any); ok {
		for k, v := range m {
			if truthy(v) {
				res.Flags[k] = true
			}
		}
	}
	res.Say = lines(c.Get("say").Value())
	return res, nil
}

func truthy(v any) bool {
	switch x := v.(type) {
	case bool:
		return x
	case nil:
		return false
	case int64:
		return x != 0
	case string:
		return x != ""
	}
	return true
}

func lines(v any) []string {
	switch x := v.(type) {
	case string:
		if strings.TrimSpace(x) == "" {
			return nil
		}
		return []string{x}
	case []any:
		out := make([]string, 0, len(x))
		for _, item := range x {
			if s, ok := item.(string); ok {
				out = append(out, s)
			} else if item != nil {
				out = append(out, fmt.Sprint(item))
			}
		}
		return out
	}
	return nil
}
