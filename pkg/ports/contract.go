package ports

import (
	"context"
	"errors"
	"testing"

	"github.com/masonrylabs/masonry/pkg/domain"
)

// RunSessionStoreContract exercises the SessionStore behavior every adapter
// must satisfy. Store test suites call it against their implementation.
func RunSessionStoreContract(t *testing.T, store SessionStore) {
	t.Helper()
	ctx := context.Background()

	t.Run("LoadMissing", func(t *testing.T) {
		_, err := store.Load(ctx, "contract-missing")
		if !errors.Is(err, domain.ErrSessionNotFound) {
			t.Fatalf("expected ErrSessionNotFound, got %v", err)
		}
	})

	t.Run("SaveAndLoad", func(t *testing.T) {
		state := domain.NewWizardState("contract-1", "/quiz", "w1")
		state.Answers["name"] = "ada"
		state.Answers["tags"] = []string{"a", "b"}
		state.History = []int{0, 1}
		state.StepIndex = 2

		if err := store.Save(ctx, state.SessionID, state); err != nil {
			t.Fatalf("save failed: %v", err)
		}
		got, err := store.Load(ctx, state.SessionID)
		if err != nil {
			t.Fatalf("load failed: %v", err)
		}
		if got.StepIndex != 2 || got.Route != "/quiz" || got.BlockID != "w1" {
			t.Errorf("state fields lost: %+v", got)
		}
		if got.Answers["name"] != "ada" {
			t.Errorf("answers lost: %+v", got.Answers)
		}
		if len(got.History) != 2 {
			t.Errorf("history lost: %+v", got.History)
		}
	})

	t.Run("IsolationFromCallerMutation", func(t *testing.T) {
		state := domain.NewWizardState("contract-2", "/quiz", "w1")
		if err := store.Save(ctx, state.SessionID, state); err != nil {
			t.Fatalf("save failed: %v", err)
		}
		state.Answers["late"] = "mutation"

		got, err := store.Load(ctx, state.SessionID)
		if err != nil {
			t.Fatalf("load failed: %v", err)
		}
		if _, ok := got.Answers["late"]; ok {
			t.Error("stored state shares memory with the caller")
		}
	})

	t.Run("Delete", func(t *testing.T) {
		state := domain.NewWizardState("contract-3", "/quiz", "w1")
		if err := store.Save(ctx, state.SessionID, state); err != nil {
			t.Fatalf("save failed: %v", err)
		}
		if err := store.Delete(ctx, state.SessionID); err != nil {
			t.Fatalf("delete failed: %v", err)
		}
		if _, err := store.Load(ctx, state.SessionID); !errors.Is(err, domain.ErrSessionNotFound) {
			t.Fatalf("expected ErrSessionNotFound after delete, got %v", err)
		}
	})
}
