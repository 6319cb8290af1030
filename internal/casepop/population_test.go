package casepop

import (
	"testing"
	"time"
)

func TestNewPopulationRejectsDuplicateIDs(t *testing.T) {
	filed := date(2024, time.January, 1)
	_, ok := NewPopulation([]*Case{
		NewCase("dup", "crp", filed, "admission"),
		NewCase("dup", "crp", filed, "admission"),
	})
	if ok {
		t.Errorf("expected NewPopulation to reject a duplicate case id")
	}
}

func TestPopulationActiveExcludesDisposed(t *testing.T) {
	filed := date(2024, time.January, 1)
	active := NewCase("active", "crp", filed, "admission")
	disposed := NewCase("disposed", "crp", filed, "admission")
	disposed.MarkDisposed(filed, "final-disposal")

	pop, ok := NewPopulation([]*Case{active, disposed})
	if !ok {
		t.Fatal("unexpected duplicate rejection")
	}
	if got, want := pop.Len(), 2; got != want {
		t.Errorf("Len() = %d, want %d", got, want)
	}
	if got, want := pop.CountDisposed(), 1; got != want {
		t.Errorf("CountDisposed() = %d, want %d", got, want)
	}
	activeCases := pop.Active()
	if len(activeCases) != 1 || activeCases[0].ID != "active" {
		t.Errorf("Active() = %v, want only the non-disposed case", activeCases)
	}
}

func TestPopulationInsertAndGet(t *testing.T) {
	pop, _ := NewPopulation(nil)
	c := NewCase("new", "crp", date(2024, time.January, 1), "admission")
	if !pop.Insert(c) {
		t.Fatal("expected first insert to succeed")
	}
	if pop.Insert(c) {
		t.Errorf("expected duplicate insert to fail")
	}
	got, ok := pop.Get("new")
	if !ok || got.ID != "new" {
		t.Errorf("Get(%q) = %v, %v, want the inserted case", "new", got, ok)
	}
}
