package usecase

import (
	"context"
	"errors"
	"testing"

	in "github.com/jacantwell/kairos-backend/internal/journey/application/ports/in"
	"github.com/jacantwell/kairos-backend/internal/journey/domain"
)

func TestCreateJourney(t *testing.T) {
	repo := newFakeJourneyRepo()
	publisher := &fakePublisher{}
	uc := NewCreateJourneyUseCase(repo, publisher, testLogger())

	out, err := uc.Execute(context.Background(), in.CreateJourneyInput{
		OwnerID: ownerID,
		Name:    "  patagonia  ",
	})
	if err != nil {
		t.Fatalf("create journey: %v", err)
	}
	if out.Journey.Name != "patagonia" {
		t.Errorf("expected trimmed name, got %q", out.Journey.Name)
	}
	if out.Journey.ID == "" {
		t.Error("expected generated id")
	}
	if out.Journey.Active || out.Journey.Completed {
		t.Error("new journey must start inactive and incomplete")
	}
	if publisher.created != 1 {
		t.Errorf("expected 1 created event, got %d", publisher.created)
	}

	stored, err := repo.GetByID(context.Background(), out.Journey.ID)
	if err != nil {
		t.Fatalf("stored journey missing: %v", err)
	}
	if stored.OwnerID != ownerID {
		t.Errorf("stored owner %q", stored.OwnerID)
	}
}

func TestCreateJourneyRequiresName(t *testing.T) {
	uc := NewCreateJourneyUseCase(newFakeJourneyRepo(), &fakePublisher{}, testLogger())

	if _, err := uc.Execute(context.Background(), in.CreateJourneyInput{OwnerID: ownerID, Name: "   "}); err == nil {
		t.Fatal("expected error for blank name")
	}
}

func TestSetActiveDeactivatesOthers(t *testing.T) {
	repo := newFakeJourneyRepo(
		&domain.Journey{ID: "j1", OwnerID: ownerID, Name: "one", Active: true},
		&domain.Journey{ID: "j2", OwnerID: ownerID, Name: "two"},
	)
	uc := NewSetActiveJourneyUseCase(repo, testLogger())

	if err := uc.Execute(context.Background(), ownerID, "j2"); err != nil {
		t.Fatalf("set active: %v", err)
	}

	j1, _ := repo.GetByID(context.Background(), "j1")
	j2, _ := repo.GetByID(context.Background(), "j2")
	if j1.Active {
		t.Error("previous active journey must be deactivated")
	}
	if !j2.Active {
		t.Error("target journey must be active")
	}
}

func TestSetActiveToggle(t *testing.T) {
	repo := newFakeJourneyRepo(&domain.Journey{ID: "j1", OwnerID: ownerID, Name: "one", Active: true})
	uc := NewSetActiveJourneyUseCase(repo, testLogger())

	if err := uc.Execute(context.Background(), ownerID, "j1"); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	j1, _ := repo.GetByID(context.Background(), "j1")
	if j1.Active {
		t.Error("active journey must toggle off")
	}
}

func TestCompleteJourneyClearsActive(t *testing.T) {
	repo := newFakeJourneyRepo(&domain.Journey{ID: "j1", OwnerID: ownerID, Name: "one", Active: true})
	uc := NewCompleteJourneyUseCase(repo, testLogger())

	if err := uc.Execute(context.Background(), ownerID, "j1"); err != nil {
		t.Fatalf("complete: %v", err)
	}
	j1, _ := repo.GetByID(context.Background(), "j1")
	if !j1.Completed || j1.Active {
		t.Errorf("expected completed inactive journey, got %+v", j1)
	}
}

func TestDeleteJourneyRemovesPosition(t *testing.T) {
	repo := newFakeJourneyRepo(&domain.Journey{ID: "j1", OwnerID: ownerID, Name: "one"})
	posIndex := newFakePositionIndex()
	publisher := &fakePublisher{}
	_ = posIndex.Upsert(context.Background(), "j1", 10, 20)

	uc := NewDeleteJourneyUseCase(repo, posIndex, publisher, testLogger())
	if err := uc.Execute(context.Background(), ownerID, "j1"); err != nil {
		t.Fatalf("delete: %v", err)
	}

	if _, ok := posIndex.position("j1"); ok {
		t.Error("position index entry must be removed")
	}
	if _, err := repo.GetByID(context.Background(), "j1"); !errors.Is(err, domain.ErrJourneyNotFound) {
		t.Errorf("journey must be gone, got %v", err)
	}
	if publisher.deleted != 1 {
		t.Errorf("expected 1 deleted event, got %d", publisher.deleted)
	}
}

func TestDeleteJourneyNotOwner(t *testing.T) {
	repo := newFakeJourneyRepo(&domain.Journey{ID: "j1", OwnerID: ownerID, Name: "one"})
	uc := NewDeleteJourneyUseCase(repo, newFakePositionIndex(), &fakePublisher{}, testLogger())

	if err := uc.Execute(context.Background(), strangerID, "j1"); !errors.Is(err, domain.ErrNotOwner) {
		t.Errorf("expected ErrNotOwner, got %v", err)
	}
	if _, err := repo.GetByID(context.Background(), "j1"); err != nil {
		t.Error("journey must survive denied delete")
	}
}

func TestListJourneysByOwner(t *testing.T) {
	repo := newFakeJourneyRepo(
		&domain.Journey{ID: "j1", OwnerID: ownerID, Name: "one"},
		&domain.Journey{ID: "j2", OwnerID: strangerID, Name: "two"},
		&domain.Journey{ID: "j3", OwnerID: ownerID, Name: "three"},
	)
	uc := NewListJourneysUseCase(repo)

	journeys, err := uc.Execute(context.Background(), ownerID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(journeys) != 2 {
		t.Fatalf("expected 2 journeys, got %d", len(journeys))
	}
	for _, j := range journeys {
		if j.OwnerID != ownerID {
			t.Errorf("foreign journey leaked: %+v", j)
		}
	}
}

func TestGetJourneyOwnership(t *testing.T) {
	repo := newFakeJourneyRepo(&domain.Journey{ID: "j1", OwnerID: ownerID, Name: "one"})
	uc := NewGetJourneyUseCase(repo)

	if _, err := uc.Execute(context.Background(), strangerID, "j1"); !errors.Is(err, domain.ErrNotOwner) {
		t.Errorf("expected ErrNotOwner, got %v", err)
	}
	j, err := uc.Execute(context.Background(), ownerID, "j1")
	if err != nil || j.ID != "j1" {
		t.Errorf("owner must read own journey: %v %+v", err, j)
	}
}
