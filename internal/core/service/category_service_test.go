package service

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/moneytrail/wallet-api/internal/core/domain"
)

func newCategorySvc(cats *stubCategoryRepo, txs *stubTransactionRepo) *CategoryService {
	return NewCategoryService(cats, txs, zerolog.Nop())
}

func TestCategoryCreate(t *testing.T) {
	cats := newStubCategoryRepo("food")
	svc := newCategorySvc(cats, newStubTransactionRepo())

	c, err := svc.Create(context.Background(), " rent ", "blue")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Type != "rent" || c.Color != "blue" {
		t.Fatalf("unexpected category: %+v", c)
	}

	if _, err := svc.Create(context.Background(), "food", "red"); !errors.Is(err, domain.ErrCategoryExists) {
		t.Fatalf("expected ErrCategoryExists, got %v", err)
	}
	if _, err := svc.Create(context.Background(), "gym", " "); !errors.Is(err, domain.ErrMissingAttributes) {
		t.Fatalf("expected ErrMissingAttributes, got %v", err)
	}
}

func TestCategoryUpdate_RenameMovesTransactions(t *testing.T) {
	cats := newStubCategoryRepo("food", "rent")
	txs := newStubTransactionRepo()
	txs.add("dave", "food", 10, time.Now())
	txs.add("dave", "food", 20, time.Now())
	txs.add("dave", "rent", 30, time.Now())
	svc := newCategorySvc(cats, txs)

	n, err := svc.Update(context.Background(), "food", "groceries", "green")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected 2 moved transactions, got %d", n)
	}
	if got := cats.types(); !reflect.DeepEqual(got, []string{"groceries", "rent"}) {
		t.Fatalf("unexpected categories: %v", got)
	}
	if txs.txs[0].Type != "groceries" || txs.txs[2].Type != "rent" {
		t.Fatalf("transactions not moved correctly: %+v", txs.txs)
	}
}

func TestCategoryUpdate_RecolorOnly(t *testing.T) {
	cats := newStubCategoryRepo("food")
	txs := newStubTransactionRepo()
	txs.add("dave", "food", 10, time.Now())
	svc := newCategorySvc(cats, txs)

	n, err := svc.Update(context.Background(), "food", "food", "black")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 0 || cats.cats[0].Color != "black" {
		t.Fatalf("expected recolor without moves, got n=%d color=%s", n, cats.cats[0].Color)
	}
}

func TestCategoryUpdate_Errors(t *testing.T) {
	cats := newStubCategoryRepo("food", "rent")
	svc := newCategorySvc(cats, newStubTransactionRepo())
	ctx := context.Background()

	if _, err := svc.Update(ctx, "gym", "sport", "red"); !errors.Is(err, domain.ErrCategoryNotFound) {
		t.Fatalf("expected ErrCategoryNotFound, got %v", err)
	}
	if _, err := svc.Update(ctx, "food", "rent", "red"); !errors.Is(err, domain.ErrCategoryExists) {
		t.Fatalf("expected ErrCategoryExists, got %v", err)
	}
	if _, err := svc.Update(ctx, "food", "", "red"); !errors.Is(err, domain.ErrMissingAttributes) {
		t.Fatalf("expected ErrMissingAttributes, got %v", err)
	}
}

func TestCategoryDelete_MovesToOldestRemaining(t *testing.T) {
	cats := newStubCategoryRepo("food", "rent", "gym")
	txs := newStubTransactionRepo()
	txs.add("dave", "rent", 1, time.Now())
	txs.add("dave", "gym", 2, time.Now())
	txs.add("dave", "food", 3, time.Now())
	svc := newCategorySvc(cats, txs)

	n, err := svc.Delete(context.Background(), []string{"food", "gym"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected 2 reassigned transactions, got %d", n)
	}
	if got := cats.types(); !reflect.DeepEqual(got, []string{"rent"}) {
		t.Fatalf("unexpected categories: %v", got)
	}
	for _, tx := range txs.txs {
		if tx.Type != "rent" {
			t.Fatalf("transaction %s not reassigned: %s", tx.ID, tx.Type)
		}
	}
}

func TestCategoryDelete_AllKeepsOldest(t *testing.T) {
	cats := newStubCategoryRepo("food", "rent")
	txs := newStubTransactionRepo()
	txs.add("dave", "rent", 1, time.Now())
	svc := newCategorySvc(cats, txs)

	n, err := svc.Delete(context.Background(), []string{"rent", "food"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := cats.types(); !reflect.DeepEqual(got, []string{"food"}) {
		t.Fatalf("expected oldest category to survive, got %v", got)
	}
	if n != 1 || txs.txs[0].Type != "food" {
		t.Fatalf("expected transaction moved to food, n=%d type=%s", n, txs.txs[0].Type)
	}
}

func TestCategoryDelete_Errors(t *testing.T) {
	ctx := context.Background()

	single := newCategorySvc(newStubCategoryRepo("food"), newStubTransactionRepo())
	if _, err := single.Delete(ctx, []string{"food"}); !errors.Is(err, domain.ErrLastCategory) {
		t.Fatalf("expected ErrLastCategory, got %v", err)
	}

	cats := newStubCategoryRepo("food", "rent")
	svc := newCategorySvc(cats, newStubTransactionRepo())
	if _, err := svc.Delete(ctx, []string{"food", "gym"}); !errors.Is(err, domain.ErrCategoryNotFound) {
		t.Fatalf("expected ErrCategoryNotFound, got %v", err)
	}
	if len(cats.cats) != 2 {
		t.Fatalf("nothing should be deleted on error, got %v", cats.types())
	}
	if _, err := svc.Delete(ctx, nil); !errors.Is(err, domain.ErrMissingAttributes) {
		t.Fatalf("expected ErrMissingAttributes, got %v", err)
	}
	if _, err := svc.Delete(ctx, []string{""}); !errors.Is(err, domain.ErrMissingAttributes) {
		t.Fatalf("expected ErrMissingAttributes for blank type, got %v", err)
	}
}
