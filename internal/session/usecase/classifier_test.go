package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/hearthstock/shopping-service/internal/model"
)

func classifierFixture() (*sessionUseCase, *fakeListRepo, *fakeInventoryUC) {
	listRepo := newFakeListRepo()
	invUC := &fakeInventoryUC{summaries: map[string]*model.StockSummary{}}
	uc := &sessionUseCase{
		listRepo:  listRepo,
		inventory: invUC,
		logger:    zap.NewNop(),
	}
	return uc, listRepo, invUC
}

func TestDetermineMatchType(t *testing.T) {
	ctx := context.Background()

	t.Run("unchecked list item wins regardless of stock", func(t *testing.T) {
		uc, listRepo, invUC := classifierFixture()
		listRepo.addItem("list-1", "milk", false)
		invUC.summaries["milk"] = &model.StockSummary{ProductID: "milk", TotalOnHand: 100, MeanReorderThreshold: 1}

		listID := "list-1"
		mt, err := uc.determineMatchType(ctx, "hh-1", "milk", &listID)
		require.NoError(t, err)
		assert.Equal(t, model.MatchPlanned, mt)
	})

	t.Run("checked list item falls through to stock", func(t *testing.T) {
		uc, listRepo, _ := classifierFixture()
		listRepo.addItem("list-1", "milk", true)

		listID := "list-1"
		mt, err := uc.determineMatchType(ctx, "hh-1", "milk", &listID)
		require.NoError(t, err)
		assert.Equal(t, model.MatchExtra, mt)
	})

	t.Run("stock above twice the mean threshold", func(t *testing.T) {
		uc, _, invUC := classifierFixture()
		invUC.summaries["rice"] = &model.StockSummary{ProductID: "rice", TotalOnHand: 10, MeanReorderThreshold: 2}

		mt, err := uc.determineMatchType(ctx, "hh-1", "rice", nil)
		require.NoError(t, err)
		assert.Equal(t, model.MatchAlreadyStocked, mt)
	})

	t.Run("stock at the boundary stays extra", func(t *testing.T) {
		uc, _, invUC := classifierFixture()
		invUC.summaries["beans"] = &model.StockSummary{ProductID: "beans", TotalOnHand: 4, MeanReorderThreshold: 2}

		mt, err := uc.determineMatchType(ctx, "hh-1", "beans", nil)
		require.NoError(t, err)
		assert.Equal(t, model.MatchExtra, mt)
	})

	t.Run("unknown product with default threshold", func(t *testing.T) {
		uc, _, _ := classifierFixture()

		// No inventory rows: total 0, mean threshold 1.0, so never stocked.
		mt, err := uc.determineMatchType(ctx, "hh-1", "novelty", nil)
		require.NoError(t, err)
		assert.Equal(t, model.MatchExtra, mt)
	})

	t.Run("nil list id skips the list lookup", func(t *testing.T) {
		uc, listRepo, _ := classifierFixture()
		listRepo.addItem("list-1", "milk", false)

		mt, err := uc.determineMatchType(ctx, "hh-1", "milk", nil)
		require.NoError(t, err)
		assert.Equal(t, model.MatchExtra, mt)
	})
}
