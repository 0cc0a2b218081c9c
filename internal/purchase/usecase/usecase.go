package usecase

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/hearthstock/shopping-service/internal/model"
	"github.com/hearthstock/shopping-service/internal/purchase"
	"github.com/hearthstock/shopping-service/internal/purchase/dto"
	"github.com/hearthstock/shopping-service/pkg/search"
)

const purchaseIndex = "purchases"

type purchaseUseCase struct {
	repo   purchase.Repository
	es     *search.Client
	logger *zap.Logger
}

func NewPurchaseUseCase(repo purchase.Repository, es *search.Client, log *zap.Logger) purchase.UseCase {
	return &purchaseUseCase{
		repo:   repo,
		es:     es,
		logger: log,
	}
}

func (uc *purchaseUseCase) GetTransaction(ctx context.Context, id string) (*model.PurchaseTransaction, error) {
	return uc.repo.FindByID(ctx, id)
}

func (uc *purchaseUseCase) ListTransactions(ctx context.Context, filters *dto.PurchaseFilters) ([]model.PurchaseTransaction, int, error) {
	return uc.repo.FindAll(ctx, filters)
}

func (uc *purchaseUseCase) SearchTransactions(ctx context.Context, householdID, query string, page, pageSize int) ([]model.PurchaseTransaction, int, error) {
	if query != "" && uc.es != nil {
		q := map[string]interface{}{
			"query": map[string]interface{}{
				"bool": map[string]interface{}{
					"must": []map[string]interface{}{
						{
							"query_string": map[string]interface{}{
								"query":  fmt.Sprintf("*%s*", query),
								"fields": []string{"lines.product_name^3", "store_label", "lines.category"},
							},
						},
						{
							"term": map[string]interface{}{
								"household_id": householdID,
							},
						},
					},
				},
			},
			"from": (page - 1) * pageSize,
		}
		if pageSize > 0 {
			q["size"] = pageSize
		}

		res, err := uc.es.Search(ctx, purchaseIndex, q)
		if err == nil {
			var transactions []model.PurchaseTransaction
			for _, hit := range res.Hits.Hits {
				var tx model.PurchaseTransaction
				if err := json.Unmarshal(hit.Source, &tx); err == nil {
					transactions = append(transactions, tx)
				}
			}
			return transactions, res.Hits.Total.Value, nil
		}
		uc.logger.Error("ES search failed, falling back to DB", zap.Error(err))
	}

	return uc.repo.FindAll(ctx, &dto.PurchaseFilters{
		HouseholdID: householdID,
		SearchQuery: query,
		Page:        page,
		PageSize:    pageSize,
	})
}

func (uc *purchaseUseCase) IndexTransaction(ctx context.Context, tx *model.PurchaseTransaction) error {
	if uc.es == nil {
		return nil
	}

	mapping := `{
		"mappings": {
			"properties": {
				"household_id": { "type": "keyword" },
				"session_id": { "type": "keyword" },
				"store_label": { "type": "text" },
				"purchased_at": { "type": "date" },
				"total": { "type": "double" },
				"lines": {
					"properties": {
						"product_id": { "type": "keyword" },
						"product_name": { "type": "text" },
						"category": { "type": "keyword" },
						"total_price": { "type": "double" }
					}
				}
			}
		}
	}`
	_ = uc.es.CreateIndex(ctx, purchaseIndex, mapping)

	if err := uc.es.Index(ctx, purchaseIndex, tx.ID, tx); err != nil {
		uc.logger.Error("failed to index purchase transaction",
			zap.String("transaction_id", tx.ID), zap.Error(err))
		return err
	}
	return nil
}
