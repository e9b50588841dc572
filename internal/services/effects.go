package services

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"asset-system/internal/repositories"
	"asset-system/internal/workflow"
)

// applyEffects executes workflow side effects in the same transaction as
// the primary update.
func applyEffects(ctx context.Context, tx pgx.Tx, assets repositories.AssetRepositoryInterface, effects []workflow.Effect) error {
	for _, e := range effects {
		switch eff := e.(type) {
		case workflow.SetAssetStatus:
			if err := assets.SetStatus(ctx, tx, eff.AssetID, eff.Status); err != nil {
				return err
			}
		default:
			return fmt.Errorf("unknown workflow effect %T", e)
		}
	}
	return nil
}
