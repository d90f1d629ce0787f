package actions

import (
	"context"

	"github.com/carson-networks/budget-engine/internal/balance"
	"github.com/carson-networks/budget-engine/internal/storage"
)

type RecomputeBalances struct {
	Result balance.Result
	IAction
}

func (r *RecomputeBalances) Perform(ctx context.Context, writer *storage.Writer) error {
	result, err := recomputeBalances(ctx, writer)
	if err != nil {
		return err
	}
	r.Result = result
	return nil
}
