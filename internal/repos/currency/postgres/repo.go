package currency

import (
	"github.com/fastprodman/predictionmarket/internal/infra/pgutils"
	"github.com/fastprodman/predictionmarket/internal/repos/currency"
)

var _ currency.Ledger = (*ledgerRepo)(nil)

type ledgerRepo struct{ q pgutils.Querier }

func New(q pgutils.Querier) *ledgerRepo {
	return &ledgerRepo{q: q}
}
