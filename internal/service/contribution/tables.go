package contribution

import (
	"context"
	"fmt"
	"time"

	"github.com/sagana-hq/workforce-backend-go/internal/domain/contribution"
)

type TableServiceImpl struct {
	contribution.TableRepository
}

func NewTableService(tableRepository contribution.TableRepository) contribution.Service {
	return &TableServiceImpl{
		TableRepository: tableRepository,
	}
}

func (s *TableServiceImpl) ListTables(ctx context.Context, scheme contribution.Scheme) ([]contribution.TableResponse, error) {
	tables, err := s.TableRepository.ListTables(ctx, scheme)
	if err != nil {
		return nil, fmt.Errorf("failed to list contribution tables: %w", err)
	}

	responses := make([]contribution.TableResponse, 0, len(tables))
	for _, table := range tables {
		responses = append(responses, mapTableToResponse(table))
	}
	return responses, nil
}

func (s *TableServiceImpl) GetActiveTable(ctx context.Context, scheme contribution.Scheme, asOf time.Time) (contribution.TableResponse, error) {
	table, err := s.TableRepository.GetActiveTable(ctx, scheme, asOf)
	if err != nil {
		return contribution.TableResponse{}, err
	}
	return mapTableToResponse(table), nil
}

func mapTableToResponse(table contribution.Table) contribution.TableResponse {
	brackets := make([]contribution.BracketResponse, 0, len(table.Brackets))
	for _, b := range table.Brackets {
		brackets = append(brackets, contribution.BracketResponse{
			Lower:      b.Lower,
			Upper:      b.Upper,
			Amount:     b.Amount,
			Rate:       b.Rate,
			BaseAmount: b.BaseAmount,
		})
	}

	return contribution.TableResponse{
		ID:            table.ID,
		Scheme:        string(table.Scheme),
		EffectiveDate: table.EffectiveDate.Format("2006-01-02"),
		FloorAmount:   table.FloorAmount,
		CeilingAmount: table.CeilingAmount,
		MaxPerPeriod:  table.MaxPerPeriod,
		Brackets:      brackets,
	}
}
