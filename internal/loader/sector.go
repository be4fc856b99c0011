package loader

import (
	"fmt"
	"strings"
	"time"

	apperrors "prodboard/internal/errors"
	"prodboard/pkg/contracts/domain"
)

// SectorWindow positions the month columns of a sector source. The sources
// carry no month header, so the i-th value column is the i-th month after
// January of FirstYear.
type SectorWindow struct {
	FirstYear int
	Months    int
}

// Period returns the month of the i-th value column.
func (w SectorWindow) Period(i int) domain.Period {
	return domain.Period{Year: w.FirstYear, Month: time.January}.AddMonths(i)
}

// ParseSector transposes a headerless sector source (one line item per row,
// one month per column after the label) into month rows.
func ParseSector(sector domain.Sector, rows [][]string, w SectorWindow) (*domain.SectorCostTable, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("sector %s: source is empty", sector)
	}

	months := 0
	for _, row := range rows {
		if n := len(row) - 1; n > months {
			months = n
		}
	}
	if months > w.Months {
		return nil, fmt.Errorf("sector %s: %d month columns exceed the %d-month window starting %d",
			sector, months, w.Months, w.FirstYear)
	}

	table := &domain.SectorCostTable{
		Sector: sector,
		Labels: make([]string, 0, len(rows)),
		Months: make([]domain.SectorMonth, months),
	}
	for i := range table.Months {
		table.Months[i] = domain.SectorMonth{Period: w.Period(i), Values: make(map[string]float64)}
	}

	seen := make(map[string]struct{}, len(rows))
	for _, row := range rows {
		if len(row) == 0 {
			continue
		}
		label := strings.TrimSpace(row[0])
		if label == "" {
			continue
		}
		// The first occurrence of a label wins.
		if _, dup := seen[label]; dup {
			continue
		}
		seen[label] = struct{}{}
		table.Labels = append(table.Labels, label)

		for i, cell := range row[1:] {
			if v, ok := ParseNumber(cell); ok {
				table.Months[i].Values[label] = v
			}
		}
	}

	if sector == domain.SectorLabor && !table.HasLabel(domain.LineTotal) {
		return nil, &apperrors.MissingColumnError{Source: string(sector), Column: domain.LineTotal}
	}
	return table, nil
}
