package exporter

import (
	"time"

	"prodboard/internal/aggregate"
	"prodboard/internal/view"
)

// Sheet is one exported table.
type Sheet struct {
	Name    string
	Headers []string
	Rows    [][]string
}

// Sheet names, also used as the table parameter of CSV exports.
const (
	SheetDaily        = "producao_diaria"
	SheetResponsibles = "lideres"
	SheetLeaderboard  = "leaderboard"
	SheetFamilies     = "familias"
	SheetCategories   = "categorias"
	SheetChannels     = "canais"
	SheetPareto       = "pareto"
	SheetSeasonality  = "sazonalidade"
	SheetProjection   = "digital_twin"
	SheetDiagnostic   = "diagnostico"
)

// Tables flattens a view into its exported sheets. The projection sheet is
// present only when the view has a projection.
func Tables(m *view.Model) []Sheet {
	sheets := []Sheet{
		daily(m),
		groups(SheetResponsibles, m),
		leaderboard(m),
		shares(SheetFamilies, "FAMILIA", m.Families),
		shares(SheetCategories, "CATEGORIA_CONVERSOR", m.Categories),
		shares(SheetChannels, "CANAL", m.Channels),
		pareto(m),
		seasonality(m),
	}
	if m.Projection != nil {
		sheets = append(sheets, projection(m))
	}
	return append(sheets, diagnostic(m))
}

// Find returns the sheet with the given name.
func Find(sheets []Sheet, name string) (Sheet, bool) {
	for _, s := range sheets {
		if s.Name == name {
			return s, true
		}
	}
	return Sheet{}, false
}

func daily(m *view.Model) Sheet {
	s := Sheet{Name: SheetDaily, Headers: []string{"DATA_DE_ENTREGA", m.Metric.Column(), "MEDIA_MOVEL_7", "ACUMULADO"}}
	for _, p := range m.Daily {
		s.Rows = append(s.Rows, []string{
			p.Date.Format(time.DateOnly),
			formatFloat(p.Value),
			formatOptional(p.MovingAverage),
			formatFloat(p.Cumulative),
		})
	}
	return s
}

func groups(name string, m *view.Model) Sheet {
	s := Sheet{Name: name, Headers: []string{"RESPONSAVEL", m.Metric.Column(), "OS", "MEDIA"}}
	for _, g := range m.OrdersByLeader {
		s.Rows = append(s.Rows, []string{g.Key, formatFloat(g.Sum), formatInt(g.Count), formatFloat(g.Mean)})
	}
	return s
}

func leaderboard(m *view.Model) Sheet {
	s := Sheet{Name: SheetLeaderboard, Headers: []string{"MES_ANO", "POSICAO", "RESPONSAVEL", m.Metric.Column()}}
	for _, e := range m.Leaderboard {
		s.Rows = append(s.Rows, []string{e.Period, formatInt(e.Rank), e.Responsible, formatFloat(e.Value)})
	}
	return s
}

func shares(name, column string, values []aggregate.Share) Sheet {
	s := Sheet{Name: name, Headers: []string{column, "VALOR", "PERCENTUAL"}}
	for _, v := range values {
		s.Rows = append(s.Rows, []string{v.Key, formatFloat(v.Value), formatFloat(v.Percent)})
	}
	return s
}

func pareto(m *view.Model) Sheet {
	s := Sheet{Name: SheetPareto, Headers: []string{"RESPONSAVEL", m.Metric.Column(), "PERCENTUAL_ACUMULADO"}}
	for _, p := range m.Pareto {
		s.Rows = append(s.Rows, []string{p.Key, formatFloat(p.Value), formatFloat(p.CumulativePercent)})
	}
	return s
}

func seasonality(m *view.Model) Sheet {
	s := Sheet{Name: SheetSeasonality, Headers: []string{"ANO_ENTREGA"}}
	for _, month := range m.Seasonality.Months {
		s.Headers = append(s.Headers, formatInt(month))
	}
	for i, year := range m.Seasonality.Years {
		row := []string{formatInt(year)}
		for _, v := range m.Seasonality.Cells[i] {
			row = append(row, formatFloat(v))
		}
		s.Rows = append(s.Rows, row)
	}
	return s
}

func projection(m *view.Model) Sheet {
	s := Sheet{Name: SheetProjection, Headers: []string{"MES", "TIPO", "QTD", "QTD_PONDERADA", "CUSTO_MOD", "CUSTO_TOTAL", "CUSTO_POR_PRODUTO"}}
	for _, p := range m.Projection.Series {
		s.Rows = append(s.Rows, []string{
			p.Period.String(),
			p.Kind,
			p.Raw.StringFixed(0),
			p.Weighted.StringFixed(0),
			formatDecimal(p.PayrollCost),
			formatDecimal(p.TotalCost),
			formatDecimal(p.CostPerUnit),
		})
	}
	return s
}

func diagnostic(m *view.Model) Sheet {
	s := Sheet{Name: SheetDiagnostic, Headers: []string{"ITEM", "VALOR"}}
	s.Rows = [][]string{
		{"linhas", formatInt(m.Diagnostic.Rows)},
		{"colunas", formatInt(m.Diagnostic.Columns)},
		{"linhas_descartadas", formatInt(m.Diagnostic.Dropped)},
	}
	for _, name := range m.Diagnostic.Names {
		s.Rows = append(s.Rows, []string{"coluna", name})
	}
	for _, w := range m.Warnings {
		s.Rows = append(s.Rows, []string{"aviso", w})
	}
	return s
}
