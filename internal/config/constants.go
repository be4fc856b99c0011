package config

import "time"

// Application constants
const (
	AppName   = "prodboard"
	AppVendor = "Controle de Produção"

	// Default source locations of the production dashboard
	sourceBase              = "https://raw.githubusercontent.com/K1NGOD-RJ/Analise-da-Controle/refs/heads/main/"
	DefaultOrdersURL        = "https://raw.githubusercontent.com/K1NGOD-RJ/Analise-da-Controle/main/updated_dataframe.csv"
	DefaultCapacityURL      = sourceBase + "updated_dataframe_log.csv"
	DefaultPlanningURL      = sourceBase + "updated_pcp_kpiv1.csv"
	DefaultPreProductionURL = sourceBase + "updated_PRE_kpiv1.csv"
	DefaultLaborURL         = sourceBase + "updated_MOD_kpiv1.csv"
	DefaultWarehousingURL   = sourceBase + "updated_ALMX_kpiv1.csv"

	// Network
	DefaultHTTPTimeout = 30 * time.Second
	MaxSourceBytes     = 64 << 20 // 64MB

	// Export file names written by the report command
	DiagnosticFileName = "diagnostic.json"
	ViewFileName       = "view.json"
	WorkbookFileName   = "dashboard.xlsx"
)
