package dto

import "github.com/shopspring/decimal"

type SummaryReport struct {
	TotalPatients     int64            `json:"total_patients"`
	TotalDoctors      int64            `json:"total_doctors"`
	ActiveDoctors     int64            `json:"active_doctors"`
	TotalAppointments int64            `json:"total_appointments"`
	ByStatus          map[string]int64 `json:"by_status"`
	Revenue           decimal.Decimal  `json:"revenue"`
}

type DailyReportRow struct {
	Date      string `json:"date"`
	Total     int    `json:"total"`
	Completed int    `json:"completed"`
	Cancelled int    `json:"cancelled"`
}

type DailyReport struct {
	StartDate string           `json:"start_date"`
	EndDate   string           `json:"end_date"`
	Days      []DailyReportRow `json:"days"`
}

type MonthlyReportRow struct {
	Month        int             `json:"month"`
	Appointments int             `json:"appointments"`
	Revenue      decimal.Decimal `json:"revenue"`
}

type MonthlyReport struct {
	Year   int                `json:"year"`
	Months []MonthlyReportRow `json:"months"`
}

type SpecializationReportRow struct {
	Specialization string  `json:"specialization"`
	Appointments   int     `json:"appointments"`
	Percentage     float64 `json:"percentage"`
}

type SpecializationReport struct {
	Total int                       `json:"total"`
	Rows  []SpecializationReportRow `json:"rows"`
}
