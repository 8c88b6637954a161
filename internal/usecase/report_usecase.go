package usecase

import (
	"context"
	"errors"
	"sort"
	"time"

	"hospital-appointment/internal/delivery/dto"
	"hospital-appointment/internal/domain/entity"
	"hospital-appointment/internal/domain/repository"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrInvalidDateRange = errors.New("invalid date range")
	ErrInvalidYear      = errors.New("invalid year")
)

const (
	defaultReportDays = 7
	maxReportDays     = 366
)

type ReportUsecase interface {
	Summary(ctx context.Context, actor entity.Actor) (*dto.SummaryReport, error)
	Daily(ctx context.Context, actor entity.Actor, startDate, endDate string) (*dto.DailyReport, error)
	Monthly(ctx context.Context, actor entity.Actor, year int) (*dto.MonthlyReport, error)
	BySpecialization(ctx context.Context, actor entity.Actor, startDate, endDate string) (*dto.SpecializationReport, error)
}

type reportUsecase struct {
	db                *gorm.DB
	log               *logrus.Logger
	now               func() time.Time
	userRepo          repository.UserRepository
	doctorProfileRepo repository.DoctorProfileRepository
	appointmentRepo   repository.AppointmentRepository
}

func NewReportUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	location *time.Location,
	userRepo repository.UserRepository,
	doctorProfileRepo repository.DoctorProfileRepository,
	appointmentRepo repository.AppointmentRepository,
) ReportUsecase {
	if location == nil {
		location = time.Local
	}
	return &reportUsecase{
		db:                db,
		log:               log,
		now:               func() time.Time { return time.Now().In(location) },
		userRepo:          userRepo,
		doctorProfileRepo: doctorProfileRepo,
		appointmentRepo:   appointmentRepo,
	}
}

func (u *reportUsecase) Summary(ctx context.Context, actor entity.Actor) (*dto.SummaryReport, error) {
	if !actor.IsAdmin() {
		return nil, ErrForbidden
	}

	patients, err := u.userRepo.CountByRole(ctx, u.db, entity.RolePatient)
	if err != nil {
		u.log.Warnf("Failed to count patients: %+v", err)
		return nil, err
	}
	doctors, err := u.userRepo.CountByRole(ctx, u.db, entity.RoleDoctor)
	if err != nil {
		u.log.Warnf("Failed to count doctors: %+v", err)
		return nil, err
	}
	activeDoctors, err := u.doctorProfileRepo.CountActive(ctx, u.db)
	if err != nil {
		u.log.Warnf("Failed to count active doctors: %+v", err)
		return nil, err
	}
	counts, err := u.appointmentRepo.CountByStatus(ctx, u.db)
	if err != nil {
		u.log.Warnf("Failed to count appointments by status: %+v", err)
		return nil, err
	}
	rows, err := u.appointmentRepo.FindReportRows(ctx, u.db, "", "")
	if err != nil {
		u.log.Warnf("Failed to load report rows: %+v", err)
		return nil, err
	}

	report := &dto.SummaryReport{
		TotalPatients: patients,
		TotalDoctors:  doctors,
		ActiveDoctors: activeDoctors,
		ByStatus:      SummarizeStatuses(counts),
		Revenue:       Revenue(rows),
	}
	for _, n := range report.ByStatus {
		report.TotalAppointments += n
	}
	return report, nil
}

func (u *reportUsecase) Daily(ctx context.Context, actor entity.Actor, startDate, endDate string) (*dto.DailyReport, error) {
	if !actor.IsAdmin() {
		return nil, ErrForbidden
	}

	start, end, err := u.reportRange(startDate, endDate)
	if err != nil {
		return nil, err
	}

	rows, err := u.appointmentRepo.FindReportRows(ctx, u.db, start.Format(entity.DateLayout), end.Format(entity.DateLayout))
	if err != nil {
		u.log.Warnf("Failed to load report rows: %+v", err)
		return nil, err
	}

	return &dto.DailyReport{
		StartDate: start.Format(entity.DateLayout),
		EndDate:   end.Format(entity.DateLayout),
		Days:      AggregateDaily(rows, start, end),
	}, nil
}

func (u *reportUsecase) Monthly(ctx context.Context, actor entity.Actor, year int) (*dto.MonthlyReport, error) {
	if !actor.IsAdmin() {
		return nil, ErrForbidden
	}
	if year == 0 {
		year = u.now().Year()
	}
	if year < 2000 || year > 9999 {
		return nil, ErrInvalidYear
	}

	rows, err := u.appointmentRepo.FindReportRows(ctx, u.db, time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC).Format(entity.DateLayout), time.Date(year, 12, 31, 0, 0, 0, 0, time.UTC).Format(entity.DateLayout))
	if err != nil {
		u.log.Warnf("Failed to load report rows: %+v", err)
		return nil, err
	}

	return &dto.MonthlyReport{
		Year:   year,
		Months: AggregateMonthly(rows, year),
	}, nil
}

func (u *reportUsecase) BySpecialization(ctx context.Context, actor entity.Actor, startDate, endDate string) (*dto.SpecializationReport, error) {
	if !actor.IsAdmin() {
		return nil, ErrForbidden
	}

	for _, bound := range []string{startDate, endDate} {
		if bound == "" {
			continue
		}
		if _, err := time.Parse(entity.DateLayout, bound); err != nil {
			return nil, ErrInvalidDateFormat
		}
	}

	rows, err := u.appointmentRepo.FindReportRows(ctx, u.db, startDate, endDate)
	if err != nil {
		u.log.Warnf("Failed to load report rows: %+v", err)
		return nil, err
	}

	return AggregateBySpecialization(rows), nil
}

// reportRange parses a daily report range. An empty range is the last seven days.
func (u *reportUsecase) reportRange(startDate, endDate string) (time.Time, time.Time, error) {
	today := u.now()
	today = time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)

	end := today
	if endDate != "" {
		t, err := time.Parse(entity.DateLayout, endDate)
		if err != nil {
			return time.Time{}, time.Time{}, ErrInvalidDateFormat
		}
		end = t
	}
	start := end.AddDate(0, 0, -(defaultReportDays - 1))
	if startDate != "" {
		t, err := time.Parse(entity.DateLayout, startDate)
		if err != nil {
			return time.Time{}, time.Time{}, ErrInvalidDateFormat
		}
		start = t
	}

	if end.Before(start) || end.Sub(start) >= maxReportDays*24*time.Hour {
		return time.Time{}, time.Time{}, ErrInvalidDateRange
	}
	return start, end, nil
}

// SummarizeStatuses folds stored status values (legacy labels included) into canonical keys.
func SummarizeStatuses(counts map[entity.AppointmentStatus]int64) map[string]int64 {
	out := map[string]int64{
		string(entity.AppointmentStatusPending):   0,
		string(entity.AppointmentStatusConfirmed): 0,
		string(entity.AppointmentStatusCompleted): 0,
		string(entity.AppointmentStatusCancelled): 0,
	}
	for status, n := range counts {
		if canonical, ok := entity.ParseAppointmentStatus(string(status)); ok {
			out[string(canonical)] += n
		}
	}
	return out
}

// Revenue sums the fees of completed appointments.
func Revenue(rows []entity.AppointmentReportRow) decimal.Decimal {
	total := decimal.Zero
	for _, row := range rows {
		if isCompleted(row.Status) {
			total = total.Add(row.Fee)
		}
	}
	return total
}

// AggregateDaily returns one row per day in [start, end], days without appointments included.
func AggregateDaily(rows []entity.AppointmentReportRow, start, end time.Time) []dto.DailyReportRow {
	index := make(map[string]int)
	days := make([]dto.DailyReportRow, 0)
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		key := d.Format(entity.DateLayout)
		index[key] = len(days)
		days = append(days, dto.DailyReportRow{Date: key})
	}

	for _, row := range rows {
		i, ok := index[row.AppointmentDate.Format(entity.DateLayout)]
		if !ok {
			continue
		}
		days[i].Total++
		status, _ := entity.ParseAppointmentStatus(string(row.Status))
		switch status {
		case entity.AppointmentStatusCompleted:
			days[i].Completed++
		case entity.AppointmentStatusCancelled:
			days[i].Cancelled++
		}
	}
	return days
}

// AggregateMonthly returns twelve rows for year with appointment counts and completed revenue.
func AggregateMonthly(rows []entity.AppointmentReportRow, year int) []dto.MonthlyReportRow {
	months := make([]dto.MonthlyReportRow, 12)
	for i := range months {
		months[i] = dto.MonthlyReportRow{Month: i + 1, Revenue: decimal.Zero}
	}

	for _, row := range rows {
		if row.AppointmentDate.Year() != year {
			continue
		}
		m := &months[int(row.AppointmentDate.Month())-1]
		m.Appointments++
		if isCompleted(row.Status) {
			m.Revenue = m.Revenue.Add(row.Fee)
		}
	}
	return months
}

// AggregateBySpecialization counts appointments per specialization, largest first.
func AggregateBySpecialization(rows []entity.AppointmentReportRow) *dto.SpecializationReport {
	counts := make(map[string]int)
	for _, row := range rows {
		counts[row.Specialization]++
	}

	report := &dto.SpecializationReport{
		Total: len(rows),
		Rows:  make([]dto.SpecializationReportRow, 0, len(counts)),
	}
	for specialization, n := range counts {
		pct := 0.0
		if report.Total > 0 {
			pct = decimal.NewFromInt(int64(n * 100)).
				Div(decimal.NewFromInt(int64(report.Total))).
				Round(1).
				InexactFloat64()
		}
		report.Rows = append(report.Rows, dto.SpecializationReportRow{
			Specialization: specialization,
			Appointments:   n,
			Percentage:     pct,
		})
	}
	sort.Slice(report.Rows, func(i, j int) bool {
		if report.Rows[i].Appointments != report.Rows[j].Appointments {
			return report.Rows[i].Appointments > report.Rows[j].Appointments
		}
		return report.Rows[i].Specialization < report.Rows[j].Specialization
	})
	return report
}

func isCompleted(status entity.AppointmentStatus) bool {
	s, ok := entity.ParseAppointmentStatus(string(status))
	return ok && s == entity.AppointmentStatusCompleted
}
