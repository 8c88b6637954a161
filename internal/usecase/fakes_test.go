package usecase

import (
	"context"
	"io"
	"sort"
	"sync"
	"testing"
	"time"

	"hospital-appointment/internal/domain/entity"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

// newMockDB returns a gorm handle whose transactions are checked by sqlmock.
func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger:                 logger.Default.LogMode(logger.Silent),
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)
	return db, mock
}

type fakeAppointmentRepo struct {
	mu           sync.Mutex
	appointments map[uuid.UUID]entity.Appointment
	createErr    error
	lastFilter   *entity.AppointmentFilter
}

func newFakeAppointmentRepo() *fakeAppointmentRepo {
	return &fakeAppointmentRepo{appointments: make(map[uuid.UUID]entity.Appointment)}
}

func (r *fakeAppointmentRepo) add(a entity.Appointment) entity.Appointment {
	r.mu.Lock()
	defer r.mu.Unlock()
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	r.appointments[a.ID] = a
	return a
}

func (r *fakeAppointmentRepo) Create(ctx context.Context, db *gorm.DB, appointment *entity.Appointment) error {
	if r.createErr != nil {
		return r.createErr
	}
	appointment.ID = uuid.New()
	r.add(*appointment)
	return nil
}

func (r *fakeAppointmentRepo) FindByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (*entity.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.appointments[id]
	if !ok {
		return nil, nil
	}
	return &a, nil
}

func (r *fakeAppointmentRepo) FindAll(ctx context.Context, db *gorm.DB, filter *entity.AppointmentFilter) ([]entity.Appointment, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastFilter = filter
	var out []entity.Appointment
	for _, a := range r.appointments {
		if filter.PatientID != nil && a.PatientID != *filter.PatientID {
			continue
		}
		if filter.DoctorID != nil && a.DoctorID != *filter.DoctorID {
			continue
		}
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AppointmentTime < out[j].AppointmentTime })
	return out, int64(len(out)), nil
}

func (r *fakeAppointmentRepo) FindActiveByDoctorAndDate(ctx context.Context, db *gorm.DB, doctorID uuid.UUID, date string) ([]entity.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.Appointment
	for _, a := range r.appointments {
		status, _ := entity.ParseAppointmentStatus(string(a.Status))
		if a.DoctorID == doctorID && a.DateString() == date && status != entity.AppointmentStatusCancelled {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *fakeAppointmentRepo) UpdateStatus(ctx context.Context, db *gorm.DB, id uuid.UUID, from, to entity.AppointmentStatus) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.appointments[id]
	if !ok || a.Status != from {
		return 0, nil
	}
	a.Status = to
	r.appointments[id] = a
	return 1, nil
}

func (r *fakeAppointmentRepo) Delete(ctx context.Context, db *gorm.DB, id uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.appointments[id]; !ok {
		return 0, nil
	}
	delete(r.appointments, id)
	return 1, nil
}

func (r *fakeAppointmentRepo) CountByStatus(ctx context.Context, db *gorm.DB) (map[entity.AppointmentStatus]int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[entity.AppointmentStatus]int64)
	for _, a := range r.appointments {
		out[a.Status]++
	}
	return out, nil
}

func (r *fakeAppointmentRepo) FindReportRows(ctx context.Context, db *gorm.DB, startDate, endDate string) ([]entity.AppointmentReportRow, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.AppointmentReportRow
	for _, a := range r.appointments {
		d := a.DateString()
		if (startDate != "" && d < startDate) || (endDate != "" && d > endDate) {
			continue
		}
		out = append(out, entity.AppointmentReportRow{AppointmentDate: a.AppointmentDate, Status: a.Status, Fee: a.Fee})
	}
	return out, nil
}

type fakeDoctorRepo struct {
	profiles map[uuid.UUID]*entity.DoctorProfile
}

func (r *fakeDoctorRepo) Create(ctx context.Context, db *gorm.DB, profile *entity.DoctorProfile) error {
	r.profiles[profile.UserID] = profile
	return nil
}

func (r *fakeDoctorRepo) FindByUserID(ctx context.Context, db *gorm.DB, userID uuid.UUID) (*entity.DoctorProfile, error) {
	p, ok := r.profiles[userID]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *fakeDoctorRepo) FindAll(ctx context.Context, db *gorm.DB, filter *entity.DoctorFilter) ([]entity.DoctorProfile, error) {
	var out []entity.DoctorProfile
	for _, p := range r.profiles {
		out = append(out, *p)
	}
	return out, nil
}

func (r *fakeDoctorRepo) Update(ctx context.Context, db *gorm.DB, profile *entity.DoctorProfile) error {
	r.profiles[profile.UserID] = profile
	return nil
}

func (r *fakeDoctorRepo) UpdateWeeklySchedule(ctx context.Context, db *gorm.DB, userID uuid.UUID, schedule entity.WeeklySchedule) (int64, error) {
	p, ok := r.profiles[userID]
	if !ok {
		return 0, nil
	}
	p.WeeklySchedule = schedule
	return 1, nil
}

func (r *fakeDoctorRepo) Delete(ctx context.Context, db *gorm.DB, userID uuid.UUID) error {
	delete(r.profiles, userID)
	return nil
}

func (r *fakeDoctorRepo) FindSpecializations(ctx context.Context, db *gorm.DB) ([]string, error) {
	return nil, nil
}

func (r *fakeDoctorRepo) CountActive(ctx context.Context, db *gorm.DB) (int64, error) {
	return int64(len(r.profiles)), nil
}

type fakePatientRepo struct {
	profiles map[uuid.UUID]*entity.PatientProfile
}

func (r *fakePatientRepo) Create(ctx context.Context, db *gorm.DB, profile *entity.PatientProfile) error {
	r.profiles[profile.UserID] = profile
	return nil
}

func (r *fakePatientRepo) FindByUserID(ctx context.Context, db *gorm.DB, userID uuid.UUID) (*entity.PatientProfile, error) {
	p, ok := r.profiles[userID]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *fakePatientRepo) FindByNationalID(ctx context.Context, db *gorm.DB, nationalID string) (*entity.PatientProfile, error) {
	for _, p := range r.profiles {
		if p.NationalID == nationalID {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakePatientRepo) FindAll(ctx context.Context, db *gorm.DB, filter entity.PatientFilter) ([]entity.PatientProfile, int64, error) {
	var out []entity.PatientProfile
	for _, p := range r.profiles {
		out = append(out, *p)
	}
	return out, int64(len(out)), nil
}

func (r *fakePatientRepo) Update(ctx context.Context, db *gorm.DB, profile *entity.PatientProfile) error {
	r.profiles[profile.UserID] = profile
	return nil
}

func (r *fakePatientRepo) Delete(ctx context.Context, db *gorm.DB, userID uuid.UUID) error {
	delete(r.profiles, userID)
	return nil
}

type fakeUserRepo struct {
	users     map[uuid.UUID]*entity.User
	lastLogin map[uuid.UUID]time.Time
}

func newFakeUserRepo(users ...*entity.User) *fakeUserRepo {
	r := &fakeUserRepo{users: make(map[uuid.UUID]*entity.User), lastLogin: make(map[uuid.UUID]time.Time)}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

func (r *fakeUserRepo) Create(ctx context.Context, db *gorm.DB, user *entity.User) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) FindByEmail(ctx context.Context, db *gorm.DB, email string) (*entity.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) FindByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (*entity.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) Update(ctx context.Context, db *gorm.DB, user *entity.User) error {
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func (r *fakeUserRepo) UpdatePassword(ctx context.Context, db *gorm.DB, id uuid.UUID, hash string) error {
	if u, ok := r.users[id]; ok {
		u.Password = hash
	}
	return nil
}

func (r *fakeUserRepo) UpdateLastLogin(ctx context.Context, db *gorm.DB, id uuid.UUID, at time.Time) error {
	r.lastLogin[id] = at
	return nil
}

func (r *fakeUserRepo) SetActive(ctx context.Context, db *gorm.DB, id uuid.UUID, active bool) (int64, error) {
	u, ok := r.users[id]
	if !ok {
		return 0, nil
	}
	u.IsActive = &active
	return 1, nil
}

func (r *fakeUserRepo) CountByRole(ctx context.Context, db *gorm.DB, role entity.Role) (int64, error) {
	_, total, err := r.FindByRole(ctx, db, role, 0, 0)
	return total, err
}

func (r *fakeUserRepo) FindByRole(ctx context.Context, db *gorm.DB, role entity.Role, page, pageSize int) ([]entity.User, int64, error) {
	var out []entity.User
	for _, u := range r.users {
		if u.RoleID == role {
			out = append(out, *u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FullName < out[j].FullName })
	return out, int64(len(out)), nil
}

type fakeSpecialDayRepo struct {
	days []entity.SpecialDay
}

func (r *fakeSpecialDayRepo) Create(ctx context.Context, db *gorm.DB, day *entity.SpecialDay) error {
	day.ID = len(r.days) + 1
	r.days = append(r.days, *day)
	return nil
}

func (r *fakeSpecialDayRepo) FindByID(ctx context.Context, db *gorm.DB, id int) (*entity.SpecialDay, error) {
	for i := range r.days {
		if r.days[i].ID == id {
			d := r.days[i]
			return &d, nil
		}
	}
	return nil, nil
}

func (r *fakeSpecialDayRepo) FindByDoctorAndDate(ctx context.Context, db *gorm.DB, doctorID uuid.UUID, date string) (*entity.SpecialDay, error) {
	for i := range r.days {
		if r.days[i].DoctorID == doctorID && r.days[i].Date.Format(entity.DateLayout) == date {
			d := r.days[i]
			return &d, nil
		}
	}
	return nil, nil
}

func (r *fakeSpecialDayRepo) FindByDoctorID(ctx context.Context, db *gorm.DB, doctorID uuid.UUID, from, to string) ([]entity.SpecialDay, error) {
	var out []entity.SpecialDay
	for _, d := range r.days {
		if d.DoctorID == doctorID {
			out = append(out, d)
		}
	}
	return out, nil
}

func (r *fakeSpecialDayRepo) Delete(ctx context.Context, db *gorm.DB, id int) (int64, error) {
	for i := range r.days {
		if r.days[i].ID == id {
			r.days = append(r.days[:i], r.days[i+1:]...)
			return 1, nil
		}
	}
	return 0, nil
}

type fakeAppointmentTypeRepo struct {
	types map[int]*entity.AppointmentType
}

func (r *fakeAppointmentTypeRepo) Create(ctx context.Context, appointmentType *entity.AppointmentType) error {
	appointmentType.ID = len(r.types) + 1
	r.types[appointmentType.ID] = appointmentType
	return nil
}

func (r *fakeAppointmentTypeRepo) FindAll(ctx context.Context, limit, offset int) ([]entity.AppointmentType, int64, error) {
	var out []entity.AppointmentType
	for _, t := range r.types {
		out = append(out, *t)
	}
	return out, int64(len(out)), nil
}

func (r *fakeAppointmentTypeRepo) FindByID(ctx context.Context, id int) (*entity.AppointmentType, error) {
	t, ok := r.types[id]
	if !ok {
		return nil, nil
	}
	return t, nil
}

func (r *fakeAppointmentTypeRepo) Update(ctx context.Context, appointmentType *entity.AppointmentType) error {
	r.types[appointmentType.ID] = appointmentType
	return nil
}

func (r *fakeAppointmentTypeRepo) Delete(ctx context.Context, id int) error {
	delete(r.types, id)
	return nil
}

type auditEntry struct {
	action   string
	entityID string
	actor    *entity.Actor
}

type fakeAuditService struct {
	entries []auditEntry
}

func (s *fakeAuditService) LogCreate(ctx context.Context, tx *gorm.DB, actor *entity.Actor, action string, entityName string, entityID string, newValue interface{}) error {
	s.entries = append(s.entries, auditEntry{action: action, entityID: entityID, actor: actor})
	return nil
}

func (s *fakeAuditService) LogUpdate(ctx context.Context, tx *gorm.DB, actor *entity.Actor, action string, entityName string, entityID string, oldValue, newValue interface{}) error {
	s.entries = append(s.entries, auditEntry{action: action, entityID: entityID, actor: actor})
	return nil
}

func (s *fakeAuditService) LogDelete(ctx context.Context, tx *gorm.DB, actor *entity.Actor, action string, entityName string, entityID string, oldValue interface{}) error {
	s.entries = append(s.entries, auditEntry{action: action, entityID: entityID, actor: actor})
	return nil
}

type fakePublisher struct {
	events []string
}

func (p *fakePublisher) Publish(ctx context.Context, eventType string, appointment *entity.Appointment) error {
	p.events = append(p.events, eventType)
	return nil
}

type fakeSlotHolder struct {
	holdErr  error
	held     []string
	released []string
}

func (h *fakeSlotHolder) Hold(ctx context.Context, doctorID uuid.UUID, date, slot string) (string, error) {
	if h.holdErr != nil {
		return "", h.holdErr
	}
	h.held = append(h.held, date+" "+slot)
	return "token", nil
}

func (h *fakeSlotHolder) Release(ctx context.Context, doctorID uuid.UUID, date, slot, token string) error {
	h.released = append(h.released, date+" "+slot)
	return nil
}
