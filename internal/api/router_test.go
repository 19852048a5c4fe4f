package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/Luisxcv/neuro-insight-agenda/internal/account"
	"github.com/Luisxcv/neuro-insight-agenda/internal/booking"
	"github.com/Luisxcv/neuro-insight-agenda/internal/patient"
	"github.com/Luisxcv/neuro-insight-agenda/internal/token"
)

// In-memory stores implementing the repository contracts, so the full HTTP
// stack runs without Postgres or Redis.

type stubAccounts struct {
	mu   sync.Mutex
	rows map[uuid.UUID]*account.Account
}

func newStubAccounts() *stubAccounts {
	return &stubAccounts{rows: make(map[uuid.UUID]*account.Account)}
}

func (s *stubAccounts) FindByEmail(_ context.Context, email string) (*account.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.rows {
		if account.NormalizeEmail(a.Email) == account.NormalizeEmail(email) {
			cp := *a
			return &cp, nil
		}
	}
	return nil, account.ErrAccountNotFound
}

func (s *stubAccounts) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := s.FindByEmail(ctx, email)
	if err == nil {
		return true, nil
	}
	return false, nil
}

func (s *stubAccounts) FindByID(_ context.Context, id uuid.UUID) (*account.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.rows[id]
	if !ok {
		return nil, account.ErrAccountNotFound
	}
	cp := *a
	return &cp, nil
}

func (s *stubAccounts) Create(_ context.Context, a *account.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.rows {
		if account.NormalizeEmail(existing.Email) == account.NormalizeEmail(a.Email) {
			return account.ErrDuplicateAccount
		}
	}
	cp := *a
	s.rows[a.ID] = &cp
	return nil
}

func (s *stubAccounts) Update(_ context.Context, a *account.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rows[a.ID]; !ok {
		return account.ErrAccountNotFound
	}
	cp := *a
	s.rows[a.ID] = &cp
	return nil
}

func (s *stubAccounts) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rows[id]; !ok {
		return account.ErrAccountNotFound
	}
	delete(s.rows, id)
	return nil
}

func (s *stubAccounts) FindAll(_ context.Context) ([]account.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]account.Account, 0, len(s.rows))
	for _, a := range s.rows {
		out = append(out, *a)
	}
	return out, nil
}

func (s *stubAccounts) FindByRoleAndApproval(_ context.Context, role account.Role, approved bool) ([]account.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []account.Account
	for _, a := range s.rows {
		if a.Role == role && a.IsApproved == approved {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (s *stubAccounts) FindApprovedActiveDoctors(_ context.Context) ([]account.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []account.Account
	for _, a := range s.rows {
		if a.Role == account.RoleDoctor && a.IsApproved && a.IsActive {
			out = append(out, *a)
		}
	}
	return out, nil
}

type stubBookings struct {
	mu   sync.Mutex
	rows map[uuid.UUID]*booking.Appointment
}

func newStubBookings() *stubBookings {
	return &stubBookings{rows: make(map[uuid.UUID]*booking.Appointment)}
}

func (s *stubBookings) FindByID(_ context.Context, id uuid.UUID) (*booking.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.rows[id]
	if !ok {
		return nil, booking.ErrAppointmentNotFound
	}
	cp := *a
	return &cp, nil
}

func (s *stubBookings) FindBySlot(_ context.Context, doctorName, date, timeOfDay string) ([]booking.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := booking.SlotKey(doctorName, date, timeOfDay)
	var out []booking.Appointment
	for _, a := range s.rows {
		if booking.SlotKey(a.DoctorName, a.Date, a.Time) == key {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (s *stubBookings) FindByPatientEmailOrdered(_ context.Context, email string) ([]booking.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []booking.Appointment
	for _, a := range s.rows {
		if a.PatientEmail == email {
			out = append(out, *a)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date > out[j].Date
		}
		return out[i].Time > out[j].Time
	})
	return out, nil
}

func (s *stubBookings) FindByDoctorName(_ context.Context, name string) ([]booking.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []booking.Appointment
	for _, a := range s.rows {
		if booking.SlotKey(a.DoctorName, "", "") == booking.SlotKey(name, "", "") {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (s *stubBookings) FindByStatus(_ context.Context, status booking.Status) ([]booking.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []booking.Appointment
	for _, a := range s.rows {
		if a.Status == status {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (s *stubBookings) FindAll(_ context.Context) ([]booking.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]booking.Appointment, 0, len(s.rows))
	for _, a := range s.rows {
		out = append(out, *a)
	}
	return out, nil
}

func (s *stubBookings) Create(_ context.Context, a *booking.Appointment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if a.Status.Holds() {
		key := booking.SlotKey(a.DoctorName, a.Date, a.Time)
		for _, existing := range s.rows {
			if existing.Status.Holds() && booking.SlotKey(existing.DoctorName, existing.Date, existing.Time) == key {
				return booking.ErrSlotConflict
			}
		}
	}
	cp := *a
	s.rows[a.ID] = &cp
	return nil
}

func (s *stubBookings) UpdateStatus(_ context.Context, id uuid.UUID, to booking.Status) (*booking.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.rows[id]
	if !ok {
		return nil, booking.ErrAppointmentNotFound
	}
	if err := s.checkSlotIndex(a, to); err != nil {
		return nil, err
	}
	a.Status = to
	cp := *a
	return &cp, nil
}

func (s *stubBookings) UpdateStatusFrom(_ context.Context, id uuid.UUID, from, to booking.Status) (*booking.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.rows[id]
	if !ok || a.Status != from {
		return nil, booking.ErrAppointmentNotFound
	}
	if err := s.checkSlotIndex(a, to); err != nil {
		return nil, err
	}
	a.Status = to
	cp := *a
	return &cp, nil
}

// checkSlotIndex mirrors the partial unique slot index: moving a row back
// into the holding set conflicts when another holding row occupies the slot.
func (s *stubBookings) checkSlotIndex(a *booking.Appointment, to booking.Status) error {
	if !to.Holds() {
		return nil
	}
	key := booking.SlotKey(a.DoctorName, a.Date, a.Time)
	for _, other := range s.rows {
		if other.ID != a.ID && other.Status.Holds() && booking.SlotKey(other.DoctorName, other.Date, other.Time) == key {
			return booking.ErrSlotConflict
		}
	}
	return nil
}

type noopLocker struct{}

func (noopLocker) WithSlotLock(ctx context.Context, _ string, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type stubPatients struct {
	mu   sync.Mutex
	rows map[uuid.UUID]*patient.Patient
}

func newStubPatients() *stubPatients {
	return &stubPatients{rows: make(map[uuid.UUID]*patient.Patient)}
}

func (s *stubPatients) FindByID(_ context.Context, id uuid.UUID) (*patient.Patient, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.rows[id]
	if !ok {
		return nil, patient.ErrPatientNotFound
	}
	cp := *p
	return &cp, nil
}

func (s *stubPatients) FindByEmail(_ context.Context, email string) (*patient.Patient, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.rows {
		if account.NormalizeEmail(p.Email) == account.NormalizeEmail(email) {
			cp := *p
			return &cp, nil
		}
	}
	return nil, patient.ErrPatientNotFound
}

func (s *stubPatients) FindAll(_ context.Context) ([]patient.Patient, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]patient.Patient, 0, len(s.rows))
	for _, p := range s.rows {
		out = append(out, *p)
	}
	return out, nil
}

func (s *stubPatients) Search(_ context.Context, term string) ([]patient.Patient, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []patient.Patient
	for _, p := range s.rows {
		if p.Matches(term) {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (s *stubPatients) Create(_ context.Context, p *patient.Patient) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *p
	s.rows[p.ID] = &cp
	return nil
}

func (s *stubPatients) Update(_ context.Context, p *patient.Patient) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rows[p.ID]; !ok {
		return patient.ErrPatientNotFound
	}
	cp := *p
	s.rows[p.ID] = &cp
	return nil
}

func (s *stubPatients) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rows[id]; !ok {
		return patient.ErrPatientNotFound
	}
	delete(s.rows, id)
	return nil
}

func (s *stubPatients) CountStats(_ context.Context) (patient.Stats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var st patient.Stats
	for _, p := range s.rows {
		if p.Status == patient.StatusActive {
			st.ActivePatients++
		}
		if p.LastAnalysisResult == patient.AnalysisPending {
			st.PendingAnalyses++
		}
		if p.NextAppointment != nil && p.NextAppointment.After(time.Now()) {
			st.UpcomingAppointments++
		}
	}
	return st, nil
}

type testServer struct {
	handler  http.Handler
	accounts *stubAccounts
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	accountsRepo := newStubAccounts()

	// admin is provisioned out of band, never through registration
	hash, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash admin password: %v", err)
	}
	if err := accountsRepo.Create(context.Background(), &account.Account{
		ID:           uuid.New(),
		Email:        "admin@clinic.local",
		PasswordHash: string(hash),
		DisplayName:  "Administrator",
		Role:         account.RoleAdmin,
		IsApproved:   true,
		IsActive:     true,
		CreatedAt:    time.Now(),
	}); err != nil {
		t.Fatalf("seed admin: %v", err)
	}

	issuer := token.NewIssuer("test-secret", time.Hour)
	handler := NewRouter(RouterConfig{
		Accounts:    account.NewService(accountsRepo, issuer, bcrypt.MinCost),
		Bookings:    booking.NewService(newStubBookings(), noopLocker{}),
		Patients:    patient.NewService(newStubPatients()),
		Env:         "test",
		Version:     "test",
		CORSOrigins: []string{"*"},
	})

	return &testServer{handler: handler, accounts: accountsRepo}
}

func (ts *testServer) do(t *testing.T, method, path, bearer string, body any) (int, Envelope) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)

	var env Envelope
	if err := json.NewDecoder(rec.Body).Decode(&env); err != nil {
		t.Fatalf("%s %s: decode response: %v", method, path, err)
	}
	return rec.Code, env
}

// dataAs re-marshals the envelope's data into a typed value.
func dataAs(t *testing.T, env Envelope, out any) {
	t.Helper()
	raw, err := json.Marshal(env.Data)
	if err != nil {
		t.Fatalf("marshal data: %v", err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		t.Fatalf("unmarshal data: %v", err)
	}
}

func (ts *testServer) register(t *testing.T, name, email string) string {
	t.Helper()
	code, env := ts.do(t, http.MethodPost, "/api/auth/register", "", RegisterRequest{
		Name:            name,
		Email:           email,
		Password:        "secret1",
		ConfirmPassword: "secret1",
	})
	if code != http.StatusCreated {
		t.Fatalf("register %s: status %d (%s)", email, code, env.Message)
	}
	var auth AuthData
	dataAs(t, env, &auth)
	return auth.Token
}

func (ts *testServer) login(t *testing.T, email, password string) string {
	t.Helper()
	code, env := ts.do(t, http.MethodPost, "/api/auth/login", "", LoginRequest{
		Email:    email,
		Password: password,
	})
	if code != http.StatusOK {
		t.Fatalf("login %s: status %d (%s)", email, code, env.Message)
	}
	var auth AuthData
	dataAs(t, env, &auth)
	return auth.Token
}

func TestBookingLifecycleOverHTTP(t *testing.T) {
	ts := newTestServer(t)

	aliceTok := ts.register(t, "Alice", "alice@x.com")
	bobTok := ts.register(t, "Bob", "bob@x.com")
	adminTok := ts.login(t, "admin@clinic.local", "admin123")

	slot := AppointmentRequest{
		Date:       "2026-09-01",
		Time:       "09:00",
		DoctorName: "Dr. Lee",
	}

	// alice books the slot
	code, env := ts.do(t, http.MethodPost, "/api/appointments", aliceTok, slot)
	if code != http.StatusCreated {
		t.Fatalf("book: status %d (%s)", code, env.Message)
	}
	var appt AppointmentResponse
	dataAs(t, env, &appt)
	if appt.Status != "pending" {
		t.Errorf("status = %s", appt.Status)
	}

	// bob cannot take the same slot
	code, _ = ts.do(t, http.MethodPost, "/api/appointments", bobTok, slot)
	if code != http.StatusConflict {
		t.Fatalf("double booking: status %d, want 409", code)
	}

	// bob cannot cancel alice's appointment either
	code, _ = ts.do(t, http.MethodPut, "/api/appointments/"+appt.ID.String()+"/cancel", bobTok, nil)
	if code != http.StatusForbidden {
		t.Fatalf("foreign cancel: status %d, want 403", code)
	}

	// admin sees it in the pending queue and rejects it
	code, env = ts.do(t, http.MethodGet, "/api/appointments/pending", adminTok, nil)
	if code != http.StatusOK {
		t.Fatalf("pending queue: status %d", code)
	}
	var queue []AppointmentResponse
	dataAs(t, env, &queue)
	if len(queue) != 1 {
		t.Fatalf("pending queue has %d entries, want 1", len(queue))
	}

	code, _ = ts.do(t, http.MethodPut, "/api/appointments/"+appt.ID.String()+"/reject", adminTok, nil)
	if code != http.StatusOK {
		t.Fatalf("reject: status %d", code)
	}

	// rejecting twice is a conflict, not a success
	code, _ = ts.do(t, http.MethodPut, "/api/appointments/"+appt.ID.String()+"/reject", adminTok, nil)
	if code != http.StatusConflict {
		t.Fatalf("re-reject: status %d, want 409", code)
	}

	// alice can still ask to reschedule her rejected appointment, which
	// re-holds the slot
	code, _ = ts.do(t, http.MethodPut, "/api/appointments/"+appt.ID.String()+"/request-reschedule", aliceTok, nil)
	if code != http.StatusOK {
		t.Fatalf("request reschedule: status %d", code)
	}
	code, env = ts.do(t, http.MethodGet, "/api/appointments/reschedule-requests", adminTok, nil)
	if code != http.StatusOK {
		t.Fatalf("reschedule queue: status %d", code)
	}
	dataAs(t, env, &queue)
	if len(queue) != 1 {
		t.Fatalf("reschedule queue has %d entries, want 1", len(queue))
	}

	// the re-held slot blocks bob until the admin cancels the request
	code, _ = ts.do(t, http.MethodPost, "/api/appointments", bobTok, slot)
	if code != http.StatusConflict {
		t.Fatalf("rebook against reschedule request: status %d, want 409", code)
	}
	code, _ = ts.do(t, http.MethodPut, "/api/appointments/"+appt.ID.String()+"/cancel", adminTok, nil)
	if code != http.StatusOK {
		t.Fatalf("admin cancel: status %d", code)
	}
	code, env = ts.do(t, http.MethodPost, "/api/appointments", bobTok, slot)
	if code != http.StatusCreated {
		t.Fatalf("rebook: status %d (%s)", code, env.Message)
	}

	// now the slot belongs to bob, so rescheduling alice's cancelled row
	// collides with the slot index instead of silently double-holding
	code, _ = ts.do(t, http.MethodPut, "/api/appointments/"+appt.ID.String()+"/request-reschedule", aliceTok, nil)
	if code != http.StatusConflict {
		t.Fatalf("reschedule into taken slot: status %d, want 409", code)
	}

	// alice's own list shows only her appointment
	code, env = ts.do(t, http.MethodGet, "/api/appointments", aliceTok, nil)
	if code != http.StatusOK {
		t.Fatalf("my appointments: status %d", code)
	}
	var mine []AppointmentResponse
	dataAs(t, env, &mine)
	if len(mine) != 1 || mine[0].PatientEmail != "alice@x.com" {
		t.Errorf("my appointments = %+v", mine)
	}
}

func TestDoctorApprovalFlowOverHTTP(t *testing.T) {
	ts := newTestServer(t)
	adminTok := ts.login(t, "admin@clinic.local", "admin123")

	// doctor registers with a specialty and starts unapproved
	code, env := ts.do(t, http.MethodPost, "/api/auth/register", "", RegisterRequest{
		Name:            "Gregory",
		Email:           "gregory@x.com",
		Password:        "secret1",
		ConfirmPassword: "secret1",
		Role:            "doctor",
		Specialty:       "Neurology",
	})
	if code != http.StatusCreated {
		t.Fatalf("register doctor: status %d (%s)", code, env.Message)
	}

	// login is gated until an admin approves
	code, _ = ts.do(t, http.MethodPost, "/api/auth/login", "", LoginRequest{
		Email: "gregory@x.com", Password: "secret1",
	})
	if code != http.StatusForbidden {
		t.Fatalf("unapproved login: status %d, want 403", code)
	}

	code, env = ts.do(t, http.MethodGet, "/api/users/pending-doctors", adminTok, nil)
	if code != http.StatusOK {
		t.Fatalf("pending doctors: status %d", code)
	}
	var pending []AccountResponse
	dataAs(t, env, &pending)
	if len(pending) != 1 {
		t.Fatalf("pending doctors = %d, want 1", len(pending))
	}

	code, _ = ts.do(t, http.MethodPut, "/api/users/"+pending[0].ID.String()+"/approve", adminTok, nil)
	if code != http.StatusOK {
		t.Fatalf("approve: status %d", code)
	}

	docTok := ts.login(t, "gregory@x.com", "secret1")

	// the approved doctor shows up on the roster for any authenticated user
	code, env = ts.do(t, http.MethodGet, "/api/users/doctors", docTok, nil)
	if code != http.StatusOK {
		t.Fatalf("roster: status %d", code)
	}
	var roster []AccountResponse
	dataAs(t, env, &roster)
	if len(roster) != 1 || roster[0].Specialty != "Neurology" {
		t.Errorf("roster = %+v", roster)
	}
}

func TestAdminRegistrationRejectedOverHTTP(t *testing.T) {
	ts := newTestServer(t)

	code, env := ts.do(t, http.MethodPost, "/api/auth/register", "", RegisterRequest{
		Name:            "Mallory",
		Email:           "mallory@x.com",
		Password:        "secret1",
		ConfirmPassword: "secret1",
		Role:            "admin",
	})
	if code != http.StatusBadRequest {
		t.Fatalf("admin registration: status %d (%s), want 400", code, env.Message)
	}

	// no account was created, so no privileged login is possible
	code, _ = ts.do(t, http.MethodPost, "/api/auth/login", "", LoginRequest{
		Email: "mallory@x.com", Password: "secret1",
	})
	if code != http.StatusUnauthorized {
		t.Fatalf("login after rejected registration: status %d, want 401", code)
	}
}

func TestRoleGatesOverHTTP(t *testing.T) {
	ts := newTestServer(t)
	patientTok := ts.register(t, "Alice", "alice@x.com")

	adminPaths := []struct{ method, path string }{
		{http.MethodGet, "/api/users/"},
		{http.MethodGet, "/api/users/pending-doctors"},
		{http.MethodGet, "/api/appointments/all"},
		{http.MethodGet, "/api/appointments/pending"},
	}
	for _, p := range adminPaths {
		if code, _ := ts.do(t, p.method, p.path, patientTok, nil); code != http.StatusForbidden {
			t.Errorf("%s %s as patient: status %d, want 403", p.method, p.path, code)
		}
	}

	// the directory is staff-only
	if code, _ := ts.do(t, http.MethodGet, "/api/patients/", patientTok, nil); code != http.StatusForbidden {
		t.Errorf("patient directory as patient: want 403")
	}
}

func TestAuthRequiredOverHTTP(t *testing.T) {
	ts := newTestServer(t)

	if code, _ := ts.do(t, http.MethodGet, "/api/appointments", "", nil); code != http.StatusUnauthorized {
		t.Errorf("no token: status %d, want 401", code)
	}
	if code, _ := ts.do(t, http.MethodGet, "/api/appointments", "not-a-token", nil); code != http.StatusUnauthorized {
		t.Errorf("garbage token: status %d, want 401", code)
	}
}

func TestDisabledAccountRejectedAtLoginOverHTTP(t *testing.T) {
	ts := newTestServer(t)
	adminTok := ts.login(t, "admin@clinic.local", "admin123")
	ts.register(t, "Alice", "alice@x.com")

	acct, err := ts.accounts.FindByEmail(context.Background(), "alice@x.com")
	if err != nil {
		t.Fatalf("find alice: %v", err)
	}

	code, _ := ts.do(t, http.MethodPut, "/api/users/"+acct.ID.String()+"/toggle-status", adminTok, nil)
	if code != http.StatusOK {
		t.Fatalf("toggle: status %d", code)
	}

	code, env := ts.do(t, http.MethodPost, "/api/auth/login", "", LoginRequest{
		Email: "alice@x.com", Password: "secret1",
	})
	if code != http.StatusForbidden {
		t.Fatalf("disabled login: status %d (%s), want 403", code, env.Message)
	}
}

func TestPatientDirectoryOverHTTP(t *testing.T) {
	ts := newTestServer(t)
	adminTok := ts.login(t, "admin@clinic.local", "admin123")

	code, env := ts.do(t, http.MethodPost, "/api/patients/", adminTok, PatientRequest{
		Name:  "Carol Jones",
		Email: "carol@x.com",
		Phone: "555-0101",
	})
	if code != http.StatusCreated {
		t.Fatalf("create patient: status %d (%s)", code, env.Message)
	}
	var created PatientResponse
	dataAs(t, env, &created)

	// creating without the required fields is a client error
	code, _ = ts.do(t, http.MethodPost, "/api/patients/", adminTok, PatientRequest{Name: "No Email"})
	if code != http.StatusBadRequest {
		t.Fatalf("invalid create: status %d, want 400", code)
	}

	code, env = ts.do(t, http.MethodGet, "/api/patients/?search=carol", adminTok, nil)
	if code != http.StatusOK {
		t.Fatalf("search: status %d", code)
	}
	var found []PatientResponse
	dataAs(t, env, &found)
	if len(found) != 1 || found[0].ID != created.ID {
		t.Errorf("search result = %+v", found)
	}

	code, _ = ts.do(t, http.MethodDelete, "/api/patients/"+created.ID.String(), adminTok, nil)
	if code != http.StatusOK {
		t.Fatalf("delete: status %d", code)
	}
	code, _ = ts.do(t, http.MethodGet, "/api/patients/"+created.ID.String(), adminTok, nil)
	if code != http.StatusNotFound {
		t.Fatalf("get deleted: status %d, want 404", code)
	}
}
