package store

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"interview-scheduler/internal/models"
	"interview-scheduler/internal/slots"
)

//go:embed schema.sql
var schema string

const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
)

// querier is the part of pgxpool.Pool and pgx.Tx the read helpers need.
type querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// PostgresStore keeps state in Postgres. Slot moves lock the job row with
// SELECT ... FOR UPDATE, and a partial unique index on active appointments
// backs that up.
type PostgresStore struct {
	DB *pgxpool.Pool
}

var _ Store = (*PostgresStore)(nil)

func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("pgxpool.New: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &PostgresStore{DB: pool}, nil
}

// Migrate creates the schema if it does not exist yet.
func (p *PostgresStore) Migrate(ctx context.Context) error {
	if _, err := p.DB.Exec(ctx, schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

func (p *PostgresStore) Close() { p.DB.Close() }

func (p *PostgresStore) CreateJob(ctx context.Context, job *models.Job) error {
	if job.ID == "" {
		job.ID = uuid.NewString()
	}
	job.AvailableSlots = normalizeSlots(job.AvailableSlots)

	q := `INSERT INTO jobs (id, title, description, requirements, available_slots, created_at, updated_at)
	      VALUES ($1,$2,$3,$4,$5,now(),now())
	      RETURNING created_at, updated_at`
	err := p.DB.QueryRow(ctx, q, job.ID, job.Title, job.Description, job.Requirements, job.AvailableSlots).
		Scan(&job.CreatedAt, &job.UpdatedAt)
	if isUniqueViolation(err) {
		return fmt.Errorf("job %s: %w", job.ID, ErrConflict)
	}
	return err
}

const jobColumns = `id, title, description, requirements, available_slots, created_at, updated_at`

func scanJob(row pgx.Row) (models.Job, error) {
	var j models.Job
	err := row.Scan(&j.ID, &j.Title, &j.Description, &j.Requirements, &j.AvailableSlots, &j.CreatedAt, &j.UpdatedAt)
	if j.AvailableSlots == nil {
		j.AvailableSlots = []time.Time{}
	}
	for i := range j.AvailableSlots {
		j.AvailableSlots[i] = j.AvailableSlots[i].UTC()
	}
	return j, err
}

func (p *PostgresStore) GetJob(ctx context.Context, id string) (models.Job, error) {
	return getJob(ctx, p.DB, id, false)
}

func getJob(ctx context.Context, q querier, id string, forUpdate bool) (models.Job, error) {
	sql := `SELECT ` + jobColumns + ` FROM jobs WHERE id=$1`
	if forUpdate {
		sql += ` FOR UPDATE`
	}
	j, err := scanJob(q.QueryRow(ctx, sql, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Job{}, fmt.Errorf("job %s: %w", id, ErrNotFound)
	}
	return j, err
}

func (p *PostgresStore) ListJobs(ctx context.Context) ([]models.Job, error) {
	rows, err := p.DB.Query(ctx, `SELECT `+jobColumns+` FROM jobs ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Job{}
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, j)
	}
	return out, rows.Err()
}

func (p *PostgresStore) UpdateJob(ctx context.Context, id string, fields models.JobFields) (models.Job, error) {
	if fields.Empty() {
		return p.GetJob(ctx, id)
	}
	q := `UPDATE jobs
	      SET title = COALESCE($2, title),
	          description = COALESCE($3, description),
	          requirements = COALESCE($4, requirements),
	          updated_at = now()
	      WHERE id=$1
	      RETURNING ` + jobColumns
	j, err := scanJob(p.DB.QueryRow(ctx, q, id, fields.Title, fields.Description, fields.Requirements))
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Job{}, fmt.Errorf("job %s: %w", id, ErrNotFound)
	}
	return j, err
}

// DeleteJob relies on ON DELETE CASCADE for conversations and appointments.
func (p *PostgresStore) DeleteJob(ctx context.Context, id string) error {
	tag, err := p.DB.Exec(ctx, `DELETE FROM jobs WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("job %s: %w", id, ErrNotFound)
	}
	return nil
}

func (p *PostgresStore) GetAvailableSlots(ctx context.Context, jobID string) ([]time.Time, error) {
	j, err := p.GetJob(ctx, jobID)
	if err != nil {
		return nil, err
	}
	return j.AvailableSlots, nil
}

func (p *PostgresStore) AddSlots(ctx context.Context, jobID string, add ...time.Time) ([]time.Time, error) {
	tx, err := p.DB.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	j, err := getJob(ctx, tx, jobID, true)
	if err != nil {
		return nil, err
	}

	var booked int
	checkQ := `SELECT count(*) FROM appointments
	           WHERE job_id=$1 AND date_time = ANY($2) AND status IN ('scheduled','rescheduled')`
	if err := tx.QueryRow(ctx, checkQ, jobID, add).Scan(&booked); err != nil {
		return nil, err
	}
	if booked > 0 {
		return nil, fmt.Errorf("job %s: %d slot(s) already booked: %w", jobID, booked, ErrConflict)
	}

	available := j.AvailableSlots
	for _, s := range add {
		available = slots.Insert(available, s)
	}
	if err := setSlots(ctx, tx, jobID, available); err != nil {
		return nil, err
	}
	return available, tx.Commit(ctx)
}

func (p *PostgresStore) RemoveSlot(ctx context.Context, jobID string, slot time.Time) error {
	tx, err := p.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	j, err := getJob(ctx, tx, jobID, true)
	if err != nil {
		return err
	}
	rest, ok := slots.Remove(j.AvailableSlots, slot)
	if !ok {
		return slotUnavailable(slot)
	}
	if err := setSlots(ctx, tx, jobID, rest); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func setSlots(ctx context.Context, tx pgx.Tx, jobID string, available []time.Time) error {
	if available == nil {
		available = []time.Time{}
	}
	_, err := tx.Exec(ctx, `UPDATE jobs SET available_slots=$2, updated_at=now() WHERE id=$1`, jobID, available)
	return err
}

func (p *PostgresStore) PruneSlotsBefore(ctx context.Context, cutoff time.Time) (int, error) {
	q := `WITH stale AS (
	          SELECT id, (SELECT count(*) FROM unnest(available_slots) s WHERE s < $1) AS n
	          FROM jobs
	      ), pruned AS (
	          UPDATE jobs j
	          SET available_slots = ARRAY(SELECT s FROM unnest(j.available_slots) s WHERE s >= $1 ORDER BY s),
	              updated_at = now()
	          FROM stale
	          WHERE stale.id = j.id AND stale.n > 0
	          RETURNING stale.n
	      )
	      SELECT COALESCE(sum(n), 0)::int FROM pruned`
	var n int
	if err := p.DB.QueryRow(ctx, q, cutoff).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func (p *PostgresStore) CreateCandidate(ctx context.Context, c *models.Candidate) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.Status == "" {
		c.Status = models.CandidateNew
	}

	q := `INSERT INTO candidates
	      (id, name, phone, email, current_ctc, expected_ctc, notice_period, experience, status, created_at, updated_at)
	      VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,now(),now())
	      RETURNING created_at, updated_at`
	err := p.DB.QueryRow(ctx, q, c.ID, c.Name, c.Phone, c.Email, c.CurrentCTC, c.ExpectedCTC,
		c.NoticePeriod, c.Experience, string(c.Status)).Scan(&c.CreatedAt, &c.UpdatedAt)
	if isUniqueViolation(err) {
		return fmt.Errorf("candidate %s: %w", c.ID, ErrConflict)
	}
	return err
}

const candidateColumns = `id, name, phone, email, current_ctc, expected_ctc, notice_period, experience, status, created_at, updated_at`

func scanCandidate(row pgx.Row) (models.Candidate, error) {
	var (
		c      models.Candidate
		status string
	)
	err := row.Scan(&c.ID, &c.Name, &c.Phone, &c.Email, &c.CurrentCTC, &c.ExpectedCTC,
		&c.NoticePeriod, &c.Experience, &status, &c.CreatedAt, &c.UpdatedAt)
	c.Status = models.CandidateStatus(status)
	return c, err
}

func (p *PostgresStore) GetCandidate(ctx context.Context, id string) (models.Candidate, error) {
	c, err := scanCandidate(p.DB.QueryRow(ctx, `SELECT `+candidateColumns+` FROM candidates WHERE id=$1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Candidate{}, fmt.Errorf("candidate %s: %w", id, ErrNotFound)
	}
	return c, err
}

func (p *PostgresStore) ListCandidates(ctx context.Context) ([]models.Candidate, error) {
	rows, err := p.DB.Query(ctx, `SELECT `+candidateColumns+` FROM candidates ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Candidate{}
	for rows.Next() {
		c, err := scanCandidate(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (p *PostgresStore) UpdateCandidateFields(ctx context.Context, id string, fields models.CandidateFields) error {
	return updateCandidate(ctx, p.DB, id, fields)
}

type execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

func updateCandidate(ctx context.Context, db execer, id string, fields models.CandidateFields) error {
	if fields.Empty() {
		return nil
	}
	var status *string
	if fields.Status != nil {
		s := string(*fields.Status)
		status = &s
	}

	q := `UPDATE candidates
	      SET notice_period = COALESCE($2, notice_period),
	          current_ctc = COALESCE($3, current_ctc),
	          expected_ctc = COALESCE($4, expected_ctc),
	          status = COALESCE($5, status),
	          name = COALESCE($6, name),
	          phone = COALESCE($7, phone),
	          email = COALESCE($8, email),
	          experience = COALESCE($9, experience),
	          updated_at = now()
	      WHERE id=$1`
	tag, err := db.Exec(ctx, q, id, fields.NoticePeriod, fields.CurrentCTC, fields.ExpectedCTC, status,
		fields.Name, fields.Phone, fields.Email, fields.Experience)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("candidate %s: %w", id, ErrNotFound)
	}
	return nil
}

// DeleteCandidate reopens the slots of active appointments before the
// cascade removes them. Jobs are locked in id order.
func (p *PostgresStore) DeleteCandidate(ctx context.Context, id string) error {
	tx, err := p.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var exists bool
	if err := tx.QueryRow(ctx, `SELECT true FROM candidates WHERE id=$1 FOR UPDATE`, id).Scan(&exists); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("candidate %s: %w", id, ErrNotFound)
		}
		return err
	}

	q := `SELECT job_id, date_time FROM appointments
	      WHERE candidate_id=$1 AND status IN ('scheduled','rescheduled')
	      ORDER BY job_id, date_time`
	rows, err := tx.Query(ctx, q, id)
	if err != nil {
		return err
	}
	held := map[string][]time.Time{}
	var jobIDs []string
	for rows.Next() {
		var (
			jobID string
			at    time.Time
		)
		if err := rows.Scan(&jobID, &at); err != nil {
			rows.Close()
			return err
		}
		if _, ok := held[jobID]; !ok {
			jobIDs = append(jobIDs, jobID)
		}
		held[jobID] = append(held[jobID], at.UTC())
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	for _, jobID := range jobIDs {
		j, err := getJob(ctx, tx, jobID, true)
		if err != nil {
			return err
		}
		available := j.AvailableSlots
		for _, at := range held[jobID] {
			available = slots.Insert(available, at)
		}
		if err := setSlots(ctx, tx, jobID, available); err != nil {
			return err
		}
	}

	if _, err := tx.Exec(ctx, `DELETE FROM candidates WHERE id=$1`, id); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (p *PostgresStore) CreateConversation(ctx context.Context, conv *models.Conversation) error {
	if conv.ID == "" {
		conv.ID = uuid.NewString()
	}

	tx, err := p.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	q := `INSERT INTO conversations (id, candidate_id, job_id, transcript, entities_extracted, created_at)
	      VALUES ($1,$2,$3,$4,$5,now())
	      RETURNING created_at`
	err = tx.QueryRow(ctx, q, conv.ID, conv.CandidateID, conv.JobID, conv.Transcript, conv.Entities).
		Scan(&conv.CreatedAt)

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolation {
		return fmt.Errorf("conversation references: %w", ErrNotFound)
	}
	if err != nil {
		return err
	}

	contacted := `UPDATE candidates SET status='contacted', updated_at=now() WHERE id=$1 AND status='new'`
	if _, err := tx.Exec(ctx, contacted, conv.CandidateID); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (p *PostgresStore) GetConversation(ctx context.Context, id string) (models.Conversation, error) {
	var (
		c   models.Conversation
		raw map[string]any
	)
	q := `SELECT id, candidate_id, job_id, transcript, entities_extracted, created_at
	      FROM conversations WHERE id=$1`
	err := p.DB.QueryRow(ctx, q, id).Scan(&c.ID, &c.CandidateID, &c.JobID, &c.Transcript, &raw, &c.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Conversation{}, fmt.Errorf("conversation %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return models.Conversation{}, err
	}
	if c.Entities, err = models.DecodeEntities(raw); err != nil {
		return models.Conversation{}, err
	}
	return c, nil
}

func (p *PostgresStore) AppendTranscript(ctx context.Context, id string, lines ...string) error {
	return appendTranscript(ctx, p.DB, id, lines)
}

func appendTranscript(ctx context.Context, db execer, id string, lines []string) error {
	q := `UPDATE conversations
	      SET transcript = CASE WHEN transcript = '' THEN $2 ELSE transcript || E'\n' || $2 END
	      WHERE id=$1`
	args := []any{id, strings.Join(lines, "\n")}
	if len(lines) == 0 {
		q, args = `UPDATE conversations SET transcript = transcript WHERE id=$1`, args[:1]
	}
	tag, err := db.Exec(ctx, q, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("conversation %s: %w", id, ErrNotFound)
	}
	return nil
}

// MergeEntities relies on jsonb concatenation: unset fields are omitted from
// the encoded Entities, so only present keys overwrite.
func (p *PostgresStore) MergeEntities(ctx context.Context, id string, entities models.Entities) error {
	tag, err := p.DB.Exec(ctx, `UPDATE conversations SET entities_extracted = entities_extracted || $2 WHERE id=$1`, id, entities)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("conversation %s: %w", id, ErrNotFound)
	}
	return nil
}

func (p *PostgresStore) ApplyTurn(ctx context.Context, u TurnUpdate) (*models.Appointment, error) {
	tx, err := p.DB.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	var candidateID, jobID string
	q := `SELECT candidate_id, job_id FROM conversations WHERE id=$1 FOR UPDATE`
	if err := tx.QueryRow(ctx, q, u.ConversationID).Scan(&candidateID, &jobID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("conversation %s: %w", u.ConversationID, ErrNotFound)
		}
		return nil, err
	}

	var appt *models.Appointment
	if u.Book != nil {
		a, err := book(ctx, tx, jobID, candidateID, *u.Book)
		if err != nil {
			return nil, err
		}
		appt = &a
	}

	if err := updateCandidate(ctx, tx, candidateID, u.Candidate); err != nil {
		return nil, err
	}
	if err := appendTranscript(ctx, tx, u.ConversationID, u.Lines); err != nil {
		return nil, err
	}
	if _, err := tx.Exec(ctx, `UPDATE conversations SET entities_extracted=$2 WHERE id=$1`, u.ConversationID, u.Entities); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return appt, nil
}

func (p *PostgresStore) CreateAppointment(ctx context.Context, jobID, candidateID string, slot time.Time) (models.Appointment, error) {
	tx, err := p.DB.Begin(ctx)
	if err != nil {
		return models.Appointment{}, err
	}
	defer tx.Rollback(ctx)

	a, err := book(ctx, tx, jobID, candidateID, slot)
	if err != nil {
		return models.Appointment{}, err
	}
	status := models.CandidateScheduled
	if err := updateCandidate(ctx, tx, candidateID, models.CandidateFields{Status: &status}); err != nil {
		return models.Appointment{}, err
	}
	return a, tx.Commit(ctx)
}

// book locks the job row, takes slot out of its open list and inserts the
// appointment, all inside tx.
func book(ctx context.Context, tx pgx.Tx, jobID, candidateID string, slot time.Time) (models.Appointment, error) {
	j, err := getJob(ctx, tx, jobID, true)
	if err != nil {
		return models.Appointment{}, err
	}
	rest, ok := slots.Remove(j.AvailableSlots, slot)
	if !ok {
		return models.Appointment{}, slotUnavailable(slot)
	}
	if err := setSlots(ctx, tx, jobID, rest); err != nil {
		return models.Appointment{}, err
	}

	a := models.Appointment{
		ID:          uuid.NewString(),
		JobID:       jobID,
		CandidateID: candidateID,
		DateTime:    slot.UTC(),
		Status:      models.AppointmentScheduled,
	}
	q := `INSERT INTO appointments (id, job_id, candidate_id, date_time, status, created_at, updated_at)
	      VALUES ($1,$2,$3,$4,$5,now(),now())
	      RETURNING created_at, updated_at`
	err = tx.QueryRow(ctx, q, a.ID, a.JobID, a.CandidateID, a.DateTime, string(a.Status)).Scan(&a.CreatedAt, &a.UpdatedAt)
	if isUniqueViolation(err) {
		return models.Appointment{}, slotUnavailable(slot)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolation {
		return models.Appointment{}, fmt.Errorf("candidate %s: %w", candidateID, ErrNotFound)
	}
	return a, err
}

const appointmentColumns = `id, job_id, candidate_id, date_time, status, created_at, updated_at`

func scanAppointment(row pgx.Row) (models.Appointment, error) {
	var (
		a      models.Appointment
		status string
	)
	err := row.Scan(&a.ID, &a.JobID, &a.CandidateID, &a.DateTime, &status, &a.CreatedAt, &a.UpdatedAt)
	a.Status = models.AppointmentStatus(status)
	a.DateTime = a.DateTime.UTC()
	return a, err
}

func (p *PostgresStore) GetAppointment(ctx context.Context, id string) (models.Appointment, error) {
	return getAppointment(ctx, p.DB, id, false)
}

func getAppointment(ctx context.Context, q querier, id string, forUpdate bool) (models.Appointment, error) {
	sql := `SELECT ` + appointmentColumns + ` FROM appointments WHERE id=$1`
	if forUpdate {
		sql += ` FOR UPDATE`
	}
	a, err := scanAppointment(q.QueryRow(ctx, sql, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Appointment{}, fmt.Errorf("appointment %s: %w", id, ErrNotFound)
	}
	return a, err
}

func (p *PostgresStore) ListAppointments(ctx context.Context, f AppointmentFilter) ([]models.Appointment, error) {
	q := `SELECT ` + appointmentColumns + ` FROM appointments
	      WHERE ($1 = '' OR job_id = $1) AND ($2 = '' OR candidate_id = $2)
	      ORDER BY date_time`
	rows, err := p.DB.Query(ctx, q, f.JobID, f.CandidateID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Appointment{}
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (p *PostgresStore) UpdateAppointment(ctx context.Context, id string, u AppointmentUpdate) (models.Appointment, error) {
	tx, err := p.DB.Begin(ctx)
	if err != nil {
		return models.Appointment{}, err
	}
	defer tx.Rollback(ctx)

	a, err := getAppointment(ctx, tx, id, true)
	if err != nil {
		return models.Appointment{}, err
	}
	j, err := getJob(ctx, tx, a.JobID, true)
	if err != nil {
		return models.Appointment{}, err
	}

	change, err := planAppointmentUpdate(a, j.AvailableSlots, u)
	if err != nil {
		return models.Appointment{}, err
	}
	if err := setSlots(ctx, tx, a.JobID, change.available); err != nil {
		return models.Appointment{}, err
	}

	next := change.appointment
	q := `UPDATE appointments SET date_time=$2, status=$3, updated_at=now() WHERE id=$1 RETURNING updated_at`
	err = tx.QueryRow(ctx, q, id, next.DateTime, string(next.Status)).Scan(&next.UpdatedAt)
	if isUniqueViolation(err) {
		return models.Appointment{}, slotUnavailable(next.DateTime)
	}
	if err != nil {
		return models.Appointment{}, err
	}

	if change.candidateStatus != nil {
		fields := models.CandidateFields{Status: change.candidateStatus}
		if err := updateCandidate(ctx, tx, a.CandidateID, fields); err != nil {
			return models.Appointment{}, err
		}
	}
	return next, tx.Commit(ctx)
}

func (p *PostgresStore) DeleteAppointment(ctx context.Context, id string) error {
	tx, err := p.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	a, err := getAppointment(ctx, tx, id, true)
	if err != nil {
		return err
	}
	if a.Status.Active() {
		j, err := getJob(ctx, tx, a.JobID, true)
		if err != nil {
			return err
		}
		if err := setSlots(ctx, tx, a.JobID, slots.Insert(j.AvailableSlots, a.DateTime)); err != nil {
			return err
		}
	}
	status := models.CandidateContacted
	if err := updateCandidate(ctx, tx, a.CandidateID, models.CandidateFields{Status: &status}); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `DELETE FROM appointments WHERE id=$1`, id); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
