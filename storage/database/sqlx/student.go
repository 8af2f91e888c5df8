package sqlxrepos

import (
	"context"
	"database/sql"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/cptracker/core"
	"github.com/trezcool/cptracker/core/student"
	"github.com/trezcool/cptracker/storage/database"
)

const studentColumns = `name, email, phone, codeforces_handle, current_rating, max_rating,
	last_updated, email_reminders_count, email_reminders_enabled, joined_date`

// text columns are ordered case-insensitively
var lowerOrderings = map[string]bool{"name": true, "codeforces_handle": true}

type studentRepository struct {
	db *sqlx.DB
}

var _ student.Repository = (*studentRepository)(nil)

func NewStudentRepository(db *sqlx.DB) student.Repository {
	return &studentRepository{db: db}
}

func (repo *studentRepository) CreateStudent(ctx context.Context, s student.Student) (student.Student, error) {
	q := repo.db.Rebind(`INSERT INTO student (` + studentColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?) RETURNING id`)
	err := repo.db.QueryRowxContext(ctx, q,
		s.Name, s.Email, s.Phone, s.CodeforcesHandle, s.CurrentRating, s.MaxRating,
		s.LastUpdated, s.EmailRemindersCount, s.EmailRemindersEnabled, s.JoinedDate,
	).Scan(&s.ID)
	if err != nil {
		return student.Student{}, errors.Wrap(err, "inserting student")
	}
	return s, nil
}

func (repo *studentRepository) QueryStudents(ctx context.Context, filter student.QueryFilter, orderings ...core.DBOrdering) ([]student.Student, error) {
	var (
		q    strings.Builder
		args []interface{}
	)
	lower := database.LowerFunc(repo.db.DriverName())
	q.WriteString(`SELECT id, ` + studentColumns + ` FROM student`)
	if filter.Search != "" {
		where := make([]string, 0, 3)
		for _, col := range []string{"name", "email", "codeforces_handle"} {
			where = append(where, lower+"("+col+`) LIKE ? ESCAPE '\'`)
		}
		q.WriteString(" WHERE " + strings.Join(where, " OR "))
		pattern := "%" + escapeLike(strings.ToLower(filter.Search)) + "%"
		args = append(args, pattern, pattern, pattern)
	}
	q.WriteString(" ORDER BY ")
	for _, ord := range orderings {
		if !student.OrderingFields[ord.Field] {
			continue
		}
		if lowerOrderings[ord.Field] {
			ord.Field = lower + "(" + ord.Field + ")"
		}
		q.WriteString(ord.String() + ", ")
	}
	q.WriteString("id ASC")

	students := make([]student.Student, 0)
	if err := repo.db.SelectContext(ctx, &students, repo.db.Rebind(q.String()), args...); err != nil {
		return nil, errors.Wrap(err, "selecting students")
	}
	return students, nil
}

func (repo *studentRepository) GetStudentByID(ctx context.Context, id int) (student.Student, error) {
	var s student.Student
	q := repo.db.Rebind(`SELECT id, ` + studentColumns + ` FROM student WHERE id = ?`)
	if err := repo.db.GetContext(ctx, &s, q, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return student.Student{}, student.ErrNotFound
		}
		return student.Student{}, errors.Wrap(err, "selecting student")
	}
	return s, nil
}

func (repo *studentRepository) UpdateStudent(ctx context.Context, s student.Student) (student.Student, error) {
	q := repo.db.Rebind(`UPDATE student SET
		name = ?, email = ?, phone = ?, codeforces_handle = ?, current_rating = ?, max_rating = ?,
		last_updated = ?, email_reminders_count = ?, email_reminders_enabled = ?, joined_date = ?
		WHERE id = ?`)
	res, err := repo.db.ExecContext(ctx, q,
		s.Name, s.Email, s.Phone, s.CodeforcesHandle, s.CurrentRating, s.MaxRating,
		s.LastUpdated, s.EmailRemindersCount, s.EmailRemindersEnabled, s.JoinedDate, s.ID,
	)
	if err != nil {
		return student.Student{}, errors.Wrap(err, "updating student")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return student.Student{}, errors.Wrap(err, "updating student")
	}
	if n == 0 {
		return student.Student{}, student.ErrNotFound
	}
	return s, nil
}

func (repo *studentRepository) DeleteStudentsByID(ctx context.Context, ids ...int) error {
	if len(ids) == 0 {
		return nil
	}
	q, args, err := sqlx.In(`DELETE FROM student WHERE id IN (?)`, ids)
	if err != nil {
		return errors.Wrap(err, "building delete query")
	}
	if _, err := repo.db.ExecContext(ctx, repo.db.Rebind(q), args...); err != nil {
		return errors.Wrap(err, "deleting students")
	}
	return nil
}

// escapeLike escapes the LIKE wildcards of s, using \ as escape character.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
