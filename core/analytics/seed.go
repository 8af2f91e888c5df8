package analytics

import (
	"context"
	"strconv"

	"github.com/pkg/errors"

	"github.com/trezcool/cptracker/core/student"
)

// SeedRoster imports n generated students, each named after the ID it is given.
func SeedRoster(ctx context.Context, svc *student.Service, gen *Generator, n int) ([]student.Student, error) {
	existing, err := svc.Query(ctx, student.QueryFilter{})
	if err != nil {
		return nil, errors.Wrap(err, "querying students")
	}

	seeded := make([]student.Student, 0, n)
	for i := 1; i <= n; i++ {
		s, err := svc.ImportLabelled(ctx, gen.Student(len(existing)+i), Label)
		if err != nil {
			return seeded, errors.Wrap(err, "importing student "+strconv.Itoa(len(existing)+i))
		}
		seeded = append(seeded, s)
	}
	return seeded, nil
}
