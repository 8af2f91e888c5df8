package analytics

import (
	"fmt"
	"hash/fnv"
	"math/rand"
	"strconv"
	"time"

	"github.com/trezcool/cptracker/core/student"
)

// History sizes generated for every student.
const (
	ContestsCount    = 20
	ProblemsCount    = 150
	SubmissionsCount = 100
	HeatmapDays      = 90
)

var problemTags = []string{"implementation", "math", "greedy", "dp", "graph", "string", "binary search"}

// Generator synthesizes student activity. It is not safe for concurrent use.
type Generator struct {
	rnd *rand.Rand
	now func() time.Time
}

func NewGenerator(seed int64, now func() time.Time) *Generator {
	if now == nil {
		now = time.Now
	}
	return &Generator{rnd: rand.New(rand.NewSource(seed)), now: now}
}

// SeedFor returns a stable seed for a student ID.
func SeedFor(id int) int64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte("student:" + strconv.Itoa(id)))
	return int64(h.Sum64())
}

// Intn returns a random int in [0, n).
func (g *Generator) Intn(n int) int {
	return g.rnd.Intn(n)
}

// between returns a random int in [min, min+n).
func (g *Generator) between(min, n int) int {
	return min + g.rnd.Intn(n)
}

func (g *Generator) daysAgo(max int) time.Time {
	return g.now().AddDate(0, 0, -g.rnd.Intn(max))
}

// Student returns a random roster entry numbered n.
func (g *Generator) Student(n int) student.Student {
	current := g.between(800, 2000)
	max := g.between(1000, 2500)
	if max < current {
		max = current
	}
	s := student.Student{
		ID:                    n,
		CurrentRating:         current,
		MaxRating:             max,
		LastUpdated:           g.daysAgo(7).UTC(),
		EmailRemindersCount:   g.rnd.Intn(5),
		EmailRemindersEnabled: g.rnd.Float64() > 0.3,
		JoinedDate:            g.daysAgo(365).UTC(),
	}
	Label(&s)
	return s
}

// Label names a generated student after its ID.
func Label(s *student.Student) {
	s.Name = fmt.Sprintf("Student %d", s.ID)
	s.Email = fmt.Sprintf("student%d@example.com", s.ID)
	s.Phone = fmt.Sprintf("+1234567890%d", s.ID)
	s.CodeforcesHandle = fmt.Sprintf("student%d", s.ID)
}

func (g *Generator) Contests(count int) []Contest {
	contests := make([]Contest, 0, count)
	for i := 0; i < count; i++ {
		contests = append(contests, Contest{
			ID:             fmt.Sprintf("contest-%d", i),
			Name:           fmt.Sprintf("Contest %d", i+1),
			Date:           g.daysAgo(365),
			Rank:           g.between(1, 1000),
			RatingChange:   g.between(-100, 200),
			NewRating:      g.between(800, 2000),
			ProblemsSolved: g.between(1, 6),
			TotalProblems:  g.between(6, 3),
		})
	}
	return contests
}

func (g *Generator) Problems(count int) []Problem {
	problems := make([]Problem, 0, count)
	for i := 0; i < count; i++ {
		problems = append(problems, Problem{
			ID:           fmt.Sprintf("problem-%d", i),
			Name:         fmt.Sprintf("Problem %c", 'A'+i%26),
			Rating:       g.between(800, 1500),
			Tags:         append([]string(nil), problemTags[:g.between(1, 3)]...),
			SolvedDate:   g.daysAgo(90),
			SubmissionID: fmt.Sprintf("sub-%d", i),
		})
	}
	return problems
}

func (g *Generator) Submissions(count int) []Submission {
	subs := make([]Submission, 0, count)
	for i := 0; i < count; i++ {
		subs = append(subs, Submission{
			ID:             fmt.Sprintf("submission-%d", i),
			ProblemID:      fmt.Sprintf("problem-%d", i%50),
			Date:           g.daysAgo(90),
			Verdict:        Verdicts[g.rnd.Intn(len(Verdicts))],
			TimeConsumed:   g.rnd.Intn(2000),
			MemoryConsumed: g.rnd.Intn(256000),
		})
	}
	return subs
}

// Heatmap returns submission counts for each of the last days, today included.
func (g *Generator) Heatmap(days int) Heatmap {
	now := g.now()
	heatmap := make(Heatmap, days)
	for i := 0; i < days; i++ {
		heatmap[now.AddDate(0, 0, -i).Format(DateKeyFormat)] = g.rnd.Intn(10)
	}
	return heatmap
}

// History generates a full activity history.
func (g *Generator) History() History {
	return History{
		Contests:    g.Contests(ContestsCount),
		Problems:    g.Problems(ProblemsCount),
		Submissions: g.Submissions(SubmissionsCount),
		Heatmap:     g.Heatmap(HeatmapDays),
	}
}
