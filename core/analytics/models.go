package analytics

import "time"

// DateKeyFormat is the layout of Heatmap keys.
const DateKeyFormat = "2006-01-02"

type Verdict string

// Verdicts
const (
	VerdictOK                Verdict = "OK"
	VerdictWrongAnswer       Verdict = "WRONG_ANSWER"
	VerdictTimeLimitExceeded Verdict = "TIME_LIMIT_EXCEEDED"
	VerdictCompilationError  Verdict = "COMPILATION_ERROR"
	VerdictRuntimeError      Verdict = "RUNTIME_ERROR"
)

var Verdicts = []Verdict{
	VerdictOK,
	VerdictWrongAnswer,
	VerdictTimeLimitExceeded,
	VerdictCompilationError,
	VerdictRuntimeError,
}

// Contest is a rated contest a student took part in. Read-only once generated.
type Contest struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Date           time.Time `json:"date"`
	Rank           int       `json:"rank"`
	RatingChange   int       `json:"rating_change"`
	NewRating      int       `json:"new_rating"`
	ProblemsSolved int       `json:"problems_solved"`
	TotalProblems  int       `json:"total_problems"`
}

// Problem is a problem a student solved. Read-only once generated.
type Problem struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Rating       int       `json:"rating"`
	Tags         []string  `json:"tags"`
	SolvedDate   time.Time `json:"solved_date"`
	SubmissionID string    `json:"submission_id"`
}

type Submission struct {
	ID             string    `json:"id"`
	ProblemID      string    `json:"problem_id"`
	Date           time.Time `json:"date"`
	Verdict        Verdict   `json:"verdict"`
	TimeConsumed   int       `json:"time_consumed"`   // ms
	MemoryConsumed int       `json:"memory_consumed"` // KB
}

// Heatmap maps a day (DateKeyFormat) to the number of submissions made that day.
type Heatmap map[string]int

// History is the generated activity of one student.
type History struct {
	Contests    []Contest    `json:"contests"`
	Problems    []Problem    `json:"problems"`
	Submissions []Submission `json:"submissions"`
	Heatmap     Heatmap      `json:"heatmap"`
}

// LastSubmission returns the date of the most recent submission, or the zero time when there is none.
func (h History) LastSubmission() time.Time {
	var last time.Time
	for _, sub := range h.Submissions {
		if sub.Date.After(last) {
			last = sub.Date
		}
	}
	return last
}
