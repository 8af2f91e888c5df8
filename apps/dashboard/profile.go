package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/trezcool/cptracker/core/analytics"
)

type profileTab int

const (
	tabContests profileTab = iota
	tabProblems
)

var sparkBlocks = []rune("▁▂▃▄▅▆▇█")

type profileModel struct {
	tab         profileTab
	contestDays int
	problemDays int
	profile     *analytics.Profile // nil while loading
}

func newProfileModel() profileModel {
	return profileModel{
		contestDays: analytics.DefaultContestWindow,
		problemDays: analytics.DefaultProblemWindow,
	}
}

// nextWindow returns the window following curr, wrapping around.
func nextWindow(windows []int, curr int) int {
	for i, w := range windows {
		if w == curr {
			return windows[(i+1)%len(windows)]
		}
	}
	return windows[0]
}

// cycleWindow moves the active tab to its next window.
func (p *profileModel) cycleWindow() {
	if p.tab == tabContests {
		p.contestDays = nextWindow(analytics.ContestWindows, p.contestDays)
	} else {
		p.problemDays = nextWindow(analytics.ProblemWindows, p.problemDays)
	}
}

func signed(n int) string {
	if n > 0 {
		return "+" + strconv.Itoa(n)
	}
	return strconv.Itoa(n)
}

func optInt(n *int) string {
	if n == nil {
		return "-"
	}
	return strconv.Itoa(*n)
}

// sparkline scales the ratings between their min and max.
func sparkline(points []analytics.RatingPoint) string {
	if len(points) == 0 {
		return ""
	}
	lo, hi := points[0].Rating, points[0].Rating
	for _, p := range points {
		if p.Rating < lo {
			lo = p.Rating
		}
		if p.Rating > hi {
			hi = p.Rating
		}
	}
	var b strings.Builder
	for _, p := range points {
		i := len(sparkBlocks) - 1
		if hi > lo {
			i = (p.Rating - lo) * (len(sparkBlocks) - 1) / (hi - lo)
		}
		b.WriteRune(sparkBlocks[i])
	}
	return b.String()
}

func windowTabs(st styles, windows []int, curr int) string {
	tabs := make([]string, 0, len(windows))
	for _, w := range windows {
		label := fmt.Sprintf("%dd", w)
		if w == curr {
			tabs = append(tabs, st.tabOn.Render(label))
		} else {
			tabs = append(tabs, st.tab.Render(label))
		}
	}
	return strings.Join(tabs, "")
}

func (p profileModel) view(st styles) string {
	if p.profile == nil {
		return st.muted.Render("Loading profile...")
	}
	s := p.profile.Student

	var b strings.Builder
	b.WriteString(st.title.Render(fmt.Sprintf("%s (%s)", s.Name, s.CodeforcesHandle)))
	b.WriteString("\n")
	b.WriteString(st.muted.Render(fmt.Sprintf("%s • %s • rating %d (max %d) • joined %s",
		s.Email, s.Phone, s.CurrentRating, s.MaxRating, s.JoinedDate.Local().Format("2006-01-02"))))
	b.WriteString("\n\n")

	contests, problems := st.tab.Render("Contests"), st.tab.Render("Problems")
	if p.tab == tabContests {
		contests = st.tabOn.Render("Contests")
	} else {
		problems = st.tabOn.Render("Problems")
	}
	b.WriteString(contests + problems + "\n\n")

	if p.tab == tabContests {
		b.WriteString(p.contestsView(st))
	} else {
		b.WriteString(p.problemsView(st))
	}
	return b.String()
}

func (p profileModel) contestsView(st styles) string {
	sum := p.profile.Contests

	var b strings.Builder
	b.WriteString(windowTabs(st, analytics.ContestWindows, p.contestDays) + "\n\n")
	if len(sum.Contests) == 0 {
		b.WriteString(st.muted.Render(fmt.Sprintf("No contest in the last %d days.", sum.Days)))
		return b.String()
	}

	change := st.ok.Render(signed(sum.TotalRatingChange))
	if sum.TotalRatingChange < 0 {
		change = st.err.Render(signed(sum.TotalRatingChange))
	}
	b.WriteString(st.label.Render("Contests") + strconv.Itoa(len(sum.Contests)) + "\n")
	b.WriteString(st.label.Render("Rating Change") + change + "\n")
	b.WriteString(st.label.Render("Average Rank") + optInt(sum.AverageRank) + "\n")
	b.WriteString(st.label.Render("Best Rank") + optInt(sum.BestRank) + "\n")
	b.WriteString(st.label.Render("Rating") + sparkline(sum.RatingSeries) + "\n\n")

	rows := []string{fmt.Sprintf("%-28s %-8s %6s %7s %7s %7s", "Contest", "Date", "Rank", "Change", "Rating", "Solved")}
	for _, c := range sum.Recent {
		rows = append(rows, fmt.Sprintf("%-28.28s %-8s %6d %7s %7d %3d/%-3d",
			c.Name, c.Date.Local().Format("Jan 02"), c.Rank, signed(c.RatingChange), c.NewRating, c.ProblemsSolved, c.TotalProblems))
	}
	b.WriteString(st.box.Render(strings.Join(rows, "\n")))
	return b.String()
}

func (p profileModel) problemsView(st styles) string {
	sum := p.profile.Problems

	var b strings.Builder
	b.WriteString(windowTabs(st, analytics.ProblemWindows, p.problemDays) + "\n\n")

	mostDifficult := "-"
	if sum.MostDifficult != nil {
		mostDifficult = fmt.Sprintf("%s (%d)", sum.MostDifficult.Name, sum.MostDifficult.Rating)
	}
	b.WriteString(st.label.Render("Solved") + strconv.Itoa(sum.TotalSolved) + "\n")
	b.WriteString(st.label.Render("Average Rating") + optInt(sum.AverageRating) + "\n")
	b.WriteString(st.label.Render("Per Day") + strconv.FormatFloat(sum.AveragePerDay, 'f', 1, 64) + "\n")
	b.WriteString(st.label.Render("Most Difficult") + mostDifficult + "\n\n")

	var maxCount int
	for _, bk := range sum.RatingBuckets {
		if bk.Count > maxCount {
			maxCount = bk.Count
		}
	}
	for _, bk := range sum.RatingBuckets {
		bar := strings.Repeat("█", bk.Count*30/maxCount)
		b.WriteString(st.label.Render(bk.Label) + bar + " " + strconv.Itoa(bk.Count) + "\n")
	}
	if len(sum.RatingBuckets) > 0 {
		b.WriteString("\n")
	}

	b.WriteString(heatmapView(st, sum.Heatmap))
	return b.String()
}

// heatmapView draws the grid with one line per weekday and one column per week.
func heatmapView(st styles, grid [][]analytics.HeatmapCell) string {
	if len(grid) == 0 {
		return ""
	}
	var b strings.Builder
	for day := 0; day < len(grid[0]); day++ {
		b.WriteString(st.muted.Render(grid[len(grid)-1][day].Weekday.String()[:3]) + " ")
		for _, week := range grid {
			cell := week[day]
			b.WriteString(st.heat[cell.Level].Render("■") + " ")
		}
		b.WriteString("\n")
	}
	b.WriteString(st.muted.Render("less "))
	for _, s := range st.heat {
		b.WriteString(s.Render("■"))
	}
	b.WriteString(st.muted.Render(" more"))
	return b.String()
}
